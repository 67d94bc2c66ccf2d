// Package imaging provides the image plumbing used by the paint-by-numbers
// pipeline: a compact RGB pixel grid, decoding and encoding (files, readers,
// base64 PNG), a path-keyed image cache, working-size downscaling, and the
// denoise filters applied before color quantization.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. RGBImage values are
// always anchored at the origin, whatever the bounds of the source image.
//
// # Color Representation
//
// The pipeline is RGB-only. Alpha is dropped when an image is converted to
// an RGBImage; the non-premultiplied channel values are kept. Colors are
// reported to clients as:
//   - Hex: 6-character format "#RRGGBB"
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. RGBImage is not synchronised;
// functions in this package never modify their input and always return a
// new image (FitWithin returns its input unchanged when no resize is
// needed), so a finished RGBImage can be shared freely between goroutines.
//
// # Performance Considerations
//
// BilateralFilter costs O(W·H·d²) and runs rows in parallel. For megapixel
// inputs the working-size bound applied by FitWithin keeps this bounded.
package imaging
