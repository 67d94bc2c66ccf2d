// Package pbn turns a photograph into a paint-by-numbers rendering.
//
// The conversion is a strict linear pipeline:
//
//	image → downscale → denoise → Quantize → Smooth → Colorize
//	      → ExtractBoundaries → Outline (+ Preview)
//
// Quantize reduces the image to K colors with k-means and labels every
// pixel. Smooth removes speckle with a windowed majority vote over labels.
// Colorize paints the smoothed labels with the palette, ExtractBoundaries
// marks color transitions and Outline draws them in black. Preview renders
// the palette as a coverage-ordered swatch strip.
//
// # Data Model
//
//   - imaging.RGBImage: the pixel grid every stage reads and writes
//   - Palette: the K quantized colors, index = label
//   - LabelMap: per-pixel palette index, always in [0, K-1]
//   - BoundaryMap: BoundaryValue (0) on transitions, BackgroundValue (255)
//     elsewhere
//
// Every stage allocates its output and never modifies its input, so the
// per-row loops inside a stage run in parallel without locks. Separate
// conversions share nothing and may run concurrently.
//
// # Errors
//
// Failures wrap ErrInvalidInput, ErrInvalidClusterCount or
// ErrClusteringFailure; use errors.Is to classify them. A failed run
// returns no partial result.
package pbn
