package pbn

import (
	"fmt"
	"sort"

	"github.com/ironsheep/pbn-tools-mcp/internal/imaging"
)

// Default palette preview size in pixels.
const (
	DefaultPreviewWidth  = 300
	DefaultPreviewHeight = 50
)

// PaletteEntry describes one palette color and how much of the image it
// covers.
type PaletteEntry struct {
	Index int `json:"index"`
	imaging.ColorInfo
	Pixels     int     `json:"pixels"`
	Percentage float64 `json:"percentage"` // share of pixels, 0-100
}

// DescribePalette returns one entry per palette color in palette order.
// counts[i] is the number of pixels labeled i.
func DescribePalette(palette Palette, counts []int) []PaletteEntry {
	total := 0
	for _, n := range counts {
		total += n
	}

	entries := make([]PaletteEntry, len(palette))
	for i, c := range palette {
		n := 0
		if i < len(counts) {
			n = counts[i]
		}
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		entries[i] = PaletteEntry{
			Index:      i,
			ColorInfo:  imaging.DescribeColor(c),
			Pixels:     n,
			Percentage: pct,
		}
	}
	return entries
}

// CoverageOrder returns palette indices sorted by descending pixel count.
// Equal counts keep ascending index order.
func CoverageOrder(counts []int) []int {
	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	return order
}

// Preview renders the palette as a horizontal strip of swatches, widest
// (most used) first. Each swatch is as wide as its share of the pixels;
// swatch edges accumulate in floating point and are truncated, and the
// last swatch is stretched to the right edge so no column is left unpainted.
// Colors with no pixels get no swatch.
//
// Parameters:
//   - palette: The palette colors.
//   - counts: Pixels per palette index; len(counts) must equal len(palette).
//   - width, height: Size of the strip in pixels, typically
//     DefaultPreviewWidth × DefaultPreviewHeight.
//
// Returns:
//   - *imaging.RGBImage: The width×height strip.
//   - error: Non-nil if the arguments cannot describe a strip.
//
// # Errors
//
//   - ErrInvalidInput if width or height is not positive
//   - ErrInvalidInput if counts and palette differ in length
//   - ErrInvalidInput if counts sum to zero
func Preview(palette Palette, counts []int, width, height int) (*imaging.RGBImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: preview size %dx%d", ErrInvalidInput, width, height)
	}
	if len(counts) != len(palette) {
		return nil, fmt.Errorf("%w: %d counts for %d palette colors", ErrInvalidInput, len(counts), len(palette))
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: palette covers no pixels", ErrInvalidInput)
	}

	out := imaging.NewRGBImage(width, height)
	order := CoverageOrder(counts)

	last := -1
	for _, idx := range order {
		if counts[idx] > 0 {
			last = idx
		}
	}

	start := 0.0
	for _, idx := range order {
		if counts[idx] == 0 {
			continue
		}
		end := start + float64(counts[idx])/float64(total)*float64(width)
		x0, x1 := int(start), int(end)
		if idx == last {
			x1 = width
		}
		c := palette[idx]
		for y := range height {
			for x := x0; x < min(x1, width); x++ {
				out.Set(x, y, c)
			}
		}
		start = end
	}
	return out, nil
}
