package pbn

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/pbn-tools-mcp/internal/imaging"
)

// Boundary map pixel values. Boundary pixels are dark so the map can be
// printed directly as a coloring outline.
const (
	BoundaryValue   uint8 = 0
	BackgroundValue uint8 = 255
)

// BoundaryMap marks the pixels that sit on a color transition.
type BoundaryMap struct {
	gray *image.Gray
}

// ExtractBoundaries marks every pixel whose color differs from its right
// neighbour or from its bottom neighbour.
//
// Colors are compared for exact equality on all three channels; a
// difference in any channel is a transition. Pixels in the last column
// have no right neighbour and pixels in the last row have no bottom
// neighbour; a missing neighbour counts as the same color, so the
// bottom-right pixel is always background. The result is a one-pixel-wide
// line on the left/top side of each transition.
//
// Boundary pixels hold BoundaryValue (0) and all others BackgroundValue
// (255). The function is pure: extracting twice from the same image yields
// identical maps.
//
// Parameters:
//   - img: The flat image, normally the palette colors painted back onto
//     the smoothed labels.
//
// Returns:
//   - *BoundaryMap: A map with the same dimensions as img.
//   - error: Non-nil if img is unusable.
//
// # Errors
//
//   - ErrInvalidInput if img is nil, has a zero dimension, or its pixel
//     buffer does not match its size
func ExtractBoundaries(img *imaging.RGBImage) (*BoundaryMap, error) {
	if err := validateImage(img); err != nil {
		return nil, err
	}

	w, h := img.W, img.H
	gray := image.NewGray(img.Bounds())

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				o := (y*w + x) * 3
				edge := false
				if x+1 < w && !samePixel(img.Pix, o, o+3) {
					edge = true
				}
				if !edge && y+1 < h && !samePixel(img.Pix, o, o+w*3) {
					edge = true
				}
				v := BackgroundValue
				if edge {
					v = BoundaryValue
				}
				gray.Pix[y*gray.Stride+x] = v
			}
		}
	})

	return &BoundaryMap{gray: gray}, nil
}

func samePixel(pix []uint8, a, b int) bool {
	return pix[a] == pix[b] && pix[a+1] == pix[b+1] && pix[a+2] == pix[b+2]
}

// Width returns the map width in pixels.
func (b *BoundaryMap) Width() int { return b.gray.Rect.Dx() }

// Height returns the map height in pixels.
func (b *BoundaryMap) Height() int { return b.gray.Rect.Dy() }

// IsBoundary reports whether (x, y) is marked.
func (b *BoundaryMap) IsBoundary(x, y int) bool {
	return b.gray.Pix[y*b.gray.Stride+x] == BoundaryValue
}

// Count returns the number of boundary pixels.
func (b *BoundaryMap) Count() int {
	n := 0
	for _, v := range b.gray.Pix {
		if v == BoundaryValue {
			n++
		}
	}
	return n
}

// Equal reports whether both maps have the same shape and marks.
func (b *BoundaryMap) Equal(other *BoundaryMap) bool {
	if b.gray.Rect != other.gray.Rect {
		return false
	}
	for i := range b.gray.Pix {
		if b.gray.Pix[i] != other.gray.Pix[i] {
			return false
		}
	}
	return true
}

// Gray returns a copy of the map as a single-channel image.
func (b *BoundaryMap) Gray() *image.Gray {
	out := image.NewGray(b.gray.Rect)
	copy(out.Pix, b.gray.Pix)
	return out
}

// Outline returns a copy of flat with every boundary pixel painted black.
// All other pixels are copied unchanged.
func Outline(flat *imaging.RGBImage, boundary *BoundaryMap) (*imaging.RGBImage, error) {
	if err := validateImage(flat); err != nil {
		return nil, err
	}
	if boundary == nil || boundary.Width() != flat.W || boundary.Height() != flat.H {
		return nil, fmt.Errorf("%w: boundary map does not match %dx%d image", ErrInvalidInput, flat.W, flat.H)
	}

	out := flat.Clone()
	black := imaging.RGB{}
	for y := range flat.H {
		for x := range flat.W {
			if boundary.IsBoundary(x, y) {
				out.Set(x, y, black)
			}
		}
	}
	return out, nil
}
