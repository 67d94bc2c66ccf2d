package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// RGB is an 8-bit-per-channel color without alpha.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// NRGBA returns the color as an opaque color.NRGBA.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// RGBImage is a height×width grid of RGB pixels stored row-major with
// interleaved channels. The pipeline treats an RGBImage as immutable once a
// stage has returned it; every stage allocates its own output.
type RGBImage struct {
	W, H int
	Pix  []uint8 // len = W*H*3
}

// NewRGBImage allocates a black image of the given size.
func NewRGBImage(width, height int) *RGBImage {
	return &RGBImage{
		W:   width,
		H:   height,
		Pix: make([]uint8, width*height*3),
	}
}

// FromImage converts any image.Image to an RGBImage.
//
// The source is first normalised to non-premultiplied NRGBA so that
// translucent pixels keep their color channels; alpha is then dropped.
// The result always starts at (0,0) regardless of the source bounds.
func FromImage(img image.Image) *RGBImage {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	out := NewRGBImage(b.Dx(), b.Dy())
	for y := range out.H {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := range out.W {
			si := x * 4
			di := out.offset(x, y)
			out.Pix[di] = row[si]
			out.Pix[di+1] = row[si+1]
			out.Pix[di+2] = row[si+2]
		}
	}
	return out
}

func (m *RGBImage) offset(x, y int) int {
	return (y*m.W + x) * 3
}

// Bounds returns the image rectangle, always anchored at the origin.
func (m *RGBImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.W, m.H)
}

// At returns the pixel at (x, y). Coordinates must be in range.
func (m *RGBImage) At(x, y int) RGB {
	i := m.offset(x, y)
	return RGB{R: m.Pix[i], G: m.Pix[i+1], B: m.Pix[i+2]}
}

// Set writes the pixel at (x, y). Only stages building a fresh output
// buffer call Set.
func (m *RGBImage) Set(x, y int, c RGB) {
	i := m.offset(x, y)
	m.Pix[i] = c.R
	m.Pix[i+1] = c.G
	m.Pix[i+2] = c.B
}

// Clone returns a deep copy.
func (m *RGBImage) Clone() *RGBImage {
	out := &RGBImage{W: m.W, H: m.H, Pix: make([]uint8, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// Equal reports whether both images have the same size and pixels.
func (m *RGBImage) Equal(other *RGBImage) bool {
	if m.W != other.W || m.H != other.H {
		return false
	}
	for i := range m.Pix {
		if m.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// NRGBA converts the grid to an opaque *image.NRGBA for encoding or for
// handing to image libraries.
func (m *RGBImage) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(m.Bounds())
	for y := range m.H {
		row := out.Pix[y*out.Stride:]
		for x := range m.W {
			si := m.offset(x, y)
			di := x * 4
			row[di] = m.Pix[si]
			row[di+1] = m.Pix[si+1]
			row[di+2] = m.Pix[si+2]
			row[di+3] = 255
		}
	}
	return out
}
