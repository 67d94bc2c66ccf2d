package pbn

import (
	"fmt"

	"github.com/ironsheep/pbn-tools-mcp/internal/imaging"
)

// Palette is the ordered set of K representative colors. Index i is the
// color painted wherever a LabelMap holds label i.
type Palette []imaging.RGB

// LabelMap assigns every pixel of a W×H image an index into a palette of
// K colors. Labels are stored row-major.
type LabelMap struct {
	W, H   int
	K      int
	Labels []int
}

// NewLabelMap allocates a W×H map of zeros for a palette of k colors.
func NewLabelMap(width, height, k int) *LabelMap {
	return &LabelMap{
		W:      width,
		H:      height,
		K:      k,
		Labels: make([]int, width*height),
	}
}

// At returns the label at (x, y).
func (m *LabelMap) At(x, y int) int {
	return m.Labels[y*m.W+x]
}

// Clone returns a deep copy.
func (m *LabelMap) Clone() *LabelMap {
	out := &LabelMap{W: m.W, H: m.H, K: m.K, Labels: make([]int, len(m.Labels))}
	copy(out.Labels, m.Labels)
	return out
}

// Equal reports whether both maps have the same shape and labels.
func (m *LabelMap) Equal(other *LabelMap) bool {
	if m.W != other.W || m.H != other.H || m.K != other.K {
		return false
	}
	for i := range m.Labels {
		if m.Labels[i] != other.Labels[i] {
			return false
		}
	}
	return true
}

// Counts returns the number of pixels carrying each label.
func (m *LabelMap) Counts() []int {
	counts := make([]int, m.K)
	for _, l := range m.Labels {
		counts[l]++
	}
	return counts
}

// Validate checks the shape and that every label lies in [0, K-1].
func (m *LabelMap) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil label map", ErrInvalidInput)
	}
	if m.W <= 0 || m.H <= 0 {
		return fmt.Errorf("%w: label map is %dx%d", ErrInvalidInput, m.W, m.H)
	}
	if m.K <= 0 {
		return fmt.Errorf("%w: label map palette size %d", ErrInvalidInput, m.K)
	}
	if len(m.Labels) != m.W*m.H {
		return fmt.Errorf("%w: label map holds %d labels, want %d", ErrInvalidInput, len(m.Labels), m.W*m.H)
	}
	for i, l := range m.Labels {
		if l < 0 || l >= m.K {
			return fmt.Errorf("%w: label %d at (%d,%d) outside [0,%d]", ErrInvalidInput, l, i%m.W, i/m.W, m.K-1)
		}
	}
	return nil
}

// Colorize reconstructs the flat-color image by painting every pixel with
// the palette color of its label. It is a pure lookup with no blending.
func (p Palette) Colorize(labels *LabelMap) (*imaging.RGBImage, error) {
	if err := labels.Validate(); err != nil {
		return nil, err
	}
	if len(p) != labels.K {
		return nil, fmt.Errorf("%w: palette has %d colors, label map expects %d", ErrInvalidInput, len(p), labels.K)
	}

	out := imaging.NewRGBImage(labels.W, labels.H)
	for i, l := range labels.Labels {
		c := p[l]
		out.Pix[i*3] = c.R
		out.Pix[i*3+1] = c.G
		out.Pix[i*3+2] = c.B
	}
	return out, nil
}

// validateImage rejects nil, empty and malformed pixel grids.
func validateImage(img *imaging.RGBImage) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	if img.W <= 0 || img.H <= 0 {
		return fmt.Errorf("%w: image is %dx%d", ErrInvalidInput, img.W, img.H)
	}
	if len(img.Pix) != img.W*img.H*3 {
		return fmt.Errorf("%w: image buffer holds %d bytes, want %d", ErrInvalidInput, len(img.Pix), img.W*img.H*3)
	}
	return nil
}
