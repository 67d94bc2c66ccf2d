package pbn

import (
	"errors"
	"testing"

	"github.com/ironsheep/pbn-tools-mcp/internal/imaging"
)

func TestExtractBoundaries_Uniform(t *testing.T) {
	b, err := ExtractBoundaries(filled(6, 5, muted))
	if err != nil {
		t.Fatalf("ExtractBoundaries failed: %v", err)
	}
	if b.Width() != 6 || b.Height() != 5 {
		t.Errorf("size: got %dx%d, want 6x5", b.Width(), b.Height())
	}
	if b.Count() != 0 {
		t.Errorf("Count: got %d, want 0", b.Count())
	}
}

func TestExtractBoundaries_VerticalSplit(t *testing.T) {
	// Columns 0-4 red, 5-7 blue: only column 4 sees a different right neighbour.
	b, err := ExtractBoundaries(splitVertical(8, 4, 5, red, blue))
	if err != nil {
		t.Fatalf("ExtractBoundaries failed: %v", err)
	}

	for y := range 4 {
		for x := range 8 {
			want := x == 4
			if got := b.IsBoundary(x, y); got != want {
				t.Errorf("IsBoundary(%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
	if b.Count() != 4 {
		t.Errorf("Count: got %d, want 4", b.Count())
	}
}

func TestExtractBoundaries_HorizontalSplit(t *testing.T) {
	img := filled(4, 4, blue)
	for y := range 2 {
		for x := range 4 {
			img.Set(x, y, red)
		}
	}

	b, err := ExtractBoundaries(img)
	if err != nil {
		t.Fatalf("ExtractBoundaries failed: %v", err)
	}
	for y := range 4 {
		for x := range 4 {
			want := y == 1
			if got := b.IsBoundary(x, y); got != want {
				t.Errorf("IsBoundary(%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestExtractBoundaries_SingleChannelDifference(t *testing.T) {
	img := filled(2, 1, imaging.RGB{R: 10, G: 20, B: 30})
	img.Set(1, 0, imaging.RGB{R: 10, G: 20, B: 31})

	b, err := ExtractBoundaries(img)
	if err != nil {
		t.Fatalf("ExtractBoundaries failed: %v", err)
	}
	if !b.IsBoundary(0, 0) {
		t.Error("a difference in one channel should be a boundary")
	}
	if b.IsBoundary(1, 0) {
		t.Error("last column has no right neighbour and should be background")
	}
}

func TestExtractBoundaries_LastRowAndColumn(t *testing.T) {
	// Checkerboard: every pixel differs from both neighbours.
	img := imaging.NewRGBImage(3, 3)
	for y := range 3 {
		for x := range 3 {
			if (x+y)%2 == 0 {
				img.Set(x, y, red)
			}
		}
	}

	b, err := ExtractBoundaries(img)
	if err != nil {
		t.Fatalf("ExtractBoundaries failed: %v", err)
	}
	for y := range 3 {
		for x := range 3 {
			want := !(x == 2 && y == 2)
			if got := b.IsBoundary(x, y); got != want {
				t.Errorf("IsBoundary(%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestExtractBoundaries_Polarity(t *testing.T) {
	b, err := ExtractBoundaries(splitVertical(3, 1, 1, red, blue))
	if err != nil {
		t.Fatalf("ExtractBoundaries failed: %v", err)
	}

	gray := b.Gray()
	if got := gray.GrayAt(0, 0).Y; got != BoundaryValue {
		t.Errorf("boundary pixel: got %d, want %d", got, BoundaryValue)
	}
	if got := gray.GrayAt(1, 0).Y; got != BackgroundValue {
		t.Errorf("background pixel: got %d, want %d", got, BackgroundValue)
	}

	// Gray returns a copy.
	gray.Pix[1] = BoundaryValue
	if b.IsBoundary(1, 0) {
		t.Error("modifying Gray() output changed the map")
	}
}

func TestExtractBoundaries_Repeatable(t *testing.T) {
	img := gradient(15, 9)

	a, err := ExtractBoundaries(img)
	if err != nil {
		t.Fatalf("ExtractBoundaries failed: %v", err)
	}
	b, err := ExtractBoundaries(img)
	if err != nil {
		t.Fatalf("ExtractBoundaries failed: %v", err)
	}
	if !a.Equal(b) {
		t.Error("two extractions of the same image differ")
	}
}

func TestExtractBoundaries_InvalidInput(t *testing.T) {
	if _, err := ExtractBoundaries(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil image: got %v, want ErrInvalidInput", err)
	}
	if _, err := ExtractBoundaries(&imaging.RGBImage{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty image: got %v, want ErrInvalidInput", err)
	}
}

func TestOutline(t *testing.T) {
	flat := splitVertical(6, 3, 3, red, blue)
	b, err := ExtractBoundaries(flat)
	if err != nil {
		t.Fatalf("ExtractBoundaries failed: %v", err)
	}

	out, err := Outline(flat, b)
	if err != nil {
		t.Fatalf("Outline failed: %v", err)
	}
	for y := range 3 {
		for x := range 6 {
			want := flat.At(x, y)
			if x == 2 {
				want = imaging.RGB{}
			}
			if got := out.At(x, y); got != want {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
	if flat.At(2, 0) != red {
		t.Error("Outline modified the flat image")
	}
}

func TestOutline_SizeMismatch(t *testing.T) {
	b, err := ExtractBoundaries(filled(4, 4, red))
	if err != nil {
		t.Fatalf("ExtractBoundaries failed: %v", err)
	}
	if _, err := Outline(filled(4, 5, red), b); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
	if _, err := Outline(filled(4, 4, red), nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil map: got %v, want ErrInvalidInput", err)
	}
}
