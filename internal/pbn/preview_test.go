package pbn

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/pbn-tools-mcp/internal/imaging"
)

func TestDescribePalette(t *testing.T) {
	entries := DescribePalette(Palette{red, blue}, []int{1, 3})

	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	if entries[0].Index != 0 || entries[0].Hex != "#FF0000" || entries[0].Pixels != 1 {
		t.Errorf("entry 0: got %+v", entries[0])
	}
	if math.Abs(entries[0].Percentage-25) > 1e-9 {
		t.Errorf("entry 0 percentage: got %v, want 25", entries[0].Percentage)
	}
	if entries[1].Hex != "#0000FF" || math.Abs(entries[1].Percentage-75) > 1e-9 {
		t.Errorf("entry 1: got %+v", entries[1])
	}
	if entries[1].HSL.H != 240 {
		t.Errorf("entry 1 hue: got %d, want 240", entries[1].HSL.H)
	}
}

func TestCoverageOrder(t *testing.T) {
	got := CoverageOrder([]int{2, 5, 5, 1})
	want := []int{1, 2, 0, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("CoverageOrder: got %v, want %v", got, want)
		}
	}
}

func TestPreview_SwatchWidths(t *testing.T) {
	green := imaging.RGB{G: 255}
	strip, err := Preview(Palette{red, blue, green}, []int{1, 1, 2}, 300, 50)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if strip.W != 300 || strip.H != 50 {
		t.Fatalf("size: got %dx%d, want 300x50", strip.W, strip.H)
	}

	// green covers half, then red and blue a quarter each
	tests := []struct {
		x    int
		want imaging.RGB
	}{
		{0, green},
		{149, green},
		{150, red},
		{224, red},
		{225, blue},
		{299, blue},
	}
	for _, tt := range tests {
		for _, y := range []int{0, 49} {
			if got := strip.At(tt.x, y); got != tt.want {
				t.Errorf("pixel (%d,%d): got %v, want %v", tt.x, y, got, tt.want)
			}
		}
	}
}

func TestPreview_LastSwatchFillsStrip(t *testing.T) {
	// 1/3 of 10 pixels leaves fractional edges; the last column must still be painted.
	green := imaging.RGB{G: 255}
	strip, err := Preview(Palette{red, blue, green}, []int{3, 3, 3}, 10, 1)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if got := strip.At(9, 0); got != green {
		t.Errorf("last column: got %v, want %v", got, green)
	}
	if got := strip.At(0, 0); got != red {
		t.Errorf("first column: got %v, want %v", got, red)
	}
}

func TestPreview_SkipsUnusedColors(t *testing.T) {
	strip, err := Preview(Palette{red, blue}, []int{0, 4}, 20, 2)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	for x := range 20 {
		if got := strip.At(x, 1); got != blue {
			t.Fatalf("pixel %d: got %v, want %v", x, got, blue)
		}
	}
}

func TestPreview_InvalidInput(t *testing.T) {
	tests := []struct {
		name          string
		counts        []int
		width, height int
	}{
		{"zero width", []int{1, 1}, 0, 50},
		{"negative height", []int{1, 1}, 300, -1},
		{"count mismatch", []int{1}, 300, 50},
		{"no pixels", []int{0, 0}, 300, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Preview(Palette{red, blue}, tt.counts, tt.width, tt.height)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}
