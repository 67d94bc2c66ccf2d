package pbn

import (
	"errors"
	"testing"
)

func TestPalette_Colorize(t *testing.T) {
	m := NewLabelMap(3, 2, 2)
	m.Labels = []int{0, 1, 0, 1, 1, 0}

	img, err := Palette{red, blue}.Colorize(m)
	if err != nil {
		t.Fatalf("Colorize failed: %v", err)
	}
	for y := range 2 {
		for x := range 3 {
			want := red
			if m.At(x, y) == 1 {
				want = blue
			}
			if got := img.At(x, y); got != want {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestPalette_Colorize_SizeMismatch(t *testing.T) {
	m := NewLabelMap(2, 2, 3)
	if _, err := (Palette{red, blue}).Colorize(m); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestLabelMap_Counts(t *testing.T) {
	m := NewLabelMap(2, 2, 3)
	m.Labels = []int{2, 0, 2, 2}

	got := m.Counts()
	want := []int{1, 0, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Counts: got %v, want %v", got, want)
		}
	}
}

func TestLabelMap_Validate(t *testing.T) {
	tests := []struct {
		name    string
		m       *LabelMap
		wantErr bool
	}{
		{"valid", NewLabelMap(2, 2, 1), false},
		{"nil", nil, true},
		{"zero width", &LabelMap{W: 0, H: 2, K: 1}, true},
		{"zero palette", &LabelMap{W: 1, H: 1, K: 0, Labels: []int{0}}, true},
		{"short labels", &LabelMap{W: 2, H: 2, K: 1, Labels: []int{0}}, true},
		{"negative label", &LabelMap{W: 1, H: 1, K: 2, Labels: []int{-1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
