package imaging

import (
	"testing"
)

func TestRGB_Hex(t *testing.T) {
	tests := []struct {
		c    RGB
		want string
	}{
		{RGB{0, 0, 0}, "#000000"},
		{RGB{255, 255, 255}, "#FFFFFF"},
		{RGB{255, 0, 0}, "#FF0000"},
		{RGB{10, 20, 171}, "#0A14AB"},
	}

	for _, tt := range tests {
		if got := tt.c.Hex(); got != tt.want {
			t.Errorf("%v.Hex() = %s, want %s", tt.c, got, tt.want)
		}
	}
}

func TestDescribeColor(t *testing.T) {
	tests := []struct {
		name string
		c    RGB
		h    int
		s    int
		l    int
	}{
		{"red", RGB{255, 0, 0}, 0, 100, 50},
		{"green", RGB{0, 255, 0}, 120, 100, 50},
		{"blue", RGB{0, 0, 255}, 240, 100, 50},
		{"white", RGB{255, 255, 255}, 0, 0, 100},
		{"black", RGB{0, 0, 0}, 0, 0, 0},
		{"gray", RGB{128, 128, 128}, 0, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := DescribeColor(tt.c)
			if info.RGB != tt.c {
				t.Errorf("RGB: got %v, want %v", info.RGB, tt.c)
			}
			if info.Hex != tt.c.Hex() {
				t.Errorf("Hex: got %s, want %s", info.Hex, tt.c.Hex())
			}
			// Allow some tolerance for HSL truncation
			if abs(info.HSL.H-tt.h) > 1 {
				t.Errorf("H: got %d, want %d", info.HSL.H, tt.h)
			}
			if abs(info.HSL.S-tt.s) > 1 {
				t.Errorf("S: got %d, want %d", info.HSL.S, tt.s)
			}
			if abs(info.HSL.L-tt.l) > 1 {
				t.Errorf("L: got %d, want %d", info.HSL.L, tt.l)
			}
		})
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
