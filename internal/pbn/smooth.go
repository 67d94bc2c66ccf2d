package pbn

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"
)

// DefaultSmoothRadius is the half-width of the mode-filter window.
const DefaultSmoothRadius = 4

// Smooth applies a mode (majority-vote) filter to a label map.
//
// Each output label is the most frequent label in the square window
// [x-radius, x+radius] × [y-radius, y+radius] around the pixel, clipped at
// the image borders. When several labels tie, the lowest label index wins.
// The filter votes on indices only, so it never produces a label outside
// the palette.
//
// The input is never modified; every output cell is computed from the
// input alone. Each row keeps a label histogram of its window and slides
// it one column at a time, giving O(W·H·(radius+K)) work instead of the
// O(W·H·radius²) of a per-pixel recount, with identical results. Rows are
// processed in parallel.
//
// Parameters:
//   - labels: The label map to filter. It must pass Validate.
//   - radius: Half-width of the window. 0 returns a copy of labels.
//
// Returns:
//   - *LabelMap: A new map with the same size and palette size as labels.
//   - error: Non-nil if either argument is invalid.
//
// # Errors
//
//   - ErrInvalidInput if labels is nil, empty or holds an out-of-range label
//   - ErrInvalidInput if radius is negative
func Smooth(labels *LabelMap, radius int) (*LabelMap, error) {
	if err := labels.Validate(); err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, fmt.Errorf("%w: smoothing radius %d", ErrInvalidInput, radius)
	}
	if radius == 0 {
		return labels.Clone(), nil
	}

	w, h := labels.W, labels.H
	out := NewLabelMap(w, h, labels.K)

	parallel.Line(h, func(start, end int) {
		hist := make([]int, labels.K)
		for y := start; y < end; y++ {
			y0 := max(0, y-radius)
			y1 := min(h-1, y+radius)

			column := func(x, delta int) {
				for yy := y0; yy <= y1; yy++ {
					hist[labels.Labels[yy*w+x]] += delta
				}
			}

			clear(hist)
			for x := 0; x <= min(w-1, radius); x++ {
				column(x, 1)
			}

			for x := 0; x < w; x++ {
				out.Labels[y*w+x] = mode(hist)
				if drop := x - radius; drop >= 0 {
					column(drop, -1)
				}
				if add := x + radius + 1; add < w {
					column(add, 1)
				}
			}
		}
	})

	return out, nil
}

// mode returns the index of the largest count, lowest index on ties.
func mode(hist []int) int {
	best := 0
	for i := 1; i < len(hist); i++ {
		if hist[i] > hist[best] {
			best = i
		}
	}
	return best
}
