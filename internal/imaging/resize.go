package imaging

import (
	"github.com/disintegration/imaging"
)

// WorkingSize returns the dimensions an image of width×height is processed
// at when its longer side is capped at maxDimension.
//
// The longer side becomes exactly maxDimension and the shorter side is
// scaled by the same factor, rounded down (floor), with a minimum of 1
// pixel. Images already within the bound, and maxDimension <= 0, keep their
// size.
//
// Parameters:
//   - width, height: Source dimensions in pixels.
//   - maxDimension: Upper bound for the longer side; <= 0 disables it.
//
// Returns:
//   - int, int: The working width and height.
//
// Example: 2000×500 with a bound of 1024 becomes 1024×256.
func WorkingSize(width, height, maxDimension int) (int, int) {
	if maxDimension <= 0 || (width <= maxDimension && height <= maxDimension) {
		return width, height
	}
	if width >= height {
		return maxDimension, max(1, height*maxDimension/width)
	}
	return max(1, width*maxDimension/height), maxDimension
}

// FitWithin downscales img so its longer side is at most maxDimension,
// preserving aspect ratio. Resampling uses a bilinear (triangle) filter.
// If no downscale is needed, img itself is returned.
func FitWithin(img *RGBImage, maxDimension int) *RGBImage {
	w, h := WorkingSize(img.W, img.H, maxDimension)
	if w == img.W && h == img.H {
		return img
	}
	resized := imaging.Resize(img.NRGBA(), w, h, imaging.Linear)
	return FromImage(resized)
}
