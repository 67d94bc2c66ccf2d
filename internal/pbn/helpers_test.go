package pbn

import (
	"image"
	"image/color"

	"github.com/ironsheep/pbn-tools-mcp/internal/imaging"
)

var (
	red   = imaging.RGB{R: 255}
	blue  = imaging.RGB{B: 255}
	muted = imaging.RGB{R: 10, G: 20, B: 30}
)

// filled returns a w×h image painted with c.
func filled(w, h int, c imaging.RGB) *imaging.RGBImage {
	img := imaging.NewRGBImage(w, h)
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

// splitVertical paints columns [0, at) with left and the rest with right.
func splitVertical(w, h, at int, left, right imaging.RGB) *imaging.RGBImage {
	img := filled(w, h, right)
	for y := range h {
		for x := range at {
			img.Set(x, y, left)
		}
	}
	return img
}

// gradient returns an image with many distinct colors.
func gradient(w, h int) *imaging.RGBImage {
	img := imaging.NewRGBImage(w, h)
	for y := range h {
		for x := range w {
			img.Set(x, y, imaging.RGB{
				R: uint8(x * 255 / max(1, w-1)),
				G: uint8(y * 255 / max(1, h-1)),
				B: uint8((x + y) * 4),
			})
		}
	}
	return img
}

// nrgba converts to a standard library image for the image.Image entry points.
func nrgba(img *imaging.RGBImage) image.Image {
	return img.NRGBA()
}

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}
