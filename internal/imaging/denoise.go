package imaging

import (
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/parallel"
)

// BilateralFilter smooths img while preserving strong edges.
//
// Each output pixel is the weighted mean of the pixels inside a circular
// window of radius diameter/2. The weight of a neighbour is the product of
// a spatial term and a color term:
//
//	w = exp(-(dx²+dy²) / (2·sigmaSpace²)) · exp(-d² / (2·sigmaColor²))
//
// where d is the L1 distance |ΔR|+|ΔG|+|ΔB| between the neighbour and the
// center pixel. Neighbours across a strong color discontinuity get a tiny
// color weight, so regions blend internally without bleeding into each
// other. Samples outside the image are mirrored without repeating the
// border pixel (reflect-101), matching the usual OpenCV behaviour.
//
// A diameter below 2 leaves the image unchanged (a copy is returned).
// Rows are processed in parallel; every output pixel reads only from img.
func BilateralFilter(img *RGBImage, diameter int, sigmaColor, sigmaSpace float64) *RGBImage {
	radius := diameter / 2
	if radius < 1 || img.W == 0 || img.H == 0 {
		return img.Clone()
	}
	if sigmaColor <= 0 {
		sigmaColor = 1
	}
	if sigmaSpace <= 0 {
		sigmaSpace = 1
	}

	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)

	colorWeight := make([]float64, 3*255+1)
	for i := range colorWeight {
		colorWeight[i] = math.Exp(float64(i*i) * colorCoeff)
	}

	type tap struct {
		dx, dy int
		w      float64
	}
	var taps []tap
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r2 := float64(dx*dx + dy*dy)
			if math.Sqrt(r2) > float64(radius) {
				continue
			}
			taps = append(taps, tap{dx: dx, dy: dy, w: math.Exp(r2 * spaceCoeff)})
		}
	}

	out := NewRGBImage(img.W, img.H)
	parallel.Line(img.H, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < img.W; x++ {
				o := img.offset(x, y)
				r0, g0, b0 := int(img.Pix[o]), int(img.Pix[o+1]), int(img.Pix[o+2])

				var sumR, sumG, sumB, sumW float64
				for _, t := range taps {
					n := img.offset(reflect101(x+t.dx, img.W), reflect101(y+t.dy, img.H))
					r, g, b := int(img.Pix[n]), int(img.Pix[n+1]), int(img.Pix[n+2])
					w := t.w * colorWeight[absInt(r-r0)+absInt(g-g0)+absInt(b-b0)]
					sumR += w * float64(r)
					sumG += w * float64(g)
					sumB += w * float64(b)
					sumW += w
				}

				out.Pix[o] = RoundChannel(sumR / sumW)
				out.Pix[o+1] = RoundChannel(sumG / sumW)
				out.Pix[o+2] = RoundChannel(sumB / sumW)
			}
		}
	})
	return out
}

// GaussianBlur applies a plain gaussian blur with the given radius. It is
// cheaper than BilateralFilter but softens region edges as well.
func GaussianBlur(img *RGBImage, radius float64) *RGBImage {
	if radius <= 0 || img.W == 0 || img.H == 0 {
		return img.Clone()
	}
	return FromImage(blur.Gaussian(img.NRGBA(), radius))
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring
// around the edge pixels without repeating them: -1 -> 1, n -> n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// RoundChannel rounds half up and clamps to the 0-255 channel range.
func RoundChannel(v float64) uint8 {
	v = math.Floor(v + 0.5)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
