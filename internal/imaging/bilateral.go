package imaging

import (
	"image"
	"math"
)

// BilateralFilter smooths img while preserving edges.
//
// Each output pixel is a weighted mean of the neighbours inside a disc of
// diameter d. A neighbour's weight is the product of a spatial Gaussian
// (sigmaSpace) on its distance and a range Gaussian (sigmaColor) on the sum
// of absolute channel differences to the centre pixel. A non-positive d is
// derived from sigmaSpace. Borders are mirrored.
func BilateralFilter(img *image.NRGBA, d int, sigmaColor, sigmaSpace float64) *image.NRGBA {
	if sigmaColor <= 0 {
		sigmaColor = 1
	}
	if sigmaSpace <= 0 {
		sigmaSpace = 1
	}

	var radius int
	if d <= 0 {
		radius = int(math.RoundToEven(sigmaSpace * 1.5))
	} else {
		radius = d / 2
	}
	if radius < 1 {
		radius = 1
	}

	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)

	// Sums of three absolute channel differences range over 0..765.
	colorWeight := make([]float64, 3*256)
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
			r := math.Sqrt(float64(dx*dx + dy*dy))
			if r > float64(radius) {
				continue
			}
			taps = append(taps, tap{dx: dx, dy: dy, w: math.Exp(r * r * spaceCoeff)})
		}
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	src := img.Pix
	stride := img.Stride
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := y*stride + x*4
			r0, g0, b0 := int(src[c]), int(src[c+1]), int(src[c+2])

			var sr, sg, sb, wsum float64
			for _, t := range taps {
				o := reflect101(y+t.dy, h)*stride + reflect101(x+t.dx, w)*4
				r, g, bl := int(src[o]), int(src[o+1]), int(src[o+2])
				diff := absInt(r-r0) + absInt(g-g0) + absInt(bl-b0)
				wt := t.w * colorWeight[diff]
				sr += float64(r) * wt
				sg += float64(g) * wt
				sb += float64(bl) * wt
				wsum += wt
			}

			o := y*dst.Stride + x*4
			dst.Pix[o+0] = SaturateRound(sr / wsum)
			dst.Pix[o+1] = SaturateRound(sg / wsum)
			dst.Pix[o+2] = SaturateRound(sb / wsum)
			dst.Pix[o+3] = 0xff
		}
	}
	return dst
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
