package enhance

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/gift"
	dimaging "github.com/disintegration/imaging"

	"github.com/ironsheep/image-enhancer/internal/imaging"
)

// nativeFilters is the pure Go registry. It is never modified.
var nativeFilters = map[Method]Filter{
	UnsharpMask:     unsharpMask,
	HighBoost:       highBoost,
	Laplacian:       laplacian,
	Sobel:           sobel,
	Prewitt:         prewitt,
	GaussianBlur:    gaussianBlur,
	MedianBlur:      medianBlur,
	Emboss:          emboss,
	Sepia:           sepia,
	Invert:          invert,
	BoxBlur:         boxBlur,
	BilateralFilter: bilateralFilter,
	Cartoon:         cartoon,
	PencilSketch:    pencilSketch,
	Canny:           canny,
	Threshold:       threshold,
	CLAHE:           clahe,
}

func unsharpMask(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	p := Unsharp(intensity)
	blurred := imaging.GaussianBlur(src, 0, p.Radius)
	limit := float64(p.Threshold)

	dst := image.NewNRGBA(src.Bounds())
	for i := 0; i+3 < len(src.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			o := float64(src.Pix[i+c])
			b := float64(blurred.Pix[i+c])
			if p.Threshold > 0 && math.Abs(o-b) < limit {
				dst.Pix[i+c] = src.Pix[i+c]
				continue
			}
			dst.Pix[i+c] = imaging.SaturateRound(o*(1+p.Amount) + b*(-p.Amount))
		}
		dst.Pix[i+3] = 0xff
	}
	return dst, nil
}

func highBoost(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	sharp := convolve3x3(src, HighBoostKernel(Boost(intensity)), imaging.SaturateRound)
	return addWeighted(src, 1, sharp, HighBoostBlend), nil
}

func laplacian(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	lap := convolve3x3(src, LaplacianKernel(), saturateAbs)
	return addWeighted(src, 1, lap, Scale(intensity)), nil
}

func sobel(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	scale := Scale(intensity)
	planes := imaging.SplitRGB(src)
	for i, p := range planes {
		gx := p.Correlate(imaging.SobelX, 3)
		gy := p.Correlate(imaging.SobelY, 3)
		for j := range gx.Pix {
			gx.Pix[j] = math.Sqrt(gx.Pix[j]*gx.Pix[j]+gy.Pix[j]*gy.Pix[j]) * scale
		}
		planes[i] = gx
	}
	return imaging.MergeRGB(planes, imaging.WrapTrunc), nil
}

func prewitt(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	s := Scale(intensity)
	px := convolve3x3(src, ScaleKernel(PrewittXKernel(), s), imaging.SaturateRound)
	py := convolve3x3(src, ScaleKernel(PrewittYKernel(), s), imaging.SaturateRound)
	return addWeighted(px, PrewittBlendWeight, py, PrewittBlendWeight), nil
}

func gaussianBlur(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	return imaging.GaussianBlur(src, BlurKernelSize(intensity), 0), nil
}

// medianBlur takes an independent median per channel with the edge
// replicated.
func medianBlur(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	g := gift.New(gift.Median(BlurKernelSize(intensity), false))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst, nil
}

func boxBlur(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	k := BlurKernelSize(intensity)
	box := make([]float64, k)
	for i := range box {
		box[i] = 1 / float64(k)
	}
	planes := imaging.SplitRGB(src)
	for i, p := range planes {
		planes[i] = p.SeparableCorrelate(box, box)
	}
	return imaging.MergeRGB(planes, imaging.SaturateRound), nil
}

func emboss(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	relief := convolve3x3(src, ScaleKernel(EmbossKernel(), Scale(intensity)), imaging.SaturateRound)
	return dimaging.AdjustFunc(relief, func(c color.NRGBA) color.NRGBA {
		c.R = imaging.SaturateRound(float64(c.R) + EmbossOffset)
		c.G = imaging.SaturateRound(float64(c.G) + EmbossOffset)
		c.B = imaging.SaturateRound(float64(c.B) + EmbossOffset)
		return c
	}), nil
}

func sepia(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	alpha := Alpha(intensity)
	m := SepiaMatrix()
	return dimaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		in := [3]float64{float64(c.R), float64(c.G), float64(c.B)}
		var out [3]uint8
		for row := 0; row < 3; row++ {
			tone := m[row][0]*in[0] + m[row][1]*in[1] + m[row][2]*in[2]
			tone = math.Min(math.Max(tone, 0), 255)
			out[row] = imaging.SaturateTrunc((1-alpha)*in[row] + alpha*tone)
		}
		return color.NRGBA{R: out[0], G: out[1], B: out[2], A: 0xff}
	}), nil
}

func invert(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	alpha := Alpha(intensity)
	negative := dimaging.Clone(effect.Invert(src))
	return addWeighted(src, 1-alpha, negative, alpha), nil
}

func bilateralFilter(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	p := Bilateral(intensity)
	return imaging.BilateralFilter(src, p.Diameter, p.SigmaColor, p.SigmaSpace), nil
}

func cartoon(src *image.NRGBA, _ float64) (*image.NRGBA, error) {
	gray := imaging.ToGray(src)
	median := gift.New(gift.Median(CartoonMedianSize, false))
	smoothed := image.NewGray(median.Bounds(gray.Bounds()))
	median.Draw(smoothed, gray)
	edges := imaging.AdaptiveThresholdMean(smoothed, CartoonBlockSize, CartoonC)
	dst := imaging.BilateralFilter(src, CartoonDiameter, CartoonSigma, CartoonSigma)

	w := src.Bounds().Dx()
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		p := i / 4
		if edges.Pix[(p/w)*edges.Stride+p%w] == 0 {
			dst.Pix[i+0], dst.Pix[i+1], dst.Pix[i+2] = 0, 0, 0
		}
	}
	return dst, nil
}

func pencilSketch(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	return imaging.PencilSketch(src, PencilSigmaS, PencilSigmaR, Shade(intensity)), nil
}

func canny(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	lower, upper := CannyThresholds(intensity)
	return imaging.GrayToNRGBA(imaging.Canny(src, float64(lower), float64(upper))), nil
}

func threshold(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	return imaging.GrayToNRGBA(imaging.Threshold(imaging.ToGray(src), intensity)), nil
}

func clahe(src *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	lab := imaging.ToLab(src)
	lab.L = imaging.CLAHE(lab.L, ClipLimit(intensity), image.Pt(CLAHEGridSize, CLAHEGridSize))
	return lab.NRGBA(), nil
}

// convolve3x3 correlates each colour channel of src with k, mirroring the
// border without repeating the edge sample, and converts with conv.
func convolve3x3(src *image.NRGBA, k [9]float64, conv func(float64) uint8) *image.NRGBA {
	planes := imaging.SplitRGB(src)
	for i, p := range planes {
		planes[i] = p.Correlate(k[:], 3)
	}
	return imaging.MergeRGB(planes, conv)
}

func saturateAbs(v float64) uint8 {
	return imaging.SaturateRound(math.Abs(v))
}

// addWeighted returns a*wa + b*wb per colour channel, rounded and clamped.
// a and b must have the same size.
func addWeighted(a *image.NRGBA, wa float64, b *image.NRGBA, wb float64) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, a.Bounds().Dx(), a.Bounds().Dy()))
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			dst.Pix[i+c] = imaging.SaturateRound(float64(a.Pix[i+c])*wa + float64(b.Pix[i+c])*wb)
		}
		dst.Pix[i+3] = 0xff
	}
	return dst
}
