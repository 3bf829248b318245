package imaging

import (
	"image"
	"math"
)

// GaussianKernelSize returns the kernel length OpenCV derives for an 8-bit
// image when only sigma is given: round(sigma*6 + 1), forced odd.
func GaussianKernelSize(sigma float64) int {
	return int(math.RoundToEven(sigma*3*2+1)) | 1
}

// smallGaussians are the fixed kernels OpenCV uses for odd sizes up to 7
// when sigma is not given.
var smallGaussians = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// GaussianKernel returns a normalized 1-D Gaussian of length size.
//
// A non-positive sigma selects the fixed binomial kernel for sizes 1, 3, 5
// and 7, and is otherwise derived from the size as
// 0.3*((size-1)*0.5-1) + 0.8.
func GaussianKernel(size int, sigma float64) []float64 {
	if sigma <= 0 {
		if fixed, ok := smallGaussians[size]; ok {
			return append([]float64(nil), fixed...)
		}
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}
	kernel := make([]float64, size)
	scale := -0.5 / (sigma * sigma)
	var sum float64
	for i := range kernel {
		x := float64(i) - float64(size-1)*0.5
		kernel[i] = math.Exp(scale * x * x)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// GaussianBlur blurs each colour channel of img with a separable Gaussian of
// the given size and sigma, mirroring borders and rounding back to 8 bits.
//
// A size <= 0 is derived from sigma with GaussianKernelSize. If sigma <= 0
// as well, a copy of img is returned.
func GaussianBlur(img *image.NRGBA, size int, sigma float64) *image.NRGBA {
	if size <= 0 {
		if sigma <= 0 {
			return MergeRGB(SplitRGB(img), SaturateRound)
		}
		size = GaussianKernelSize(sigma)
	}
	kernel := GaussianKernel(size, sigma)

	planes := SplitRGB(img)
	for i, p := range planes {
		planes[i] = p.SeparableCorrelate(kernel, kernel)
	}
	return MergeRGB(planes, SaturateRound)
}
