package enhance

import "math"

// Parameter derivations shared by every backend. Each maps the caller's
// intensity onto a filter's native parameters; none of them clamp.

// UnsharpParams are the derived unsharp-mask parameters.
type UnsharpParams struct {
	Radius    float64 // Gaussian sigma, 1-3
	Amount    float64 // sharpening weight, 0.5-2.5
	Threshold int     // minimum difference to sharpen, 0-10
}

// Unsharp derives unsharp-mask parameters.
func Unsharp(intensity float64) UnsharpParams {
	return UnsharpParams{
		Radius:    1 + intensity/50,
		Amount:    0.5 + intensity/50,
		Threshold: int(intensity / 10),
	}
}

// Scale is the kernel or blend scale used by laplacian, sobel, prewitt and
// emboss.
func Scale(intensity float64) float64 {
	return intensity / 50
}

// Alpha is the blend weight of the filtered image used by sepia and invert.
func Alpha(intensity float64) float64 {
	return intensity / 100
}

// Boost is the high-boost factor.
func Boost(intensity float64) float64 {
	return 1 + intensity/50
}

// HighBoostKernel returns the 3x3 high-boost kernel for boost.
func HighBoostKernel(boost float64) [9]float64 {
	n := -1 / (boost + 1)
	return [9]float64{
		n, n, n,
		n, (8 + boost) / (boost + 1), n,
		n, n, n,
	}
}

// BlurKernelSize is the kernel size of gaussian_blur, median_blur and
// box_blur: 1 + 2*floor(intensity/10), never below 3 and always odd.
func BlurKernelSize(intensity float64) int {
	k := 1 + 2*int(math.Floor(intensity/10))
	if k < 3 {
		k = 3
	}
	return k
}

// BilateralParams are the derived bilateral filter parameters.
type BilateralParams struct {
	Diameter   int
	SigmaColor float64
	SigmaSpace float64
}

// Bilateral derives bilateral filter parameters.
func Bilateral(intensity float64) BilateralParams {
	sigma := 75 + intensity
	return BilateralParams{
		Diameter:   5 + int(math.Floor(intensity/10)),
		SigmaColor: sigma,
		SigmaSpace: sigma,
	}
}

// CannyThresholds derives the hysteresis thresholds.
func CannyThresholds(intensity float64) (lower, upper int) {
	lower = int(50 - intensity/2)
	if lower < 0 {
		lower = 0
	}
	upper = int(150 + intensity)
	if upper > 255 {
		upper = 255
	}
	return lower, upper
}

// Shade is the pencil sketch shade factor.
func Shade(intensity float64) float64 {
	return 0.05 + intensity/1000
}

// ClipLimit is the CLAHE clip limit.
func ClipLimit(intensity float64) float64 {
	return 2 + intensity/50
}

// Fixed parameters shared by the backends.
const (
	CartoonMedianSize  = 7
	CartoonBlockSize   = 9
	CartoonC           = 9
	CartoonDiameter    = 9
	CartoonSigma       = 250
	PencilSigmaS       = 60
	PencilSigmaR       = 0.07
	CLAHEGridSize      = 8
	EmbossOffset       = 128
	PrewittBlendWeight = 0.5
	HighBoostBlend     = 0.5
)

// LaplacianKernel is the 4-neighbour Laplacian.
func LaplacianKernel() [9]float64 {
	return [9]float64{
		0, 1, 0,
		1, -4, 1,
		0, 1, 0,
	}
}

// PrewittXKernel responds to horizontal edges.
func PrewittXKernel() [9]float64 {
	return [9]float64{
		1, 1, 1,
		0, 0, 0,
		-1, -1, -1,
	}
}

// PrewittYKernel responds to vertical edges.
func PrewittYKernel() [9]float64 {
	return [9]float64{
		-1, 0, 1,
		-1, 0, 1,
		-1, 0, 1,
	}
}

// EmbossKernel is the unscaled emboss kernel.
func EmbossKernel() [9]float64 {
	return [9]float64{
		-2, -1, 0,
		-1, 1, 1,
		0, 1, 2,
	}
}

// SepiaMatrix maps (R, G, B) to the sepia tone, one output channel per row.
func SepiaMatrix() [3][3]float64 {
	return [3][3]float64{
		{0.393, 0.769, 0.189},
		{0.349, 0.686, 0.168},
		{0.272, 0.534, 0.131},
	}
}

// ScaleKernel returns k multiplied by s.
func ScaleKernel(k [9]float64, s float64) [9]float64 {
	for i := range k {
		k[i] *= s
	}
	return k
}
