package imaging

import (
	"image"
	"math"
)

// Plane is a single-channel float64 raster used for intermediate results
// that must not be saturated to 8 bits between steps.
//
// Pix is laid out row-major: the sample at (x, y) is Pix[y*W+x].
type Plane struct {
	W, H int
	Pix  []float64
}

// NewPlane allocates a zeroed plane of the given size.
func NewPlane(w, h int) *Plane {
	return &Plane{W: w, H: h, Pix: make([]float64, w*h)}
}

// At returns the sample at (x, y). Out-of-range coordinates are mirrored
// without repeating the edge sample (gfedcb|abcdefgh|gfedcba).
func (p *Plane) At(x, y int) float64 {
	return p.Pix[reflect101(y, p.H)*p.W+reflect101(x, p.W)]
}

// Set stores v at (x, y). Coordinates must be in range.
func (p *Plane) Set(x, y int, v float64) {
	p.Pix[y*p.W+x] = v
}

// SplitRGB splits an opaque NRGBA image into its red, green and blue planes.
func SplitRGB(img *image.NRGBA) [3]*Plane {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	planes := [3]*Plane{NewPlane(w, h), NewPlane(w, h), NewPlane(w, h)}
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			i := y*w + x
			planes[0].Pix[i] = float64(row[x*4+0])
			planes[1].Pix[i] = float64(row[x*4+1])
			planes[2].Pix[i] = float64(row[x*4+2])
		}
	}
	return planes
}

// MergeRGB packs three planes into an opaque NRGBA image, converting each
// sample with conv.
func MergeRGB(planes [3]*Plane, conv func(float64) uint8) *image.NRGBA {
	w, h := planes[0].W, planes[0].H
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := 0; x < w; x++ {
			i := y*w + x
			row[x*4+0] = conv(planes[0].Pix[i])
			row[x*4+1] = conv(planes[1].Pix[i])
			row[x*4+2] = conv(planes[2].Pix[i])
			row[x*4+3] = 0xff
		}
	}
	return dst
}

// Correlate applies a square kernel to p without flipping it, the way
// OpenCV's filter2D does. size must be odd and len(kernel) == size*size.
func (p *Plane) Correlate(kernel []float64, size int) *Plane {
	r := size / 2
	dst := NewPlane(p.W, p.H)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sum float64
			for ky := -r; ky <= r; ky++ {
				for kx := -r; kx <= r; kx++ {
					k := kernel[(ky+r)*size+kx+r]
					if k == 0 {
						continue
					}
					sum += p.At(x+kx, y+ky) * k
				}
			}
			dst.Pix[y*p.W+x] = sum
		}
	}
	return dst
}

// SeparableCorrelate applies kx along rows and then ky along columns.
// Both kernels must have odd length.
func (p *Plane) SeparableCorrelate(kx, ky []float64) *Plane {
	tmp := NewPlane(p.W, p.H)
	rx := len(kx) / 2
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sum float64
			for i, k := range kx {
				sum += p.At(x+i-rx, y) * k
			}
			tmp.Pix[y*p.W+x] = sum
		}
	}

	dst := NewPlane(p.W, p.H)
	ry := len(ky) / 2
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sum float64
			for i, k := range ky {
				sum += tmp.At(x, y+i-ry) * k
			}
			dst.Pix[y*p.W+x] = sum
		}
	}
	return dst
}

// SaturateRound rounds half to even and clamps to [0, 255].
func SaturateRound(v float64) uint8 {
	v = math.RoundToEven(v)
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// SaturateTrunc clamps to [0, 255] and drops the fractional part.
func SaturateTrunc(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// WrapTrunc drops the fractional part and keeps the low 8 bits, so 256
// becomes 0 and 300 becomes 44. Negative and non-finite values map to 0.
func WrapTrunc(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return uint8(uint64(v))
}

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

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
