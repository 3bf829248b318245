package imaging

import (
	"image"
	"math"
)

// 3x3 Sobel derivative kernels in row-major order.
var (
	SobelX = []float64{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}
	SobelY = []float64{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	}
)

// Canny performs Canny edge detection on an image.
//
// The result is a single-channel image where detected edges are 255 and
// everything else is 0.
//
// Parameters:
//   - img: Source image (colour or grayscale).
//   - low: Gradients at or below this are never edges.
//   - high: Gradients above this are always edges.
//
// # Algorithm
//
//  1. Gradient computation: 3x3 Sobel operators for X and Y on each colour
//     channel, edge samples replicated. Each pixel takes the gradient of
//     the channel with the largest L1 magnitude |Gx| + |Gy| (blue first on
//     ties). Colour edges between areas of equal luminance are kept.
//
//  2. Non-maximum suppression: the gradient direction is quantized to
//     horizontal, vertical or one of the diagonals, and a pixel survives
//     only if its magnitude exceeds low and it is a local maximum along
//     that direction. Magnitudes outside the image count as zero, so
//     border pixels can be edges.
//
//  3. Hysteresis: pixels above high seed the edge map; surviving pixels
//     are added when 8-connected to an edge, transitively.
//
// No smoothing is applied before the gradient step; callers wanting it
// should blur first.
func Canny(img image.Image, low, high float64) *image.Gray {
	src := ToOpaqueNRGBA(img)
	width := src.Bounds().Dx()
	height := src.Bounds().Dy()

	result := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return result
	}
	if low > high {
		low, high = high, low
	}

	gradX, gradY, magnitude := strongestGradient(SplitRGB(src))
	magAt := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return magnitude.Pix[y*width+x]
	}

	// Non-maximum suppression
	const (
		tan22 = 0.41421356237309504880
		tan67 = 2.41421356237309504880
	)
	candidate := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			mag := magnitude.Pix[i]
			if mag <= low {
				continue
			}
			dx, dy := gradX.Pix[i], gradY.Pix[i]
			ax, ay := math.Abs(dx), math.Abs(dy)

			var keep bool
			switch {
			case ay < ax*tan22:
				keep = mag > magAt(x-1, y) && mag >= magAt(x+1, y)
			case ay > ax*tan67:
				keep = mag > magAt(x, y-1) && mag >= magAt(x, y+1)
			default:
				s := 1
				if (dx < 0) != (dy < 0) {
					s = -1
				}
				keep = mag > magAt(x-s, y-1) && mag > magAt(x+s, y+1)
			}
			candidate[i] = keep
		}
	}

	// Hysteresis: grow from strong pixels through weak ones.
	stack := make([]int, 0, width)
	for i, ok := range candidate {
		if ok && magnitude.Pix[i] > high {
			result.Pix[(i/width)*result.Stride+i%width] = 255
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for ky := -1; ky <= 1; ky++ {
			for kx := -1; kx <= 1; kx++ {
				px, py := x+kx, y+ky
				if px < 0 || py < 0 || px >= width || py >= height {
					continue
				}
				j := py*width + px
				o := py*result.Stride + px
				if result.Pix[o] == 0 && candidate[j] {
					result.Pix[o] = 255
					stack = append(stack, j)
				}
			}
		}
	}

	return result
}

// strongestGradient returns, per pixel, the Sobel gradient of the channel
// whose L1 magnitude is largest, and that magnitude. Channels are visited
// blue, green, red; a later channel wins only when strictly larger.
func strongestGradient(planes [3]*Plane) (gx, gy, mag *Plane) {
	w, h := planes[0].W, planes[0].H
	gx, gy, mag = NewPlane(w, h), NewPlane(w, h), NewPlane(w, h)
	for c := 2; c >= 0; c-- {
		cx := correlateReplicate(planes[c], SobelX)
		cy := correlateReplicate(planes[c], SobelY)
		for i := range mag.Pix {
			m := math.Abs(cx.Pix[i]) + math.Abs(cy.Pix[i])
			if c == 2 || m > mag.Pix[i] {
				gx.Pix[i], gy.Pix[i], mag.Pix[i] = cx.Pix[i], cy.Pix[i], m
			}
		}
	}
	return gx, gy, mag
}

// correlateReplicate applies a 3x3 kernel with out-of-range samples taken
// from the nearest edge sample (aaa|abcdefgh|hhh).
func correlateReplicate(p *Plane, kernel []float64) *Plane {
	dst := NewPlane(p.W, p.H)
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			var sum float64
			for ky := -1; ky <= 1; ky++ {
				sy := clampInt(y+ky, 0, p.H-1)
				for kx := -1; kx <= 1; kx++ {
					k := kernel[(ky+1)*3+kx+1]
					if k == 0 {
						continue
					}
					sum += p.Pix[sy*p.W+clampInt(x+kx, 0, p.W-1)] * k
				}
			}
			dst.Pix[y*p.W+x] = sum
		}
	}
	return dst
}
