package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// Threshold maps every sample strictly above floor(level) to 255 and every
// other sample to 0.
func Threshold(src *image.Gray, level float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	cut := math.Floor(level)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if float64(src.Pix[y*src.Stride+x]) > cut {
				dst.Pix[y*dst.Stride+x] = 0xff
			}
		}
	}
	return dst
}

// AdaptiveThresholdMean binarizes src against the mean of each pixel's
// blockSize x blockSize neighbourhood (edges replicated): a pixel becomes
// 255 when it is greater than mean - c, and 0 otherwise.
func AdaptiveThresholdMean(src *image.Gray, blockSize int, c float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	mean := blur.Box(src, float64(blockSize/2))

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(src.Pix[y*src.Stride+x])
			m := float64(mean.Pix[y*mean.Stride+x*4])
			if v-m > -c {
				dst.Pix[y*dst.Stride+x] = 0xff
			}
		}
	}
	return dst
}
