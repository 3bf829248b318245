package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// PencilSketch renders img as a coloured pencil drawing.
//
// Strokes come from a colour-dodge of the luminance with its blurred
// negative (blur sigma = sigmaS/10). Stroke darkness below sigmaR (0-1
// fraction of full scale) is dropped so flat areas stay paper white. shade
// adds back a fraction of the original tonal darkness. The sketch replaces
// the luminance while the original chroma is kept.
func PencilSketch(img *image.NRGBA, sigmaS, sigmaR, shade float64) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	luma := image.NewGray(image.Rect(0, 0, w, h))
	cb := make([]uint8, w*h)
	cr := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*img.Stride + x*4
			yy, u, v := color.RGBToYCbCr(img.Pix[o], img.Pix[o+1], img.Pix[o+2])
			luma.Pix[y*luma.Stride+x] = yy
			cb[y*w+x] = u
			cr[y*w+x] = v
		}
	}

	blurred := imaging.Blur(imaging.Invert(luma), sigmaS/10)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := float64(luma.Pix[y*luma.Stride+x])
			inv := float64(blurred.Pix[y*blurred.Stride+x*4])

			dodge := l * 255 / (256 - inv)
			if dodge > 255 {
				dodge = 255
			}
			if (255-dodge)/255 < sigmaR {
				dodge = 255
			}
			s := SaturateRound(dodge - shade*(255-l))

			r, g, bl := color.YCbCrToRGB(s, cb[y*w+x], cr[y*w+x])
			o := y*dst.Stride + x*4
			dst.Pix[o+0] = r
			dst.Pix[o+1] = g
			dst.Pix[o+2] = bl
			dst.Pix[o+3] = 0xff
		}
	}
	return dst
}
