package imaging

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// LabImage holds an image in CIE L*a*b* space with the lightness channel
// quantized to 8 bits (0 = L* 0, 255 = L* 100) and the chroma channels kept
// at full precision.
type LabImage struct {
	L    *image.Gray
	A, B []float64
}

// ToLab converts an opaque sRGB image to Lab (D65 white point).
func ToLab(img *image.NRGBA) *LabImage {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	lab := &LabImage{
		L: image.NewGray(image.Rect(0, 0, w, h)),
		A: make([]float64, w*h),
		B: make([]float64, w*h),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := y*img.Stride + x*4
			c := colorful.Color{
				R: float64(img.Pix[o]) / 255,
				G: float64(img.Pix[o+1]) / 255,
				B: float64(img.Pix[o+2]) / 255,
			}
			l, a, bb := c.Lab()
			lab.L.Pix[y*lab.L.Stride+x] = SaturateRound(l * 255)
			lab.A[y*w+x] = a
			lab.B[y*w+x] = bb
		}
	}
	return lab
}

// NRGBA converts the Lab image back to opaque sRGB, clamping colours that
// fall outside the gamut.
func (lab *LabImage) NRGBA() *image.NRGBA {
	b := lab.L.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := float64(lab.L.Pix[y*lab.L.Stride+x]) / 255
			c := colorful.Lab(l, lab.A[y*w+x], lab.B[y*w+x]).Clamped()
			r, g, bb := c.RGB255()
			o := y*dst.Stride + x*4
			dst.Pix[o+0] = r
			dst.Pix[o+1] = g
			dst.Pix[o+2] = bb
			dst.Pix[o+3] = 0xff
		}
	}
	return dst
}

// ToGray returns the luminance of img using ITU-R BT.601 weights.
func ToGray(img image.Image) *image.Gray {
	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray.Pix[y*gray.Stride+x] = nrgba.Pix[y*nrgba.Stride+x*4]
		}
	}
	return gray
}

// GrayToNRGBA replicates a single channel into an opaque 3-channel image.
func GrayToNRGBA(gray *image.Gray) *image.NRGBA {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := gray.Pix[y*gray.Stride+x]
			o := y*dst.Stride + x*4
			dst.Pix[o+0] = v
			dst.Pix[o+1] = v
			dst.Pix[o+2] = v
			dst.Pix[o+3] = 0xff
		}
	}
	return dst
}
