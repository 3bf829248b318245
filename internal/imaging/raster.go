package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ToOpaqueNRGBA returns a copy of img as an opaque NRGBA image anchored at
// the origin. Translucent pixels are composited over white.
func ToOpaqueNRGBA(img image.Image) *image.NRGBA {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return imaging.Clone(img)
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// FitWithin scales img down with a Lanczos filter so that neither side
// exceeds maxSide, preserving the aspect ratio. Images that already fit, and
// any image when maxSide <= 0, are returned unchanged.
func FitWithin(img image.Image, maxSide int) image.Image {
	if maxSide <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}
