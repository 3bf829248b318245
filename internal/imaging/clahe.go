package imaging

import (
	"image"
	"math"
)

// CLAHE applies contrast limited adaptive histogram equalization to a
// grayscale image.
//
// The image is divided into grid.X by grid.Y tiles. When the size is not a
// multiple of the grid the image is extended by mirroring so every tile has
// the same size. Each tile's histogram is clipped at
// clipLimit*tileArea/256 (at least 1), the excess is spread evenly across
// all bins, and the resulting equalization tables are bilinearly
// interpolated between tile centres. A clipLimit <= 0 disables clipping.
func CLAHE(src *image.Gray, clipLimit float64, grid image.Point) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}
	tilesX, tilesY := grid.X, grid.Y
	if tilesX < 1 {
		tilesX = 1
	}
	if tilesY < 1 {
		tilesY = 1
	}

	extW, extH := w, h
	if w%tilesX != 0 {
		extW += tilesX - w%tilesX
	}
	if h%tilesY != 0 {
		extH += tilesY - h%tilesY
	}
	tileW, tileH := extW/tilesX, extH/tilesY
	tileArea := tileW * tileH

	sample := func(x, y int) uint8 {
		return src.Pix[reflect101(y, h)*src.Stride+reflect101(x, w)]
	}

	clip := 0
	if clipLimit > 0 {
		clip = int(clipLimit * float64(tileArea) / 256)
		if clip < 1 {
			clip = 1
		}
	}
	lutScale := 255.0 / float64(tileArea)

	luts := make([][256]uint8, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			var hist [256]int
			for y := ty * tileH; y < (ty+1)*tileH; y++ {
				for x := tx * tileW; x < (tx+1)*tileW; x++ {
					hist[sample(x, y)]++
				}
			}

			if clip > 0 {
				clipHistogram(&hist, clip)
			}

			lut := &luts[ty*tilesX+tx]
			sum := 0
			for i := range hist {
				sum += hist[i]
				lut[i] = SaturateRound(float64(sum) * lutScale)
			}
		}
	}

	invTileW := 1.0 / float64(tileW)
	invTileH := 1.0 / float64(tileH)
	for y := 0; y < h; y++ {
		tyf := float64(y)*invTileH - 0.5
		ty1 := int(math.Floor(tyf))
		ty2 := ty1 + 1
		ya := tyf - float64(ty1)
		ty1 = clampInt(ty1, 0, tilesY-1)
		ty2 = clampInt(ty2, 0, tilesY-1)

		for x := 0; x < w; x++ {
			txf := float64(x)*invTileW - 0.5
			tx1 := int(math.Floor(txf))
			tx2 := tx1 + 1
			xa := txf - float64(tx1)
			tx1 = clampInt(tx1, 0, tilesX-1)
			tx2 = clampInt(tx2, 0, tilesX-1)

			v := src.Pix[y*src.Stride+x]
			top := float64(luts[ty1*tilesX+tx1][v])*(1-xa) + float64(luts[ty1*tilesX+tx2][v])*xa
			bottom := float64(luts[ty2*tilesX+tx1][v])*(1-xa) + float64(luts[ty2*tilesX+tx2][v])*xa
			dst.Pix[y*dst.Stride+x] = SaturateRound(top*(1-ya) + bottom*ya)
		}
	}
	return dst
}

func clipHistogram(hist *[256]int, clip int) {
	excess := 0
	for i := range hist {
		if hist[i] > clip {
			excess += hist[i] - clip
			hist[i] = clip
		}
	}

	batch := excess / 256
	residual := excess - batch*256
	for i := range hist {
		hist[i] += batch
	}
	if residual == 0 {
		return
	}
	step := 256 / residual
	if step < 1 {
		step = 1
	}
	for i := 0; i < 256 && residual > 0; i += step {
		hist[i]++
		residual--
	}
}
