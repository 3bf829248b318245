package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.NRGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.NRGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.NRGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.NRGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestToGray_KnownColors(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		want uint8
	}{
		{"black", color.NRGBA{0, 0, 0, 255}, 0},
		{"white", color.NRGBA{255, 255, 255, 255}, 255},
		{"red", color.NRGBA{255, 0, 0, 255}, 76},
		{"green", color.NRGBA{0, 255, 0, 255}, 150},
		{"blue", color.NRGBA{0, 0, 255, 255}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := ToGray(createInMemoryImage(3, 2, tt.c))
			if gray.Bounds().Dx() != 3 || gray.Bounds().Dy() != 2 {
				t.Fatalf("dimensions: got %v, want 3x2", gray.Bounds())
			}
			if got := gray.GrayAt(1, 1).Y; abs(int(got)-int(tt.want)) > 1 {
				t.Errorf("gray: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToGray_OffsetBounds(t *testing.T) {
	img := createPatternImage(20, 20).SubImage(image.Rect(10, 10, 20, 20))

	gray := ToGray(img)

	if gray.Bounds().Min != (image.Point{}) {
		t.Errorf("bounds should start at origin, got %v", gray.Bounds())
	}
	if got := gray.GrayAt(0, 0).Y; got != 255 {
		t.Errorf("white quadrant: got %d, want 255", got)
	}
}

func TestGrayToNRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix[0] = 17
	gray.Pix[1] = 200

	img := GrayToNRGBA(gray)

	want := []uint8{17, 17, 17, 255, 200, 200, 200, 255}
	for i, v := range want {
		if img.Pix[i] != v {
			t.Errorf("Pix[%d]: got %d, want %d", i, img.Pix[i], v)
		}
	}
}

func TestLab_RoundTrip(t *testing.T) {
	img := createPatternImage(8, 8)
	img.Set(0, 0, color.NRGBA{40, 90, 160, 255})
	img.Set(7, 7, color.NRGBA{128, 128, 128, 255})

	back := ToLab(img).NRGBA()

	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			if d := abs(int(img.Pix[i+c]) - int(back.Pix[i+c])); d > 3 {
				t.Fatalf("pixel %d channel %d: got %d, want %d (+-3)", i/4, c, back.Pix[i+c], img.Pix[i+c])
			}
		}
		if back.Pix[i+3] != 255 {
			t.Fatalf("pixel %d alpha: got %d, want 255", i/4, back.Pix[i+3])
		}
	}
}

func TestToLab_LightnessScale(t *testing.T) {
	lab := ToLab(createPatternImage(4, 4))

	// Top-left is red (L* ~53), bottom-right is white (L* 100).
	if got := lab.L.GrayAt(3, 3).Y; got != 255 {
		t.Errorf("white lightness: got %d, want 255", got)
	}
	if got := lab.L.GrayAt(0, 0).Y; got < 130 || got > 140 {
		t.Errorf("red lightness: got %d, want ~136", got)
	}
	if lab.A[0] <= 0 {
		t.Errorf("red should have positive a*, got %.3f", lab.A[0])
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
