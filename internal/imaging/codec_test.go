package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
)

func encodeTestPNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeDataURL_PNG(t *testing.T) {
	img := createPatternImage(10, 6)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodeTestPNG(t, img))

	decoded, err := DecodeDataURL(dataURL)
	if err != nil {
		t.Fatalf("DecodeDataURL failed: %v", err)
	}

	if decoded.Bounds().Dx() != 10 || decoded.Bounds().Dy() != 6 {
		t.Errorf("dimensions: got %v, want 10x6", decoded.Bounds())
	}
	r, g, b, _ := decoded.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("top-left: got (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
}

func TestDecodeDataURL_FormatDetection(t *testing.T) {
	img := createInMemoryImage(8, 8, color.NRGBA{200, 100, 50, 255})

	encoders := map[string]func(*bytes.Buffer) error{
		"jpeg": func(w *bytes.Buffer) error { return jpeg.Encode(w, img, nil) },
		"gif":  func(w *bytes.Buffer) error { return gif.Encode(w, img, nil) },
		"bmp":  func(w *bytes.Buffer) error { return bmp.Encode(w, img) },
	}

	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := encode(&buf); err != nil {
				t.Fatalf("failed to encode %s: %v", name, err)
			}
			// The header's media type is ignored; the payload is sniffed.
			dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

			decoded, err := DecodeDataURL(dataURL)
			if err != nil {
				t.Fatalf("DecodeDataURL failed: %v", err)
			}
			if decoded.Bounds().Dx() != 8 || decoded.Bounds().Dy() != 8 {
				t.Errorf("dimensions: got %v, want 8x8", decoded.Bounds())
			}
		})
	}
}

func TestDecodeDataURL_LenientBase64(t *testing.T) {
	raw := encodeTestPNG(t, createPatternImage(4, 4))

	unpadded := base64.RawStdEncoding.EncodeToString(raw)
	wrapped := base64.StdEncoding.EncodeToString(raw)
	var lines []string
	for len(wrapped) > 16 {
		lines = append(lines, wrapped[:16])
		wrapped = wrapped[16:]
	}
	lines = append(lines, wrapped)

	for name, payload := range map[string]string{
		"unpadded": unpadded,
		"wrapped":  strings.Join(lines, "\r\n"),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeDataURL("data:image/png;base64," + payload); err != nil {
				t.Errorf("DecodeDataURL failed: %v", err)
			}
		})
	}
}

func TestDecodeDataURL_Errors(t *testing.T) {
	notAnImage := base64.StdEncoding.EncodeToString([]byte("definitely not an image"))

	tests := []struct {
		name    string
		dataURL string
		wantErr string
	}{
		{"empty", "", "missing ','"},
		{"no comma", "data:image/png;base64", "missing ','"},
		{"bad base64", "data:image/png;base64,@@@@", "base64"},
		{"not an image", "data:image/png;base64," + notAnImage, "decode image"},
		{"empty payload", "data:image/png;base64,", "decode image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDataURL(tt.dataURL)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeDataURL(t *testing.T) {
	img := createPatternImage(6, 6)

	dataURL, err := EncodeDataURL(img)
	if err != nil {
		t.Fatalf("EncodeDataURL failed: %v", err)
	}
	if !strings.HasPrefix(dataURL, PNGDataURLPrefix) {
		t.Fatalf("data URL should start with %q", PNGDataURLPrefix)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, PNGDataURLPrefix))
	if err != nil {
		t.Fatalf("payload is not standard base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("payload is not PNG: %v", err)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			r1, g1, b1, a1 := img.At(x, y).RGBA()
			r2, g2, b2, a2 := decoded.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Fatalf("pixel (%d,%d) changed in round trip", x, y)
			}
		}
	}
}
