package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// PNGDataURLPrefix is the header of every data URL produced by EncodeDataURL.
const PNGDataURLPrefix = "data:image/png;base64,"

// DecodeDataURL decodes an image carried in a data URL of the form
// "data:image/<type>;base64,<payload>".
//
// Only the part after the first comma is interpreted; the media type in the
// header is informational and the actual format is sniffed from the
// payload. Supported formats are PNG, JPEG, GIF, WebP, BMP and TIFF. EXIF
// orientation, when present, is applied.
//
// # Errors
//
//   - The string has no comma separating header and payload
//   - The payload is not valid base64 (padding may be omitted)
//   - The decoded bytes are not a supported image
func DecodeDataURL(dataURL string) (image.Image, error) {
	i := strings.IndexByte(dataURL, ',')
	if i < 0 {
		return nil, errors.New("malformed data URL: missing ',' before payload")
	}

	raw, err := decodeBase64(dataURL[i+1:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode base64 payload")
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}
	return img, nil
}

// EncodeDataURL encodes img as PNG and wraps it in a data URL.
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", errors.Wrap(err, "failed to encode PNG")
	}
	return PNGDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, payload)

	if len(payload)%4 != 0 {
		return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	return base64.StdEncoding.DecodeString(payload)
}
