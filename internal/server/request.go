package server

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EnhanceRequest is the body of POST /enhance.
type EnhanceRequest struct {
	// Image is a data URL: "data:image/<type>;base64,<payload>".
	Image string `json:"image"`

	// Method names the filter. Empty selects enhance.DefaultMethod.
	Method string `json:"method,omitempty"`

	// Intensity is the filter strength. Absent or null selects
	// enhance.DefaultIntensity.
	Intensity Intensity `json:"intensity"`
}

// EnhanceResponse is the body of every POST /enhance reply.
type EnhanceResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Image is the PNG data URL of the result, on success.
	Image string `json:"image,omitempty"`

	// Message describes the failure, on error.
	Message string `json:"message,omitempty"`
}

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Intensity accepts a JSON number or a string holding one, matching
// clients that send form values unconverted.
type Intensity struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Intensity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var v float64
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "invalid intensity")
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.Errorf("intensity %q is not a number", s)
		}
		v = f
	} else if err := json.Unmarshal(b, &v); err != nil {
		return errors.Errorf("intensity must be a number, got %s", b)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.Errorf("intensity must be finite, got %v", v)
	}
	i.Value, i.Set = v, true
	return nil
}

// MarshalJSON implements json.Marshaler. An unset intensity encodes as null.
func (i Intensity) MarshalJSON() ([]byte, error) {
	if !i.Set {
		return []byte("null"), nil
	}
	return json.Marshal(i.Value)
}
