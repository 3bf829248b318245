//go:build !opencv

package opencv

import "github.com/ironsheep/image-enhancer/internal/enhance"

// Available reports whether the OpenCV backend was compiled in.
func Available() bool { return false }

// Version returns the linked OpenCV version, or "" when unavailable.
func Version() string { return "" }

// NewEnhancer always fails with ErrUnavailable in builds without the
// opencv tag.
func NewEnhancer() (*enhance.Enhancer, error) {
	return nil, ErrUnavailable
}
