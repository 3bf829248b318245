//go:build opencv

package opencv

import (
	"github.com/blang/semver"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ironsheep/image-enhancer/internal/enhance"
)

// minVersion is the oldest OpenCV release whose operators behave the way
// the filters expect (pencilSketch, BGR<->Lab scaling).
var minVersion = semver.MustParse("4.0.0")

// Available reports whether the OpenCV backend was compiled in.
func Available() bool { return true }

// Version returns the linked OpenCV version.
func Version() string { return gocv.OpenCVVersion() }

// NewEnhancer returns an Enhancer whose filters run in OpenCV.
//
// # Errors
//
//   - The linked OpenCV version cannot be parsed or is older than 4.0.0
func NewEnhancer() (*enhance.Enhancer, error) {
	v, err := semver.ParseTolerant(Version())
	if err != nil {
		return nil, errors.Wrapf(err, "unrecognized OpenCV version %q", Version())
	}
	if v.LT(minVersion) {
		return nil, errors.Errorf("OpenCV %s is too old, need %s or newer", v, minVersion)
	}
	return enhance.NewWithFilters(Name, filters)
}
