package opencv

import "github.com/pkg/errors"

// Name identifies this backend in configuration and health reports.
const Name = "opencv"

// ErrUnavailable is returned by NewEnhancer when the binary was built
// without OpenCV support.
var ErrUnavailable = errors.New("opencv backend not compiled in (rebuild with -tags opencv)")
