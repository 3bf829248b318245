// Package opencv provides an enhancement backend that runs every method
// through OpenCV (via gocv).
//
// The pure Go backend in package enhance reproduces most OpenCV operators
// closely but not bit for bit; median_blur and pencil_sketch in particular
// are approximations there. This backend calls the OpenCV operators
// directly and is selected with IMAGE_ENHANCER_BACKEND=opencv.
//
// # Prerequisites
//
// The backend is only compiled with the opencv build tag:
//
//	go build -tags opencv ./cmd/image-enhancer
//
// OpenCV 4 with the photo module (and its pkg-config files) must be
// installed on the build and run hosts:
//   - Ubuntu/Debian: apt-get install libopencv-dev
//   - macOS: brew install opencv
//   - Others: see https://gocv.io/getting-started/
//
// Without the tag, NewEnhancer returns ErrUnavailable and Available reports
// false, so the service still builds and runs with the native backend.
//
// # Colour Order
//
// Images cross into OpenCV as 8-bit BGR matrices and come back as opaque
// NRGBA. Kernels and colour matrices that depend on channel order are
// written for BGR in this package.
//
// # Error Handling
//
// OpenCV reports bad arguments by throwing; gocv surfaces those as panics
// or as errors from the few functions that return one. The enhance
// package recovers panics raised by a filter, so a failing operator turns
// into a request error rather than a crashed process.
package opencv
