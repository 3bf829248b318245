// Package enhance maps a method name and an intensity onto an image filter.
//
// The registry is fixed: seventeen methods, each a thin parameterization of
// a blur, sharpen, edge-detection, colour-transform or stylization
// primitive. Enhance looks the method up, derives the filter's native
// parameters from the intensity (see params.go) and returns a new image of
// the same size. Unknown names fail with ErrUnsupportedMethod; nothing else
// is validated, so intensities outside 0-100 reach the primitives as-is.
//
// # Backends
//
// New returns the pure Go backend. Other backends (see internal/opencv)
// supply their own filters through NewWithFilters and share the parameter
// derivations in this package.
//
// # Intensity
//
// Intensity is nominally 0-100 but its unit depends on the method: a blend
// percentage for sepia and invert, a kernel-size driver for the blurs, a
// clip-limit offset for clahe, and an absolute 0-255 gray level for
// threshold. cartoon ignores it.
package enhance
