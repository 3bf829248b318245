package enhance

import (
	"fmt"
	"image"

	"github.com/pkg/errors"

	"github.com/ironsheep/image-enhancer/internal/imaging"
)

// ErrUnsupportedMethod is matched (errors.Is) by every error caused by an
// unknown method name.
var ErrUnsupportedMethod = errors.New("unsupported method")

// UnsupportedMethodError reports a method name missing from the registry.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("method %s not supported", e.Method)
}

// Is reports whether target is ErrUnsupportedMethod.
func (e *UnsupportedMethodError) Is(target error) bool {
	return target == ErrUnsupportedMethod
}

// Filter transforms an opaque, origin-anchored image. It must not modify
// src and must return an image of the same width and height.
type Filter func(src *image.NRGBA, intensity float64) (*image.NRGBA, error)

// Enhancer dispatches enhancement requests to a fixed set of filters.
//
// An Enhancer is immutable after construction and safe for concurrent use.
type Enhancer struct {
	backend string
	filters map[Method]Filter
}

// New returns an Enhancer backed by the pure Go filters.
func New() *Enhancer {
	return &Enhancer{backend: "native", filters: nativeFilters}
}

// NewWithFilters returns an Enhancer named backend that dispatches to
// filters. Every method in Methods() must be present; unknown keys are
// rejected. The map is copied.
func NewWithFilters(backend string, filters map[Method]Filter) (*Enhancer, error) {
	registry := make(map[Method]Filter, len(methods))
	for _, m := range methods {
		fn, ok := filters[m]
		if !ok || fn == nil {
			return nil, errors.Errorf("backend %s: no filter for method %s", backend, m)
		}
		registry[m] = fn
	}
	if len(filters) != len(registry) {
		for m := range filters {
			if _, ok := registry[m]; !ok {
				return nil, errors.Errorf("backend %s: unknown method %s", backend, m)
			}
		}
	}
	return &Enhancer{backend: backend, filters: registry}, nil
}

// Backend names the filter implementation.
func (e *Enhancer) Backend() string {
	return e.backend
}

// Supports reports whether method is registered.
func (e *Enhancer) Supports(method string) bool {
	_, ok := e.filters[Method(method)]
	return ok
}

// Enhance applies the named method to img.
//
// img is flattened to opaque RGB first; it is never modified. The result
// always has img's width and height and is anchored at the origin.
//
// # Errors
//
//   - *UnsupportedMethodError (matching ErrUnsupportedMethod) when method is
//     not registered
//   - any error or panic raised by the filter itself, wrapped with the
//     method name
func (e *Enhancer) Enhance(img image.Image, method string, intensity float64) (out *image.NRGBA, err error) {
	fn, ok := e.filters[Method(method)]
	if !ok {
		return nil, &UnsupportedMethodError{Method: method}
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errors.Errorf("%s: filter panicked: %v", method, r)
		}
	}()

	src := imaging.ToOpaqueNRGBA(img)
	out, err = fn(src, intensity)
	if err != nil {
		return nil, errors.Wrap(err, method)
	}
	return out, nil
}
