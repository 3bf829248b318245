// Package imaging provides the pixel primitives and codecs the enhancement
// filters are built on.
//
// Where a third-party library already offers an operator with the required
// semantics, the filters call it directly (disintegration/imaging for
// per-pixel adjustment and resizing, gift for the per-channel median, bild
// for inversion and the adaptive-threshold mean). This package supplies the
// rest:
//
//   - Plane: a float64 single-channel raster with mirrored borders, used
//     for 3x3 kernels, box blur and any intermediate result that must not
//     be saturated (Sobel, unsharp mask)
//   - GaussianBlur: separable Gaussian with explicit size and sigma
//   - BilateralFilter: edge-preserving smoothing
//   - CLAHE: contrast limited adaptive histogram equalization
//   - Canny: edge detection with hysteresis
//   - Threshold and AdaptiveThresholdMean: binarization
//   - PencilSketch: colour-dodge pencil stylization
//   - ToLab / LabImage: CIE Lab split and merge (via go-colorful)
//   - DecodeDataURL / EncodeDataURL: base64 data URL codecs
//
// # Coordinate System
//
// All functions operate on images anchored at the origin: (0,0) is the
// top-left pixel, X increases rightward and Y downward. Outputs are always
// anchored at the origin with the same width and height as the input.
//
// # Thread Safety
//
// Every function is stateless and allocates its output; inputs are never
// modified. Functions can be called concurrently on shared inputs.
//
// # Borders
//
// Neighbourhood operations implemented here mirror the image at its edges
// without repeating the edge sample (gfedcb|abcdefgh|gfedcba), except
// AdaptiveThresholdMean and the Canny gradient, which replicate the edge
// sample (aaa|abcdefgh|hhh).
package imaging
