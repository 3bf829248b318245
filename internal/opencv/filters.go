//go:build opencv

package opencv

import (
	"image"

	dimaging "github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ironsheep/image-enhancer/internal/enhance"
	"github.com/ironsheep/image-enhancer/internal/imaging"
)

var filters = map[enhance.Method]enhance.Filter{
	enhance.UnsharpMask:     wrap(unsharpMask),
	enhance.HighBoost:       wrap(highBoost),
	enhance.Laplacian:       wrap(laplacian),
	enhance.Sobel:           sobel,
	enhance.Prewitt:         wrap(prewitt),
	enhance.GaussianBlur:    wrap(gaussianBlur),
	enhance.MedianBlur:      wrap(medianBlur),
	enhance.Emboss:          wrap(emboss),
	enhance.Sepia:           wrap(sepia),
	enhance.Invert:          wrap(invert),
	enhance.BoxBlur:         wrap(boxBlur),
	enhance.BilateralFilter: wrap(bilateralFilter),
	enhance.Cartoon:         wrap(cartoon),
	enhance.PencilSketch:    wrap(pencilSketch),
	enhance.Canny:           wrap(canny),
	enhance.Threshold:       wrap(threshold),
	enhance.CLAHE:           wrap(clahe),
}

// op writes the filtered 8-bit BGR form of src into dst.
type op func(src gocv.Mat, dst *gocv.Mat, intensity float64)

// wrap adapts an op to enhance.Filter, handling the image/Mat conversions.
func wrap(fn op) enhance.Filter {
	return func(img *image.NRGBA, intensity float64) (*image.NRGBA, error) {
		src, err := toMat(img)
		if err != nil {
			return nil, err
		}
		defer src.Close()

		dst := gocv.NewMat()
		defer dst.Close()

		fn(src, &dst, intensity)
		return toNRGBA(dst)
	}
}

func toMat(img *image.NRGBA) (gocv.Mat, error) {
	m, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return m, errors.Wrap(err, "failed to convert image to Mat")
	}
	return m, nil
}

func toNRGBA(m gocv.Mat) (*image.NRGBA, error) {
	if m.Empty() {
		return nil, errors.New("OpenCV produced an empty image")
	}
	img, err := m.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert Mat to image")
	}
	return dimaging.Clone(img), nil
}

// kernelMat builds a 3x3 CV_32F kernel from row-major values.
func kernelMat(k [9]float64) gocv.Mat {
	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	for i, v := range k {
		m.SetFloatAt(i/3, i%3, float32(v))
	}
	return m
}

// filter2D convolves with ddepth -1, the kernel centred and borders
// mirrored.
func filter2D(src gocv.Mat, dst *gocv.Mat, k [9]float64) {
	kernel := kernelMat(k)
	defer kernel.Close()
	gocv.Filter2D(src, dst, gocv.MatType(-1), kernel, image.Pt(-1, -1), 0, gocv.BorderDefault)
}

func unsharpMask(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	p := enhance.Unsharp(intensity)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Point{}, p.Radius, p.Radius, gocv.BorderDefault)
	gocv.AddWeighted(src, 1+p.Amount, blurred, -p.Amount, 0, dst)

	if p.Threshold <= 0 {
		return
	}
	diff := gocv.NewMat()
	defer diff.Close()
	low := gocv.NewMat()
	defer low.Close()
	gocv.AbsDiff(src, blurred, &diff)
	// 255 where diff <= threshold-1, i.e. diff < threshold
	gocv.Threshold(diff, &low, float32(p.Threshold-1), 255, gocv.ThresholdBinaryInv)
	src.CopyToWithMask(dst, low)
}

func highBoost(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	sharp := gocv.NewMat()
	defer sharp.Close()
	filter2D(src, &sharp, enhance.HighBoostKernel(enhance.Boost(intensity)))
	gocv.AddWeighted(src, 1, sharp, enhance.HighBoostBlend, 0, dst)
}

func laplacian(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	lap := gocv.NewMat()
	defer lap.Close()
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Laplacian(src, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)
	gocv.ConvertScaleAbs(lap, &edges, 1, 0)
	gocv.AddWeighted(src, 1, edges, enhance.Scale(intensity), 0, dst)
}

// sobel keeps the gradient magnitude in float64 and wraps it to 8 bits in
// Go, which OpenCV's saturating conversions cannot express.
func sobel(img *image.NRGBA, intensity float64) (*image.NRGBA, error) {
	src, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	mag := gocv.NewMat()
	defer mag.Close()

	gocv.Sobel(src, &gx, gocv.MatTypeCV64F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(src, &gy, gocv.MatTypeCV64F, 0, 1, 3, 1, 0, gocv.BorderDefault)
	gocv.Magnitude(gx, gy, &mag)

	values, err := mag.DataPtrFloat64()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read gradient magnitude")
	}

	scale := enhance.Scale(intensity)
	w, h := mag.Cols(), mag.Rows()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h; i++ {
		dst.Pix[i*4+0] = imaging.WrapTrunc(values[i*3+2] * scale)
		dst.Pix[i*4+1] = imaging.WrapTrunc(values[i*3+1] * scale)
		dst.Pix[i*4+2] = imaging.WrapTrunc(values[i*3+0] * scale)
		dst.Pix[i*4+3] = 0xff
	}
	return dst, nil
}

func prewitt(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	s := enhance.Scale(intensity)
	px := gocv.NewMat()
	defer px.Close()
	py := gocv.NewMat()
	defer py.Close()
	filter2D(src, &px, enhance.ScaleKernel(enhance.PrewittXKernel(), s))
	filter2D(src, &py, enhance.ScaleKernel(enhance.PrewittYKernel(), s))
	gocv.AddWeighted(px, enhance.PrewittBlendWeight, py, enhance.PrewittBlendWeight, 0, dst)
}

func gaussianBlur(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	k := enhance.BlurKernelSize(intensity)
	gocv.GaussianBlur(src, dst, image.Pt(k, k), 0, 0, gocv.BorderDefault)
}

func medianBlur(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	gocv.MedianBlur(src, dst, enhance.BlurKernelSize(intensity))
}

func boxBlur(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	k := enhance.BlurKernelSize(intensity)
	gocv.Blur(src, dst, image.Pt(k, k))
}

func emboss(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	filter2D(src, dst, enhance.ScaleKernel(enhance.EmbossKernel(), enhance.Scale(intensity)))
	dst.AddUChar(enhance.EmbossOffset)
}

// sepiaBGR is the sepia matrix with rows and columns in BGR order.
var sepiaBGR = func() [9]float64 {
	m := enhance.SepiaMatrix()
	var k [9]float64
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			k[row*3+col] = m[2-row][2-col]
		}
	}
	return k
}()

func sepia(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	alpha := enhance.Alpha(intensity)
	tm := kernelMat(sepiaBGR)
	defer tm.Close()
	toned := gocv.NewMat()
	defer toned.Close()
	gocv.Transform(src, &toned, tm)
	gocv.AddWeighted(src, 1-alpha, toned, alpha, 0, dst)
}

func invert(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	alpha := enhance.Alpha(intensity)
	negative := gocv.NewMat()
	defer negative.Close()
	gocv.BitwiseNot(src, &negative)
	gocv.AddWeighted(src, 1-alpha, negative, alpha, 0, dst)
}

func bilateralFilter(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	p := enhance.Bilateral(intensity)
	gocv.BilateralFilter(src, dst, p.Diameter, p.SigmaColor, p.SigmaSpace)
}

func cartoon(src gocv.Mat, dst *gocv.Mat, _ float64) {
	gray := gocv.NewMat()
	defer gray.Close()
	smoothed := gocv.NewMat()
	defer smoothed.Close()
	edges := gocv.NewMat()
	defer edges.Close()
	edgesBGR := gocv.NewMat()
	defer edgesBGR.Close()
	color := gocv.NewMat()
	defer color.Close()

	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	gocv.MedianBlur(gray, &smoothed, enhance.CartoonMedianSize)
	gocv.AdaptiveThreshold(smoothed, &edges, 255, gocv.AdaptiveThresholdMean, gocv.ThresholdBinary,
		enhance.CartoonBlockSize, enhance.CartoonC)
	gocv.BilateralFilter(src, &color, enhance.CartoonDiameter, enhance.CartoonSigma, enhance.CartoonSigma)

	// The edge map is 0 or 255, so a bitwise AND with its BGR form
	// blacks out the outlines and keeps colour elsewhere.
	gocv.CvtColor(edges, &edgesBGR, gocv.ColorGrayToBGR)
	gocv.BitwiseAnd(color, edgesBGR, dst)
}

func pencilSketch(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.PencilSketch(src, &gray, dst, enhance.PencilSigmaS, enhance.PencilSigmaR, float32(enhance.Shade(intensity)))
}

func canny(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	lower, upper := enhance.CannyThresholds(intensity)
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(src, &edges, float32(lower), float32(upper))
	gocv.CvtColor(edges, dst, gocv.ColorGrayToBGR)
}

func threshold(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	gray := gocv.NewMat()
	defer gray.Close()
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	gocv.Threshold(gray, &binary, float32(intensity), 255, gocv.ThresholdBinary)
	gocv.CvtColor(binary, dst, gocv.ColorGrayToBGR)
}

func clahe(src gocv.Mat, dst *gocv.Mat, intensity float64) {
	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(src, &lab, gocv.ColorBGRToLab)

	channels := gocv.Split(lab)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()

	eq := gocv.NewCLAHEWithParams(enhance.ClipLimit(intensity), image.Pt(enhance.CLAHEGridSize, enhance.CLAHEGridSize))
	defer eq.Close()
	lightness := gocv.NewMat()
	defer lightness.Close()
	eq.Apply(channels[0], &lightness)

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge([]gocv.Mat{lightness, channels[1], channels[2]}, &merged)
	gocv.CvtColor(merged, dst, gocv.ColorLabToBGR)
}
