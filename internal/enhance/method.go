package enhance

// Method names an enhancement filter.
type Method string

// Registered methods.
const (
	UnsharpMask     Method = "unsharp_mask"
	HighBoost       Method = "high_boost"
	Laplacian       Method = "laplacian"
	Sobel           Method = "sobel"
	Prewitt         Method = "prewitt"
	GaussianBlur    Method = "gaussian_blur"
	MedianBlur      Method = "median_blur"
	Emboss          Method = "emboss"
	Sepia           Method = "sepia"
	Invert          Method = "invert"
	BoxBlur         Method = "box_blur"
	BilateralFilter Method = "bilateral_filter"
	Cartoon         Method = "cartoon"
	PencilSketch    Method = "pencil_sketch"
	Canny           Method = "canny"
	Threshold       Method = "threshold"
	CLAHE           Method = "clahe"
)

// DefaultMethod is used when a request does not name one.
const DefaultMethod = UnsharpMask

// DefaultIntensity is used when a request does not carry one.
const DefaultIntensity = 50.0

var methods = []Method{
	UnsharpMask,
	HighBoost,
	Laplacian,
	Sobel,
	Prewitt,
	GaussianBlur,
	MedianBlur,
	Emboss,
	Sepia,
	Invert,
	BoxBlur,
	BilateralFilter,
	Cartoon,
	PencilSketch,
	Canny,
	Threshold,
	CLAHE,
}

// Info describes a method for clients choosing one.
type Info struct {
	// Name is the identifier passed as the request's method.
	Name Method `json:"name"`

	// Description is a one-line summary of the effect.
	Description string `json:"description"`

	// Intensity explains how the intensity value is interpreted.
	Intensity string `json:"intensity"`
}

// Methods lists every method in presentation order. The slice is a copy.
func Methods() []Method {
	return append([]Method(nil), methods...)
}

var catalogue = map[Method]Info{
	UnsharpMask:     {UnsharpMask, "Sharpen by subtracting a Gaussian-blurred copy", "0-100: blur radius 1-3, amount 0.5-2.5, noise threshold 0-10"},
	HighBoost:       {HighBoost, "Sharpen with a high-boost 3x3 kernel", "0-100: boost factor 1-3"},
	Laplacian:       {Laplacian, "Add Laplacian edge response to the image", "0-100: edge weight 0-2"},
	Sobel:           {Sobel, "Sobel gradient magnitude", "0-100: magnitude scale 0-2"},
	Prewitt:         {Prewitt, "Average of horizontal and vertical Prewitt responses", "0-100: kernel scale 0-2"},
	GaussianBlur:    {GaussianBlur, "Gaussian blur", "0-100: kernel size 3-21"},
	MedianBlur:      {MedianBlur, "Median blur", "0-100: kernel size 3-21"},
	Emboss:          {Emboss, "Emboss relief around mid-gray", "0-100: kernel scale 0-2"},
	Sepia:           {Sepia, "Sepia tone", "0-100: blend with the original, percent"},
	Invert:          {Invert, "Colour negative", "0-100: blend with the original, percent"},
	BoxBlur:         {BoxBlur, "Box (mean) blur", "0-100: kernel size 3-21"},
	BilateralFilter: {BilateralFilter, "Edge-preserving bilateral smoothing", "0-100: diameter 5-15, sigma 75-175"},
	Cartoon:         {Cartoon, "Flat colours with dark outlines", "unused"},
	PencilSketch:    {PencilSketch, "Coloured pencil sketch", "0-100: shading 0.05-0.15"},
	Canny:           {Canny, "Canny edge map", "0-100: lowers the low and raises the high hysteresis threshold"},
	Threshold:       {Threshold, "Black and white binarization", "absolute gray cutoff 0-255"},
	CLAHE:           {CLAHE, "Local contrast equalization on lightness", "0-100: clip limit 2-4"},
}

// Describe returns the catalogue entry for m.
func Describe(m Method) (Info, bool) {
	info, ok := catalogue[m]
	return info, ok
}
