package edges

// Direction buckets for the Canny-style path. The gradient angle is
// quantized into 45-degree-wide bands so non-maximum suppression only ever
// compares against two of the eight neighbors.
const (
	dir0   = 0 // horizontal gradient, compare left/right
	dir45  = 1 // rising diagonal
	dir90  = 2 // vertical gradient, compare up/down
	dir135 = 3 // falling diagonal
)

// GradientField holds per-pixel gradient magnitude (clamped to 0-255) and,
// for the Canny path, the quantized direction bucket. It is transient: built
// by the Sobel pass and consumed by suppression, never retained between
// pipeline runs.
type GradientField struct {
	Width  int
	Height int
	Mag    []float64
	Dir    []uint8
}

func newGradientField(w, h int) *GradientField {
	return &GradientField{
		Width:  w,
		Height: h,
		Mag:    make([]float64, w*h),
		Dir:    make([]uint8, w*h),
	}
}
