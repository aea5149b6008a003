package filters

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mapscribe/wallseeker/internal/raster"
)

// GaussianBlur smooths a grayscale raster with a separable Gaussian kernel.
//
// The kernel radius is max(1, round(sigma*3)); the 1-D kernel is normalized
// to sum 1 and applied horizontally, then vertically. Border samples clamp to
// the nearest edge pixel. Cost is O(width*height*radius).
//
// A sigma of zero or below returns an unmodified copy of the input, so the
// blur degrades gracefully to the identity.
func GaussianBlur(g *raster.Gray, sigma float64) (*raster.Gray, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if sigma <= 0 {
		return g.Clone(), nil
	}

	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2
	w, h := g.Width, g.Height

	// Horizontal pass into an intermediate raster.
	horiz, err := raster.NewGray(w, h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		row := g.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += float64(row[raster.Clamp(x+k, 0, w-1)]) * kernel[k+radius]
			}
			horiz.Pix[y*w+x] = uint8(math.Round(sum))
		}
	}

	// Vertical pass into the output raster.
	out, err := raster.NewGray(w, h)
	if err != nil {
		return nil, err
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sum += float64(horiz.Pix[raster.Clamp(y+k, 0, h-1)*w+x]) * kernel[k+radius]
			}
			out.Pix[y*w+x] = uint8(math.Round(sum))
		}
	}
	return out, nil
}

// gaussianKernel builds a normalized 1-D Gaussian kernel of radius
// max(1, round(sigma*3)).
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Round(sigma * 3))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	twoSigmaSq := 2 * sigma * sigma
	for i := -radius; i <= radius; i++ {
		kernel[i+radius] = math.Exp(-float64(i*i) / twoSigmaSq)
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel
}
