package segment

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mapscribe/wallseeker/internal/raster"
)

// OtsuThreshold suggests an edge threshold for a grayscale raster by
// maximizing between-class variance over its luminance histogram.
//
// The pipeline calls this when the caller leaves the edge threshold unset:
// hand-tuned thresholds transfer poorly between map art styles, while Otsu's
// split tracks the art's actual contrast. On a degenerate raster whose
// histogram has a single occupied bin, the bin value itself is returned.
func OtsuThreshold(g *raster.Gray) (uint8, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}

	var hist [256]float64
	for _, v := range g.Pix {
		hist[v]++
	}
	total := floats.Sum(hist[:])

	levels := make([]float64, 256)
	for i := range levels {
		levels[i] = float64(i)
	}
	mean := stat.Mean(levels, hist[:])

	var (
		wBack, sumBack float64
		bestVar        float64
		best           uint8
	)
	for t := 0; t < 256; t++ {
		wBack += hist[t]
		if wBack == 0 {
			continue
		}
		wFore := total - wBack
		if wFore == 0 {
			break
		}
		sumBack += float64(t) * hist[t]
		meanBack := sumBack / wBack
		meanFore := (mean*total - sumBack) / wFore
		diff := meanBack - meanFore
		betweenVar := wBack * wFore * diff * diff
		if betweenVar > bestVar {
			bestVar = betweenVar
			best = uint8(t)
		}
	}
	if bestVar == 0 {
		// Flat histogram: every pixel identical.
		return g.Pix[0], nil
	}
	return best, nil
}
