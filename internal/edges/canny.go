package edges

import (
	"errors"
	"fmt"
	"math"

	"github.com/mapscribe/wallseeker/internal/filters"
	"github.com/mapscribe/wallseeker/internal/raster"
)

// ErrNoEdges is returned when the gradient signal is too weak to contain any
// edge at all, which in practice means a blank or solid-color input. Callers
// should surface this to the user rather than retry; the input is unsuitable.
var ErrNoEdges = errors.New("edges: no edges detected")

// magnitudeFloor is the absolute gradient magnitude below which a pixel is
// zeroed during suppression, before hysteresis ever sees it.
const magnitudeFloor = 10

// CannyOptions configures the Canny-style detector.
type CannyOptions struct {
	// LowThreshold is the weak-edge cutoff for hysteresis (0-255).
	LowThreshold int

	// HighThreshold is the strong-edge seed cutoff for hysteresis (0-255).
	HighThreshold int

	// Sigma is the Gaussian pre-blur. Zero skips the blur.
	Sigma float64
}

// DefaultCannyOptions returns thresholds that work on clean, high-contrast
// map masks.
func DefaultCannyOptions() CannyOptions {
	return CannyOptions{LowThreshold: 50, HighThreshold: 150, Sigma: 1.4}
}

// DetectCanny runs gradient/non-max-suppression/hysteresis edge detection
// and returns a binary mask (255 = edge).
//
// Stages: Gaussian pre-blur, 3x3 Sobel gradients with clamped borders,
// magnitude sqrt(Gx²+Gy²) clamped to 255, direction quantized to one of four
// 45-degree buckets, non-maximum suppression against the two neighbors along
// the gradient direction (with an absolute floor of 10 as pre-filtering),
// then two-threshold hysteresis: pixels at or above HighThreshold seed a
// depth-first trace through 8-connected neighbors at or above LowThreshold.
//
// Returns ErrNoEdges when the maximum suppressed magnitude is 1 or less;
// that is a hard stop, not a degraded result.
func DetectCanny(g *raster.Gray, opts CannyOptions) (*raster.Gray, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if opts.LowThreshold < 0 || opts.HighThreshold < 0 || opts.LowThreshold > opts.HighThreshold {
		return nil, fmt.Errorf("edges: invalid hysteresis thresholds low=%d high=%d",
			opts.LowThreshold, opts.HighThreshold)
	}

	blurred, err := filters.GaussianBlur(g, opts.Sigma)
	if err != nil {
		return nil, err
	}

	field := sobel(blurred)
	suppressed := suppress(field)

	maxMag := 0.0
	for _, m := range suppressed {
		if m > maxMag {
			maxMag = m
		}
	}
	if maxMag <= 1 {
		return nil, ErrNoEdges
	}

	return hysteresis(suppressed, field.Width, field.Height, opts.LowThreshold, opts.HighThreshold), nil
}

// sobel computes the gradient field with 3x3 Sobel kernels. Out-of-range
// samples clamp to the nearest border pixel.
func sobel(g *raster.Gray) *GradientField {
	w, h := g.Width, g.Height
	field := newGradientField(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := func(dx, dy int) float64 {
				return float64(g.Pix[raster.Clamp(y+dy, 0, h-1)*w+raster.Clamp(x+dx, 0, w-1)])
			}
			gx := -p(-1, -1) + p(1, -1) - 2*p(-1, 0) + 2*p(1, 0) - p(-1, 1) + p(1, 1)
			gy := -p(-1, -1) - 2*p(0, -1) - p(1, -1) + p(-1, 1) + 2*p(0, 1) + p(1, 1)

			mag := math.Sqrt(gx*gx + gy*gy)
			if mag > 255 {
				mag = 255
			}
			idx := y*w + x
			field.Mag[idx] = mag
			field.Dir[idx] = bucketAngle(math.Atan2(gy, gx))
		}
	}
	return field
}

// bucketAngle quantizes a gradient angle into one of the four 45-degree
// direction buckets.
func bucketAngle(angle float64) uint8 {
	// Fold into [0, pi): edge direction is orientation, not heading.
	if angle < 0 {
		angle += math.Pi
	}
	deg := angle * 180 / math.Pi
	switch {
	case deg < 22.5 || deg >= 157.5:
		return dir0
	case deg < 67.5:
		return dir45
	case deg < 112.5:
		return dir90
	default:
		return dir135
	}
}

// suppress performs non-maximum suppression: a pixel survives only if its
// magnitude is at least that of both neighbors along its gradient direction
// and clears the absolute magnitude floor. Border neighbors clamp into range.
func suppress(field *GradientField) []float64 {
	w, h := field.Width, field.Height
	out := make([]float64, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			mag := field.Mag[idx]
			if mag < magnitudeFloor {
				continue
			}

			var dx, dy int
			switch field.Dir[idx] {
			case dir0:
				dx, dy = 1, 0
			case dir45:
				dx, dy = 1, -1
			case dir90:
				dx, dy = 0, 1
			default: // dir135
				dx, dy = 1, 1
			}

			n1 := field.Mag[raster.Clamp(y+dy, 0, h-1)*w+raster.Clamp(x+dx, 0, w-1)]
			n2 := field.Mag[raster.Clamp(y-dy, 0, h-1)*w+raster.Clamp(x-dx, 0, w-1)]
			if mag >= n1 && mag >= n2 {
				out[idx] = mag
			}
		}
	}
	return out
}

// hysteresis performs two-threshold edge tracking. Every pixel at or above
// high seeds a depth-first trace; the trace extends through 8-connected
// neighbors at or above low. The stack is explicit, so deep traces on large
// maps cannot overflow the goroutine stack.
func hysteresis(suppressed []float64, w, h, low, high int) *raster.Gray {
	mask := &raster.Gray{Width: w, Height: h, Pix: make([]uint8, w*h)}
	stack := make([]int, 0, 256)

	for seed := 0; seed < w*h; seed++ {
		if suppressed[seed] < float64(high) || mask.Pix[seed] == 255 {
			continue
		}
		stack = append(stack[:0], seed)
		mask.Pix[seed] = 255

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			x, y := idx%w, idx/w
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if mask.Pix[nidx] != 255 && suppressed[nidx] >= float64(low) {
						mask.Pix[nidx] = 255
						stack = append(stack, nidx)
					}
				}
			}
		}
	}
	return mask
}
