package segment

import (
	"fmt"

	"github.com/mapscribe/wallseeker/internal/raster"
)

// DefaultEdgeColorFraction is the default share of border pixels a color must
// exceed before SeparateInside treats it as exterior.
const DefaultEdgeColorFraction = 0.4

// SeparateInside splits a clustered map into interior (white) and exterior
// (black), in place.
//
// The heuristic: after clustering, the void outside a map is a small set of
// near-uniform colors, and those colors dominate the image border. Every
// pixel along the four border rows/columns is sampled and counted per color;
// any color holding more than thresholdFraction of the border samples is
// flagged as exterior. Flagged pixels anywhere in the image become black
// (0,0,0,255), all others white (255,255,255,255).
//
// A non-positive thresholdFraction selects DefaultEdgeColorFraction. A
// fraction of 0.5 or more can flag at most one color; small fractions flag
// several, which suits maps whose outside mixes two or three fill tones.
func SeparateInside(b *raster.Buffer, thresholdFraction float64) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if thresholdFraction <= 0 {
		thresholdFraction = DefaultEdgeColorFraction
	}
	if thresholdFraction > 1 {
		return fmt.Errorf("%w: threshold fraction %v out of range (0,1]", ErrInvalidArgument, thresholdFraction)
	}

	w, h := b.Width, b.Height
	counts := make(map[uint32]int)
	total := 0

	sample := func(x, y int) {
		off := b.Offset(x, y)
		key := uint32(b.Pix[off])<<16 | uint32(b.Pix[off+1])<<8 | uint32(b.Pix[off+2])
		counts[key]++
		total++
	}
	for x := 0; x < w; x++ {
		sample(x, 0)
		sample(x, h-1)
	}
	for y := 0; y < h; y++ {
		sample(0, y)
		sample(w-1, y)
	}

	outside := make(map[uint32]bool)
	cutoff := thresholdFraction * float64(total)
	for key, n := range counts {
		if float64(n) > cutoff {
			outside[key] = true
		}
	}

	for i := 0; i < len(b.Pix); i += 4 {
		key := uint32(b.Pix[i])<<16 | uint32(b.Pix[i+1])<<8 | uint32(b.Pix[i+2])
		v := uint8(255)
		if outside[key] {
			v = 0
		}
		b.Pix[i] = v
		b.Pix[i+1] = v
		b.Pix[i+2] = v
		b.Pix[i+3] = 255
	}
	return nil
}
