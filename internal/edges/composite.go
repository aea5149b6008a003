package edges

import (
	"fmt"

	"github.com/anthonynsimon/bild/blend"

	"github.com/mapscribe/wallseeker/internal/raster"
)

// Combine merges two edge masks with a lighten composite: a pixel is an edge
// in the result if it is an edge in either input. The pipeline uses this to
// overlay the interior-wall pass on the perimeter pass.
func Combine(a, b *raster.Gray) (*raster.Gray, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if a.Width != b.Width || a.Height != b.Height {
		return nil, fmt.Errorf("edges: mask sizes differ: %dx%d vs %dx%d",
			a.Width, a.Height, b.Width, b.Height)
	}

	lightened := blend.Lighten(a.ToImage(), b.ToImage())

	out := &raster.Gray{Width: a.Width, Height: a.Height, Pix: make([]uint8, a.Width*a.Height)}
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			// Lighten of two grayscale images stays grayscale; any channel
			// carries the value.
			out.Pix[y*a.Width+x] = lightened.RGBAAt(x, y).R
		}
	}
	return out, nil
}
