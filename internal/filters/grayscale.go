package filters

import (
	"github.com/mapscribe/wallseeker/internal/raster"
)

// Grayscale converts an RGBA buffer to a single-channel luminance raster
// using ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B), truncated to a
// byte.
//
// Returns raster.ErrEmptyBuffer for a nil or zero-sized input.
func Grayscale(b *raster.Buffer) (*raster.Gray, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	gray, err := raster.NewGray(b.Width, b.Height)
	if err != nil {
		return nil, err
	}
	for i, j := 0, 0; i < len(b.Pix); i, j = i+4, j+1 {
		r := float64(b.Pix[i])
		g := float64(b.Pix[i+1])
		bl := float64(b.Pix[i+2])
		gray.Pix[j] = uint8(0.299*r + 0.587*g + 0.114*bl)
	}
	return gray, nil
}

// Luminance returns the BT.601 luminance of a single RGB triple. The median
// filter and the hole-removal pass rank pixels with this.
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}
