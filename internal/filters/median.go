package filters

import (
	"sort"

	"github.com/mapscribe/wallseeker/internal/raster"
)

// Median replaces every pixel with the median of its kernelSize x kernelSize
// neighborhood, in place.
//
// Pixels are ranked by luminance and the center pixel takes the entire RGBA
// tuple of the median-luminance neighbor, not per-channel medians. Replacing
// the whole tuple keeps the output restricted to colors that already exist in
// the image, which matters after clustering has reduced the palette.
//
// An even kernelSize is bumped up to the next odd value. kernelSize 1 is the
// identity. Returns raster.ErrEmptyBuffer for an unusable buffer and an error
// for a non-positive kernel size.
func Median(b *raster.Buffer, kernelSize int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if kernelSize <= 0 {
		return errInvalidKernel(kernelSize)
	}
	if kernelSize%2 == 0 {
		kernelSize++
	}
	if kernelSize == 1 {
		return nil
	}

	w, h := b.Width, b.Height
	radius := kernelSize / 2
	src := b.Clone()

	type sample struct {
		lum    float64
		offset int
	}
	window := make([]sample, 0, kernelSize*kernelSize)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			window = window[:0]
			for ky := -radius; ky <= radius; ky++ {
				sy := raster.Clamp(y+ky, 0, h-1)
				for kx := -radius; kx <= radius; kx++ {
					sx := raster.Clamp(x+kx, 0, w-1)
					off := src.Offset(sx, sy)
					window = append(window, sample{
						lum:    Luminance(src.Pix[off], src.Pix[off+1], src.Pix[off+2]),
						offset: off,
					})
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i].lum < window[j].lum })

			med := window[len(window)/2].offset
			dst := b.Offset(x, y)
			b.Pix[dst] = src.Pix[med]
			b.Pix[dst+1] = src.Pix[med+1]
			b.Pix[dst+2] = src.Pix[med+2]
			b.Pix[dst+3] = src.Pix[med+3]
		}
	}
	return nil
}
