package filters

import (
	"github.com/anthonynsimon/bild/transform"

	"github.com/mapscribe/wallseeker/internal/raster"
)

// Pixelate quantizes the buffer to blockSize x blockSize blocks by resizing
// down and back up with nearest-neighbor resampling, in place.
//
// Running this before edge detection snaps hand-drawn or anti-aliased maps
// onto a coarse lattice, which suits the Roberts-cross detector's preference
// for staircase imagery.
func Pixelate(b *raster.Buffer, blockSize int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if blockSize <= 0 {
		return errInvalidSize("block size", blockSize)
	}
	if blockSize == 1 {
		return nil
	}

	smallW := (b.Width + blockSize - 1) / blockSize
	smallH := (b.Height + blockSize - 1) / blockSize

	img := b.ToImage()
	small := transform.Resize(img, smallW, smallH, transform.NearestNeighbor)
	full := transform.Resize(small, b.Width, b.Height, transform.NearestNeighbor)

	copy(b.Pix, raster.FromImage(full).Pix)
	return nil
}
