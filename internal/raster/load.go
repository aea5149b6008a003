package raster

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// LoadFile decodes the map image at path. PNG, JPEG, GIF, TIFF, and BMP are
// supported via the imaging package's format registry.
func LoadFile(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %q: %w", path, err)
	}
	return img, nil
}

// Scaled resizes img to width x height with Lanczos resampling and copies the
// result into a Buffer. This is how the orchestrator brings a source map down
// to its working resolution.
func Scaled(img image.Image, width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: scale target %dx%d", ErrEmptyBuffer, width, height)
	}
	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	return FromImage(resized), nil
}

// CropRegion extracts the rectangle (x1,y1)-(x2,y2) from img, with (x1,y1)
// inclusive and (x2,y2) exclusive. Used when the caller restricts wall
// detection to part of a map.
func CropRegion(img image.Image, x1, y1, x2, y2 int) (image.Image, error) {
	bounds := img.Bounds()
	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	return imaging.Crop(img, image.Rect(x1, y1, x2, y2)), nil
}

// SaveDebug writes img as a PNG. Debug dumps of intermediate pipeline stages
// go through this so that every stage writes files the same way.
func SaveDebug(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save debug image %q: %w", path, err)
	}
	return nil
}
