package textmask

import (
	"errors"
	"image"
	"math"

	"github.com/mapscribe/wallseeker/internal/raster"
)

// ErrUnavailable is returned by FindWords on builds without the OCR backend.
var ErrUnavailable = errors.New("textmask: ocr backend not available in this build")

// Region is one detected word's bounding box, with (X1,Y1) inclusive and
// (X2,Y2) exclusive.
type Region struct {
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
}

// minConfidence filters OCR noise: boxes below this confidence are usually
// texture misread as glyphs, and blanking them would eat real wall detail.
const minConfidence = 0.5

// FindWords locates word bounding boxes in img.
//
// On builds without the OCR backend it returns ErrUnavailable; callers
// treat that as "nothing to mask", not as a failure.
func FindWords(img image.Image) ([]Region, error) {
	return findWords(img)
}

// Blank repaints every region with the average color of the pixels
// immediately surrounding its box. Regions outside the buffer are clipped;
// fully clipped regions are skipped.
func Blank(b *raster.Buffer, regions []Region) error {
	if err := b.Validate(); err != nil {
		return err
	}

	for _, reg := range regions {
		x1 := raster.Clamp(reg.X1, 0, b.Width)
		y1 := raster.Clamp(reg.Y1, 0, b.Height)
		x2 := raster.Clamp(reg.X2, 0, b.Width)
		y2 := raster.Clamp(reg.Y2, 0, b.Height)
		if x1 >= x2 || y1 >= y2 {
			continue
		}

		r, g, bl, ok := borderAverage(b, x1, y1, x2, y2)
		if !ok {
			continue // region covers the whole buffer, nothing to sample
		}
		for y := y1; y < y2; y++ {
			for x := x1; x < x2; x++ {
				off := b.Offset(x, y)
				b.Pix[off] = r
				b.Pix[off+1] = g
				b.Pix[off+2] = bl
			}
		}
	}
	return nil
}

// borderAverage averages the RGB of the one-pixel ring around the box.
func borderAverage(b *raster.Buffer, x1, y1, x2, y2 int) (r, g, bl uint8, ok bool) {
	var sumR, sumG, sumB, n float64

	add := func(x, y int) {
		if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
			return
		}
		off := b.Offset(x, y)
		sumR += float64(b.Pix[off])
		sumG += float64(b.Pix[off+1])
		sumB += float64(b.Pix[off+2])
		n++
	}
	for x := x1 - 1; x <= x2; x++ {
		add(x, y1-1)
		add(x, y2)
	}
	for y := y1; y < y2; y++ {
		add(x1-1, y)
		add(x2, y)
	}
	if n == 0 {
		return 0, 0, 0, false
	}
	return uint8(math.Round(sumR / n)), uint8(math.Round(sumG / n)), uint8(math.Round(sumB / n)), true
}
