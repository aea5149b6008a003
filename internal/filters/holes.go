package filters

import (
	"math"

	"github.com/mapscribe/wallseeker/internal/raster"
)

// RemoveSmallHoles fills small dark pockets with the average color of their
// surroundings.
//
// A pixel is "dark" when its mean RGB brightness is below threshold. Dark
// pixels are grouped into 4-connected components; each component smaller
// than maxHoleSize is repainted with the channel-wise average RGB of the
// non-dark pixels immediately bordering it. Alpha is left untouched.
//
// This is the threshold-based sibling of RemoveSmallRegions: regions removal
// keys on exact color equality and repaints with the modal border color,
// hole removal keys on a brightness cut and repaints with the mean. The mean
// suits holes because their surroundings are usually a single material with
// slight gradient, where the mode would pick an arbitrary shade.
func RemoveSmallHoles(b *raster.Buffer, maxHoleSize int, threshold uint8) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if maxHoleSize <= 0 {
		return errInvalidSize("max hole size", maxHoleSize)
	}

	w, h := b.Width, b.Height
	src := b.Clone()

	dark := make([]bool, w*h)
	for i := 0; i < w*h; i++ {
		off := i * 4
		mean := (int(src.Pix[off]) + int(src.Pix[off+1]) + int(src.Pix[off+2])) / 3
		dark[i] = mean < int(threshold)
	}

	visited := make([]bool, w*h)
	queue := make([]int, 0, 1024)

	for start := 0; start < w*h; start++ {
		if !dark[start] || visited[start] {
			continue
		}

		queue = queue[:0]
		queue = append(queue, start)
		visited[start] = true

		var pixels []int
		var sumR, sumG, sumB, borderN float64

		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			pixels = append(pixels, idx)

			x, y := idx%w, idx/w
			for _, d := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				nidx := ny*w + nx
				if dark[nidx] {
					if !visited[nidx] {
						visited[nidx] = true
						queue = append(queue, nidx)
					}
					continue
				}
				off := nidx * 4
				sumR += float64(src.Pix[off])
				sumG += float64(src.Pix[off+1])
				sumB += float64(src.Pix[off+2])
				borderN++
			}
		}

		if len(pixels) >= maxHoleSize || borderN == 0 {
			continue
		}

		r := uint8(math.Round(sumR / borderN))
		g := uint8(math.Round(sumG / borderN))
		bl := uint8(math.Round(sumB / borderN))
		for _, idx := range pixels {
			off := idx * 4
			b.Pix[off] = r
			b.Pix[off+1] = g
			b.Pix[off+2] = bl
		}
	}
	return nil
}
