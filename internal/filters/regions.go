package filters

import (
	"sort"

	"github.com/mapscribe/wallseeker/internal/raster"
)

// region is one 4-connected same-color component found by the flood fill,
// together with the colors touching its border.
type region struct {
	pixels []int // pixel indices (y*width+x)
	size   int
	// borderColors counts the distinct colors adjacent to the region, in
	// first-seen order so that frequency ties resolve deterministically.
	borderColors []colorCount
}

type colorCount struct {
	key   uint32
	count int
}

// RemoveSmallRegions repaints every 4-connected same-color region smaller
// than maxRegionSize with the most frequent color found along its border.
//
// Color equality compares R, G, and B, plus alpha when includeAlpha is set.
// All regions are discovered from a snapshot of the input before any repaint
// happens, so the result is independent of scan order. Regions are repainted
// smallest-first; border-color frequency ties resolve to the color seen
// first during the flood.
//
// Flood fills stop collecting once a region grows past 3*maxRegionSize,
// since a region that large can never qualify. The rest of the component is
// still marked visited, so no leftover fragment of a large region is ever
// mistaken for a small region of its own.
func RemoveSmallRegions(b *raster.Buffer, maxRegionSize int, includeAlpha bool) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if maxRegionSize <= 0 {
		return errInvalidSize("max region size", maxRegionSize)
	}

	w, h := b.Width, b.Height
	src := b.Clone()
	visited := make([]bool, w*h)
	growthCap := 3 * maxRegionSize

	colorKey := func(idx int) uint32 {
		off := idx * 4
		key := uint32(src.Pix[off])<<24 | uint32(src.Pix[off+1])<<16 | uint32(src.Pix[off+2])<<8
		if includeAlpha {
			key |= uint32(src.Pix[off+3])
		}
		return key
	}

	var small []region
	queue := make([]int, 0, 1024)

	for start := 0; start < w*h; start++ {
		if visited[start] {
			continue
		}
		target := colorKey(start)

		queue = queue[:0]
		queue = append(queue, start)
		visited[start] = true

		reg := region{}
		borderIndex := make(map[uint32]int)

		for len(queue) > 0 && reg.size <= growthCap {
			idx := queue[0]
			queue = queue[1:]
			reg.pixels = append(reg.pixels, idx)
			reg.size++

			x, y := idx%w, idx/w
			for _, d := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				nidx := ny*w + nx
				nkey := colorKey(nidx)
				if nkey == target {
					if !visited[nidx] {
						visited[nidx] = true
						queue = append(queue, nidx)
					}
					continue
				}
				if pos, ok := borderIndex[nkey]; ok {
					reg.borderColors[pos].count++
				} else {
					borderIndex[nkey] = len(reg.borderColors)
					reg.borderColors = append(reg.borderColors, colorCount{key: nkey, count: 1})
				}
			}
		}

		// Oversized component: drain the rest of it, marking visited only.
		if reg.size > growthCap {
			for len(queue) > 0 {
				idx := queue[0]
				queue = queue[1:]
				x, y := idx%w, idx/w
				for _, d := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
					nx, ny := x+d[0], y+d[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					nidx := ny*w + nx
					if !visited[nidx] && colorKey(nidx) == target {
						visited[nidx] = true
						queue = append(queue, nidx)
					}
				}
			}
			continue
		}

		if reg.size < maxRegionSize && len(reg.borderColors) > 0 {
			small = append(small, reg)
		}
	}

	sort.SliceStable(small, func(i, j int) bool { return small[i].size < small[j].size })

	for _, reg := range small {
		best := reg.borderColors[0]
		for _, bc := range reg.borderColors[1:] {
			if bc.count > best.count {
				best = bc
			}
		}
		r := uint8(best.key >> 24)
		g := uint8(best.key >> 16)
		bl := uint8(best.key >> 8)
		for _, idx := range reg.pixels {
			off := idx * 4
			b.Pix[off] = r
			b.Pix[off+1] = g
			b.Pix[off+2] = bl
			if includeAlpha {
				b.Pix[off+3] = uint8(best.key)
			}
		}
	}
	return nil
}
