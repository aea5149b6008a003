package walls

import (
	"errors"
	"fmt"

	"github.com/mapscribe/wallseeker/internal/raster"
)

// ErrInvalidArgument is returned for out-of-range numeric parameters such
// as a non-positive cell size.
var ErrInvalidArgument = errors.New("walls: invalid argument")

// Identify scans an edge mask in cellSize x cellSize tiles and emits one
// axis-aligned unit segment for every tile edge carrying a strong edge run.
//
// For each tile, cellSize samples are walked along the tile's top row and
// left column. A sample is bright when either the sample itself or its
// outward-adjacent neighbor (one pixel above the top row, one pixel left of
// the left column, clamped at the image border) is at or above threshold;
// the two-row check tolerates walls drawn one pixel off the grid line. When
// the longest unbroken bright run exceeds half the cell size, the whole tile
// edge becomes a segment.
//
// The output is unordered and contains duplicates where adjacent tiles both
// claim a shared edge; Merge owns deduplication.
func Identify(edge *raster.Gray, cellSize int, threshold uint8) ([]Segment, error) {
	if err := edge.Validate(); err != nil {
		return nil, err
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size %d must be positive", ErrInvalidArgument, cellSize)
	}

	w, h := edge.Width, edge.Height
	var segments []Segment

	bright := func(x, y, outX, outY int) bool {
		if edge.At(x, y) >= threshold {
			return true
		}
		return edge.At(raster.Clamp(outX, 0, w-1), raster.Clamp(outY, 0, h-1)) >= threshold
	}

	for y0 := 0; y0 < h; y0 += cellSize {
		for x0 := 0; x0 < w; x0 += cellSize {
			// Top edge: walk the tile's top row.
			run, best := 0, 0
			for i := 0; i < cellSize; i++ {
				x := x0 + i
				if x >= w {
					break
				}
				if bright(x, y0, x, y0-1) {
					run++
					if run > best {
						best = run
					}
				} else {
					run = 0
				}
			}
			if 2*best > cellSize {
				segments = append(segments, Segment{
					X1: float64(x0), Y1: float64(y0),
					X2: float64(x0 + cellSize), Y2: float64(y0),
				})
			}

			// Left edge: walk the tile's left column.
			run, best = 0, 0
			for i := 0; i < cellSize; i++ {
				y := y0 + i
				if y >= h {
					break
				}
				if bright(x0, y, x0-1, y) {
					run++
					if run > best {
						best = run
					}
				} else {
					run = 0
				}
			}
			if 2*best > cellSize {
				segments = append(segments, Segment{
					X1: float64(x0), Y1: float64(y0),
					X2: float64(x0), Y2: float64(y0 + cellSize),
				})
			}
		}
	}
	return segments, nil
}
