package walls

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Simplify reduces chains of connected segments with Douglas-Peucker
// simplification and re-emits them as segments.
//
// Segments are grouped by shared rounded endpoints (direction ignored, so a
// zig-zag diagonal staircase counts as one chain). Only open chains whose
// interior endpoints join exactly two segments are simplified; branching
// junctions and loops pass through unchanged, since collapsing those would
// change room topology. With tolerance <= 0 the input is returned as is.
func Simplify(segments []Segment, tolerance float64) []Segment {
	if tolerance <= 0 || len(segments) == 0 {
		return segments
	}

	type point struct{ x, y int }
	key := func(x, y float64) point {
		return point{int(math.Round(x)), int(math.Round(y))}
	}

	// Endpoint -> indices of segments touching it.
	touch := make(map[point][]int, len(segments)*2)
	for i, s := range segments {
		touch[key(s.X1, s.Y1)] = append(touch[key(s.X1, s.Y1)], i)
		touch[key(s.X2, s.Y2)] = append(touch[key(s.X2, s.Y2)], i)
	}

	used := make([]bool, len(segments))
	var out []Segment

	// Walk open chains starting from degree-1 endpoints.
	for i, s := range segments {
		if used[i] {
			continue
		}
		startKey := key(s.X1, s.Y1)
		endKey := key(s.X2, s.Y2)
		if len(touch[startKey]) != 1 && len(touch[endKey]) != 1 {
			continue // interior of a chain, a junction, or a loop
		}

		// Orient so we start at the degree-1 end.
		cur := i
		at := startKey
		first := orb.Point{s.X1, s.Y1}
		if len(touch[startKey]) != 1 {
			at = endKey
			first = orb.Point{s.X2, s.Y2}
		}

		line := orb.LineString{first}
		for {
			used[cur] = true
			sc := segments[cur]
			next := key(sc.X2, sc.Y2)
			far := orb.Point{sc.X2, sc.Y2}
			if next == at {
				next = key(sc.X1, sc.Y1)
				far = orb.Point{sc.X1, sc.Y1}
			}
			line = append(line, far)

			candidates := touch[next]
			if len(candidates) != 2 {
				break // chain end or junction
			}
			step := candidates[0]
			if step == cur {
				step = candidates[1]
			}
			if used[step] {
				break
			}
			cur = step
			at = next
		}

		reduced := simplify.DouglasPeucker(tolerance).Simplify(line.Clone()).(orb.LineString)
		for p := 1; p < len(reduced); p++ {
			out = append(out, Segment{
				X1: reduced[p-1][0], Y1: reduced[p-1][1],
				X2: reduced[p][0], Y2: reduced[p][1],
			})
		}
	}

	// Everything not consumed by a chain walk passes through unchanged.
	for i, s := range segments {
		if !used[i] {
			out = append(out, s)
		}
	}
	return out
}
