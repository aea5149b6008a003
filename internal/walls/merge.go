package walls

import "math"

// endpointKey identifies a quantized segment endpoint: rounded coordinates
// plus the segment's direction bucket. Two segments link only when they
// share a key, so a corner where a horizontal and a vertical wall meet does
// not merge them; their buckets differ.
type endpointKey struct {
	x, y int
	dir  int
}

// Merge collapses chains of collinear, endpoint-adjacent plain walls into
// single spanning walls.
//
// Walls with non-default attributes (doors, hidden walls, terrain walls) are
// excluded up front and returned unchanged after the merged plain walls.
// The plain walls form a graph: nodes are quantized endpoints, a wall
// connects its two endpoints, and connected components are discovered with a
// depth-first traversal. Each component becomes one wall spanning the
// axis-aligned bounding box of its member endpoints. That collapse assumes
// components are near-collinear chains, which the shared direction bucket
// guarantees well enough for grid-extracted walls; it is a deliberate
// simplification, not polyline fitting.
func Merge(input []Wall) []Wall {
	var plain, special []Wall
	for _, w := range input {
		if w.Plain() {
			plain = append(plain, w)
		} else {
			special = append(special, w)
		}
	}

	adjacency := make(map[endpointKey][]int, len(plain)*2)
	for i, w := range plain {
		for _, key := range w.keys() {
			adjacency[key] = append(adjacency[key], i)
		}
	}

	visited := make([]bool, len(plain))
	out := make([]Wall, 0, len(plain)+len(special))
	stack := make([]int, 0, 16)

	for start := range plain {
		if visited[start] {
			continue
		}
		stack = append(stack[:0], start)
		visited[start] = true

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			s := plain[i].Segment
			minX = math.Min(minX, math.Min(s.X1, s.X2))
			minY = math.Min(minY, math.Min(s.Y1, s.Y2))
			maxX = math.Max(maxX, math.Max(s.X1, s.X2))
			maxY = math.Max(maxY, math.Max(s.Y1, s.Y2))

			for _, key := range plain[i].keys() {
				for _, j := range adjacency[key] {
					if !visited[j] {
						visited[j] = true
						stack = append(stack, j)
					}
				}
			}
		}

		out = append(out, Wall{Segment: Segment{X1: minX, Y1: minY, X2: maxX, Y2: maxY}})
	}

	return append(out, special...)
}

// keys returns the wall's two quantized endpoint keys.
func (w Wall) keys() [2]endpointKey {
	dir := w.directionBucket()
	return [2]endpointKey{
		{x: int(math.Round(w.X1)), y: int(math.Round(w.Y1)), dir: dir},
		{x: int(math.Round(w.X2)), y: int(math.Round(w.Y2)), dir: dir},
	}
}

// MergeSegments is Merge for bare segments, for callers inside the pixel
// pipeline that have no wall attributes yet.
func MergeSegments(segments []Segment) []Segment {
	wallsIn := make([]Wall, len(segments))
	for i, s := range segments {
		wallsIn[i] = Wall{Segment: s}
	}
	merged := Merge(wallsIn)
	out := make([]Segment, len(merged))
	for i, w := range merged {
		out[i] = w.Segment
	}
	return out
}
