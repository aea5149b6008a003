package walls

import "math"

// Segment is one straight wall: two endpoints in pixel or scene space.
// Segments are immutable once produced; passes build new slices instead of
// editing in place.
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.X2-s.X1, s.Y2-s.Y1)
}

// directionBucket quantizes the segment's orientation into ~6 degree bands
// over a half-turn. Two segments merge only when their buckets match, which
// keeps perpendicular and near-parallel walls from collapsing into each
// other. The constant 30 is load-bearing: detected maps were tuned against
// it, so it is not derived from anything.
func (s Segment) directionBucket() int {
	dy := math.Abs(s.Y2 - s.Y1)
	dx := math.Abs(s.X2 - s.X1)
	return int(math.Round(math.Atan2(dy, dx) * 30))
}

// Wall is a Segment plus the placement attributes a tabletop scene attaches
// to committed walls. Only plain walls (no door, nothing hidden, not
// terrain) participate in merging; anything else passes through untouched.
type Wall struct {
	Segment

	Door    bool `json:"door,omitempty"`
	Hidden  bool `json:"hidden,omitempty"`
	Terrain bool `json:"terrain,omitempty"`
}

// Plain reports whether the wall has only default attributes and is
// therefore eligible for merging.
func (w Wall) Plain() bool {
	return !w.Door && !w.Hidden && !w.Terrain
}

// ToScene maps pixel-space segments into scene space: multiply by scale,
// then add the scene offset. The pipeline's caller owns the choice of both.
func ToScene(segments []Segment, scale, offsetX, offsetY float64) []Segment {
	out := make([]Segment, len(segments))
	for i, s := range segments {
		out[i] = Segment{
			X1: s.X1*scale + offsetX,
			Y1: s.Y1*scale + offsetY,
			X2: s.X2*scale + offsetX,
			Y2: s.Y2*scale + offsetY,
		}
	}
	return out
}
