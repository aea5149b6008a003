package segment

import (
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSL is a color in hue/saturation/lightness space, the representation map
// authors tend to think in when judging a reported palette.
type HSL struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// PaletteEntry describes one cluster of the segmented image in several
// color representations plus its population share.
type PaletteEntry struct {
	Hex   string  `json:"hex"`   // "#rrggbb"
	R     uint8   `json:"r"`     // Red component (0-255)
	G     uint8   `json:"g"`     // Green component (0-255)
	B     uint8   `json:"b"`     // Blue component (0-255)
	HSL   HSL     `json:"hsl"`   // HSL representation
	Share float64 `json:"share"` // Fraction of image pixels in this cluster
}

// Palette converts final k-means centroids into a report sorted by
// descending population share. Clusters that ended up empty are omitted.
func Palette(centroids []Centroid) []PaletteEntry {
	total := 0
	for _, c := range centroids {
		total += c.Count
	}
	if total == 0 {
		return nil
	}

	entries := make([]PaletteEntry, 0, len(centroids))
	for _, c := range centroids {
		if c.Count == 0 {
			continue
		}
		col := colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}.Clamped()
		hue, sat, lum := col.Hsl()
		r, g, b := col.RGB255()
		entries = append(entries, PaletteEntry{
			Hex: col.Hex(),
			R:   r,
			G:   g,
			B:   b,
			HSL: HSL{
				H: int(math.Round(hue)),
				S: int(math.Round(sat * 100)),
				L: int(math.Round(lum * 100)),
			},
			Share: float64(c.Count) / float64(total),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Share > entries[j].Share })
	return entries
}

// SimilarColors reports whether two palette entries are perceptually close,
// using distance in Lab space. Used for diagnostics when a clustered map
// ends up with near-duplicate clusters, which usually means the cluster
// count was set too high for the art style.
func SimilarColors(a, b PaletteEntry, tolerance float64) bool {
	ca, err := colorful.Hex(a.Hex)
	if err != nil {
		return false
	}
	cb, err := colorful.Hex(b.Hex)
	if err != nil {
		return false
	}
	return ca.DistanceLab(cb) < tolerance
}
