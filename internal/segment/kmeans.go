package segment

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/mapscribe/wallseeker/internal/raster"
)

// ErrInvalidArgument is returned for out-of-range numeric parameters such
// as a non-positive cluster count or a threshold fraction above one.
var ErrInvalidArgument = errors.New("segment: invalid argument")

// Centroid is the mean RGB color of one k-means cluster plus the number of
// pixels assigned to it on the final iteration.
type Centroid struct {
	R, G, B float64
	Count   int
}

// KMeansOptions configures color clustering.
type KMeansOptions struct {
	// Clusters is k, the number of colors the image is reduced to.
	Clusters int

	// MaxIterations bounds the assign/update loop. Hitting the bound without
	// converging is not an error; the best centroids so far are used.
	MaxIterations int

	// ConvergenceThreshold stops iteration once every centroid moves by at
	// most this Euclidean distance in RGB space.
	ConvergenceThreshold float64

	// Rand supplies the randomness for k-means++ seeding. Nil means a
	// time-seeded source, which makes results vary between runs.
	Rand *rand.Rand
}

// DefaultKMeansOptions returns the clustering parameters used by the
// pipeline unless overridden.
func DefaultKMeansOptions() KMeansOptions {
	return KMeansOptions{
		Clusters:             6,
		MaxIterations:        50,
		ConvergenceThreshold: 1.0,
	}
}

// KMeans clusters the buffer's pixels in RGB space and repaints every pixel
// with its cluster's centroid color, in place. Alpha is preserved.
//
// Centroids are seeded with k-means++: the first is a uniformly random
// pixel, each further one is sampled with probability proportional to the
// squared distance to its nearest existing centroid. Assignment uses plain
// Euclidean distance with ties going to the lowest-index centroid. A cluster
// that loses all members keeps a zero centroid rather than being reseeded.
//
// Returns the final centroids ordered by seeding index.
func KMeans(b *raster.Buffer, opts KMeansOptions) ([]Centroid, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if opts.Clusters <= 0 {
		return nil, fmt.Errorf("%w: cluster count %d must be positive", ErrInvalidArgument, opts.Clusters)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 50
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	n := b.Width * b.Height
	k := opts.Clusters
	if k > n {
		k = n
	}

	centroids := seedPlusPlus(b, k, rng)
	assign := make([]int, n)

	for iter := 0; iter < opts.MaxIterations; iter++ {
		// Assignment step.
		for i := 0; i < n; i++ {
			off := i * 4
			r := float64(b.Pix[off])
			g := float64(b.Pix[off+1])
			bl := float64(b.Pix[off+2])

			best, bestDist := 0, math.MaxFloat64
			for c := range centroids {
				d := sqDist(r, g, bl, centroids[c].R, centroids[c].G, centroids[c].B)
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			assign[i] = best
		}

		// Update step: channel-wise means of the assigned pixels.
		next := make([]Centroid, len(centroids))
		for i := 0; i < n; i++ {
			off := i * 4
			c := &next[assign[i]]
			c.R += float64(b.Pix[off])
			c.G += float64(b.Pix[off+1])
			c.B += float64(b.Pix[off+2])
			c.Count++
		}
		maxMove := 0.0
		for c := range next {
			if next[c].Count == 0 {
				// Empty cluster: collapse to the zero centroid, no reseeding.
				continue
			}
			cnt := float64(next[c].Count)
			next[c].R /= cnt
			next[c].G /= cnt
			next[c].B /= cnt
			move := math.Sqrt(sqDist(next[c].R, next[c].G, next[c].B,
				centroids[c].R, centroids[c].G, centroids[c].B))
			if move > maxMove {
				maxMove = move
			}
		}
		centroids = next

		if maxMove <= opts.ConvergenceThreshold {
			break
		}
	}

	// Repaint with rounded centroid colors; alpha passes through.
	for i := 0; i < n; i++ {
		off := i * 4
		c := centroids[assign[i]]
		b.Pix[off] = uint8(math.Round(c.R))
		b.Pix[off+1] = uint8(math.Round(c.G))
		b.Pix[off+2] = uint8(math.Round(c.B))
	}
	return centroids, nil
}

// seedPlusPlus picks k initial centroids with the k-means++ scheme.
func seedPlusPlus(b *raster.Buffer, k int, rng *rand.Rand) []Centroid {
	n := b.Width * b.Height
	centroids := make([]Centroid, 0, k)

	pick := func(i int) Centroid {
		off := i * 4
		return Centroid{
			R: float64(b.Pix[off]),
			G: float64(b.Pix[off+1]),
			B: float64(b.Pix[off+2]),
		}
	}
	centroids = append(centroids, pick(rng.Intn(n)))

	dist := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		latest := centroids[len(centroids)-1]
		for i := 0; i < n; i++ {
			off := i * 4
			d := sqDist(float64(b.Pix[off]), float64(b.Pix[off+1]), float64(b.Pix[off+2]),
				latest.R, latest.G, latest.B)
			if len(centroids) == 1 || d < dist[i] {
				dist[i] = d
			}
			total += dist[i]
		}
		if total == 0 {
			// Every pixel coincides with a centroid; further seeds add nothing.
			centroids = append(centroids, centroids[len(centroids)-1])
			continue
		}
		target := rng.Float64() * total
		idx := n - 1
		for i := 0; i < n; i++ {
			target -= dist[i]
			if target <= 0 {
				idx = i
				break
			}
		}
		centroids = append(centroids, pick(idx))
	}
	return centroids
}

func sqDist(r1, g1, b1, r2, g2, b2 float64) float64 {
	dr := r1 - r2
	dg := g1 - g2
	db := b1 - b2
	return dr*dr + dg*dg + db*db
}
