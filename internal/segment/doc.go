// Package segment reduces a map image to a small set of flat colors and
// splits it into interior and exterior.
//
// KMeans clusters pixel colors with k-means++ seeding and repaints the image
// with its centroid palette. SeparateInside then classifies the clustered
// colors by how often they appear along the image border: colors dominating
// the border are assumed to be the void outside the map and become black,
// everything else becomes white. Downstream edge detection runs on that
// binary mask.
//
// Clustering is the only randomized stage in the pipeline. Callers that need
// reproducible output pass a seeded *rand.Rand; a nil source falls back to a
// time-seeded one.
package segment
