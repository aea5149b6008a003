// Package walls extracts straight wall segments from a binary edge mask and
// consolidates already-placed wall records.
//
// Identify scans the mask in grid-cell tiles and emits one axis-aligned unit
// segment per tile edge that carries a strong edge run. Adjacent tiles often
// emit overlapping segments; that is expected, and Merge is the pass that
// collapses them. Merge works on committed wall records rather than on the
// pixel pipeline: it links segments that share a rounded endpoint and a
// direction bucket, then collapses each connected component to its bounding
// segment.
//
// Coordinates throughout are image pixels at the pipeline's working
// resolution; ToScene converts a finished set into scene space.
package walls
