// Package pipeline sequences the image-analysis stages that turn a map
// image into wall segments.
//
// A run is strictly sequential: scale, optional text masking, color
// clustering, noise cleanup, inside/outside separation, edge detection,
// optional interior-wall pass, then grid wall extraction. The pipeline has
// no internal parallelism and no retries; the first stage failure aborts the
// run with a single wrapped error. Cancellation is checked between stages,
// never inside one.
//
// Merging and simplification of the produced segments are left to the
// caller, because in practice they run against walls already committed to a
// scene, not just against fresh pipeline output.
package pipeline
