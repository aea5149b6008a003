// Package filters implements the pixel-level cleanup passes that run between
// segmentation and edge detection.
//
// The passes fall into two groups:
//
//   - Convolution-style filters (Grayscale, GaussianBlur, Median) that read a
//     neighborhood around each pixel. All of them clamp out-of-range samples
//     to the nearest border pixel rather than zero-padding, which avoids the
//     darkened-border artifacts zero padding produces.
//
//   - Region passes (RemoveSmallRegions, RemoveSmallHoles, Pixelate) that
//     erase speckle noise left behind by color clustering. Both removal
//     passes flood-fill 4-connected components over a snapshot of the input
//     and only then repaint, so the result does not depend on scan order.
//
// Every function here is deterministic and operates on a single buffer; no
// filter spawns goroutines.
package filters
