// Package edges turns a blurred grayscale raster into a binary edge mask
// (0 or 255 per pixel).
//
// Two interchangeable detectors are provided:
//
//   - DetectCanny: Sobel gradients, non-maximum suppression along the
//     quantized gradient direction, then two-threshold hysteresis. The
//     classic choice for photographic or painterly maps.
//
//   - DetectKovalevsky: a 2x2 Roberts-cross gradient with a single
//     threshold, optional Zhang-Suen thinning, and a connectivity pass that
//     recovers thin single-pixel structure. Cheaper and noticeably better on
//     pixelated or grid-quantized map art, where Canny's suppression tends
//     to erase one-pixel-wide walls.
//
// Both detectors are pure functions of their inputs; given the same raster
// and thresholds they always produce the same mask. Combine merges two masks
// with a lighten composite so an interior-wall pass can be overlaid on a
// perimeter pass.
package edges
