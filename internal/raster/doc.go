// Package raster provides the in-memory pixel buffers that every pipeline
// stage reads and writes.
//
// The central type is Buffer, a flat RGBA raster with one byte per channel,
// row-major, top-to-bottom. Gray is the single-channel companion used by the
// blur and gradient stages. Both types expose their backing slices directly
// so that per-pixel loops avoid interface dispatch.
//
// # Coordinate System
//
// All pixel coordinates are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Ownership
//
// A Buffer is owned by exactly one pipeline run at a time. Stages borrow it,
// mutate it in place or replace it, and hand it back; nothing in this package
// locks. Concurrent runs must operate on independent buffers.
package raster
