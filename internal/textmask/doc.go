// Package textmask blanks map labels before edge detection.
//
// Room names, numbers, and DM notes drawn on a map have high-contrast
// strokes that every edge detector happily turns into tangles of spurious
// walls. This package locates word bounding boxes with Tesseract OCR and
// repaints each box with the average color of the pixels bordering it, so
// the later stages see smooth floor where the text was.
//
// The OCR backend needs cgo and the native Tesseract libraries and is only
// compiled on Linux with cgo enabled; other builds get a no-op locator that
// reports ErrUnavailable, and the pipeline simply skips the stage.
package textmask
