//go:build !cgo || !linux

package textmask

import "image"

// findWords has no OCR backend on this platform.
func findWords(_ image.Image) ([]Region, error) {
	return nil, ErrUnavailable
}
