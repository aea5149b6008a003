//go:build cgo && linux

package textmask

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// findWords runs Tesseract over the image and returns word boxes above the
// confidence floor.
func findWords(img image.Image) ([]Region, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("textmask: failed to encode image for ocr: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("textmask: failed to set ocr image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("textmask: ocr failed: %w", err)
	}

	regions := make([]Region, 0, len(boxes))
	for _, box := range boxes {
		conf := box.Confidence / 100.0
		if conf < minConfidence || box.Word == "" {
			continue
		}
		regions = append(regions, Region{
			X1:         box.Box.Min.X,
			Y1:         box.Box.Min.Y,
			X2:         box.Box.Max.X,
			Y2:         box.Box.Max.Y,
			Text:       box.Word,
			Confidence: conf,
		})
	}
	return regions, nil
}
