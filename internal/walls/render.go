package walls

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
)

// Render draws segments over img and returns the composite, for debug output
// and for eyeballing detection quality before committing walls to a scene.
//
// colorHex is "#RRGGBB" or "#RRGGBBAA"; an unparsable value falls back to
// opaque red.
func Render(img image.Image, segments []Segment, colorHex string) *image.RGBA {
	lineColor, err := parseHexColor(colorHex)
	if err != nil {
		lineColor = color.RGBA{255, 0, 0, 255}
	}

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for _, s := range segments {
		drawLine(out, s, lineColor)
	}
	return out
}

// drawLine rasterizes one segment by stepping along its longer axis.
func drawLine(img *image.RGBA, s Segment, c color.RGBA) {
	dx := s.X2 - s.X1
	dy := s.Y2 - s.Y1
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		img.Set(int(s.X1), int(s.Y1), c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		img.Set(int(math.Round(s.X1+dx*t)), int(math.Round(s.Y1+dy*t)), c)
	}
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080".
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
