package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrEmptyBuffer is returned when an operation receives a nil or zero-sized
// pixel buffer.
var ErrEmptyBuffer = errors.New("raster: empty buffer")

// Buffer is a mutable RGBA raster: Width*Height pixels, four bytes each,
// row-major from the top-left corner.
type Buffer struct {
	Width  int
	Height int

	// Pix holds the samples in R, G, B, A order. Its length is always
	// Width*Height*4.
	Pix []uint8
}

// New allocates a zeroed buffer of the given dimensions.
//
// Returns ErrEmptyBuffer if either dimension is not positive.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyBuffer, width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}, nil
}

// FromImage copies an image.Image into a new Buffer.
//
// The source bounds are normalized so that the buffer origin is (0,0)
// regardless of the image's Min point. Color values are reduced to 8 bits
// per channel.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := &Buffer{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    make([]uint8, bounds.Dx()*bounds.Dy()*4),
	}

	// Fast path for the common decoded types.
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+b.Width*4]
			copy(b.Pix[y*b.Width*4:], row)
		}
		return b
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			b.Pix[i] = c.R
			b.Pix[i+1] = c.G
			b.Pix[i+2] = c.B
			b.Pix[i+3] = c.A
			i += 4
		}
	}
	return b
}

// ToImage copies the buffer into a standard *image.NRGBA.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		copy(img.Pix[y*img.Stride:], b.Pix[y*b.Width*4:(y+1)*b.Width*4])
	}
	return img
}

// Clone returns an independent deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Offset returns the index of pixel (x,y)'s red sample in Pix.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// RGBA returns the four channel values of pixel (x,y).
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	i := b.Offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// SetRGBA overwrites the four channel values of pixel (x,y).
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) {
	i := b.Offset(x, y)
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// Validate reports whether the buffer is usable by a pipeline stage.
func (b *Buffer) Validate() error {
	if b == nil || b.Width <= 0 || b.Height <= 0 {
		return ErrEmptyBuffer
	}
	if len(b.Pix) != b.Width*b.Height*4 {
		return fmt.Errorf("raster: pixel slice length %d does not match %dx%d",
			len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// Gray is a single-channel luminance raster with one byte per pixel.
type Gray struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGray allocates a zeroed grayscale raster.
func NewGray(width, height int) (*Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyBuffer, width, height)
	}
	return &Gray{Width: width, Height: height, Pix: make([]uint8, width*height)}, nil
}

// At returns the luminance of pixel (x,y).
func (g *Gray) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set overwrites the luminance of pixel (x,y).
func (g *Gray) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// Clone returns an independent deep copy.
func (g *Gray) Clone() *Gray {
	pix := make([]uint8, len(g.Pix))
	copy(pix, g.Pix)
	return &Gray{Width: g.Width, Height: g.Height, Pix: pix}
}

// ToImage copies the raster into a standard *image.Gray.
func (g *Gray) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		copy(img.Pix[y*img.Stride:], g.Pix[y*g.Width:(y+1)*g.Width])
	}
	return img
}

// Validate reports whether the raster is usable by a pipeline stage.
func (g *Gray) Validate() error {
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return ErrEmptyBuffer
	}
	if len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("raster: gray slice length %d does not match %dx%d",
			len(g.Pix), g.Width, g.Height)
	}
	return nil
}

// Clamp constrains v to the range [lo, hi]. Shared boundary policy for every
// convolution-like operation in the pipeline: samples outside the raster are
// clamped to the nearest border pixel, never zero-padded.
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
