package filters

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mapscribe/wallseeker/internal/raster"
)

func TestGrayscale_RangeAndLength(t *testing.T) {
	b := solidBuffer(t, 8, 6, 50, 100, 150, 255)
	b.SetRGBA(3, 3, 255, 255, 255, 255)
	b.SetRGBA(4, 4, 0, 0, 0, 255)

	gray, err := Grayscale(b)
	if err != nil {
		t.Fatalf("Grayscale failed: %v", err)
	}
	if len(gray.Pix) != 8*6 {
		t.Fatalf("output length: got %d, want %d", len(gray.Pix), 8*6)
	}
	if gray.At(3, 3) != 255 {
		t.Errorf("white pixel: got %d, want 255", gray.At(3, 3))
	}
	if gray.At(4, 4) != 0 {
		t.Errorf("black pixel: got %d, want 0", gray.At(4, 4))
	}
	// 0.299*50 + 0.587*100 + 0.114*150 = 90.75, truncated to 90.
	if gray.At(0, 0) != 90 {
		t.Errorf("luminance: got %d, want 90", gray.At(0, 0))
	}
}

func TestGrayscale_EmptyBuffer(t *testing.T) {
	if _, err := Grayscale(nil); !errors.Is(err, raster.ErrEmptyBuffer) {
		t.Errorf("nil buffer: got %v, want ErrEmptyBuffer", err)
	}
}

func TestGaussianBlur_ZeroSigmaIsIdentity(t *testing.T) {
	g := gradientGray(t, 10, 10)

	out, err := GaussianBlur(g, 0)
	if err != nil {
		t.Fatalf("GaussianBlur failed: %v", err)
	}
	if !bytes.Equal(out.Pix, g.Pix) {
		t.Error("sigma=0 should return the input unchanged")
	}
}

func TestGaussianBlur_TinySigmaNearIdentity(t *testing.T) {
	g := gradientGray(t, 12, 12)

	out, err := GaussianBlur(g, 0.05)
	if err != nil {
		t.Fatalf("GaussianBlur failed: %v", err)
	}
	// With sigma -> 0 the kernel collapses onto the center tap, so interior
	// pixels should be within rounding of the original.
	for y := 1; y < 11; y++ {
		for x := 1; x < 11; x++ {
			diff := int(out.At(x, y)) - int(g.At(x, y))
			if diff < -1 || diff > 1 {
				t.Fatalf("pixel (%d,%d) moved by %d with minimal kernel", x, y, diff)
			}
		}
	}
}

func TestGaussianBlur_SmoothsStep(t *testing.T) {
	g, err := raster.NewGray(20, 5)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 5; y++ {
		for x := 10; x < 20; x++ {
			g.Set(x, y, 255)
		}
	}

	out, err := GaussianBlur(g, 2.0)
	if err != nil {
		t.Fatalf("GaussianBlur failed: %v", err)
	}
	// The hard 0/255 step must become a ramp: the pixels either side of the
	// boundary end up strictly between the extremes.
	if v := out.At(9, 2); v == 0 {
		t.Errorf("left of step stayed 0, expected smoothing")
	}
	if v := out.At(10, 2); v == 255 {
		t.Errorf("right of step stayed 255, expected smoothing")
	}
}

func TestMedian_KernelOneIsIdentity(t *testing.T) {
	b := noiseBuffer(t, 9, 9)
	want := b.Clone()

	if err := Median(b, 1); err != nil {
		t.Fatalf("Median failed: %v", err)
	}
	if !bytes.Equal(b.Pix, want.Pix) {
		t.Error("kernelSize=1 should be the identity")
	}
}

func TestMedian_EvenKernelCorrected(t *testing.T) {
	b := noiseBuffer(t, 9, 9)
	// kernelSize=2 is corrected to 3; this must not error and must behave
	// exactly like a 3x3 median.
	ref := b.Clone()
	if err := Median(b, 2); err != nil {
		t.Fatalf("Median with even kernel failed: %v", err)
	}
	if err := Median(ref, 3); err != nil {
		t.Fatalf("Median reference failed: %v", err)
	}
	if !bytes.Equal(b.Pix, ref.Pix) {
		t.Error("kernelSize=2 should behave like kernelSize=3")
	}
}

func TestMedian_RemovesSpeckle(t *testing.T) {
	b := solidBuffer(t, 9, 9, 200, 200, 200, 255)
	b.SetRGBA(4, 4, 0, 0, 0, 255) // lone dark speckle

	if err := Median(b, 3); err != nil {
		t.Fatalf("Median failed: %v", err)
	}
	r, g, bl, _ := b.RGBA(4, 4)
	if r != 200 || g != 200 || bl != 200 {
		t.Errorf("speckle survived: got (%d,%d,%d)", r, g, bl)
	}
}

func TestMedian_TakesWholeTuple(t *testing.T) {
	// Two colors with interleaved luminance: the output of a whole-tuple
	// median can only ever be one of the input colors, never a channel mix.
	b := solidBuffer(t, 5, 5, 10, 200, 10, 255)
	for x := 0; x < 5; x++ {
		b.SetRGBA(x, 2, 200, 10, 200, 255)
	}

	if err := Median(b, 3); err != nil {
		t.Fatalf("Median failed: %v", err)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			r, g, bl, _ := b.RGBA(x, y)
			greenish := r == 10 && g == 200 && bl == 10
			purplish := r == 200 && g == 10 && bl == 200
			if !greenish && !purplish {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d) is not an input color", x, y, r, g, bl)
			}
		}
	}
}

func TestMedian_InvalidKernel(t *testing.T) {
	b := solidBuffer(t, 3, 3, 0, 0, 0, 255)
	if err := Median(b, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("kernelSize=0: got %v, want ErrInvalidArgument", err)
	}
}

func TestRemoveSmallRegions_RepaintsSpeck(t *testing.T) {
	b := solidBuffer(t, 10, 10, 255, 255, 255, 255)
	// 2x2 red speck in a white field.
	for y := 4; y < 6; y++ {
		for x := 4; x < 6; x++ {
			b.SetRGBA(x, y, 255, 0, 0, 255)
		}
	}

	if err := RemoveSmallRegions(b, 10, false); err != nil {
		t.Fatalf("RemoveSmallRegions failed: %v", err)
	}
	for y := 4; y < 6; y++ {
		for x := 4; x < 6; x++ {
			r, g, bl, _ := b.RGBA(x, y)
			if r != 255 || g != 255 || bl != 255 {
				t.Fatalf("speck pixel (%d,%d) not repainted: (%d,%d,%d)", x, y, r, g, bl)
			}
		}
	}
}

func TestRemoveSmallRegions_Idempotent(t *testing.T) {
	b := solidBuffer(t, 12, 12, 30, 30, 30, 255)
	// Two large regions split by a vertical boundary, both well above the
	// size cutoff.
	for y := 0; y < 12; y++ {
		for x := 6; x < 12; x++ {
			b.SetRGBA(x, y, 220, 220, 220, 255)
		}
	}

	if err := RemoveSmallRegions(b, 5, false); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	after := b.Clone()
	if err := RemoveSmallRegions(b, 5, false); err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if !bytes.Equal(b.Pix, after.Pix) {
		t.Error("second pass changed an image with no small regions")
	}
}

func TestRemoveSmallRegions_MostFrequentBorderColor(t *testing.T) {
	b := solidBuffer(t, 9, 3, 0, 0, 255, 255) // blue field
	// Green column on the left so the speck borders both colors, blue more.
	for y := 0; y < 3; y++ {
		b.SetRGBA(0, y, 0, 255, 0, 255)
	}
	b.SetRGBA(1, 1, 255, 0, 0, 255) // red speck: 1 green neighbor, 3 blue

	if err := RemoveSmallRegions(b, 3, false); err != nil {
		t.Fatalf("RemoveSmallRegions failed: %v", err)
	}
	r, g, bl, _ := b.RGBA(1, 1)
	if r != 0 || g != 0 || bl != 255 {
		t.Errorf("speck should take the dominant border color blue, got (%d,%d,%d)", r, g, bl)
	}
}

func TestRemoveSmallRegions_CappedFloodKeepsLargeRegionWhole(t *testing.T) {
	// A red strip well past the flood growth cap (3*4=12). The flood stops
	// collecting partway along; the tail must still count as part of the
	// large strip, not as a fresh region small enough to repaint.
	b := solidBuffer(t, 20, 3, 255, 255, 255, 255)
	for x := 1; x <= 15; x++ {
		b.SetRGBA(x, 1, 255, 0, 0, 255)
	}
	want := b.Clone()

	if err := RemoveSmallRegions(b, 4, false); err != nil {
		t.Fatalf("RemoveSmallRegions failed: %v", err)
	}
	if !bytes.Equal(b.Pix, want.Pix) {
		t.Error("fragment of a capped large region was repainted")
	}
}

func TestRemoveSmallHoles_FillsWithBorderAverage(t *testing.T) {
	b := solidBuffer(t, 9, 9, 200, 150, 100, 255)
	// 2x2 near-black hole.
	for y := 3; y < 5; y++ {
		for x := 3; x < 5; x++ {
			b.SetRGBA(x, y, 5, 5, 5, 200)
		}
	}

	if err := RemoveSmallHoles(b, 10, 60); err != nil {
		t.Fatalf("RemoveSmallHoles failed: %v", err)
	}
	r, g, bl, a := b.RGBA(3, 3)
	if r != 200 || g != 150 || bl != 100 {
		t.Errorf("hole fill: got (%d,%d,%d), want border average (200,150,100)", r, g, bl)
	}
	if a != 200 {
		t.Errorf("alpha must be untouched: got %d, want 200", a)
	}
}

func TestRemoveSmallHoles_KeepsLargeDarkAreas(t *testing.T) {
	b := solidBuffer(t, 10, 10, 255, 255, 255, 255)
	for y := 0; y < 10; y++ {
		for x := 0; x < 5; x++ {
			b.SetRGBA(x, y, 0, 0, 0, 255)
		}
	}

	if err := RemoveSmallHoles(b, 10, 60); err != nil {
		t.Fatalf("RemoveSmallHoles failed: %v", err)
	}
	r, _, _, _ := b.RGBA(0, 0)
	if r != 0 {
		t.Error("a 50-pixel dark area above maxHoleSize must survive")
	}
}

func TestPixelate_KeepsPalette(t *testing.T) {
	// Left half black, right half white. Nearest-neighbor pixelization must
	// not introduce blended colors, and each row stays black-then-white.
	b := solidBuffer(t, 16, 8, 255, 255, 255, 255)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b.SetRGBA(x, y, 0, 0, 0, 255)
		}
	}

	if err := Pixelate(b, 4); err != nil {
		t.Fatalf("Pixelate failed: %v", err)
	}
	for y := 0; y < 8; y++ {
		seenWhite := false
		for x := 0; x < 16; x++ {
			r, g, bl, _ := b.RGBA(x, y)
			switch {
			case r == 0 && g == 0 && bl == 0:
				if seenWhite {
					t.Fatalf("row %d: black after white at x=%d", y, x)
				}
			case r == 255 && g == 255 && bl == 255:
				seenWhite = true
			default:
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d) is a blend", x, y, r, g, bl)
			}
		}
	}
}

func TestPixelate_BlockOneIsIdentity(t *testing.T) {
	b := noiseBuffer(t, 6, 6)
	want := b.Clone()
	if err := Pixelate(b, 1); err != nil {
		t.Fatalf("Pixelate failed: %v", err)
	}
	if !bytes.Equal(b.Pix, want.Pix) {
		t.Error("blockSize=1 should be the identity")
	}
}

// --- test fixtures ---

func solidBuffer(t *testing.T, w, h int, r, g, b, a uint8) *raster.Buffer {
	t.Helper()
	buf, err := raster.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
		buf.Pix[i+3] = a
	}
	return buf
}

func noiseBuffer(t *testing.T, w, h int) *raster.Buffer {
	t.Helper()
	buf, err := raster.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	// Deterministic pseudo-noise; no RNG needed.
	for i := range buf.Pix {
		buf.Pix[i] = uint8((i*37 + 11) % 251)
	}
	for i := 3; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = 255
	}
	return buf
}

func gradientGray(t *testing.T, w, h int) *raster.Gray {
	t.Helper()
	g, err := raster.NewGray(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, uint8((x*255)/(w-1)))
		}
	}
	return g
}
