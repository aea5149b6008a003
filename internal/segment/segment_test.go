package segment

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/mapscribe/wallseeker/internal/raster"
)

func TestKMeans_TwoColorImage(t *testing.T) {
	// Half pure red, half pure blue: with k=2 the centroids must land on the
	// two colors exactly and repainting must not change a pixel.
	b := twoToneBuffer(t, 20, 10)
	want := b.Clone()

	opts := DefaultKMeansOptions()
	opts.Clusters = 2
	opts.Rand = rand.New(rand.NewSource(7))

	centroids, err := KMeans(b, opts)
	if err != nil {
		t.Fatalf("KMeans failed: %v", err)
	}
	if len(centroids) != 2 {
		t.Fatalf("centroids: got %d, want 2", len(centroids))
	}
	if !bytes.Equal(b.Pix, want.Pix) {
		t.Error("two-color image should be a fixed point of 2-means")
	}
	if centroids[0].Count+centroids[1].Count != 200 {
		t.Errorf("membership counts sum to %d, want 200", centroids[0].Count+centroids[1].Count)
	}
}

func TestKMeans_DeterministicWithFixedSeed(t *testing.T) {
	a := speckledBuffer(t, 16, 16)
	b := a.Clone()

	optsA := DefaultKMeansOptions()
	optsA.Clusters = 4
	optsA.Rand = rand.New(rand.NewSource(42))
	optsB := optsA
	optsB.Rand = rand.New(rand.NewSource(42))

	if _, err := KMeans(a, optsA); err != nil {
		t.Fatalf("KMeans failed: %v", err)
	}
	if _, err := KMeans(b, optsB); err != nil {
		t.Fatalf("KMeans failed: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("identical seeds must give identical segmentations")
	}
}

func TestKMeans_ReducesPalette(t *testing.T) {
	b := speckledBuffer(t, 16, 16)

	opts := DefaultKMeansOptions()
	opts.Clusters = 3
	opts.Rand = rand.New(rand.NewSource(1))

	if _, err := KMeans(b, opts); err != nil {
		t.Fatalf("KMeans failed: %v", err)
	}

	distinct := map[[3]uint8]bool{}
	for i := 0; i < len(b.Pix); i += 4 {
		distinct[[3]uint8{b.Pix[i], b.Pix[i+1], b.Pix[i+2]}] = true
	}
	if len(distinct) > 3 {
		t.Errorf("distinct colors after 3-means: got %d, want <= 3", len(distinct))
	}
}

func TestKMeans_PreservesAlpha(t *testing.T) {
	b := twoToneBuffer(t, 8, 4)
	b.Pix[3] = 77 // one translucent pixel

	opts := DefaultKMeansOptions()
	opts.Clusters = 2
	opts.Rand = rand.New(rand.NewSource(3))

	if _, err := KMeans(b, opts); err != nil {
		t.Fatalf("KMeans failed: %v", err)
	}
	if b.Pix[3] != 77 {
		t.Errorf("alpha: got %d, want 77", b.Pix[3])
	}
}

func TestKMeans_InvalidClusterCount(t *testing.T) {
	b := twoToneBuffer(t, 4, 4)
	if _, err := KMeans(b, KMeansOptions{Clusters: 0}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("k=0: got %v, want ErrInvalidArgument", err)
	}
}

func TestKMeans_ObjectiveNonIncreasing(t *testing.T) {
	// Lloyd iterations only ever lower the clustering objective. Run the
	// same seeded clustering with a growing iteration budget and check the
	// total distance of every pixel to its nearest centroid never rises.
	src := speckledBuffer(t, 16, 16)

	objective := func(maxIter int) float64 {
		b := src.Clone()
		opts := DefaultKMeansOptions()
		opts.Clusters = 4
		opts.MaxIterations = maxIter
		opts.Rand = rand.New(rand.NewSource(7))

		centroids, err := KMeans(b, opts)
		if err != nil {
			t.Fatalf("KMeans with %d iterations failed: %v", maxIter, err)
		}

		var total float64
		for i := 0; i < len(src.Pix); i += 4 {
			best := math.Inf(1)
			for _, c := range centroids {
				if c.Count == 0 {
					continue
				}
				dr := float64(src.Pix[i]) - c.R
				dg := float64(src.Pix[i+1]) - c.G
				db := float64(src.Pix[i+2]) - c.B
				if d := dr*dr + dg*dg + db*db; d < best {
					best = d
				}
			}
			total += best
		}
		return total
	}

	prev := objective(1)
	for iters := 2; iters <= 6; iters++ {
		cur := objective(iters)
		if cur > prev+1e-6 {
			t.Fatalf("objective rose from %.3f to %.3f at %d iterations", prev, cur, iters)
		}
		prev = cur
	}
}

func TestSeparateInside_BorderColorBecomesBlack(t *testing.T) {
	// Green frame with a red room in the middle.
	b := solid(t, 12, 12, 0, 128, 0)
	for y := 3; y < 9; y++ {
		for x := 3; x < 9; x++ {
			b.SetRGBA(x, y, 180, 30, 30, 255)
		}
	}

	if err := SeparateInside(b, 0.4); err != nil {
		t.Fatalf("SeparateInside failed: %v", err)
	}

	if r, g, bl, _ := b.RGBA(0, 0); r != 0 || g != 0 || bl != 0 {
		t.Errorf("border color pixel should be black, got (%d,%d,%d)", r, g, bl)
	}
	if r, g, bl, _ := b.RGBA(5, 5); r != 255 || g != 255 || bl != 255 {
		t.Errorf("interior pixel should be white, got (%d,%d,%d)", r, g, bl)
	}
	if _, _, _, a := b.RGBA(5, 5); a != 255 {
		t.Error("separated mask must be fully opaque")
	}
}

func TestSeparateInside_MinorBorderColorStaysInside(t *testing.T) {
	// Border mostly slate, with a short run of brown (a wall clipping the
	// edge). Brown must stay "inside" because it is under the fraction.
	b := solid(t, 20, 20, 60, 60, 80)
	for x := 0; x < 4; x++ {
		b.SetRGBA(x, 0, 120, 80, 40, 255)
	}
	b.SetRGBA(10, 10, 120, 80, 40, 255)

	if err := SeparateInside(b, 0.4); err != nil {
		t.Fatalf("SeparateInside failed: %v", err)
	}
	if r, g, bl, _ := b.RGBA(10, 10); r != 255 || g != 255 || bl != 255 {
		t.Errorf("minor border color should classify as interior, got (%d,%d,%d)", r, g, bl)
	}
}

func TestSeparateInside_FractionValidation(t *testing.T) {
	b := solid(t, 4, 4, 0, 0, 0)
	if err := SeparateInside(b, 1.5); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("fraction > 1: got %v, want ErrInvalidArgument", err)
	}
}

func TestPalette_SharesAndOrder(t *testing.T) {
	centroids := []Centroid{
		{R: 255, G: 0, B: 0, Count: 25},
		{R: 0, G: 0, B: 255, Count: 75},
		{R: 0, G: 255, B: 0, Count: 0}, // emptied cluster
	}

	entries := Palette(centroids)
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2 (empty cluster omitted)", len(entries))
	}
	if entries[0].Hex != "#0000ff" {
		t.Errorf("dominant entry: got %s, want #0000ff", entries[0].Hex)
	}
	if math.Abs(entries[0].Share-0.75) > 1e-9 {
		t.Errorf("dominant share: got %v, want 0.75", entries[0].Share)
	}
	if entries[1].HSL.H != 0 || entries[1].HSL.S != 100 || entries[1].HSL.L != 50 {
		t.Errorf("red HSL: got %+v, want {0 100 50}", entries[1].HSL)
	}
}

func TestSimilarColors(t *testing.T) {
	a := PaletteEntry{Hex: "#804020"}
	b := PaletteEntry{Hex: "#814121"}
	c := PaletteEntry{Hex: "#2080e0"}

	if !SimilarColors(a, b, 0.1) {
		t.Error("near-identical browns should be similar")
	}
	if SimilarColors(a, c, 0.1) {
		t.Error("brown and blue should not be similar")
	}
}

func TestOtsuThreshold_Bimodal(t *testing.T) {
	g, err := raster.NewGray(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.Pix {
		if i%2 == 0 {
			g.Pix[i] = 30
		} else {
			g.Pix[i] = 220
		}
	}

	thr, err := OtsuThreshold(g)
	if err != nil {
		t.Fatalf("OtsuThreshold failed: %v", err)
	}
	if thr < 30 || thr >= 220 {
		t.Errorf("threshold %d does not separate the two modes", thr)
	}
}

func TestOtsuThreshold_FlatImage(t *testing.T) {
	g, err := raster.NewGray(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := range g.Pix {
		g.Pix[i] = 99
	}

	thr, err := OtsuThreshold(g)
	if err != nil {
		t.Fatalf("OtsuThreshold failed: %v", err)
	}
	if thr != 99 {
		t.Errorf("flat image threshold: got %d, want 99", thr)
	}
}

// --- test fixtures ---

func solid(t *testing.T, w, h int, r, g, b uint8) *raster.Buffer {
	t.Helper()
	buf, err := raster.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
		buf.Pix[i+3] = 255
	}
	return buf
}

func twoToneBuffer(t *testing.T, w, h int) *raster.Buffer {
	t.Helper()
	buf := solid(t, w, h, 255, 0, 0)
	for y := 0; y < h; y++ {
		for x := w / 2; x < w; x++ {
			buf.SetRGBA(x, y, 0, 0, 255, 255)
		}
	}
	return buf
}

func speckledBuffer(t *testing.T, w, h int) *raster.Buffer {
	t.Helper()
	buf, err := raster.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = uint8((i * 53) % 256)
		buf.Pix[i+1] = uint8((i * 101) % 256)
		buf.Pix[i+2] = uint8((i * 197) % 256)
		buf.Pix[i+3] = 255
	}
	return buf
}
