package pipeline

import (
	"fmt"
	"math/rand"
)

// Detector selects which edge detection algorithm a run uses.
type Detector string

const (
	// DetectorCanny is the Sobel/suppression/hysteresis detector, suited to
	// painterly and photographic map art.
	DetectorCanny Detector = "canny"

	// DetectorKovalevsky is the Roberts-cross detector with thinning, suited
	// to pixelated and grid-quantized maps.
	DetectorKovalevsky Detector = "kovalevsky"
)

// Grid is the per-run sizing derived from scene geometry: how much the
// source image is shrunk and how many working pixels span one grid cell.
// Computed once per run, read-only afterwards.
type Grid struct {
	// Scale divides source dimensions to get working dimensions.
	Scale int

	// CellSize is working pixels per grid cell; GridPixels = Scale*CellSize.
	CellSize int
}

// GridFor derives the working grid from the source image's pixels-per-cell.
//
// The working cell should be near targetCell pixels, but the scale must
// divide gridPixels evenly or tile boundaries drift off the grid as the scan
// proceeds. Starting from the scale that would hit targetCell, the scale is
// decremented until it divides evenly, bottoming out at 1 (full resolution).
func GridFor(gridPixels, targetCell int) (Grid, error) {
	if gridPixels <= 0 {
		return Grid{}, fmt.Errorf("pipeline: grid pixels %d must be positive", gridPixels)
	}
	if targetCell <= 0 {
		targetCell = DefaultTargetCellSize
	}

	scale := gridPixels / targetCell
	if scale < 1 {
		scale = 1
	}
	for scale > 1 && gridPixels%scale != 0 {
		scale--
	}
	return Grid{Scale: scale, CellSize: gridPixels / scale}, nil
}

// DefaultTargetCellSize is the working cell size GridFor aims for. Ten
// pixels per cell keeps a full battle map around megapixel scale while
// leaving enough resolution for the half-cell run threshold to be
// meaningful.
const DefaultTargetCellSize = 10

// Options configures one pipeline run. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	// GridPixels is the source image's pixels per grid cell.
	GridPixels int

	// TargetCellSize is the preferred working pixels per cell; see GridFor.
	TargetCellSize int

	// Clusters is the k-means color count.
	Clusters int

	// Detector picks the edge detection algorithm.
	Detector Detector

	// CannyLow and CannyHigh are the hysteresis thresholds for DetectorCanny.
	CannyLow, CannyHigh int

	// EdgeThreshold is the cutoff for DetectorKovalevsky. Non-positive means
	// derive it from the image with Otsu's method.
	EdgeThreshold int

	// Thinning enables Zhang-Suen thinning on the Kovalevsky path.
	Thinning bool

	// BlurSigma is the Gaussian pre-blur for edge detection.
	BlurSigma float64

	// Despeckle runs a 3x3 median over the clustered image and the edge
	// mask.
	Despeckle bool

	// Pixelize snaps the clustered image onto the cell lattice before edge
	// detection. Mostly useful with DetectorKovalevsky.
	Pixelize bool

	// IncludeInterior adds a second edge pass over the clustered image (not
	// just the inside/outside mask) and overlays it, catching walls between
	// rooms that share the interior color.
	IncludeInterior bool

	// MaskText blanks OCR-detected labels before analysis. Skipped silently
	// on builds without the OCR backend.
	MaskText bool

	// EdgeColorFraction is the border-color share that classifies a cluster
	// color as exterior; see segment.SeparateInside.
	EdgeColorFraction float64

	// WallThreshold is the mask brightness a sample needs to count toward a
	// wall run during grid extraction.
	WallThreshold uint8

	// Rand seeds k-means. Nil means time-seeded, non-reproducible runs.
	Rand *rand.Rand

	// DebugDir, when set, receives PNG dumps of each stage's buffer.
	DebugDir string
}

// DefaultOptions returns the settings used by the CLI unless flags override
// them.
func DefaultOptions() Options {
	return Options{
		GridPixels:        100,
		TargetCellSize:    DefaultTargetCellSize,
		Clusters:          6,
		Detector:          DetectorKovalevsky,
		CannyLow:          50,
		CannyHigh:         150,
		EdgeThreshold:     0, // Otsu
		Thinning:          true,
		BlurSigma:         1.0,
		Despeckle:         true,
		Pixelize:          false,
		IncludeInterior:   true,
		MaskText:          false,
		EdgeColorFraction: 0.4,
		WallThreshold:     128,
	}
}

func (o Options) validate() error {
	switch o.Detector {
	case DetectorCanny, DetectorKovalevsky:
	default:
		return fmt.Errorf("pipeline: unknown detector %q", o.Detector)
	}
	if o.Clusters <= 0 {
		return fmt.Errorf("pipeline: cluster count %d must be positive", o.Clusters)
	}
	if o.GridPixels <= 0 {
		return fmt.Errorf("pipeline: grid pixels %d must be positive", o.GridPixels)
	}
	return nil
}
