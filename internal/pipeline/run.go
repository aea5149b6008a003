package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"time"

	"github.com/mapscribe/wallseeker/internal/edges"
	"github.com/mapscribe/wallseeker/internal/filters"
	"github.com/mapscribe/wallseeker/internal/raster"
	"github.com/mapscribe/wallseeker/internal/segment"
	"github.com/mapscribe/wallseeker/internal/textmask"
	"github.com/mapscribe/wallseeker/internal/walls"
)

// Result is the output of one pipeline run.
type Result struct {
	// Segments are the detected walls in source-image pixel coordinates.
	// They are raw extractor output: unordered, with duplicate tile edges;
	// callers wanting consolidated walls run walls.MergeSegments.
	Segments []walls.Segment `json:"segments"`

	// Width and Height are the source image dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Grid is the sizing the run worked at.
	Grid Grid `json:"grid"`

	// Palette reports the clustered colors, dominant first.
	Palette []segment.PaletteEntry `json:"palette"`

	// MaskedWords counts the text labels blanked before analysis.
	MaskedWords int `json:"masked_words"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Run executes the full pipeline on a source map image.
//
// Stage order: scale to working resolution, optional text masking, k-means
// clustering, noise cleanup, inside/outside separation, edge detection
// (plus the optional interior pass composited in), grid wall extraction.
// ctx is consulted between stages only; a stage that has started always
// finishes.
//
// Errors from any stage abort the run; edges.ErrNoEdges passes through
// unwrapped enough for errors.Is, so callers can tell "unsuitable image"
// apart from real failures.
func Run(ctx context.Context, src image.Image, opts Options) (*Result, error) {
	start := time.Now()
	if src == nil {
		return nil, raster.ErrEmptyBuffer
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	grid, err := GridFor(opts.GridPixels, opts.TargetCellSize)
	if err != nil {
		return nil, err
	}

	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()
	workW := max(1, srcW/grid.Scale)
	workH := max(1, srcH/grid.Scale)

	buf, err := raster.Scaled(src, workW, workH)
	if err != nil {
		return nil, fmt.Errorf("scaling: %w", err)
	}
	result := &Result{Width: srcW, Height: srcH, Grid: grid}
	dump := dumper(opts.DebugDir)
	dump("01-scaled.png", buf.ToImage())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Text masking runs before clustering so label strokes cannot claim a
	// centroid of their own.
	if opts.MaskText {
		regions, err := textmask.FindWords(buf.ToImage())
		switch {
		case errors.Is(err, textmask.ErrUnavailable):
			log.Printf("text masking requested but no ocr backend; skipping")
		case err != nil:
			return nil, fmt.Errorf("text masking: %w", err)
		default:
			if err := textmask.Blank(buf, regions); err != nil {
				return nil, fmt.Errorf("text masking: %w", err)
			}
			result.MaskedWords = len(regions)
			dump("02-masked.png", buf.ToImage())
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kopts := segment.DefaultKMeansOptions()
	kopts.Clusters = opts.Clusters
	kopts.Rand = opts.Rand
	centroids, err := segment.KMeans(buf, kopts)
	if err != nil {
		return nil, fmt.Errorf("segmentation: %w", err)
	}
	result.Palette = segment.Palette(centroids)

	if opts.Despeckle {
		if err := filters.Median(buf, 3); err != nil {
			return nil, fmt.Errorf("despeckle: %w", err)
		}
	}
	// Speckle regions smaller than a quarter cell are clustering artifacts,
	// not map features.
	if err := filters.RemoveSmallRegions(buf, max(2, grid.CellSize*grid.CellSize/4), false); err != nil {
		return nil, fmt.Errorf("region cleanup: %w", err)
	}
	if opts.Pixelize {
		if err := filters.Pixelate(buf, max(2, grid.CellSize/2)); err != nil {
			return nil, fmt.Errorf("pixelize: %w", err)
		}
	}
	dump("03-segmented.png", buf.ToImage())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The interior pass needs the clustered colors before they are crushed
	// to the black/white inside mask.
	var interior *raster.Buffer
	if opts.IncludeInterior {
		interior = buf.Clone()
	}

	if err := segment.SeparateInside(buf, opts.EdgeColorFraction); err != nil {
		return nil, fmt.Errorf("inside separation: %w", err)
	}
	// Dark pockets smaller than a quarter cell inside the white interior are
	// leftover speckle, and detectors would trace a box around each one.
	if err := filters.RemoveSmallHoles(buf, max(2, grid.CellSize*grid.CellSize/4), 128); err != nil {
		return nil, fmt.Errorf("hole cleanup: %w", err)
	}
	dump("04-separated.png", buf.ToImage())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mask, err := detectEdges(buf, opts)
	if err != nil {
		return nil, err
	}
	if interior != nil {
		interiorMask, err := detectEdges(interior, opts)
		if err != nil && !errors.Is(err, edges.ErrNoEdges) {
			return nil, err
		}
		if err == nil {
			mask, err = edges.Combine(mask, interiorMask)
			if err != nil {
				return nil, fmt.Errorf("edge composite: %w", err)
			}
		}
	}
	if opts.Despeckle {
		if mask, err = despeckleMask(mask); err != nil {
			return nil, fmt.Errorf("mask despeckle: %w", err)
		}
	}
	dump("05-edges.png", mask.ToImage())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	segs, err := walls.Identify(mask, grid.CellSize, opts.WallThreshold)
	if err != nil {
		return nil, fmt.Errorf("wall extraction: %w", err)
	}

	// Back into source pixel space.
	result.Segments = walls.ToScene(segs, float64(grid.Scale), 0, 0)
	result.Elapsed = time.Since(start)

	if opts.DebugDir != "" {
		overlay := walls.Render(src, result.Segments, "#FF3300")
		dump("06-walls.png", overlay)
	}
	return result, nil
}

// detectEdges converts a buffer to blurred grayscale and runs the selected
// detector.
func detectEdges(b *raster.Buffer, opts Options) (*raster.Gray, error) {
	gray, err := filters.Grayscale(b)
	if err != nil {
		return nil, fmt.Errorf("grayscale: %w", err)
	}

	switch opts.Detector {
	case DetectorCanny:
		mask, err := edges.DetectCanny(gray, edges.CannyOptions{
			LowThreshold:  opts.CannyLow,
			HighThreshold: opts.CannyHigh,
			Sigma:         opts.BlurSigma,
		})
		if err != nil {
			if errors.Is(err, edges.ErrNoEdges) {
				return nil, err
			}
			return nil, fmt.Errorf("edge detection: %w", err)
		}
		return mask, nil

	default: // DetectorKovalevsky, validated earlier
		blurred, err := filters.GaussianBlur(gray, opts.BlurSigma)
		if err != nil {
			return nil, fmt.Errorf("blur: %w", err)
		}
		threshold := opts.EdgeThreshold
		if threshold <= 0 {
			otsu, err := segment.OtsuThreshold(blurred)
			if err != nil {
				return nil, fmt.Errorf("threshold suggestion: %w", err)
			}
			threshold = int(otsu)
			log.Printf("auto edge threshold: %d", threshold)
		}
		mask, err := edges.DetectKovalevsky(blurred, edges.KovalevskyOptions{
			Threshold: threshold,
			Thinning:  opts.Thinning,
		})
		if err != nil {
			return nil, fmt.Errorf("edge detection: %w", err)
		}
		return mask, nil
	}
}

// despeckleMask runs the whole-tuple median over a binary mask, which for
// 0/255 input is a 3x3 majority vote.
func despeckleMask(mask *raster.Gray) (*raster.Gray, error) {
	buf := raster.FromImage(mask.ToImage())
	if err := filters.Median(buf, 3); err != nil {
		return nil, err
	}
	return filters.Grayscale(buf)
}

// dumper returns a stage-dump function writing into dir, or a no-op when
// debugging is off. Dump failures are logged, not fatal; losing a debug
// image should never kill a run.
func dumper(dir string) func(name string, img image.Image) {
	if dir == "" {
		return func(string, image.Image) {}
	}
	return func(name string, img image.Image) {
		if err := raster.SaveDebug(img, filepath.Join(dir, name)); err != nil {
			log.Printf("debug dump %s: %v", name, err)
		}
	}
}
