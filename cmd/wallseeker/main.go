package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/mapscribe/wallseeker/internal/pipeline"
	"github.com/mapscribe/wallseeker/internal/raster"
	"github.com/mapscribe/wallseeker/internal/segment"
	"github.com/mapscribe/wallseeker/internal/walls"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// output is the JSON document written for a successful run.
type output struct {
	Input         string                 `json:"input"`
	Width         int                    `json:"width"`
	Height        int                    `json:"height"`
	CellSize      int                    `json:"cell_size"`
	Scale         int                    `json:"scale"`
	Segments      []walls.Segment        `json:"segments"`
	SceneSegments []walls.Segment        `json:"scene_segments,omitempty"`
	Palette       []segment.PaletteEntry `json:"palette,omitempty"`
	MaskedWords   int                    `json:"masked_words,omitempty"`
	ElapsedMillis int64                  `json:"elapsed_ms"`
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("wallseeker %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	// Results go to stdout; everything else to stderr.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := run(); err != nil {
		log.Fatalf("wallseeker: %v", err)
	}
}

func run() error {
	var (
		input     = flag.String("input", "", "map image to analyze (png, jpeg, gif, tiff, bmp)")
		outPath   = flag.String("output", "", "write JSON here instead of stdout")
		region    = flag.String("region", "", "restrict analysis to x1,y1,x2,y2 in source pixels")
		gridPx    = flag.Int("grid", 100, "source pixels per grid cell")
		cell      = flag.Int("cell", pipeline.DefaultTargetCellSize, "preferred working pixels per cell")
		detector  = flag.String("detector", string(pipeline.DetectorKovalevsky), "edge detector: canny or kovalevsky")
		clusters  = flag.Int("clusters", 6, "number of k-means color clusters")
		low       = flag.Int("low", 50, "canny low hysteresis threshold")
		high      = flag.Int("high", 150, "canny high hysteresis threshold")
		threshold = flag.Int("threshold", 0, "kovalevsky edge threshold; 0 derives it from the image")
		thinning  = flag.Bool("thinning", true, "thin edges before tracing (kovalevsky)")
		sigma     = flag.Float64("sigma", 1.0, "gaussian blur sigma before edge detection")
		interior  = flag.Bool("interior", true, "also detect walls between interior rooms")
		pixelize  = flag.Bool("pixelize", false, "snap colors onto the cell lattice before detection")
		despeckle = flag.Bool("despeckle", true, "median-filter clustering and edge noise")
		maskText  = flag.Bool("mask-text", false, "blank map labels with OCR before detection")
		seed      = flag.Int64("seed", 0, "clustering random seed; 0 uses the clock")
		merge     = flag.Bool("merge", true, "merge collinear adjacent segments")
		simplify  = flag.Float64("simplify", 0, "Douglas-Peucker tolerance for wall chains; 0 disables")
		sceneMul  = flag.Float64("scene-scale", 0, "also emit scene coordinates: pixels multiplied by this")
		offsetX   = flag.Float64("offset-x", 0, "scene X offset, applied with -scene-scale")
		offsetY   = flag.Float64("offset-y", 0, "scene Y offset, applied with -scene-scale")
		debugDir  = flag.String("debug-dir", "", "dump intermediate stage images into this directory")
		paletteOn = flag.Bool("palette", false, "include the clustered color palette in the output")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		return fmt.Errorf("missing required -input")
	}

	img, err := raster.LoadFile(*input)
	if err != nil {
		return err
	}
	if *region != "" {
		x1, y1, x2, y2, err := parseRegion(*region)
		if err != nil {
			return err
		}
		if img, err = raster.CropRegion(img, x1, y1, x2, y2); err != nil {
			return err
		}
	}

	opts := pipeline.DefaultOptions()
	opts.GridPixels = *gridPx
	opts.TargetCellSize = *cell
	opts.Clusters = *clusters
	opts.Detector = pipeline.Detector(*detector)
	opts.CannyLow = *low
	opts.CannyHigh = *high
	opts.EdgeThreshold = *threshold
	opts.Thinning = *thinning
	opts.BlurSigma = *sigma
	opts.IncludeInterior = *interior
	opts.Pixelize = *pixelize
	opts.Despeckle = *despeckle
	opts.MaskText = *maskText
	opts.DebugDir = *debugDir
	if *seed != 0 {
		opts.Rand = rand.New(rand.NewSource(*seed))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.Run(ctx, img, opts)
	if err != nil {
		return err
	}
	log.Printf("found %d raw segments in %s", len(result.Segments), result.Elapsed)

	segments := result.Segments
	if *merge {
		segments = walls.MergeSegments(segments)
	}
	if *simplify > 0 {
		segments = walls.Simplify(segments, *simplify)
	}

	doc := output{
		Input:         *input,
		Width:         result.Width,
		Height:        result.Height,
		CellSize:      result.Grid.CellSize,
		Scale:         result.Grid.Scale,
		Segments:      segments,
		MaskedWords:   result.MaskedWords,
		ElapsedMillis: result.Elapsed.Milliseconds(),
	}
	if *sceneMul > 0 {
		doc.SceneSegments = walls.ToScene(segments, *sceneMul, *offsetX, *offsetY)
	}
	if *paletteOn {
		doc.Palette = result.Palette
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// parseRegion parses "x1,y1,x2,y2".
func parseRegion(s string) (x1, y1, x2, y2 int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("region %q: want x1,y1,x2,y2", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("region %q: %w", s, err)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
