package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/cwbudde/vectorcortex/internal/vectorize"
	"github.com/spf13/cobra"
)

var (
	imagePath        string
	outPath          string
	pathMode         string
	cornerThreshold  float64
	lengthThreshold  float64
	spliceThreshold  float64
	maxIterations    int
	svgPrecision     int
	diagonal         bool
	goodMinArea      int
	goodMaxArea      int
	isSameColorShift uint
	deepenDiff       int32
	hollowNeighbours int
	cpuProfile       string
	memProfile       string
)

var runCmd = &cobra.Command{
	Use:   "vectorize",
	Short: "Run single-shot raster-to-vector conversion",
	Long:  `Runs hierarchical color clustering on an image and writes the result as an SVG document.`,
	RunE:  runVectorize,
}

func init() {
	runCmd.Flags().StringVar(&imagePath, "image", "", "Input image path (required)")
	runCmd.Flags().StringVar(&outPath, "out", "out.svg", "Output SVG path")
	runCmd.Flags().StringVar(&pathMode, "path-mode", "spline", "Boundary simplification: none, polygon, spline")
	runCmd.Flags().Float64Var(&cornerThreshold, "corner-threshold", 0.3, "Corner-detection turn-angle threshold (radians)")
	runCmd.Flags().Float64Var(&lengthThreshold, "length-threshold", 1.0, "Subdivision smoothing splits segments longer than this length")
	runCmd.Flags().Float64Var(&spliceThreshold, "splice-threshold", 0.5, "Accumulated turning angle (radians) that marks a splice point")
	runCmd.Flags().IntVar(&maxIterations, "max-iterations", 10, "Maximum subdivision-smoothing iterations")
	runCmd.Flags().IntVar(&svgPrecision, "svg-precision", -1, "Decimal places for SVG coordinates (-1 = full precision)")
	runCmd.Flags().BoolVar(&diagonal, "diagonal", true, "Use 8-connectivity instead of 4-connectivity for clustering")
	runCmd.Flags().IntVar(&goodMinArea, "good-min-area", 16, "Exclusive lower pixel-area bound for a region to be kept as its own layer when deepening")
	runCmd.Flags().IntVar(&goodMaxArea, "good-max-area", 65536, "Maximum pixel area eligible for hierarchical deepening")
	runCmd.Flags().UintVar(&isSameColorShift, "same-color-shift", 4, "Right-shift applied to color channels before same-color comparison")
	runCmd.Flags().Int32Var(&deepenDiff, "deepen-diff", 64, "Color difference to the closest neighbour that a region must exceed to be kept as its own layer")
	runCmd.Flags().IntVar(&hollowNeighbours, "hollow-neighbours", 1, "Neighbour count threshold for marking a cluster hollow")

	runCmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	runCmd.Flags().StringVar(&memProfile, "memprofile", "", "Write memory profile to file")

	runCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(runCmd)
}

func runVectorize(cmd *cobra.Command, args []string) error {
	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		slog.Info("CPU profiling enabled", "output", cpuProfile)
	}

	slog.Info("Starting vectorization", "image", imagePath, "path_mode", pathMode)

	img, err := vectorize.LoadImage(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	slog.Info("Loaded image", "width", img.Width, "height", img.Height)

	cfg := vectorize.Config{
		Diagonal:          diagonal,
		Hierarchical:      ^uint32(0),
		BatchSize:         10000,
		GoodMinArea:       goodMinArea,
		GoodMaxArea:       goodMaxArea,
		IsSameColorShift:  isSameColorShift,
		IsSameColorThresh: 1,
		DeepenDiff:        deepenDiff,
		HollowNeighbours:  hollowNeighbours,
		PathMode:          vectorize.PathMode(pathMode),
		CornerThreshold:   cornerThreshold,
		LengthThreshold:   lengthThreshold,
		SpliceThreshold:   spliceThreshold,
		MaxIterations:     maxIterations,
		SVGPrecision:      svgPrecision,
	}

	start := time.Now()
	result, err := vectorize.Run(img, cfg)
	if err != nil {
		return fmt.Errorf("vectorization failed: %w", err)
	}
	elapsed := time.Since(start)

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer outFile.Close()

	if _, err := outFile.WriteString(result.ToSVG()); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}

	slog.Info("Vectorization complete",
		"elapsed", elapsed,
		"regions", len(result.Regions),
		"width", result.Width,
		"height", result.Height,
	)

	fmt.Printf("Wrote %s (%d regions, %s)\n", outPath, len(result.Regions), elapsed.Round(time.Millisecond))

	if memProfile != "" {
		f, err := os.Create(memProfile)
		if err != nil {
			return fmt.Errorf("failed to create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
		slog.Info("Memory profile written", "output", memProfile)
	}

	return nil
}
