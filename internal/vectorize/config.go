package vectorize

import (
	"fmt"

	"github.com/cwbudde/vectorcortex/internal/assembly"
	"github.com/cwbudde/vectorcortex/internal/colorcluster"
)

// PathMode names the path-simplification level applied to each region's
// boundary, the string form persisted in configuration and checkpoints.
type PathMode string

const (
	PathModeNone    PathMode = "none"
	PathModePolygon PathMode = "polygon"
	PathModeSpline  PathMode = "spline"
)

func (m PathMode) assemblyMode() (assembly.PathSimplifyMode, error) {
	switch m {
	case "", PathModeNone:
		return assembly.ModeNone, nil
	case PathModePolygon:
		return assembly.ModePolygon, nil
	case PathModeSpline:
		return assembly.ModeSpline, nil
	default:
		return assembly.ModeNone, fmt.Errorf("vectorize: unknown path mode %q", m)
	}
}

// Config bundles the binary/color-cluster predicate knobs with the
// boundary-simplification and SVG serialization settings needed to drive
// one vectorization job end to end.
type Config struct {
	Diagonal          bool
	Hierarchical      uint32
	BatchSize         uint32
	GoodMinArea       int
	GoodMaxArea       int
	IsSameColorShift  uint
	IsSameColorThresh int32
	DeepenDiff        int32
	HollowNeighbours  int

	PathMode        PathMode
	CornerThreshold float64
	LengthThreshold float64
	SpliceThreshold float64
	MaxIterations   int

	// SVGPrecision is the fixed number of decimals used for spline
	// coordinates, or FullPrecision (svgpath.FullPrecision) for unrounded
	// output.
	SVGPrecision int
}

// DefaultConfig mirrors colorcluster.DefaultPredicateConfig's tuning with
// spline-mode path output and the subdivision smoother's published
// defaults.
func DefaultConfig() Config {
	pc := colorcluster.DefaultPredicateConfig()
	return Config{
		Diagonal:          pc.Diagonal,
		Hierarchical:      pc.Hierarchical,
		BatchSize:         pc.BatchSize,
		GoodMinArea:       pc.GoodMinArea,
		GoodMaxArea:       pc.GoodMaxArea,
		IsSameColorShift:  pc.IsSameColorShift,
		IsSameColorThresh: pc.IsSameColorThresh,
		DeepenDiff:        pc.DeepenDiff,
		HollowNeighbours:  pc.HollowNeighbours,
		PathMode:          PathModeSpline,
		CornerThreshold:   0.3,
		LengthThreshold:   1.0,
		SpliceThreshold:   0.5,
		MaxIterations:     assembly.DefaultMaxIterations,
		SVGPrecision:      -1,
	}
}

func (c Config) predicateConfig() colorcluster.PredicateConfig {
	return colorcluster.PredicateConfig{
		Diagonal:          c.Diagonal,
		Hierarchical:      c.Hierarchical,
		BatchSize:         c.BatchSize,
		GoodMinArea:       c.GoodMinArea,
		GoodMaxArea:       c.GoodMaxArea,
		IsSameColorShift:  c.IsSameColorShift,
		IsSameColorThresh: c.IsSameColorThresh,
		DeepenDiff:        c.DeepenDiff,
		HollowNeighbours:  c.HollowNeighbours,
	}
}
