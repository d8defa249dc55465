package colorcluster

import (
	"github.com/cwbudde/vectorcortex/internal/colormodel"
	"github.com/cwbudde/vectorcortex/internal/raster"
)

// PredicateConfig is the RunnerConfig-equivalent bundle of scalar knobs that
// the default same/diff/deepen/hollow predicates are built from, per spec
// §6's documented defaults.
type PredicateConfig struct {
	Diagonal          bool
	Hierarchical      uint32
	BatchSize         uint32
	GoodMinArea       int
	GoodMaxArea       int
	IsSameColorShift  uint
	IsSameColorThresh int32
	DeepenDiff        int32
	HollowNeighbours  int
}

// DefaultPredicateConfig returns spec §6's defaults:
// diagonal=true, hierarchical=∞, batch_size=10000, good_min_area=16,
// good_max_area=65536, is_same_color_shift=4, is_same_color_thresh=1,
// deepen_diff=64, hollow_neighbours=1.
func DefaultPredicateConfig() PredicateConfig {
	return PredicateConfig{
		Diagonal:          true,
		Hierarchical:      HierarchicalMax,
		BatchSize:         10000,
		GoodMinArea:       16,
		GoodMaxArea:       65536,
		IsSameColorShift:  4,
		IsSameColorThresh: 1,
		DeepenDiff:        64,
		HollowNeighbours:  1,
	}
}

// Runner wires a PredicateConfig into a ready-to-run Builder over image,
// the Go equivalent of the Rust `Runner::builder()` assembly step.
type Runner struct {
	Config PredicateConfig
	Image  *raster.ColorImage
}

// NewRunner returns a Runner with the spec's default predicate
// configuration.
func NewRunner(image *raster.ColorImage) *Runner {
	return &Runner{Config: DefaultPredicateConfig(), Image: image}
}

// Builder assembles a Builder whose Same/Diff/Deepen/Hollow predicates are
// closures over r.Config, matching the teacher-style "runner wraps builder"
// layering from the original's runner.rs.
func (r *Runner) Builder() *Builder {
	cfg := r.Config
	b := NewBuilder(r.Image)
	b.Config.Diagonal = cfg.Diagonal
	b.Config.Hierarchical = cfg.Hierarchical
	b.Config.BatchSize = cfg.BatchSize

	b.Same = func(a, b2 colormodel.Color) bool {
		return colormodel.Same(colormodel.FromColor(a), colormodel.FromColor(b2), cfg.IsSameColorShift, cfg.IsSameColorThresh)
	}
	b.Diff = ColorDiff
	b.Deepen = func(view *ClustersView, cluster *Cluster, sorted []NeighbourInfo) bool {
		return patchGood(view, cluster, cfg.GoodMinArea, cfg.GoodMaxArea) && sorted[0].Diff > cfg.DeepenDiff
	}
	b.Hollow = func(_ *ClustersView, _ *Cluster, sorted []NeighbourInfo) bool {
		return len(sorted) <= cfg.HollowNeighbours
	}
	return b
}

// Start is shorthand for r.Builder().Start().
func (r *Runner) Start() (*BuilderState, error) { return r.Builder().Start() }

// Run is shorthand for r.Builder().Run().
func (r *Runner) Run() (*Clusters, error) { return r.Builder().Run() }

// ColorDiff is the default Diff predicate: sum of absolute per-channel RGB
// differences.
func ColorDiff(a, b colormodel.Color) int32 {
	return colormodel.Diff(colormodel.FromColor(a), colormodel.FromColor(b))
}

// patchGood reports whether a cluster is a plausible stand-alone shape
// (strictly inside the configured area band and not thread-like): the "good
// cluster" test spec §9 notes is used to drive the default deepen predicate.
// With minArea 0 the thread-like (perimeter < area) check is skipped.
func patchGood(view *ClustersView, cluster *Cluster, minArea, maxArea int) bool {
	area := cluster.Area()
	if !(minArea < area && area < maxArea) {
		return false
	}
	if minArea == 0 {
		return true
	}
	return cluster.Perimeter(view.Width) < area
}
