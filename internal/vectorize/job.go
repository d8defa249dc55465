package vectorize

import (
	"errors"
	"fmt"

	"github.com/cwbudde/vectorcortex/internal/colorcluster"
	"github.com/cwbudde/vectorcortex/internal/colormodel"
	"github.com/cwbudde/vectorcortex/internal/raster"
)

// ErrNotStarted is returned by Tick when called before Start. Before Start,
// Progress, Stage and RegionsEmitted report 0 and Result returns nil.
var ErrNotStarted = errors.New("vectorize: job not started")

// Region is one finished, color-resolved output shape: a color-cluster
// output region assembled into a single SVG path, tagged with the color it
// will be painted.
type Region struct {
	Color colormodel.Color
	Path  string // SVG path-data, see svgpath.CompoundPath.ToSVGPathPrecision
}

// Result is the finished output of a vectorization job: an ordered list of
// regions plus the source image's bounds, sufficient to serialize a
// complete SVG document.
type Result struct {
	Width   int
	Height  int
	Regions []Region
}

// Job drives one image through the color-cluster builder to completion,
// ticking it a batch at a time, then assembles its output regions into SVG
// paths. It is the tickable unit internal/server's worker advances once per
// scheduling loop iteration.
type Job struct {
	config Config
	image  *raster.ColorImage
	state  *colorcluster.BuilderState
	result *Result
}

// NewJob prepares (but does not start) a vectorization job over image with
// the given configuration.
func NewJob(image *raster.ColorImage, config Config) *Job {
	return &Job{config: config, image: image}
}

// Start initializes the underlying cluster builder. Must be called once,
// before the first Tick.
func (j *Job) Start() error {
	runner := colorcluster.NewRunner(j.image)
	runner.Config = j.config.predicateConfig()
	state, err := runner.Start()
	if err != nil {
		return fmt.Errorf("vectorize: start builder: %w", err)
	}
	j.state = state
	return nil
}

// Tick advances the builder by one batch. It returns true once clustering
// has finished, at which point Result assembles and returns the SVG
// regions.
func (j *Job) Tick() (bool, error) {
	if j.state == nil {
		return false, ErrNotStarted
	}
	done, err := j.state.Tick()
	if err != nil {
		return false, err
	}
	if !done {
		return false, nil
	}
	result, err := j.assemble()
	if err != nil {
		return false, err
	}
	j.result = result
	return true, nil
}

// Progress reports 0-100 completion, valid any time after Start.
func (j *Job) Progress() int {
	if j.state == nil {
		return 0
	}
	return j.state.Progress()
}

// Stage reports the builder's current stage (1 or 2), valid any time after
// Start.
func (j *Job) Stage() int {
	if j.state == nil {
		return 0
	}
	return j.state.Stage()
}

// RegionsEmitted reports how many clusters have been pushed to output so
// far, valid any time after Start.
func (j *Job) RegionsEmitted() int {
	if j.state == nil {
		return 0
	}
	return len(j.state.Result().ClustersOutput)
}

// Result returns the finished output. Only valid after Tick has returned
// true.
func (j *Job) Result() *Result {
	return j.result
}

// assemble walks every output cluster's region into an SVG compound path
// and collects them into a Result.
func (j *Job) assemble() (*Result, error) {
	clusters := j.state.Result()
	mode, err := j.config.PathMode.assemblyMode()
	if err != nil {
		return nil, err
	}

	// ClustersOutput records regions innermost-first (the background last);
	// painting walks it backwards so outer regions land under inner ones.
	out := &Result{Width: clusters.Width, Height: clusters.Height}
	for k := len(clusters.ClustersOutput) - 1; k >= 0; k-- {
		idx := clusters.ClustersOutput[k]
		cluster := clusters.Clusters[idx]
		if cluster.Area() == 0 {
			continue
		}
		cp, err := cluster.ToCompoundPath(clusters.Width, true, mode,
			j.config.CornerThreshold, j.config.LengthThreshold, j.config.MaxIterations, j.config.SpliceThreshold)
		if err != nil {
			return nil, fmt.Errorf("vectorize: assemble cluster %d: %w", idx, err)
		}
		if cp.IsEmpty() {
			continue
		}
		out.Regions = append(out.Regions, Region{
			Color: cluster.ResidueColor(),
			Path:  cp.ToSVGPathPrecision(j.config.SVGPrecision),
		})
	}
	return out, nil
}

// Run drives the job to completion in one call, for callers (CLI one-shot
// mode) that don't need incremental progress reporting.
func Run(image *raster.ColorImage, config Config) (*Result, error) {
	j := NewJob(image, config)
	if err := j.Start(); err != nil {
		return nil, err
	}
	for {
		done, err := j.Tick()
		if err != nil {
			return nil, err
		}
		if done {
			return j.Result(), nil
		}
	}
}
