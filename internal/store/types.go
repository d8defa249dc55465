package store

import (
	"fmt"
	"time"
)

// JobConfig holds the configuration for a vectorization job (checkpoint
// copy). Mirrors vectorize.Config but lives here, free of any import on
// internal/server or internal/vectorize, to avoid import cycles.
type JobConfig struct {
	ImagePath string `json:"imagePath"`

	Diagonal          bool   `json:"diagonal"`
	Hierarchical      uint32 `json:"hierarchical"`
	BatchSize         uint32 `json:"batchSize"`
	GoodMinArea       int    `json:"goodMinArea"`
	GoodMaxArea       int    `json:"goodMaxArea"`
	IsSameColorShift  uint   `json:"isSameColorShift"`
	IsSameColorThresh int32  `json:"isSameColorThresh"`
	DeepenDiff        int32  `json:"deepenDiff"`
	HollowNeighbours  int    `json:"hollowNeighbours"`

	PathSimplifyMode string `json:"pathSimplifyMode"` // none, polygon, spline
	CornerThreshold  float64 `json:"cornerThreshold"`
	LengthThreshold  float64 `json:"lengthThreshold"`
	SpliceThreshold  float64 `json:"spliceThreshold"`
	MaxIterations    int     `json:"maxIterations"`
	SVGPrecision     int     `json:"svgPrecision"` // -1 = full precision

	CheckpointInterval int  `json:"checkpointInterval,omitempty"` // checkpoint every N seconds (0 = disabled)
	EnableTrace        bool `json:"enableTrace,omitempty"`
}

// Checkpoint represents a saved vectorization job state that can be resumed
// later. All fields are serialized to JSON for persistence.
//
// State handling:
//
// The checkpoint saves the builder's stage, the worker's tick count, and the
// number of regions already emitted to output, but does NOT save the label
// grid, the area histogram, or any emitted region. Because the binary and
// color clustering passes are deterministic given the same image and
// configuration, resuming restarts the builder from scratch with the saved
// configuration and runs it to completion; the saved region count and
// progress percentage are kept only for reporting.
type Checkpoint struct {
	// JobID is the unique identifier for this vectorization job.
	JobID string `json:"jobId"`

	// Stage is the builder stage at checkpoint time (1 = binary/raster
	// labelling, 2 = hierarchical merge).
	Stage int `json:"stage"`

	// Iteration is the number of worker ticks the job had run at checkpoint
	// time (not the builder's internal stage iteration counter).
	Iteration int `json:"iteration"`

	// Progress is the 0-100 completion percentage at checkpoint time.
	Progress int `json:"progress"`

	// RegionsEmitted is the number of clusters pushed to output so far.
	RegionsEmitted int `json:"regionsEmitted"`

	// Timestamp records when this checkpoint was created.
	Timestamp time.Time `json:"timestamp"`

	// Config holds the job configuration, needed for validation during
	// resume: a resumed job must use the same image and clustering
	// settings as the one that produced the checkpoint.
	Config JobConfig `json:"config"`
}

// CheckpointInfo contains metadata about a checkpoint without re-deriving
// it from a full Checkpoint load. Used for listing checkpoints.
type CheckpointInfo struct {
	JobID          string    `json:"jobId"`
	Progress       int       `json:"progress"`
	RegionsEmitted int       `json:"regionsEmitted"`
	Timestamp      time.Time `json:"timestamp"`
	ImagePath      string    `json:"imagePath"`
}

// NewCheckpoint creates a checkpoint from job state.
func NewCheckpoint(jobID string, stage, iteration, progress, regionsEmitted int, config JobConfig) *Checkpoint {
	return &Checkpoint{
		JobID:          jobID,
		Stage:          stage,
		Iteration:      iteration,
		Progress:       progress,
		RegionsEmitted: regionsEmitted,
		Timestamp:      time.Now(),
		Config:         config,
	}
}

// ToInfo converts a full Checkpoint to CheckpointInfo (metadata only).
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		JobID:          c.JobID,
		Progress:       c.Progress,
		RegionsEmitted: c.RegionsEmitted,
		Timestamp:      c.Timestamp,
		ImagePath:      c.Config.ImagePath,
	}
}

// Validate checks if the checkpoint has valid data. Returns an error if any
// required field is missing or invalid.
func (c *Checkpoint) Validate() error {
	if c.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if c.Stage != 1 && c.Stage != 2 {
		return &ValidationError{Field: "Stage", Reason: "must be 1 or 2"}
	}
	if c.Iteration < 0 {
		return &ValidationError{Field: "Iteration", Reason: "cannot be negative"}
	}
	if c.Progress < 0 || c.Progress > 100 {
		return &ValidationError{Field: "Progress", Reason: "must be between 0 and 100"}
	}
	if c.RegionsEmitted < 0 {
		return &ValidationError{Field: "RegionsEmitted", Reason: "cannot be negative"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if c.Config.ImagePath == "" {
		return &ValidationError{Field: "Config.ImagePath", Reason: "cannot be empty"}
	}
	switch c.Config.PathSimplifyMode {
	case "", "none", "polygon", "spline":
	default:
		return &ValidationError{Field: "Config.PathSimplifyMode", Reason: "must be none, polygon, or spline"}
	}
	return nil
}

// ValidationError represents a checkpoint validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks if this checkpoint can be resumed with the given
// config. Returns an error if the configs are incompatible.
func (c *Checkpoint) IsCompatible(config JobConfig) error {
	if c.Config.ImagePath != config.ImagePath {
		return &CompatibilityError{
			Field:    "ImagePath",
			Expected: c.Config.ImagePath,
			Actual:   config.ImagePath,
		}
	}
	if c.Config.Hierarchical != config.Hierarchical {
		return &CompatibilityError{
			Field:    "Hierarchical",
			Expected: fmt.Sprintf("%d", c.Config.Hierarchical),
			Actual:   fmt.Sprintf("%d", config.Hierarchical),
		}
	}
	if c.Config.PathSimplifyMode != config.PathSimplifyMode {
		return &CompatibilityError{
			Field:    "PathSimplifyMode",
			Expected: c.Config.PathSimplifyMode,
			Actual:   config.PathSimplifyMode,
		}
	}
	return nil
}

// CompatibilityError represents a checkpoint compatibility error.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
