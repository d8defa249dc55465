package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/vectorcortex/internal/store"
	"github.com/cwbudde/vectorcortex/internal/vectorize"
)

// runJob executes a vectorization job in the background, ticking its
// builder a batch at a time so progress, trace, and checkpoint monitors
// can observe it between ticks.
func runJob(ctx context.Context, jm *JobManager, checkpointStore store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) { j.State = StateRunning }); err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "image", job.Config.ImagePath)

	img, err := vectorize.LoadImage(job.Config.ImagePath)
	if err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("failed to load image: %w", err))
		return err
	}

	slog.Info("Loaded image", "job_id", jobID, "width", img.Width, "height", img.Height)

	cfg := configFromJobConfig(job.Config)
	vjob := vectorize.NewJob(img, cfg)

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	if err := vjob.Start(); err != nil {
		markJobFailed(jm, jobID, fmt.Errorf("failed to start builder: %w", err))
		return err
	}

	var traceWriter *store.TraceWriter
	if job.Config.EnableTrace {
		tw, err := store.NewTraceWriter("./data", jobID, false)
		if err != nil {
			slog.Warn("Failed to create trace writer", "job_id", jobID, "error", err)
		} else {
			traceWriter = tw
			defer func() {
				if err := traceWriter.Close(); err != nil {
					slog.Warn("Failed to close trace writer", "job_id", jobID, "error", err)
				}
			}()
		}
	}

	progressDone := make(chan struct{})
	go monitorProgress(ctx, jm, jobID, progressDone)

	checkpointDone := make(chan struct{})
	checkpointEnabled := checkpointStore != nil && job.Config.CheckpointInterval > 0
	if checkpointEnabled {
		go monitorCheckpoints(ctx, jm, checkpointStore, jobID, checkpointDone)
	} else {
		close(checkpointDone)
	}

	start := time.Now()
	tick := 0

	for {
		select {
		case <-ctx.Done():
			close(progressDone)
			if checkpointEnabled {
				close(checkpointDone)
			}
			markJobCancelled(jm, jobID)
			return ctx.Err()
		default:
		}

		done, tickErr := vjob.Tick()
		tick++

		stage, progress, regions := vjob.Stage(), vjob.Progress(), vjob.RegionsEmitted()
		jm.UpdateJob(jobID, func(j *Job) {
			j.Stage = stage
			j.Iteration = tick
			j.Progress = progress
			j.RegionsEmitted = regions
		})

		if traceWriter != nil {
			traceWriter.Write(store.TraceEntry{
				Tick:           tick,
				Stage:          stage,
				Progress:       progress,
				RegionsEmitted: regions,
				Timestamp:      time.Now(),
			})
		}

		if tickErr != nil {
			close(progressDone)
			if checkpointEnabled {
				close(checkpointDone)
			}
			markJobFailed(jm, jobID, fmt.Errorf("builder tick failed: %w", tickErr))
			return tickErr
		}
		if done {
			break
		}
	}

	close(progressDone)
	if checkpointEnabled {
		close(checkpointDone)
	}
	if traceWriter != nil {
		traceWriter.Flush()
	}

	elapsed := time.Since(start)
	result := vjob.Result()

	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Progress = 100
		j.RegionsEmitted = len(result.Regions)
		j.Result = result
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	slog.Info("Job completed", "job_id", jobID, "elapsed", elapsed, "regions", len(result.Regions))

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:          jobID,
		State:          StateCompleted,
		Stage:          0,
		Progress:       100,
		RegionsEmitted: len(result.Regions),
		Timestamp:      time.Now(),
	})

	return nil
}

// configFromJobConfig adapts a persisted JobConfig into the in-process
// vectorize.Config the builder consumes.
func configFromJobConfig(c JobConfig) vectorize.Config {
	return vectorize.Config{
		Diagonal:          c.Diagonal,
		Hierarchical:      c.Hierarchical,
		BatchSize:         c.BatchSize,
		GoodMinArea:       c.GoodMinArea,
		GoodMaxArea:       c.GoodMaxArea,
		IsSameColorShift:  c.IsSameColorShift,
		IsSameColorThresh: c.IsSameColorThresh,
		DeepenDiff:        c.DeepenDiff,
		HollowNeighbours:  c.HollowNeighbours,
		PathMode:          vectorize.PathMode(c.PathSimplifyMode),
		CornerThreshold:   c.CornerThreshold,
		LengthThreshold:   c.LengthThreshold,
		SpliceThreshold:   c.SpliceThreshold,
		MaxIterations:     c.MaxIterations,
		SVGPrecision:      c.SVGPrecision,
	}
}

// monitorProgress periodically broadcasts progress events during clustering.
func monitorProgress(ctx context.Context, jm *JobManager, jobID string, done chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, exists := jm.GetJob(jobID)
			if !exists {
				return
			}
			jm.broadcaster.Broadcast(ProgressEvent{
				JobID:          jobID,
				State:          job.State,
				Stage:          job.Stage,
				Progress:       job.Progress,
				RegionsEmitted: job.RegionsEmitted,
				Timestamp:      time.Now(),
			})
		}
	}
}

// markJobFailed marks a job as failed with an error message.
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled.
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}

// monitorCheckpoints periodically saves checkpoints during clustering.
func monitorCheckpoints(ctx context.Context, jm *JobManager, checkpointStore store.Store, jobID string, done chan struct{}) {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return
	}

	interval := time.Duration(job.Config.CheckpointInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := saveCheckpoint(jm, checkpointStore, jobID); err != nil {
				slog.Error("Failed to save checkpoint", "job_id", jobID, "error", err)
			}
		}
	}
}

// saveCheckpoint saves a checkpoint for the given job. Clustering is
// deterministic given the same image and configuration, so the checkpoint
// only records progress bookkeeping; a resumed job replays the builder
// from scratch rather than restoring internal label-grid state.
func saveCheckpoint(jm *JobManager, checkpointStore store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	stage := job.Stage
	if stage != 1 && stage != 2 {
		slog.Debug("Skipping checkpoint, builder has no active stage yet", "job_id", jobID)
		return nil
	}

	checkpoint := store.NewCheckpoint(jobID, stage, job.Iteration, job.Progress, job.RegionsEmitted, job.Config)

	if err := checkpointStore.SaveCheckpoint(jobID, checkpoint); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	slog.Info("Checkpoint saved", "job_id", jobID, "progress", job.Progress, "regions", job.RegionsEmitted)
	return nil
}
