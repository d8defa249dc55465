package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cwbudde/vectorcortex/internal/store"
	"github.com/cwbudde/vectorcortex/internal/vectorize"
	"github.com/spf13/cobra"
)

var (
	resumeServerURL string
	resumeLocalMode bool
	resumeOutputDir string
)

var resumeCmd = &cobra.Command{
	Use:   "resume [job-id]",
	Short: "Resume a vectorization job from a checkpoint",
	Long: `Resume a vectorization job from a saved checkpoint.

Clustering is deterministic given the same image and configuration, so
resuming replays the clustering pipeline from scratch over the checkpoint's
saved configuration rather than restoring partial internal state.

Supports two modes:
  1. Server mode (default): POST to the server's resume endpoint
  2. Local mode (--local): load the checkpoint and re-run the pipeline locally

Examples:
  # Resume via server
  vectorcortex resume abc123 --server-url http://localhost:8080

  # Resume locally
  vectorcortex resume abc123 --local --output ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeServerURL, "server-url", "http://localhost:8080", "Server URL for remote resume")
	resumeCmd.Flags().BoolVar(&resumeLocalMode, "local", false, "Run resume locally instead of via server")
	resumeCmd.Flags().StringVar(&resumeOutputDir, "output", "./resumed", "Output directory for local mode")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	if resumeLocalMode {
		return runResumeLocal(jobID)
	}
	return runResumeServer(jobID)
}

// runResumeServer sends a resume request to the server
func runResumeServer(jobID string) error {
	url := fmt.Sprintf("%s/api/v1/jobs/%s/resume", resumeServerURL, jobID)

	slog.Info("Resuming job via server", "job_id", jobID, "url", url)

	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("checkpoint not found for job %s", jobID)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var result struct {
		JobID             string `json:"jobId"`
		State             string `json:"state"`
		Message           string `json:"message,omitempty"`
		PreviousProgress  int    `json:"previousProgress,omitempty"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Job resumed successfully\n")
	fmt.Printf("  New job ID: %s\n", result.JobID)
	fmt.Printf("  State: %s\n", result.State)
	fmt.Printf("  Previous progress: %d%%\n", result.PreviousProgress)
	if result.Message != "" {
		fmt.Printf("  Message: %s\n", result.Message)
	}
	fmt.Printf("\nUse 'vectorcortex status %s' to monitor progress\n", result.JobID)

	return nil
}

// runResumeLocal loads a checkpoint and re-runs the pipeline locally
func runResumeLocal(jobID string) error {
	slog.Info("Resuming job locally", "job_id", jobID)

	checkpointStore, err := store.NewFSStore("./data")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	checkpoint, err := checkpointStore.LoadCheckpoint(jobID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	if err := checkpoint.Validate(); err != nil {
		return fmt.Errorf("invalid checkpoint: %w", err)
	}

	fmt.Printf("Loaded checkpoint:\n")
	fmt.Printf("  Job ID: %s\n", checkpoint.JobID)
	fmt.Printf("  Progress at checkpoint: %d%%\n", checkpoint.Progress)
	fmt.Printf("  Regions emitted: %d\n", checkpoint.RegionsEmitted)
	fmt.Printf("  Image: %s\n", checkpoint.Config.ImagePath)
	fmt.Printf("  Path mode: %s\n", checkpoint.Config.PathSimplifyMode)
	fmt.Printf("  Checkpoint time: %s\n\n", checkpoint.Timestamp.Format(time.RFC3339))

	img, err := vectorize.LoadImage(checkpoint.Config.ImagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	cfg := vectorize.Config{
		Diagonal:          checkpoint.Config.Diagonal,
		Hierarchical:      checkpoint.Config.Hierarchical,
		BatchSize:         checkpoint.Config.BatchSize,
		GoodMinArea:       checkpoint.Config.GoodMinArea,
		GoodMaxArea:       checkpoint.Config.GoodMaxArea,
		IsSameColorShift:  checkpoint.Config.IsSameColorShift,
		IsSameColorThresh: checkpoint.Config.IsSameColorThresh,
		DeepenDiff:        checkpoint.Config.DeepenDiff,
		HollowNeighbours:  checkpoint.Config.HollowNeighbours,
		PathMode:          vectorize.PathMode(checkpoint.Config.PathSimplifyMode),
		CornerThreshold:   checkpoint.Config.CornerThreshold,
		LengthThreshold:   checkpoint.Config.LengthThreshold,
		SpliceThreshold:   checkpoint.Config.SpliceThreshold,
		MaxIterations:     checkpoint.Config.MaxIterations,
		SVGPrecision:      checkpoint.Config.SVGPrecision,
	}

	fmt.Printf("Replaying pipeline from scratch...\n")
	start := time.Now()

	result, err := vectorize.Run(img, cfg)
	if err != nil {
		return fmt.Errorf("vectorization failed: %w", err)
	}

	elapsed := time.Since(start)

	fmt.Printf("\nReplay completed in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Regions: %d\n", len(result.Regions))

	if err := os.MkdirAll(resumeOutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outPath := filepath.Join(resumeOutputDir, fmt.Sprintf("%s_resumed.svg", jobID))
	if err := os.WriteFile(outPath, []byte(result.ToSVG()), 0644); err != nil {
		return fmt.Errorf("failed to save output: %w", err)
	}

	fmt.Printf("\nOutput saved to: %s\n", outPath)

	updatedCheckpoint := store.NewCheckpoint(
		jobID,
		checkpoint.Stage,
		checkpoint.Iteration,
		100,
		len(result.Regions),
		checkpoint.Config,
	)

	if err := checkpointStore.SaveCheckpoint(jobID, updatedCheckpoint); err != nil {
		slog.Warn("Failed to update checkpoint", "error", err)
	} else {
		fmt.Printf("Checkpoint updated\n")
	}

	return nil
}
