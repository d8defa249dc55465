package server

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunJob_Success(t *testing.T) {
	tmpDir := t.TempDir()
	imgPath := filepath.Join(tmpDir, "test.png")
	createTestImage(t, imgPath)

	jm := NewJobManager()
	config := JobConfig{
		ImagePath:        imgPath,
		Diagonal:         true,
		Hierarchical:     ^uint32(0),
		BatchSize:        10000,
		GoodMinArea:      16,
		GoodMaxArea:      65536,
		IsSameColorShift: 4,
		DeepenDiff:       64,
		HollowNeighbours: 1,
		PathSimplifyMode: "polygon",
		MaxIterations:    10,
		SVGPrecision:     -1,
	}

	job := jm.CreateJob(config)

	ctx := context.Background()
	err := runJob(ctx, jm, nil, job.ID)

	if err != nil {
		t.Errorf("runJob should succeed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCompleted {
		t.Errorf("Job should be completed, got %s", updated.State)
	}

	if updated.Progress != 100 {
		t.Errorf("Progress should be 100, got %d", updated.Progress)
	}

	if updated.Result == nil {
		t.Fatal("Result should be set")
	}

	if len(updated.Result.Regions) == 0 {
		t.Error("Expected at least one region")
	}

	if updated.RegionsEmitted != len(updated.Result.Regions) {
		t.Errorf("RegionsEmitted mismatch: %d vs %d", updated.RegionsEmitted, len(updated.Result.Regions))
	}
}

func TestRunJob_InvalidImage(t *testing.T) {
	jm := NewJobManager()
	config := JobConfig{
		ImagePath: "/nonexistent/image.png",
	}

	job := jm.CreateJob(config)

	ctx := context.Background()
	err := runJob(ctx, jm, nil, job.ID)

	if err == nil {
		t.Error("runJob should fail with invalid image path")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}

	if updated.Error == "" {
		t.Error("Error message should be set")
	}
}

func TestRunJob_InvalidPathMode(t *testing.T) {
	tmpDir := t.TempDir()
	imgPath := filepath.Join(tmpDir, "test.png")
	createTestImage(t, imgPath)

	jm := NewJobManager()
	config := JobConfig{
		ImagePath:        imgPath,
		Hierarchical:     ^uint32(0),
		BatchSize:        10000,
		GoodMaxArea:      65536,
		PathSimplifyMode: "bogus",
	}

	job := jm.CreateJob(config)

	ctx := context.Background()
	err := runJob(ctx, jm, nil, job.ID)

	if err == nil {
		t.Error("runJob should fail with an unknown path simplify mode")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}
}

func TestRunJob_Cancellation(t *testing.T) {
	tmpDir := t.TempDir()
	imgPath := filepath.Join(tmpDir, "test.png")
	createTestImage(t, imgPath)

	jm := NewJobManager()
	config := JobConfig{
		ImagePath:        imgPath,
		Hierarchical:     ^uint32(0),
		BatchSize:        1, // small batches so cancellation has time to land
		GoodMaxArea:      65536,
		PathSimplifyMode: "spline",
		MaxIterations:    10,
		SVGPrecision:     -1,
	}

	job := jm.CreateJob(config)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- runJob(ctx, jm, nil, job.ID)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	err := <-done

	if err == nil {
		t.Error("runJob should return error when cancelled")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateRunning && updated.State != StateCancelled && updated.State != StateCompleted {
		t.Errorf("Job should be running, cancelled, or (if it raced to finish) completed, got %s", updated.State)
	}
}

func TestSaveCheckpoint_NoActiveStage(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(JobConfig{ImagePath: "test.png"})

	// A freshly created job has no active builder stage yet, so this must
	// be a no-op and never touch the (nil) checkpoint store.
	if err := saveCheckpoint(jm, nil, job.ID); err != nil {
		t.Errorf("saveCheckpoint should skip a job with no active stage, got error: %v", err)
	}
}

func createTestImage(t *testing.T, path string) {
	img := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	white := color.NRGBA{255, 255, 255, 255}
	red := color.NRGBA{255, 0, 0, 255}

	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, white)
		}
	}

	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			img.Set(x, y, red)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}
