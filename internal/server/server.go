package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/cwbudde/vectorcortex/internal/store"
)

// Server represents the HTTP server
type Server struct {
	jobManager *JobManager
	store      store.Store
	addr       string
	server     *http.Server
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewServer creates a new HTTP server with optional checkpoint store.
// If store is nil, checkpointing is disabled.
func NewServer(addr string, checkpointStore store.Store) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		jobManager: NewJobManager(),
		store:      checkpointStore,
		addr:       addr,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Register API routes
	mux.HandleFunc("/api/v1/jobs", s.handleJobs)
	mux.HandleFunc("/api/v1/jobs/", s.handleJobsWithID)

	// Register pprof routes for profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// Wrap with middleware
	handler := s.loggingMiddleware(s.corsMiddleware(mux))

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: handler,
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")

	// Cancel server context to signal workers to stop
	s.cancel()

	// Checkpoint all running jobs before shutdown
	if s.store != nil {
		s.checkpointRunningJobs(ctx)
	}

	// Shutdown HTTP server
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// checkpointRunningJobs saves checkpoints for all running jobs
func (s *Server) checkpointRunningJobs(ctx context.Context) {
	runningJobs := s.jobManager.GetRunningJobs()

	if len(runningJobs) == 0 {
		slog.Info("No running jobs to checkpoint")
		return
	}

	slog.Info("Checkpointing running jobs", "count", len(runningJobs))

	type checkpointResult struct {
		jobID string
		err   error
	}

	results := make(chan checkpointResult, len(runningJobs))

	for _, job := range runningJobs {
		go func(j *Job) {
			err := saveCheckpoint(s.jobManager, s.store, j.ID)

			if err != nil {
				slog.Error("Failed to checkpoint job on shutdown", "job_id", j.ID, "error", err)
			} else {
				slog.Info("Job checkpointed on shutdown", "job_id", j.ID, "progress", j.Progress)
			}
			results <- checkpointResult{jobID: j.ID, err: err}
		}(job)
	}

	checkpointed := 0
	failed := 0

	for i := 0; i < len(runningJobs); i++ {
		select {
		case result := <-results:
			if result.err == nil {
				checkpointed++
			} else {
				failed++
			}
		case <-ctx.Done():
			slog.Warn("Checkpoint timeout during shutdown",
				"checkpointed", checkpointed,
				"failed", failed,
				"pending", len(runningJobs)-checkpointed-failed,
			)
			return
		}
	}

	slog.Info("Shutdown checkpoint complete", "checkpointed", checkpointed, "failed", failed)
}

// handleJobs handles /api/v1/jobs
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateJob(w, r)
	case http.MethodGet:
		s.handleListJobs(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobsWithID handles /api/v1/jobs/:id/*
func (s *Server) handleJobsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	jobID := parts[0]

	switch {
	case len(parts) == 1 || parts[1] == "status":
		s.handleGetJobStatus(w, r, jobID)
	case parts[1] == "result.svg":
		s.handleGetResultSVG(w, r, jobID)
	case parts[1] == "stream":
		s.handleJobStream(w, r, jobID)
	case parts[1] == "resume":
		s.handleResumeJob(w, r, jobID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleCreateJob handles POST /api/v1/jobs
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var config JobConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	if config.ImagePath == "" {
		http.Error(w, "imagePath is required", http.StatusBadRequest)
		return
	}
	applyConfigDefaults(&config)

	job := s.jobManager.CreateJob(config)

	go runJob(s.ctx, s.jobManager, s.store, job.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

// applyConfigDefaults fills unset fields of a user-submitted JobConfig with
// the builder's published defaults.
func applyConfigDefaults(config *JobConfig) {
	if config.BatchSize == 0 {
		config.BatchSize = 10000
	}
	if config.GoodMaxArea == 0 {
		config.GoodMaxArea = 65536
	}
	if config.GoodMinArea == 0 {
		config.GoodMinArea = 16
	}
	if config.IsSameColorShift == 0 {
		config.IsSameColorShift = 4
	}
	if config.IsSameColorThresh == 0 {
		config.IsSameColorThresh = 1
	}
	if config.DeepenDiff == 0 {
		config.DeepenDiff = 64
	}
	if config.HollowNeighbours == 0 {
		config.HollowNeighbours = 1
	}
	if config.PathSimplifyMode == "" {
		config.PathSimplifyMode = "spline"
	}
	if config.MaxIterations == 0 {
		config.MaxIterations = 10
	}
	if config.Hierarchical == 0 {
		config.Hierarchical = ^uint32(0)
	}
}

// handleListJobs handles GET /api/v1/jobs
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.jobManager.ListJobs()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// handleGetJobStatus handles GET /api/v1/jobs/:id/status
func (s *Server) handleGetJobStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	var elapsed time.Duration
	if job.EndTime != nil {
		elapsed = job.EndTime.Sub(job.StartTime)
	} else {
		elapsed = time.Since(job.StartTime)
	}

	response := map[string]interface{}{
		"id":             job.ID,
		"state":          job.State,
		"config":         job.Config,
		"stage":          job.Stage,
		"progress":       job.Progress,
		"regionsEmitted": job.RegionsEmitted,
		"elapsed":        elapsed.Seconds(),
		"startTime":      job.StartTime,
		"endTime":        job.EndTime,
		"error":          job.Error,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleGetResultSVG handles GET /api/v1/jobs/:id/result.svg
func (s *Server) handleGetResultSVG(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	if job.Result == nil {
		http.Error(w, "No results yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	fmt.Fprint(w, job.Result.ToSVG())
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleResumeJob handles POST /api/v1/jobs/:id/resume
func (s *Server) handleResumeJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.store == nil {
		http.Error(w, "Checkpoint feature not enabled", http.StatusServiceUnavailable)
		return
	}

	checkpoint, err := s.store.LoadCheckpoint(jobID)
	if err != nil {
		if _, ok := err.(*store.NotFoundError); ok {
			http.Error(w, fmt.Sprintf("Checkpoint not found for job %s", jobID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to load checkpoint: %v", err), http.StatusInternalServerError)
		return
	}

	if err := checkpoint.Validate(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid checkpoint: %v", err), http.StatusBadRequest)
		return
	}

	slog.Info("Resuming job from checkpoint",
		"job_id", jobID,
		"progress", checkpoint.Progress,
		"regions", checkpoint.RegionsEmitted,
	)

	// Clustering is deterministic: resuming re-runs the builder from
	// scratch over the same image and configuration rather than restoring
	// partial label-grid state.
	config := checkpoint.Config
	newJob := s.jobManager.CreateJob(config)

	go runJob(s.ctx, s.jobManager, s.store, newJob.ID)

	response := map[string]interface{}{
		"jobId":           newJob.ID,
		"resumedFrom":     jobID,
		"state":           string(newJob.State),
		"previousProgress": checkpoint.Progress,
		"message":         "Job resumed successfully from checkpoint",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
