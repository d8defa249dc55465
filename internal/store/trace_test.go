package store

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTraceWriter_WriteAndRead(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "test-job-123"

	writer, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}

	entries := []TraceEntry{
		{Tick: 0, Stage: 1, Progress: 0, RegionsEmitted: 0, Timestamp: time.Now()},
		{Tick: 1, Stage: 1, Progress: 25, RegionsEmitted: 0, Timestamp: time.Now()},
		{Tick: 2, Stage: 2, Progress: 60, RegionsEmitted: 4, Timestamp: time.Now()},
		{Tick: 3, Stage: 2, Progress: 100, RegionsEmitted: 9, Timestamp: time.Now()},
	}

	for _, entry := range entries {
		if err := writer.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	reader, err := NewTraceReader(tmpDir, jobID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	got, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if len(got) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(got))
	}
	for i, e := range got {
		if e.Tick != entries[i].Tick || e.Stage != entries[i].Stage ||
			e.Progress != entries[i].Progress || e.RegionsEmitted != entries[i].RegionsEmitted {
			t.Errorf("entry %d mismatch: got %+v want %+v", i, e, entries[i])
		}
	}
}

func TestTraceWriter_Append(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "append-job"

	w1, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("NewTraceWriter: %v", err)
	}
	if err := w1.Write(TraceEntry{Tick: 0, Stage: 1, Progress: 0, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	w2, err := NewTraceWriter(tmpDir, jobID, true)
	if err != nil {
		t.Fatalf("NewTraceWriter (append): %v", err)
	}
	if err := w2.Write(TraceEntry{Tick: 1, Stage: 1, Progress: 50, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w2.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reader, err := NewTraceReader(tmpDir, jobID)
	if err != nil {
		t.Fatalf("NewTraceReader: %v", err)
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after append, got %d", len(entries))
	}
}

func TestTraceReader_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := NewTraceReader(tmpDir, "missing-job")
	if err == nil {
		t.Fatal("expected error for missing trace file")
	}
	var nfe *NotFoundError
	if !asNotFoundError(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func asNotFoundError(err error, target **NotFoundError) bool {
	nfe, ok := err.(*NotFoundError)
	if ok {
		*target = nfe
	}
	return ok
}

func TestTraceReader_EOF(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "empty-job"

	w, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("NewTraceWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewTraceReader(tmpDir, jobID)
	if err != nil {
		t.Fatalf("NewTraceReader: %v", err)
	}
	defer r.Close()

	if _, err := r.Read(); err != io.EOF {
		t.Fatalf("expected io.EOF on empty trace, got %v", err)
	}
}

func TestDeleteTrace(t *testing.T) {
	tmpDir := t.TempDir()
	jobID := "delete-me"

	w, err := NewTraceWriter(tmpDir, jobID, false)
	if err != nil {
		t.Fatalf("NewTraceWriter: %v", err)
	}
	w.Write(TraceEntry{Tick: 0, Stage: 1, Timestamp: time.Now()})
	w.Close()

	if err := DeleteTrace(tmpDir, jobID); err != nil {
		t.Fatalf("DeleteTrace: %v", err)
	}

	path := filepath.Join(tmpDir, "jobs", jobID, "trace.jsonl")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected trace file to be removed, stat err: %v", err)
	}

	if err := DeleteTrace(tmpDir, "never-existed"); err != nil {
		t.Fatalf("DeleteTrace on missing job should be a no-op, got %v", err)
	}
}
