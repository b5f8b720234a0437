package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// TestFileSinkWriteRunReport tests artifact layout on disk
func TestFileSinkWriteRunReport(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, false, nil)

	paths, err := sink.WriteRunReport(context.Background(), sampleRunReport())
	if err != nil {
		t.Fatalf("WriteRunReport failed: %v", err)
	}

	if len(paths) != 3 {
		t.Fatalf("Expected markdown+csv+json, got %d paths: %v", len(paths), paths)
	}
	expected := []string{"run_run-123.md", "run_run-123_hits.csv", "run_run-123.json"}
	for i, name := range expected {
		if filepath.Base(paths[i]) != name {
			t.Errorf("Expected %s, got %s", name, filepath.Base(paths[i]))
		}
		info, err := os.Stat(paths[i])
		if err != nil {
			t.Errorf("Artifact %s missing: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("Artifact %s is empty", name)
		}
	}
}

// TestFileSinkCreatesDirectory tests that the report directory is created on demand
func TestFileSinkCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	sink := NewFileSink(dir, false, nil)

	if _, err := sink.WriteRunReport(context.Background(), sampleRunReport()); err != nil {
		t.Fatalf("WriteRunReport failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Report directory was not created: %v", err)
	}
}
