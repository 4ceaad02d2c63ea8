package metrics

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestRecorderRegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewRecorder(reg)

	r.JobFinished(OutcomeSuccess, 12.5)
	r.JobFinished(OutcomeFailure, 2.0)
	r.FilesProcessed(7)
	r.GenerationFailed("readme")
	r.CloneFinished(1.5)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}

	want := map[string]bool{
		"reposcribe_jobs_total":                false,
		"reposcribe_files_processed_total":     false,
		"reposcribe_generation_failures_total": false,
		"reposcribe_job_duration_seconds":      false,
		"reposcribe_clone_duration_seconds":    false,
	}
	for _, mf := range families {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	// Must not panic.
	r.JobFinished(OutcomeSuccess, 1)
	r.FilesProcessed(1)
	r.GenerationFailed("file_analysis")
	r.CloneFinished(1)
}
