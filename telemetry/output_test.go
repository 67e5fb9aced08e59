package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/nebula/config"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatal(err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// Every method is safe on a nil manager.
	if err := om.WriteMorph(MorphEvent{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Errorf("expected empty dir, got %q", om.Dir())
	}
}

func TestOutputManager_WritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatal(err)
	}
	events := []MorphEvent{
		{Frame: 480, Time: 8, Kind: "morph_start", From: 0, To: 1, Shape: "Cube"},
		{Frame: 720, Time: 12, Kind: "morph_end", From: 1, To: 1, Shape: "Cube"},
	}
	for _, e := range events {
		if err := om.WriteMorph(e); err != nil {
			t.Fatal(err)
		}
	}
	stats := PerfStats{AvgTickDuration: time.Millisecond, PhasePct: map[string]float64{PhaseRender: 50}}
	for _, end := range []int64{120, 240} {
		if err := om.WritePerf(stats, end); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("expected second close to be a no-op, got %v", err)
	}

	morphs := readLines(t, filepath.Join(dir, "morphs.csv"))
	if len(morphs) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines: %v", len(morphs), morphs)
	}
	if morphs[0] != "frame,time_s,kind,from,to,shape" {
		t.Errorf("unexpected header %q", morphs[0])
	}
	if !strings.HasSuffix(morphs[2], "morph_end,1,1,Cube") {
		t.Errorf("unexpected row %q", morphs[2])
	}

	perf := readLines(t, filepath.Join(dir, "perf.csv"))
	if len(perf) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(perf))
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config snapshot: %v", err)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
