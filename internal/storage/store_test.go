package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/borisim/internal/sim"
	"github.com/san-kum/borisim/internal/vec"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{Step: 0, Time: 0, Position: vec.New(0.05, 0, 0), Velocity: vec.New(1, 0, 0), ProperVelocity: vec.New(1, 0, 0), Gamma: 1},
			{Step: 1, Time: 0.1, Position: vec.New(0.15, 0, 0), Velocity: vec.New(0.6, 0.8, 0), ProperVelocity: vec.New(0.6, 0.8, 0), Gamma: 1},
		},
		Metrics:    map[string]float64{"speed_drift": 1.5},
		StepsTaken: 1,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Scenario: "test", Dt: 0.1, Steps: 1, Mass: 1, Charge: 1}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "test" {
		t.Errorf("expected scenario 'test', got '%s'", meta.Scenario)
	}
	if meta.ID != runID {
		t.Errorf("expected id %s, got %s", runID, meta.ID)
	}
	if meta.Metrics["speed_drift"] != 1.5 {
		t.Errorf("expected speed_drift 1.5, got %f", meta.Metrics["speed_drift"])
	}

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1].Position != vec.New(0.15, 0, 0) {
		t.Errorf("unexpected position %v", samples[1].Position)
	}
	if samples[1].Velocity != vec.New(0.6, 0.8, 0) {
		t.Errorf("unexpected velocity %v", samples[1].Velocity)
	}
	if samples[1].Step != 1 || samples[1].Time != 0.1 {
		t.Errorf("unexpected step/time %d/%g", samples[1].Step, samples[1].Time)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, name := range []string{"first", "second"} {
		if _, err := st.Save(RunMetadata{Scenario: name}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Scenario != "first" {
		t.Errorf("expected oldest run first, got %s", runs[0].Scenario)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Scenario: "test"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{metadataFile, trajectoryFile} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	runID, err := st.Save(RunMetadata{Scenario: "export"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if data.Scenario != "export" {
		t.Errorf("expected scenario 'export', got %q", data.Scenario)
	}
	if len(data.Samples) != 2 {
		t.Errorf("expected 2 samples, got %d", len(data.Samples))
	}
}
