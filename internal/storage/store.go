package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/borisim/internal/sim"
	"github.com/san-kum/borisim/internal/vec"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var trajectoryHeader = []string{"step", "time", "x", "y", "z", "vx", "vy", "vz", "gamma"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Scenario     string             `json:"scenario"`
	Timestamp    time.Time          `json:"timestamp"`
	Charge       float64            `json:"charge"`
	Mass         float64            `json:"mass"`
	Dt           float64            `json:"dt"`
	Steps        int                `json:"steps"`
	SpeedOfLight float64            `json:"speed_of_light"`
	Electric     []string           `json:"electric,omitempty"`
	Magnetic     []string           `json:"magnetic,omitempty"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes meta and the trajectory into a new run directory and
// returns the run id. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Metrics = result.Metrics

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), result.Samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeTrajectory(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(trajectoryHeader); err != nil {
		return err
	}

	for _, smp := range samples {
		row := []string{
			strconv.Itoa(smp.Step),
			formatFloat(smp.Time),
			formatFloat(smp.Position.X),
			formatFloat(smp.Position.Y),
			formatFloat(smp.Position.Z),
			formatFloat(smp.Velocity.X),
			formatFloat(smp.Velocity.Y),
			formatFloat(smp.Velocity.Z),
			formatFloat(smp.Gamma),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns all runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads back the samples of a run. Proper velocity is not
// stored and is rebuilt from velocity and gamma.
func (s *Store) LoadTrajectory(runID string) ([]sim.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(trajectoryHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		smp, err := parseSample(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", trajectoryFile, i+2, err)
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func parseSample(rec []string) (sim.Sample, error) {
	step, err := strconv.Atoi(rec[0])
	if err != nil {
		return sim.Sample{}, err
	}
	vals := make([]float64, len(rec)-1)
	for j, field := range rec[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return sim.Sample{}, err
		}
		vals[j] = v
	}
	velocity := vec.New(vals[4], vals[5], vals[6])
	return sim.Sample{
		Step:           step,
		Time:           vals[0],
		Position:       vec.New(vals[1], vals[2], vals[3]),
		Velocity:       velocity,
		ProperVelocity: velocity.Scale(vals[7]),
		Gamma:          vals[7],
	}, nil
}
