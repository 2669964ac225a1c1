package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/borisim/internal/sim"
)

type ExportData struct {
	RunMetadata
	Samples []sim.Sample `json:"samples"`
}

// ExportJSON writes a run's metadata and full trajectory as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, Samples: samples})
}

// ExportJSONFile is ExportJSON into a newly created file at path.
func (s *Store) ExportJSONFile(path, runID string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.ExportJSON(f, runID); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
