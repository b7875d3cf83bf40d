// Package storage persists benchmark runs: one directory per run holding
// metadata.json, the vibe that was played and the per-frame samples as CSV.
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

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	vibeFile     = "vibe.yaml"
)

var framesHeader = []string{"frame", "clock", "elapsed_ms", "entities", "nodes", "degraded"}

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
	ID        string             `json:"id"`
	Vibe      string             `json:"vibe"`
	Geometry  config.Geometry    `json:"geometry"`
	Variant   config.Geometry    `json:"variant"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Frames    int                `json:"frames"`
	Count     int                `json:"count"`
	Intensity float64            `json:"intensity"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run and returns its ID. variant is the tag that actually
// played, which differs from the configured geometry after a fallback.
func (s *Store) Save(cfg *config.Vibe, variant config.Geometry, seed int64, samples []metrics.Sample, values map[string]float64) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Geometry.Type, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Vibe:      cfg.Name,
		Geometry:  cfg.Geometry.Type,
		Variant:   variant,
		Timestamp: now,
		Seed:      seed,
		Frames:    len(samples),
		Count:     cfg.Geometry.Count,
		Intensity: cfg.Motion.Intensity,
		Metrics:   values,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, vibeFile), cfg); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, samples []metrics.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(framesHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Frame),
			strconv.FormatFloat(s.Clock, 'f', 6, 64),
			strconv.FormatFloat(float64(s.Elapsed.Microseconds())/1000, 'f', 3, 64),
			strconv.Itoa(s.Entities),
			strconv.Itoa(s.Nodes),
			strconv.FormatBool(s.Degraded),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
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
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadVibe returns the configuration a run was recorded with.
func (s *Store) LoadVibe(runID string) (*config.Vibe, error) {
	return config.Load(filepath.Join(s.baseDir, runID, vibeFile))
}

func (s *Store) LoadFrames(runID string) ([]metrics.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		s, err := parseSample(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func parseSample(record []string) (metrics.Sample, error) {
	var s metrics.Sample
	if len(record) != len(framesHeader) {
		return s, fmt.Errorf("expected %d fields, got %d", len(framesHeader), len(record))
	}
	var err error
	if s.Frame, err = strconv.Atoi(record[0]); err != nil {
		return s, err
	}
	if s.Clock, err = strconv.ParseFloat(record[1], 64); err != nil {
		return s, err
	}
	ms, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return s, err
	}
	s.Elapsed = time.Duration(ms * float64(time.Millisecond))
	if s.Entities, err = strconv.Atoi(record[3]); err != nil {
		return s, err
	}
	if s.Nodes, err = strconv.Atoi(record[4]); err != nil {
		return s, err
	}
	if s.Degraded, err = strconv.ParseBool(record[5]); err != nil {
		return s, err
	}
	return s, nil
}
