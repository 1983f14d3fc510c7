// Package storage records finished runs on disk: metadata.json plus the
// buffered samples as samples.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/weatherwave/internal/encode"
	"github.com/san-kum/weatherwave/internal/weather"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one recorded run.
type RunMetadata struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Preset     string        `json:"preset,omitempty"`
	Requested  int           `json:"requested_frames"`
	Buffered   int           `json:"buffered_frames"`
	FrameRate  int           `json:"frame_rate"`
	StopReason string        `json:"stop_reason"`
	Waveform   string        `json:"waveform"`
	Color      string        `json:"color"`
	Seed       uint64        `json:"seed"`
	Elapsed    time.Duration `json:"elapsed"`
	Encoding   encode.Result `json:"encoding"`
}

// Save writes a new run directory and returns its ID. ID and Timestamp are
// assigned here.
func (s *Store) Save(meta RunMetadata, samples []weather.Sample) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = s.now().UTC()
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	if err := WriteCSV(f, samples); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var csvHeader = []string{"index", "time", "temperature", "humidity", "wind_speed"}

// WriteCSV writes samples with a header row.
func WriteCSV(out io.Writer, samples []weather.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Index),
			s.Time.Format(time.RFC3339),
			strconv.FormatFloat(s.Temperature, 'f', 6, 64),
			strconv.FormatFloat(s.Humidity, 'f', 6, 64),
			strconv.FormatFloat(s.WindSpeed, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns recorded runs, newest first. Unreadable entries are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(runID), "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) ([]weather.Sample, error) {
	f, err := os.Open(filepath.Join(s.runDir(runID), "samples.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(in io.Reader) ([]weather.Sample, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(csvHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []weather.Sample{}, nil
	}

	samples := make([]weather.Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		var s weather.Sample
		var errs [5]error
		s.Index, errs[0] = strconv.Atoi(rec[0])
		s.Time, errs[1] = time.Parse(time.RFC3339, rec[1])
		s.Temperature, errs[2] = strconv.ParseFloat(rec[2], 64)
		s.Humidity, errs[3] = strconv.ParseFloat(rec[3], 64)
		s.WindSpeed, errs[4] = strconv.ParseFloat(rec[4], 64)
		if err := errors.Join(errs[:]...); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// Export is the JSON document written by ExportJSON.
type Export struct {
	RunMetadata
	Samples []weather.Sample `json:"samples"`
}

func (s *Store) ExportJSON(out io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(Export{RunMetadata: *meta, Samples: samples})
}

func (s *Store) ExportCSV(out io.Writer, runID string) error {
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	return WriteCSV(out, samples)
}

// runDir keeps IDs from escaping the base directory.
func (s *Store) runDir(runID string) string {
	return filepath.Join(s.baseDir, filepath.Base(filepath.Clean("/"+runID)))
}
