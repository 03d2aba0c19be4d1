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

	"github.com/google/uuid"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/replay"
)

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
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Timestamp  time.Time               `json:"timestamp"`
	StatesFile string                  `json:"states_file"`
	PathFile   string                  `json:"path_file"`
	Window     int                     `json:"window"`
	Ticks      int                     `json:"ticks"`
	Faults     int                     `json:"faults"`
	Controller config.ControllerConfig `json:"controller"`
	Metrics    map[string]float64      `json:"metrics"`
}

// TickRecord is one row of ticks.csv.
type TickRecord struct {
	Time         float64
	Frame        int64
	X            float64
	Y            float64
	Yaw          float64
	Speed        float64
	Throttle     float64
	Steer        float64
	Brake        float64
	CrossTrack   float64
	HeadingError float64
	Converged    bool
	Fault        bool
}

var tickHeader = []string{
	"time", "frame", "x", "y", "yaw", "speed",
	"throttle", "steer", "brake", "cross_track", "heading_error", "converged", "fault",
}

func NewRunID(name string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", name, now.Unix(), uuid.NewString()[:8])
}

// Save writes metadata.json and ticks.csv under a new run directory and
// returns the run ID. meta.ID, Timestamp, Ticks, Faults and Metrics are
// filled in from the result.
func (s *Store) Save(meta RunMetadata, result *replay.Result) (string, error) {
	now := time.Now()
	meta.ID = NewRunID(meta.Name, now)
	meta.Timestamp = now
	meta.Ticks = len(result.Ticks)
	meta.Faults = result.Faults()
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeTicks(filepath.Join(runDir, "ticks.csv"), result.Ticks); err != nil {
		return "", err
	}
	return meta.ID, nil
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

func writeTicks(path string, ticks []replay.Tick) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tickHeader); err != nil {
		return err
	}

	for _, t := range ticks {
		d := t.Diagnostics
		row := []string{
			formatFloat(t.State.Timestamp),
			strconv.FormatInt(t.State.Frame, 10),
			formatFloat(t.State.X),
			formatFloat(t.State.Y),
			formatFloat(t.State.Yaw),
			formatFloat(t.State.Speed),
			formatFloat(t.Command.Throttle),
			formatFloat(t.Command.Steer),
			formatFloat(t.Command.Brake),
			formatFloat(d.Errors.CrossTrack),
			formatFloat(d.Errors.Heading),
			strconv.FormatBool(d.Converged),
			strconv.FormatBool(t.Err != nil),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns all readable runs, newest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTicks(runID string) ([]TickRecord, error) {
	csvPath := filepath.Join(s.baseDir, runID, "ticks.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(tickHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []TickRecord{}, nil
	}

	ticks := make([]TickRecord, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := parseTick(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", csvPath, i+1, err)
		}
		ticks = append(ticks, t)
	}
	return ticks, nil
}

func parseTick(rec []string) (TickRecord, error) {
	var t TickRecord
	var err error

	floats := []*float64{&t.Time, nil, &t.X, &t.Y, &t.Yaw, &t.Speed, &t.Throttle, &t.Steer, &t.Brake, &t.CrossTrack, &t.HeadingError}
	for i, dst := range floats {
		if dst == nil {
			continue
		}
		if *dst, err = strconv.ParseFloat(rec[i], 64); err != nil {
			return t, fmt.Errorf("%s: %w", tickHeader[i], err)
		}
	}
	if t.Frame, err = strconv.ParseInt(rec[1], 10, 64); err != nil {
		return t, fmt.Errorf("frame: %w", err)
	}
	if t.Converged, err = strconv.ParseBool(rec[11]); err != nil {
		return t, fmt.Errorf("converged: %w", err)
	}
	if t.Fault, err = strconv.ParseBool(rec[12]); err != nil {
		return t, fmt.Errorf("fault: %w", err)
	}
	return t, nil
}

// Column returns one named series from the tick records.
func Column(ticks []TickRecord, name string) ([]float64, error) {
	var get func(TickRecord) float64
	switch name {
	case "throttle":
		get = func(t TickRecord) float64 { return t.Throttle }
	case "steer":
		get = func(t TickRecord) float64 { return t.Steer }
	case "brake":
		get = func(t TickRecord) float64 { return t.Brake }
	case "speed":
		get = func(t TickRecord) float64 { return t.Speed }
	case "cross_track":
		get = func(t TickRecord) float64 { return t.CrossTrack }
	case "heading_error":
		get = func(t TickRecord) float64 { return t.HeadingError }
	default:
		return nil, fmt.Errorf("unknown column: %s", name)
	}

	out := make([]float64, len(ticks))
	for i, t := range ticks {
		out[i] = get(t)
	}
	return out, nil
}
