package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run      RunMetadata          `json:"run"`
	Times    []float64            `json:"times"`
	Series   map[string][]float64 `json:"series"`
	Faults   []int64              `json:"fault_frames"`
	Converge []bool               `json:"converged"`
}

var exportColumns = []string{"speed", "throttle", "steer", "brake", "cross_track", "heading_error"}

// ExportJSON writes the run metadata and its per-tick series to w.
func ExportJSON(w io.Writer, meta *RunMetadata, ticks []TickRecord) error {
	data := ExportData{
		Run:      *meta,
		Times:    make([]float64, len(ticks)),
		Series:   make(map[string][]float64, len(exportColumns)),
		Faults:   []int64{},
		Converge: make([]bool, len(ticks)),
	}

	for i, t := range ticks {
		data.Times[i] = t.Time
		data.Converge[i] = t.Converged
		if t.Fault {
			data.Faults = append(data.Faults, t.Frame)
		}
	}
	for _, name := range exportColumns {
		col, err := Column(ticks, name)
		if err != nil {
			return err
		}
		data.Series[name] = col
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
