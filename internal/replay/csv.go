package replay

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/trackctl/internal/vehicle"
)

// ReadStates parses a state log with columns t,frame,x,y,yaw,speed.
// A leading header row is skipped.
func ReadStates(r io.Reader) ([]vehicle.State, error) {
	records, err := readRecords(r, 6)
	if err != nil {
		return nil, err
	}

	states := make([]vehicle.State, 0, len(records))
	for i, rec := range records {
		vals, err := parseFloats(rec)
		if err != nil {
			return nil, fmt.Errorf("state row %d: %w", i+1, err)
		}
		frame, err := strconv.ParseInt(strings.TrimSpace(rec[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("state row %d: frame: %w", i+1, err)
		}
		states = append(states, vehicle.State{
			Timestamp: vals[0],
			Frame:     frame,
			X:         vals[2],
			Y:         vals[3],
			Yaw:       vals[4],
			Speed:     vals[5],
		})
	}
	return states, nil
}

// ReadPath parses waypoints with columns x,y,speed.
func ReadPath(r io.Reader) (vehicle.Path, error) {
	records, err := readRecords(r, 3)
	if err != nil {
		return nil, err
	}

	path := make(vehicle.Path, 0, len(records))
	for i, rec := range records {
		vals, err := parseFloats(rec)
		if err != nil {
			return nil, fmt.Errorf("waypoint row %d: %w", i+1, err)
		}
		path = append(path, vehicle.Waypoint{X: vals[0], Y: vals[1], Speed: vals[2]})
	}
	return path, nil
}

func LoadStates(name string) ([]vehicle.State, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadStates(f)
}

func LoadPath(name string) (vehicle.Path, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPath(f)
}

func readRecords(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && isHeader(records[0]) {
		records = records[1:]
	}
	return records, nil
}

func isHeader(rec []string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
	return err != nil
}

func parseFloats(rec []string) ([]float64, error) {
	vals := make([]float64, len(rec))
	for i, s := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
