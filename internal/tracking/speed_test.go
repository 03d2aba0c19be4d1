package tracking

import (
	"errors"
	"testing"

	"github.com/san-kum/trackctl/internal/vehicle"
)

func TestTargetSpeed(t *testing.T) {
	path := vehicle.Path{{X: 0, Y: 0, Speed: 5}, {X: 10, Y: 0, Speed: 10}, {X: 20, Y: 0, Speed: 15}}

	tests := []struct {
		name  string
		x, y  float64
		speed float64
		idx   int
	}{
		{"nearest middle", 9, 0, 10, 1},
		{"at start", -3, 1, 5, 0},
		{"tie goes to earliest", 5, 0, 5, 0},
		{"past the end uses last", 25, 0, 15, 2},
		{"off to the side", 19, 7, 15, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speed, idx, err := TargetSpeed(tt.x, tt.y, path)
			if err != nil {
				t.Fatal(err)
			}
			if speed != tt.speed || idx != tt.idx {
				t.Errorf("got speed %f at %d, want %f at %d", speed, idx, tt.speed, tt.idx)
			}
		})
	}
}

func TestTargetSpeed_Empty(t *testing.T) {
	if _, _, err := TargetSpeed(0, 0, nil); !errors.Is(err, vehicle.ErrNoWaypoints) {
		t.Errorf("expected ErrNoWaypoints, got %v", err)
	}
}
