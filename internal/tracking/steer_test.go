package tracking

import (
	"math"
	"testing"
)

func TestSteeringLaw_Normalize(t *testing.T) {
	law := SteeringLaw{Wheelbase: 1, MaxAngleDeg: 70}

	tests := []struct {
		rad, want float64
	}{
		{0, 0},
		{70 * math.Pi / 180, 1},
		{-35 * math.Pi / 180, -0.5},
		{2, 1},
		{-5, -1},
	}
	for _, tt := range tests {
		if got := law.Normalize(tt.rad); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Normalize(%f) = %f, want %f", tt.rad, got, tt.want)
		}
	}
}

func TestSteeringLaw_Feedback(t *testing.T) {
	law := SteeringLaw{Wheelbase: 1, MaxAngleDeg: 70}

	tests := []struct {
		u, want float64
	}{
		{0, 0},
		{0.3, -0.3},
		{-0.3, 0.3},
		{1.7, -math.Pi / 2},
		// wraps to -π, then clamps to -π/2
		{math.Pi, math.Pi / 2},
		{2*math.Pi + 0.2, -0.2},
	}
	for _, tt := range tests {
		if got := law.Feedback(tt.u); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Feedback(%f) = %f, want %f", tt.u, got, tt.want)
		}
	}
}

func TestSteeringLaw_Angle(t *testing.T) {
	law := SteeringLaw{Wheelbase: 2, MaxAngleDeg: 70}

	if got := law.Angle(0, 0.4, 0); got != 0 {
		t.Errorf("expected zero angle at standstill, got %f", got)
	}
	// v multiplies the tangent.
	want := 10 * math.Tan(0.1) / 2
	if got := law.Angle(0, 0.1, 10); math.Abs(got-want) > 1e-12 {
		t.Errorf("Angle = %f, want %f", got, want)
	}
	if got := law.Angle(0.05, 0.05, 10); math.Abs(got-want) > 1e-12 {
		t.Errorf("feed-forward should add to feedback: got %f, want %f", got, want)
	}
}
