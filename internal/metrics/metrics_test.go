package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/trackctl/internal/tracking"
	"github.com/san-kum/trackctl/internal/vehicle"
)

func diag(cte, speedErr float64, converged bool) tracking.Diagnostics {
	d := tracking.Diagnostics{Converged: converged}
	d.Errors.CrossTrack = cte
	d.Longitudinal.Error = speedErr
	return d
}

func TestCrossTrackRMS(t *testing.T) {
	m := NewCrossTrackRMS()
	if m.Value() != 0 {
		t.Error("expected zero before observations")
	}

	m.Observe(vehicle.State{}, vehicle.Command{}, diag(3, 0, true))
	m.Observe(vehicle.State{}, vehicle.Command{}, diag(-4, 0, true))

	want := math.Sqrt((9.0 + 16.0) / 2)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestSpeedError(t *testing.T) {
	mean := NewSpeedError(false)
	std := NewSpeedError(true)

	for _, e := range []float64{1, 2, 3, 4} {
		mean.Observe(vehicle.State{}, vehicle.Command{}, diag(0, e, true))
		std.Observe(vehicle.State{}, vehicle.Command{}, diag(0, e, true))
	}

	if mean.Value() != 2.5 {
		t.Errorf("expected mean 2.5, got %f", mean.Value())
	}
	// sample standard deviation of 1..4
	if want := math.Sqrt(5.0 / 3.0); math.Abs(std.Value()-want) > 1e-12 {
		t.Errorf("expected std %f, got %f", want, std.Value())
	}
	if mean.Name() == std.Name() {
		t.Error("mean and std metrics need distinct names")
	}
}

func TestSpeedError_SingleSample(t *testing.T) {
	mean := NewSpeedError(false)
	mean.Observe(vehicle.State{}, vehicle.Command{}, diag(0, 1.5, true))
	if mean.Value() != 1.5 {
		t.Errorf("expected 1.5, got %f", mean.Value())
	}

	std := NewSpeedError(true)
	std.Observe(vehicle.State{}, vehicle.Command{}, diag(0, 1.5, true))
	if std.Value() != 0 {
		t.Errorf("expected 0, got %f", std.Value())
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(vehicle.State{}, vehicle.Command{Throttle: 0.5, Steer: -0.5}, diag(0, 0, true))
	m.Observe(vehicle.State{}, vehicle.Command{Throttle: 0.2}, diag(0, 0, true))

	if math.Abs(m.Value()-0.6) > 1e-12 {
		t.Errorf("expected 0.6, got %f", m.Value())
	}
}

func TestOnTrackAndConvergence(t *testing.T) {
	on := NewOnTrack(1.0)
	conv := NewConvergence()

	for i, cte := range []float64{0.2, -0.5, 1.5, -3} {
		d := diag(cte, 0, i%2 == 0)
		on.Observe(vehicle.State{}, vehicle.Command{}, d)
		conv.Observe(vehicle.State{}, vehicle.Command{}, d)
	}

	if on.Value() != 0.5 {
		t.Errorf("expected on_track 0.5, got %f", on.Value())
	}
	if conv.Value() != 0.5 {
		t.Errorf("expected convergence 0.5, got %f", conv.Value())
	}
}

func TestDefault(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
