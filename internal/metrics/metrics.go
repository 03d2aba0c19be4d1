package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/trackctl/internal/tracking"
	"github.com/san-kum/trackctl/internal/vehicle"
)

// Metric accumulates a scalar over the successful ticks of a run.
type Metric interface {
	Name() string
	Observe(s vehicle.State, cmd vehicle.Command, d tracking.Diagnostics)
	Value() float64
	Reset()
}

func Default() []Metric {
	return []Metric{
		NewCrossTrackRMS(),
		NewSpeedError(false),
		NewSpeedError(true),
		NewControlEffort(),
		NewOnTrack(1.0),
		NewConvergence(),
	}
}

type CrossTrackRMS struct {
	squares []float64
}

func NewCrossTrackRMS() *CrossTrackRMS { return &CrossTrackRMS{} }

func (c *CrossTrackRMS) Name() string { return "cross_track_rms" }

func (c *CrossTrackRMS) Observe(s vehicle.State, cmd vehicle.Command, d tracking.Diagnostics) {
	e := d.Errors.CrossTrack
	c.squares = append(c.squares, e*e)
}

func (c *CrossTrackRMS) Value() float64 {
	if len(c.squares) == 0 {
		return 0
	}
	return math.Sqrt(stat.Mean(c.squares, nil))
}

func (c *CrossTrackRMS) Reset() { c.squares = c.squares[:0] }

// SpeedError reports the mean, or with stddev set the standard deviation,
// of desired minus actual speed.
type SpeedError struct {
	stddev  bool
	samples []float64
}

func NewSpeedError(stddev bool) *SpeedError { return &SpeedError{stddev: stddev} }

func (e *SpeedError) Name() string {
	if e.stddev {
		return "speed_error_std"
	}
	return "speed_error_mean"
}

func (e *SpeedError) Observe(s vehicle.State, cmd vehicle.Command, d tracking.Diagnostics) {
	e.samples = append(e.samples, d.Longitudinal.Error)
}

func (e *SpeedError) Value() float64 {
	if len(e.samples) < 2 {
		if len(e.samples) == 1 && !e.stddev {
			return e.samples[0]
		}
		return 0
	}
	mean, std := stat.MeanStdDev(e.samples, nil)
	if e.stddev {
		return std
	}
	return mean
}

func (e *SpeedError) Reset() { e.samples = e.samples[:0] }

type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(s vehicle.State, cmd vehicle.Command, d tracking.Diagnostics) {
	c.sum += math.Abs(cmd.Throttle) + math.Abs(cmd.Steer) + math.Abs(cmd.Brake)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// OnTrack is the fraction of ticks with |cross-track error| within threshold.
type OnTrack struct {
	threshold  float64
	violations int
	samples    int
}

func NewOnTrack(threshold float64) *OnTrack { return &OnTrack{threshold: threshold} }

func (o *OnTrack) Name() string { return "on_track" }

func (o *OnTrack) Observe(s vehicle.State, cmd vehicle.Command, d tracking.Diagnostics) {
	o.samples++
	if math.Abs(d.Errors.CrossTrack) > o.threshold {
		o.violations++
	}
}

func (o *OnTrack) Value() float64 {
	if o.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(o.violations)/float64(o.samples)
}

func (o *OnTrack) Reset() {
	o.violations = 0
	o.samples = 0
}

// Convergence is the fraction of ticks whose Riccati iteration converged.
type Convergence struct {
	converged int
	samples   int
}

func NewConvergence() *Convergence { return &Convergence{} }

func (c *Convergence) Name() string { return "riccati_converged" }

func (c *Convergence) Observe(s vehicle.State, cmd vehicle.Command, d tracking.Diagnostics) {
	c.samples++
	if d.Converged {
		c.converged++
	}
}

func (c *Convergence) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.converged) / float64(c.samples)
}

func (c *Convergence) Reset() {
	c.converged = 0
	c.samples = 0
}
