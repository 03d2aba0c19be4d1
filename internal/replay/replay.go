// Package replay drives a tracking controller from recorded vehicle state,
// one tick per sample, the way a simulator client would.
package replay

import (
	"context"
	"fmt"

	"github.com/san-kum/trackctl/internal/metrics"
	"github.com/san-kum/trackctl/internal/tracking"
	"github.com/san-kum/trackctl/internal/vehicle"
)

// Tick records one control step. Command is the held command when Err is
// set.
type Tick struct {
	State       vehicle.State
	Command     vehicle.Command
	Diagnostics tracking.Diagnostics
	Active      bool
	Err         error
}

type Observer interface {
	OnTick(t Tick)
}

type Result struct {
	Ticks   []Tick
	Metrics map[string]float64
}

// Faults returns the number of ticks that reported an error.
func (r *Result) Faults() int {
	n := 0
	for _, t := range r.Ticks {
		if t.Err != nil {
			n++
		}
	}
	return n
}

// Errors returns the tick errors in tick order.
func (r *Result) Errors() []error {
	var errs []error
	for _, t := range r.Ticks {
		if t.Err != nil {
			errs = append(errs, t.Err)
		}
	}
	return errs
}

type Runner struct {
	ctrl      *tracking.Controller
	path      vehicle.Path
	window    int
	metrics   []metrics.Metric
	observers []Observer
}

// New builds a runner. With window > 0 the controller receives a fresh
// window of that many waypoints, starting at the nearest one, every tick.
// Otherwise it receives the whole path once.
func New(ctrl *tracking.Controller, path vehicle.Path, window int) *Runner {
	return &Runner{
		ctrl:   ctrl,
		path:   path,
		window: window,
	}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }

// Run steps the controller once per state. If ctx is cancelled the ticks
// completed so far are returned, with metrics, alongside ctx.Err().
func (r *Runner) Run(ctx context.Context, states []vehicle.State) (*Result, error) {
	if len(r.path) == 0 {
		return nil, fmt.Errorf("replay: %w", vehicle.ErrNoWaypoints)
	}

	result := &Result{
		Ticks:   make([]Tick, 0, len(states)),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	if r.window <= 0 {
		r.ctrl.UpdateWaypoints(r.path)
	}

	for _, s := range states {
		select {
		case <-ctx.Done():
			return r.finish(result), ctx.Err()
		default:
		}

		r.ctrl.UpdateState(s.X, s.Y, s.Yaw, s.Speed, s.Timestamp, s.Frame)
		if r.window > 0 {
			_, nearest, err := tracking.TargetSpeed(s.X, s.Y, r.path)
			if err != nil {
				return r.finish(result), err
			}
			r.ctrl.UpdateWaypoints(r.path.Window(nearest, r.window))
		}

		err := r.ctrl.Step()
		tick := Tick{
			State:       s,
			Command:     r.ctrl.Command(),
			Diagnostics: r.ctrl.Diagnostics(),
			Active:      r.ctrl.Started(),
			Err:         err,
		}

		if err == nil && tick.Active {
			for _, m := range r.metrics {
				m.Observe(s, tick.Command, tick.Diagnostics)
			}
		}
		for _, obs := range r.observers {
			obs.OnTick(tick)
		}

		result.Ticks = append(result.Ticks, tick)
	}

	return r.finish(result), nil
}

// finish records the metric values over the ticks run so far.
func (r *Runner) finish(result *Result) *Result {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result
}
