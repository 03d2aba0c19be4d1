package control

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/trackctl/internal/vehicle"
)

const (
	DefaultKp             = 0.5
	DefaultKi             = 0.05
	DefaultKd             = 0.05
	DefaultFallbackDt     = 0.02
	DefaultTimeWindow     = 5
	DefaultIntegralWindow = 100
)

// Configurable is implemented by controllers that support live tuning.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// ApplyParams sets each named parameter on c, stopping at the first error.
// Names are applied in sorted order.
func ApplyParams(c Configurable, params map[string]float64) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := c.SetParam(name, params[name]); err != nil {
			return err
		}
	}
	return nil
}

type PIDConfig struct {
	Kp float64
	Ki float64
	Kd float64
	// FallbackDt is reported as the step when fewer than two error samples
	// exist and no timestamp difference is available.
	FallbackDt float64
	// TimeWindow is the capacity of the timestamp FIFO.
	TimeWindow int
	// IntegralWindow bounds the number of errors summed by the integral term.
	IntegralWindow int
}

func DefaultPIDConfig() PIDConfig {
	return PIDConfig{
		Kp:             DefaultKp,
		Ki:             DefaultKi,
		Kd:             DefaultKd,
		FallbackDt:     DefaultFallbackDt,
		TimeWindow:     DefaultTimeWindow,
		IntegralWindow: DefaultIntegralWindow,
	}
}

// PIDOutput is the result of one longitudinal update.
type PIDOutput struct {
	Throttle   float64
	Brake      float64
	Error      float64
	Derivative float64
	Integral   float64
	Dt         float64
}

// PID tracks a desired speed with a throttle-only output. Negative demand
// floors to zero throttle; it never produces brake.
type PID struct {
	Kp         float64
	Ki         float64
	Kd         float64
	FallbackDt float64

	times *History
	errs  *History
}

func NewPID(cfg PIDConfig) *PID {
	return &PID{
		Kp:         cfg.Kp,
		Ki:         cfg.Ki,
		Kd:         cfg.Kd,
		FallbackDt: cfg.FallbackDt,
		times:      NewHistory(cfg.TimeWindow),
		errs:       NewHistory(cfg.IntegralWindow),
	}
}

// Peek computes the output for a sample at time t without recording it.
func (p *PID) Peek(desired, actual, t float64) (PIDOutput, error) {
	if p.times.Len() > 0 && t <= p.times.Last(0) {
		return PIDOutput{}, fmt.Errorf("t=%.6f after t=%.6f: %w", t, p.times.Last(0), vehicle.ErrNonMonotonicTime)
	}

	e := desired - actual
	out := PIDOutput{Error: e, Dt: p.FallbackDt}

	// The new sample would be the second or later.
	if p.errs.Len() >= 1 {
		dt := t - p.times.Last(0)
		sum := p.errs.Sum() + e
		if p.errs.Full() {
			sum -= p.errs.Oldest()
		}
		out.Dt = dt
		out.Derivative = (e - p.errs.Last(0)) / dt
		out.Integral = sum * dt
	}

	u := p.Kp*e + p.Kd*out.Derivative + p.Ki*out.Integral
	if math.IsNaN(u) || math.IsInf(u, 0) {
		return PIDOutput{}, vehicle.ErrNonFinite
	}
	out.Throttle = vehicle.Clamp(u, 0, 1)
	return out, nil
}

// Commit records a sample previously evaluated with Peek.
func (p *PID) Commit(t float64, out PIDOutput) {
	p.times.Push(t)
	p.errs.Push(out.Error)
}

// Update evaluates and records a sample.
func (p *PID) Update(desired, actual, t float64) (PIDOutput, error) {
	out, err := p.Peek(desired, actual, t)
	if err != nil {
		return PIDOutput{}, err
	}
	p.Commit(t, out)
	return out, nil
}

// Samples returns the buffered speed errors, oldest first.
func (p *PID) Samples() []float64 {
	return p.errs.Values()
}

// Reset clears integral and derivative history
func (p *PID) Reset() {
	p.times.Reset()
	p.errs.Reset()
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
	}
}

// SetParam adjusts a PID gain
func (p *PID) SetParam(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("pid: %s must be finite", name)
	}
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	default:
		return fmt.Errorf("pid: unknown parameter %q", name)
	}
	return nil
}
