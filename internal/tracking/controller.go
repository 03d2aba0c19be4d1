package tracking

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/control"
	"github.com/san-kum/trackctl/internal/vehicle"
)

// Diagnostics describes the most recent successful tick.
type Diagnostics struct {
	DesiredSpeed float64
	Nearest      int
	Longitudinal control.PIDOutput
	Errors       ErrorState
	Gain         []float64
	Iterations   int
	Converged    bool
	Delta        float64
	Eigenvalues  []complex128
	// Feedback is the clamped, negated feedback angle; SteerAngle is the
	// physical steering angle before normalization. Both in radians.
	Feedback     float64
	SteerAngle   float64
	Displacement float64
	Acceleration float64
}

type Option func(*Controller)

// WithLogger sets the logger used for per-tick diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func WithPath(path vehicle.Path) Option {
	return func(c *Controller) {
		c.path = path.Clone()
	}
}

// Controller tracks a waypoint path for one vehicle.
type Controller struct {
	cfg   config.ControllerConfig
	log   *slog.Logger
	pid   *control.PID
	steer SteeringLaw

	state   vehicle.State
	path    vehicle.Path
	started bool

	prevCrossTrack float64
	prevHeading    float64
	prevX          float64
	prevY          float64
	prevSpeed      float64
	ticks          int

	cmd  vehicle.Command
	diag Diagnostics
}

func New(cfg config.ControllerConfig, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tracking: %w", err)
	}

	c := &Controller{
		cfg: cfg,
		log: slog.New(slog.DiscardHandler),
		pid: control.NewPID(pidConfig(cfg.PID)),
		steer: SteeringLaw{
			Wheelbase:   cfg.Lateral.Wheelbase,
			MaxAngleDeg: cfg.Steering.MaxAngleDeg,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func pidConfig(p config.PIDConfig) control.PIDConfig {
	return control.PIDConfig{
		Kp:             p.Kp,
		Ki:             p.Ki,
		Kd:             p.Kd,
		FallbackDt:     p.FallbackDt,
		TimeWindow:     p.TimeWindow,
		IntegralWindow: p.IntegralWindow,
	}
}

// UpdateState replaces the vehicle feedback. The controller starts once a
// non-zero frame index has been seen.
func (c *Controller) UpdateState(x, y, yaw, speed, timestamp float64, frame int64) {
	c.state = vehicle.State{
		X:         x,
		Y:         y,
		Yaw:       yaw,
		Speed:     speed,
		Timestamp: timestamp,
		Frame:     frame,
	}
	if frame != 0 {
		c.started = true
	}
}

// UpdateWaypoints replaces the whole path.
func (c *Controller) UpdateWaypoints(path vehicle.Path) {
	c.path = path.Clone()
}

func (c *Controller) Command() vehicle.Command { return c.cmd }

func (c *Controller) Diagnostics() Diagnostics { return c.diag }

func (c *Controller) Started() bool { return c.started }

// PID exposes the longitudinal controller for live tuning.
func (c *Controller) PID() *control.PID { return c.pid }

// Reset returns the controller to its freshly constructed state, keeping
// the current path.
func (c *Controller) Reset() {
	c.pid.Reset()
	c.state = vehicle.State{}
	c.started = false
	c.prevCrossTrack, c.prevHeading = 0, 0
	c.prevX, c.prevY, c.prevSpeed = 0, 0, 0
	c.ticks = 0
	c.cmd = vehicle.Command{}
	c.diag = Diagnostics{}
}

// Step runs one control tick. Before the first real frame it does nothing.
// On error the controller state and last command are left untouched.
func (c *Controller) Step() error {
	if !c.started {
		return nil
	}
	s := c.state

	if !s.IsValid() {
		return c.fault(vehicle.StageInput, vehicle.ErrInvalidState)
	}

	desired, nearest, err := TargetSpeed(s.X, s.Y, c.path)
	if err != nil {
		return c.fault(vehicle.StageSpeed, err)
	}

	lon, err := c.pid.Peek(desired, s.Speed, s.Timestamp)
	if err != nil {
		return c.fault(vehicle.StageLongitudinal, err)
	}

	if len(c.path) < 2 {
		return c.fault(vehicle.StageLateral, vehicle.ErrShortPath)
	}
	p1, p2 := c.path[0], c.path[1]
	e, err := CrossTrack(s.X, s.Y, p1, p2)
	if err != nil {
		return c.fault(vehicle.StageLateral, err)
	}
	th := HeadingError(s.Yaw, p1, p2)
	xs := NewErrorState(e, c.prevCrossTrack, th, c.prevHeading, lon.Dt)

	sol, err := SolveLateral(c.cfg, s.Speed, lon.Dt)
	if err != nil {
		return c.fault(vehicle.StageRiccati, err)
	}

	// Feed-forward is reserved; the law is additive in ff + fb.
	const ff = 0.0
	u := control.NewLQR(sol.K).Compute(xs.Vector()).AtVec(0)
	fb := c.steer.Feedback(u)
	angle := c.steer.Angle(ff, fb, s.Speed)

	cmd := vehicle.Command{
		Throttle: vehicle.Clamp(lon.Throttle, 0, 1),
		Steer:    c.steer.Normalize(angle),
		Brake:    vehicle.Clamp(lon.Brake, 0, 1),
	}
	if !finite(cmd.Throttle, cmd.Steer, cmd.Brake, xs.CrossTrackRate, xs.HeadingRate) {
		return c.fault(vehicle.StageSteering, vehicle.ErrNonFinite)
	}

	diag := Diagnostics{
		DesiredSpeed: desired,
		Nearest:      nearest,
		Longitudinal: lon,
		Errors:       xs,
		Gain:         sol.K.RawRowView(0),
		Iterations:   sol.Iterations,
		Converged:    sol.Converged,
		Delta:        sol.Delta,
		Eigenvalues:  sol.Eigenvalues,
		Feedback:     fb,
		SteerAngle:   angle,
	}
	if c.ticks > 0 {
		diag.Displacement = math.Hypot(s.X-c.prevX, s.Y-c.prevY)
		diag.Acceleration = (s.Speed - c.prevSpeed) / lon.Dt
	}

	c.pid.Commit(s.Timestamp, lon)
	c.prevCrossTrack, c.prevHeading = e, th
	c.prevX, c.prevY, c.prevSpeed = s.X, s.Y, s.Speed
	c.ticks++
	c.cmd = cmd
	c.diag = diag

	if !sol.Converged {
		c.log.Warn("riccati iteration hit cap",
			"frame", s.Frame, "iterations", sol.Iterations, "delta", sol.Delta)
	}
	c.log.Debug("tick",
		"frame", s.Frame,
		"iterations", sol.Iterations,
		"cross_track", e,
		"heading_error", th,
		"throttle", cmd.Throttle,
		"steer", cmd.Steer)

	return nil
}

func (c *Controller) fault(stage vehicle.Stage, err error) error {
	c.log.Warn("control tick failed",
		"frame", c.state.Frame, "stage", string(stage), "err", err)
	return &vehicle.TickError{
		Frame:     c.state.Frame,
		Timestamp: c.state.Timestamp,
		Stage:     stage,
		Wrapped:   err,
	}
}

// SolveLateral computes the LQR gain of the lateral error model at speed v.
func SolveLateral(cfg config.ControllerConfig, v, dt float64) (*control.LQRSolution, error) {
	a, b := LateralModel(v, dt, cfg.Lateral)
	q, r := LateralWeights(cfg.Lateral)
	return control.DLQR(a, b, q, r, control.DAREOptions{
		MaxIterations: cfg.DARE.MaxIterations,
		Tolerance:     cfg.DARE.Tolerance,
	})
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
