package vehicle

import (
	"errors"
	"fmt"
)

// Domain errors for control ticks.
var (
	// ErrNoWaypoints indicates a tick was requested with an empty path.
	ErrNoWaypoints = errors.New("vehicle: no waypoints")

	// ErrShortPath indicates the lateral controller needs at least two waypoints.
	ErrShortPath = errors.New("vehicle: path needs at least two waypoints")

	// ErrDegenerateSegment indicates the first two waypoints coincide.
	ErrDegenerateSegment = errors.New("vehicle: first path segment has zero length")

	// ErrNonMonotonicTime indicates a timestamp that did not advance.
	ErrNonMonotonicTime = errors.New("vehicle: timestamp did not advance (dt <= 0)")

	// ErrSingular indicates R + BᵗXB could not be inverted.
	ErrSingular = errors.New("vehicle: singular matrix in riccati update")

	// ErrNonFinite indicates NaN or Inf appeared in an intermediate result.
	ErrNonFinite = errors.New("vehicle: non-finite value in control computation")

	// ErrInvalidState indicates NaN or Inf in the supplied vehicle state.
	ErrInvalidState = errors.New("vehicle: invalid state (NaN or Inf detected)")
)

// Stage names the part of the tick pipeline that failed.
type Stage string

const (
	StageInput        Stage = "input"
	StageSpeed        Stage = "speed"
	StageLongitudinal Stage = "longitudinal"
	StageLateral      Stage = "lateral"
	StageRiccati      Stage = "riccati"
	StageSteering     Stage = "steering"
)

// TickError wraps a fault with the tick that produced it.
type TickError struct {
	Frame     int64
	Timestamp float64
	Stage     Stage
	Wrapped   error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f) %s: %v", e.Frame, e.Timestamp, e.Stage, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
