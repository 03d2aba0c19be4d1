package tracking

import (
	"math"

	"github.com/san-kum/trackctl/internal/vehicle"
)

// SteeringLaw maps the LQR feedback term to a steering command.
type SteeringLaw struct {
	Wheelbase   float64
	MaxAngleDeg float64
}

// Feedback wraps u to [-π, π), clamps it to ±π/2 and negates it.
func (s SteeringLaw) Feedback(u float64) float64 {
	return -vehicle.Clamp(vehicle.WrapAngle(u), -math.Pi/2, math.Pi/2)
}

// Angle returns v·tan(ff + fb)/L in radians.
func (s SteeringLaw) Angle(ff, fb, v float64) float64 {
	return v * math.Tan(ff+fb) / s.Wheelbase
}

// Normalize converts radians to the [-1, 1] command range, where ±1 is
// MaxAngleDeg.
func (s SteeringLaw) Normalize(rad float64) float64 {
	return vehicle.Clamp(rad*(180.0/s.MaxAngleDeg)/math.Pi, -1, 1)
}
