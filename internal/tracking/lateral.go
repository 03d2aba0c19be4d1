package tracking

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/vehicle"
)

// LateralModel builds the discrete error dynamics for state
// [e, ė, θe, θ̇e] at speed v:
//
//	    | 1 dt 0  0  |        | 0             |
//	A = | 0 0  v  0  |    B = | 0             |
//	    | 0 0  1  dt |        | 0             |
//	    | 0 0  0  0  |        | (kf·v + Kdd)/L |
func LateralModel(v, dt float64, p config.LateralConfig) (a, b *mat.Dense) {
	a = mat.NewDense(4, 4, nil)
	a.Set(0, 0, 1)
	a.Set(0, 1, dt)
	a.Set(1, 2, v)
	a.Set(2, 2, 1)
	a.Set(2, 3, dt)

	b = mat.NewDense(4, 1, nil)
	b.Set(3, 0, (p.SpeedGain*v+p.Damping)/p.Wheelbase)
	return a, b
}

// LateralWeights returns Q with every entry set to QScale and R = r·I.
func LateralWeights(p config.LateralConfig) (q, r *mat.Dense) {
	qv := make([]float64, 16)
	for i := range qv {
		qv[i] = p.QScale
	}
	return mat.NewDense(4, 4, qv), mat.NewDense(1, 1, []float64{p.R})
}

// CrossTrack returns the signed perpendicular distance from (x, y) to the
// line through p1 and p2. Points left of the direction p1→p2 are negative.
func CrossTrack(x, y float64, p1, p2 vehicle.Waypoint) (float64, error) {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return 0, vehicle.ErrDegenerateSegment
	}
	rx, ry := x-p1.X, y-p1.Y

	det := dx*-ry + dy*rx
	return det / n, nil
}

// HeadingError is the segment bearing, clamped to [-π/2, π/2], minus yaw.
// The difference itself is not wrapped.
func HeadingError(yaw float64, p1, p2 vehicle.Waypoint) float64 {
	bearing := vehicle.Clamp(math.Atan2(p2.Y-p1.Y, p2.X-p1.X), -math.Pi/2, math.Pi/2)
	return bearing - yaw
}

// ErrorState is the lateral state vector fed to the LQR gain.
type ErrorState struct {
	CrossTrack     float64
	CrossTrackRate float64
	Heading        float64
	HeadingRate    float64
}

// NewErrorState differentiates against the previous tick's errors.
func NewErrorState(e, prevE, th, prevTh, dt float64) ErrorState {
	return ErrorState{
		CrossTrack:     e,
		CrossTrackRate: (e - prevE) / dt,
		Heading:        th,
		HeadingRate:    (th - prevTh) / dt,
	}
}

func (s ErrorState) Vector() *mat.VecDense {
	return mat.NewVecDense(4, []float64{s.CrossTrack, s.CrossTrackRate, s.Heading, s.HeadingRate})
}
