package vehicle

import (
	"math"
)

// State is the vehicle feedback supplied by the caller each tick.
// Yaw is in radians, Speed in m/s and Timestamp in seconds.
type State struct {
	X         float64
	Y         float64
	Yaw       float64
	Speed     float64
	Timestamp float64
	Frame     int64
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.X, s.Y, s.Yaw, s.Speed, s.Timestamp} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Waypoint is a target position with the speed to hold near it.
type Waypoint struct {
	X     float64
	Y     float64
	Speed float64
}

type Path []Waypoint

func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Window returns up to n waypoints starting at start. The window is shifted
// back so it holds at least two points whenever the path has two.
func (p Path) Window(start, n int) Path {
	if n <= 0 || len(p) == 0 {
		return p
	}
	if start < 0 {
		start = 0
	}
	if start > len(p)-2 {
		start = max(len(p)-2, 0)
	}
	end := min(start+max(n, 2), len(p))
	return p[start:end]
}

// Command is the actuator triple for one tick.
// Throttle and Brake are in [0, 1], Steer is normalized to [-1, 1].
type Command struct {
	Throttle float64
	Steer    float64
	Brake    float64
}

func (c Command) IsValid() bool {
	return c.Throttle >= 0 && c.Throttle <= 1 &&
		c.Brake >= 0 && c.Brake <= 1 &&
		c.Steer >= -1 && c.Steer <= 1
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(math.Min(v, hi), lo)
}

// WrapAngle maps a to [-π, π).
func WrapAngle(a float64) float64 {
	w := math.Mod(a+math.Pi, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w - math.Pi
}
