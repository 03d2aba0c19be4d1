package tracking

import (
	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/control"
)

// GainPoint is one entry of a speed-indexed gain schedule.
type GainPoint struct {
	Speed    float64
	Solution *control.LQRSolution
	Err      error
}

// GainSchedule solves the lateral LQR at each speed concurrently. Each
// solve is independent; no controller state is touched.
func GainSchedule(cfg config.ControllerConfig, dt float64, speeds []float64) []GainPoint {
	out := make([]GainPoint, len(speeds))
	control.ParallelFor(len(speeds), 4, func(start, end int) {
		for i := start; i < end; i++ {
			sol, err := SolveLateral(cfg, speeds[i], dt)
			out[i] = GainPoint{Speed: speeds[i], Solution: sol, Err: err}
		}
	})
	return out
}

// SpeedRange returns from, from+step, ... up to and including to.
func SpeedRange(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return []float64{from}
	}
	n := int((to-from)/step+1e-9) + 1
	speeds := make([]float64, n)
	for i := range speeds {
		speeds[i] = from + float64(i)*step
	}
	return speeds
}
