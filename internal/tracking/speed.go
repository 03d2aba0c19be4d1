package tracking

import (
	"math"

	"github.com/san-kum/trackctl/internal/vehicle"
)

// TargetSpeed returns the speed of the waypoint nearest to (x, y) and its
// index. Ties go to the earliest waypoint.
func TargetSpeed(x, y float64, path vehicle.Path) (float64, int, error) {
	if len(path) == 0 {
		return 0, -1, vehicle.ErrNoWaypoints
	}

	minIdx := 0
	minDist := math.Inf(1)
	for i, wp := range path {
		if d := math.Hypot(wp.X-x, wp.Y-y); d < minDist {
			minDist = d
			minIdx = i
		}
	}

	return path[minIdx].Speed, minIdx, nil
}
