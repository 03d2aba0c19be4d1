package viz

import (
	"math"
	"strings"
)

type Point struct {
	X, Y float64
}

// TrackMap draws the path as connected segments and the driven trajectory
// as dots on a w×h braille grid, north up. Cells touched by the trajectory
// are highlighted. Both inputs share one scale so distances are comparable.
func TrackMap(path, trajectory []Point, w, h int) string {
	if w <= 0 || h <= 0 || len(path)+len(trajectory) == 0 {
		return ""
	}

	proj := newProjection(append(append([]Point{}, path...), trajectory...), w*2, h*4)

	pathC := NewCanvas(w, h)
	for i := range path {
		x0, y0 := proj.apply(path[i])
		if i == 0 {
			pathC.Set(x0, y0)
			continue
		}
		x1, y1 := proj.apply(path[i-1])
		pathC.Line(x1, y1, x0, y0)
	}

	trajC := NewCanvas(w, h)
	for _, p := range trajectory {
		trajC.Set(proj.apply(p))
	}

	var b strings.Builder
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			cell := string(pathC.Cell(col, row) | trajC.Cell(col, row))
			switch {
			case trajC.Dots(col, row):
				b.WriteString(MetricValue.Render(cell))
			case pathC.Dots(col, row):
				b.WriteString(Subtle.Render(cell))
			default:
				b.WriteString(cell)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

type projection struct {
	minX, maxY float64
	scale      float64
}

func newProjection(pts []Point, dotsW, dotsH int) projection {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	spanX, spanY := maxX-minX, maxY-minY
	scale := math.Inf(1)
	if spanX > 0 {
		scale = float64(dotsW-1) / spanX
	}
	if spanY > 0 {
		scale = math.Min(scale, float64(dotsH-1)/spanY)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}
	return projection{minX: minX, maxY: maxY, scale: scale}
}

func (p projection) apply(pt Point) (int, int) {
	x := int(math.Round((pt.X - p.minX) * p.scale))
	y := int(math.Round((p.maxY - pt.Y) * p.scale))
	return x, y
}
