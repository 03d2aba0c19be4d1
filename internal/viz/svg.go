package viz

import (
	"fmt"
	"math"
	"strings"
)

const (
	svgPathStroke  = "#666688"
	svgTrackStroke = "#00ff88"
)

// TrackSVG renders the path and the driven trajectory as two polylines on
// a shared, padded coordinate frame. It returns "" when neither has two
// points.
func TrackSVG(path, trajectory []Point, width, height int) string {
	if len(path) < 2 && len(trajectory) < 2 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, pts := range [][]Point{path, trajectory} {
		for _, p := range pts {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	project := func(p Point) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	writePolyline(&sb, path, project, svgPathStroke, "4 3")
	writePolyline(&sb, trajectory, project, svgTrackStroke, "")

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writePolyline(sb *strings.Builder, pts []Point, project func(Point) (float64, float64), stroke, dash string) {
	if len(pts) < 2 {
		return
	}

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5"`, stroke))
	if dash != "" {
		sb.WriteString(fmt.Sprintf(` stroke-dasharray="%s"`, dash))
	}
	sb.WriteString(` d="M`)
	for i, p := range pts {
		x, y := project(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}
