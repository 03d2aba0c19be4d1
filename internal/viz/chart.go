package viz

import (
	"github.com/guptarohit/asciigraph"
)

const (
	DefaultChartWidth  = 80
	DefaultChartHeight = 10
)

// Chart plots one series. Empty input yields an empty string.
func Chart(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
