package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	StatusOK = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusWarn = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusFail = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))
)

// Row is one labelled line of a panel.
type Row struct {
	Label string
	Value string
}

// Panel renders a bordered block with a title and aligned rows.
func Panel(title string, rows []Row) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Label))
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, Title.Render(title))
	for _, r := range rows {
		label := MetricLabel.Render(r.Label + strings.Repeat(" ", width-len(r.Label)))
		lines = append(lines, label+"  "+MetricValue.Render(r.Value))
	}
	return PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Status renders ok/warn/fail text depending on the convergence outcome.
func Status(converged bool, stable bool) string {
	switch {
	case converged && stable:
		return StatusOK.Render("converged")
	case converged:
		return StatusWarn.Render("converged, unstable")
	default:
		return StatusFail.Render("iteration cap")
	}
}

// FormatVector prints values with a fixed precision, e.g. [0.1000 -2.5000].
func FormatVector(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func FormatComplex(vs []complex128) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		if imag(v) == 0 {
			parts[i] = fmt.Sprintf("%.4f", real(v))
			continue
		}
		parts[i] = fmt.Sprintf("%.4f%+.4fi", real(v), imag(v))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Separator draws a muted rule of the given width.
func Separator(width int) string {
	if width < 7 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
