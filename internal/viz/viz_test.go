package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(10, 10)

	if c.Cell(0, 0) != brailleBlank|0x1 {
		t.Errorf("expected top-left dot, got %U", c.Cell(0, 0))
	}
	if c.Cell(1, 0) != brailleBlank|0x80 {
		t.Errorf("expected bottom-right dot, got %U", c.Cell(1, 0))
	}

	c.Clear()
	if c.Dots(0, 0) || c.Dots(1, 0) {
		t.Error("expected blank canvas after clear")
	}
	if c.String() != "\u2800\u2800\n" {
		t.Errorf("unexpected blank rendering %q", c.String())
	}
}

func TestCanvasLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           []rune
	}{
		{"horizontal", 0, 0, 7, 0, []rune{0x09, 0x09, 0x09, 0x09}},
		{"reversed", 7, 0, 0, 0, []rune{0x09, 0x09, 0x09, 0x09}},
		{"diagonal", 0, 0, 3, 3, []rune{0x01 | 0x10, 0x04 | 0x80, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(4, 1)
			c.Line(tt.x0, tt.y0, tt.x1, tt.y1)
			for col, bits := range tt.want {
				if got := c.Cell(col, 0); got != brailleBlank|bits {
					t.Errorf("col %d: got %U, want %U", col, got, brailleBlank|bits)
				}
			}
		})
	}
}

func TestTrackMap(t *testing.T) {
	path := []Point{{0, 0}, {10, 0}}
	traj := []Point{{0, 1}, {5, 1}, {10, 1}}

	out := TrackMap(path, traj, 20, 4)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}

	if TrackMap(nil, nil, 20, 4) != "" {
		t.Error("expected empty map for no points")
	}
}

func TestProjection(t *testing.T) {
	p := newProjection([]Point{{0, 0}, {10, 5}}, 21, 40)
	if x, y := p.apply(Point{0, 5}); x != 0 || y != 0 {
		t.Errorf("expected north-west corner at origin, got (%d, %d)", x, y)
	}
	if x, y := p.apply(Point{10, 0}); x != 20 || y != 10 {
		t.Errorf("expected south-east corner at (20, 10), got (%d, %d)", x, y)
	}

	single := newProjection([]Point{{3, 3}}, 10, 10)
	if x, y := single.apply(Point{3, 3}); x != 0 || y != 0 {
		t.Errorf("expected single point at origin, got (%d, %d)", x, y)
	}
}

func TestChart(t *testing.T) {
	if Chart(nil, "empty", 0, 0) != "" {
		t.Error("expected empty chart for no data")
	}
	out := Chart([]float64{0, 1, 0.5}, "steer", 20, 5)
	if !strings.Contains(out, "steer") {
		t.Errorf("expected caption in chart:\n%s", out)
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatVector([]float64{0.1, -2.5}); got != "[0.1000 -2.5000]" {
		t.Errorf("unexpected vector format %q", got)
	}
	if got := FormatComplex([]complex128{complex(0.5, 0), complex(0.25, -0.5)}); got != "[0.5000 0.2500-0.5000i]" {
		t.Errorf("unexpected complex format %q", got)
	}
}

func TestPanel(t *testing.T) {
	out := Panel("gains", []Row{{"k", "[1 2]"}, {"iterations", "1"}})
	for _, want := range []string{"gains", "iterations", "[1 2]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in panel:\n%s", want, out)
		}
	}
}

func TestTrackSVG(t *testing.T) {
	path := []Point{{0, 0}, {10, 0}, {10, 10}}
	traj := []Point{{0, 1}, {9, 1}}

	out := TrackSVG(path, traj, 200, 100)
	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Fatalf("unexpected svg envelope:\n%s", out)
	}
	if n := strings.Count(out, "<path "); n != 2 {
		t.Errorf("expected 2 polylines, got %d", n)
	}
	if !strings.Contains(out, svgTrackStroke) || !strings.Contains(out, "stroke-dasharray") {
		t.Error("expected styled path and trajectory")
	}

	if TrackSVG([]Point{{0, 0}}, nil, 10, 10) != "" {
		t.Error("expected empty output without a polyline")
	}
	if n := strings.Count(TrackSVG(path, []Point{{1, 1}}, 10, 10), "<path "); n != 1 {
		t.Errorf("expected only the path polyline, got %d", n)
	}
}
