package tracking

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/control"
	"github.com/san-kum/trackctl/internal/vehicle"
)

func TestLateralModel(t *testing.T) {
	a, b := LateralModel(5, 0.02, config.DefaultController().Lateral)

	want := [4][4]float64{
		{1, 0.02, 0, 0},
		{0, 0, 5, 0},
		{0, 0, 1, 0.02},
		{0, 0, 0, 0},
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if a.At(i, j) != want[i][j] {
				t.Errorf("A[%d,%d] = %f, want %f", i, j, a.At(i, j), want[i][j])
			}
		}
	}

	// (kf·v + Kdd)/L = (6·5 + 300)/1
	for i := 0; i < 3; i++ {
		if b.At(i, 0) != 0 {
			t.Errorf("B[%d,0] = %f, want 0", i, b.At(i, 0))
		}
	}
	if b.At(3, 0) != 330 {
		t.Errorf("B[3,0] = %f, want 330", b.At(3, 0))
	}
}

func TestLateralWeights(t *testing.T) {
	q, r := LateralWeights(config.DefaultController().Lateral)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if q.At(i, j) != 0.1 {
				t.Errorf("Q[%d,%d] = %f, want 0.1", i, j, q.At(i, j))
			}
		}
	}
	if r.At(0, 0) != 1 {
		t.Errorf("R = %f, want 1", r.At(0, 0))
	}
}

func TestCrossTrack(t *testing.T) {
	p1 := vehicle.Waypoint{X: 0, Y: 0}
	p2 := vehicle.Waypoint{X: 10, Y: 0}

	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"on line", 5, 0, 0},
		{"left of segment", 5, 2, -2},
		{"right of segment", 5, -2, 2},
		{"beyond segment end", 15, 3, -3},
		{"behind segment start", -4, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := CrossTrack(tt.x, tt.y, p1, p2)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(e-tt.want) > 1e-12 {
				t.Errorf("CrossTrack(%v, %v) = %f, want %f", tt.x, tt.y, e, tt.want)
			}
		})
	}
}

func TestCrossTrack_DiagonalSegment(t *testing.T) {
	p1 := vehicle.Waypoint{X: 0, Y: 0}
	p2 := vehicle.Waypoint{X: 1, Y: 1}

	e, err := CrossTrack(0, 2, p1, p2)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(e+math.Sqrt2) > 1e-12 {
		t.Errorf("expected -√2, got %f", e)
	}
}

func TestCrossTrack_Degenerate(t *testing.T) {
	p := vehicle.Waypoint{X: 3, Y: 3}
	if _, err := CrossTrack(0, 0, p, p); !errors.Is(err, vehicle.ErrDegenerateSegment) {
		t.Errorf("expected ErrDegenerateSegment, got %v", err)
	}
}

func TestHeadingError(t *testing.T) {
	east := [2]vehicle.Waypoint{{X: 0, Y: 0}, {X: 10, Y: 0}}
	west := [2]vehicle.Waypoint{{X: 0, Y: 0}, {X: -10, Y: 0}}
	north := [2]vehicle.Waypoint{{X: 0, Y: 0}, {X: 0, Y: 10}}

	tests := []struct {
		name string
		yaw  float64
		seg  [2]vehicle.Waypoint
		want float64
	}{
		{"aligned", 0, east, 0},
		{"yawed left", 0.1, east, -0.1},
		{"north", 0, north, math.Pi / 2},
		{"bearing clamped", 0, west, math.Pi / 2},
		{"not wrapped", 3 * math.Pi, east, -3 * math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HeadingError(tt.yaw, tt.seg[0], tt.seg[1])
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("HeadingError = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestNewErrorState(t *testing.T) {
	s := NewErrorState(-2, 0, 0.1, 0.2, 0.1)
	if math.Abs(s.CrossTrackRate+20) > 1e-9 {
		t.Errorf("expected cross-track rate -20, got %f", s.CrossTrackRate)
	}
	if math.Abs(s.HeadingRate+1) > 1e-12 {
		t.Errorf("expected heading rate -1, got %f", s.HeadingRate)
	}

	v := s.Vector()
	if v.Len() != 4 || v.AtVec(0) != -2 || v.AtVec(2) != 0.1 {
		t.Errorf("unexpected vector %v", v.RawVector().Data)
	}
}

func TestSolveLateral_Idempotent(t *testing.T) {
	cfg := config.DefaultController()

	for _, v := range []float64{0, 5, 20} {
		sol, err := SolveLateral(cfg, v, 0.05)
		if err != nil {
			t.Fatalf("v=%v: %v", v, err)
		}
		if !sol.Converged {
			t.Fatalf("v=%v: expected convergence", v)
		}

		a, b := LateralModel(v, 0.05, cfg.Lateral)
		q, r := LateralWeights(cfg.Lateral)
		next, err := control.RiccatiStep(a, b, q, r, sol.X)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				if d := math.Abs(next.At(i, j) - sol.X.At(i, j)); d >= cfg.DARE.Tolerance {
					t.Errorf("v=%v: X[%d,%d] moved by %g after convergence", v, i, j, d)
				}
			}
		}

		r1, c1 := sol.K.Dims()
		if r1 != 1 || c1 != 4 {
			t.Errorf("expected 1x4 gain, got %dx%d", r1, c1)
		}
	}
}
