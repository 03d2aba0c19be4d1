package control

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLQR(t *testing.T) {
	ctrl := NewLQR(mat.NewDense(1, 2, []float64{1.0, 2.0}))

	u := ctrl.Compute(mat.NewVecDense(2, []float64{0, 0}))
	if u.AtVec(0) != 0 {
		t.Errorf("expected zero control at target, got %f", u.AtVec(0))
	}

	u = ctrl.Compute(mat.NewVecDense(2, []float64{1, 1}))
	if u.AtVec(0) != -3 {
		t.Errorf("expected -3, got %f", u.AtVec(0))
	}

	ctrl.Target = mat.NewVecDense(2, []float64{1, 1})
	u = ctrl.Compute(mat.NewVecDense(2, []float64{1, 1}))
	if u.AtVec(0) != 0 {
		t.Errorf("expected zero control at offset target, got %f", u.AtVec(0))
	}
}

func TestDLQR_ScalarGainAndEigenvalues(t *testing.T) {
	opts := DAREOptions{MaxIterations: 1000, Tolerance: 1e-12}
	sol, err := DLQR(scalar(1), scalar(1), scalar(1), scalar(1), opts)
	if err != nil {
		t.Fatal(err)
	}

	k := golden / (1 + golden)
	if math.Abs(sol.K.At(0, 0)-k) > 1e-9 {
		t.Errorf("expected K=%f, got %f", k, sol.K.At(0, 0))
	}
	if len(sol.Eigenvalues) != 1 {
		t.Fatalf("expected 1 eigenvalue, got %d", len(sol.Eigenvalues))
	}
	if rho := sol.SpectralRadius(); math.Abs(rho-(1-k)) > 1e-9 || rho >= 1 {
		t.Errorf("expected stable closed loop with radius %f, got %f", 1-k, rho)
	}
}

func TestSpectralRadius_NoEigenvalues(t *testing.T) {
	if got := (&LQRSolution{}).SpectralRadius(); got != -1 {
		t.Errorf("expected -1, got %f", got)
	}
}
