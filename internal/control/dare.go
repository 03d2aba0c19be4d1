package control

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trackctl/internal/vehicle"
)

const (
	DefaultMaxIterations = 250
	DefaultTolerance     = 0.01
)

// ErrDimensionMismatch indicates A, B, Q and R do not describe one system.
var ErrDimensionMismatch = errors.New("control: dimension mismatch between system matrices")

type DAREOptions struct {
	MaxIterations int
	// Tolerance bounds the largest entrywise change between iterates.
	Tolerance float64
}

func DefaultDAREOptions() DAREOptions {
	return DAREOptions{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

// DAREResult is the last Riccati iterate. Converged is false when the
// iteration cap was reached first; X is still the best available estimate.
type DAREResult struct {
	X          *mat.Dense
	Iterations int
	Converged  bool
	Delta      float64
}

// SolveDARE iterates
//
//	X[n+1] = AᵗX[n]A − AᵗX[n]B (R + BᵗX[n]B)⁻¹ BᵗX[n]A + Q
//
// from X[0] = Q until the largest entrywise change drops below
// opts.Tolerance or opts.MaxIterations is reached.
func SolveDARE(a, b, q, r mat.Matrix, opts DAREOptions) (DAREResult, error) {
	if err := checkDims(a, b, q, r); err != nil {
		return DAREResult{}, err
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	x := mat.DenseCopyOf(q)
	res := DAREResult{X: x, Delta: math.Inf(1)}

	for i := 0; i < opts.MaxIterations; i++ {
		next, err := RiccatiStep(a, b, q, r, x)
		if err != nil {
			return DAREResult{}, fmt.Errorf("iteration %d: %w", i+1, err)
		}

		delta := maxAbsDiff(next, x)
		res = DAREResult{X: next, Iterations: i + 1, Delta: delta}
		if delta < opts.Tolerance {
			res.Converged = true
			return res, nil
		}
		x = next
	}

	return res, nil
}

// RiccatiStep applies one Riccati update to x.
func RiccatiStep(a, b, q, r, x mat.Matrix) (*mat.Dense, error) {
	n, _ := a.Dims()

	var xa, xb mat.Dense
	xa.Mul(x, a)
	xb.Mul(x, b)

	sInv, err := gramInverse(b, &xb, r)
	if err != nil {
		return nil, err
	}

	var atxa, atxb, btxa mat.Dense
	atxa.Mul(a.T(), &xa)
	atxb.Mul(a.T(), &xb)
	btxa.Mul(b.T(), &xa)

	var gain, corr mat.Dense
	gain.Mul(&atxb, sInv)
	corr.Mul(&gain, &btxa)

	next := mat.NewDense(n, n, nil)
	next.Sub(&atxa, &corr)
	next.Add(next, q)

	if !isFinite(next) {
		return nil, vehicle.ErrNonFinite
	}
	return next, nil
}

// gramInverse returns (R + Bᵗ·XB)⁻¹ where xb = X·B.
func gramInverse(b, xb, r mat.Matrix) (*mat.Dense, error) {
	var s mat.Dense
	s.Mul(b.T(), xb)
	s.Add(&s, r)

	var inv mat.Dense
	if err := inv.Inverse(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", vehicle.ErrSingular, err)
	}
	return &inv, nil
}

func checkDims(a, b, q, r mat.Matrix) error {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	qr, qc := q.Dims()
	rr, rc := r.Dims()

	switch {
	case ar != ac:
		return fmt.Errorf("%w: A is %dx%d", ErrDimensionMismatch, ar, ac)
	case br != ar:
		return fmt.Errorf("%w: B has %d rows, A has %d", ErrDimensionMismatch, br, ar)
	case qr != ar || qc != ar:
		return fmt.Errorf("%w: Q is %dx%d, want %dx%d", ErrDimensionMismatch, qr, qc, ar, ar)
	case rr != bc || rc != bc:
		return fmt.Errorf("%w: R is %dx%d, want %dx%d", ErrDimensionMismatch, rr, rc, bc, bc)
	}
	return nil
}

func maxAbsDiff(a, b mat.Matrix) float64 {
	r, c := a.Dims()
	m := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m = math.Max(m, math.Abs(a.At(i, j)-b.At(i, j)))
		}
	}
	return m
}

func isFinite(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
