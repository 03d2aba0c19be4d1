package control

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trackctl/internal/vehicle"
)

// LQRSolution holds a discrete LQR gain and the Riccati solution it was
// derived from. Eigenvalues of A − BK are diagnostic only and may be nil if
// the eigendecomposition fails.
type LQRSolution struct {
	K           *mat.Dense
	X           *mat.Dense
	Iterations  int
	Converged   bool
	Delta       float64
	Eigenvalues []complex128
}

// SpectralRadius returns the largest closed-loop eigenvalue magnitude, or
// -1 when no eigenvalues are available. Below 1 means the discrete closed
// loop is stable.
func (s *LQRSolution) SpectralRadius() float64 {
	if len(s.Eigenvalues) == 0 {
		return -1
	}
	rho := 0.0
	for _, v := range s.Eigenvalues {
		if m := cmplx.Abs(v); m > rho {
			rho = m
		}
	}
	return rho
}

// DLQR solves the Riccati equation for (A, B, Q, R) and returns the gain
// K = (BᵗXB + R)⁻¹ BᵗXA.
func DLQR(a, b, q, r mat.Matrix, opts DAREOptions) (*LQRSolution, error) {
	res, err := SolveDARE(a, b, q, r, opts)
	if err != nil {
		return nil, err
	}

	var xa, xb mat.Dense
	xa.Mul(res.X, a)
	xb.Mul(res.X, b)

	sInv, err := gramInverse(b, &xb, r)
	if err != nil {
		return nil, fmt.Errorf("gain: %w", err)
	}

	var btxa mat.Dense
	btxa.Mul(b.T(), &xa)

	k := new(mat.Dense)
	k.Mul(sInv, &btxa)
	if !isFinite(k) {
		return nil, vehicle.ErrNonFinite
	}

	return &LQRSolution{
		K:           k,
		X:           res.X,
		Iterations:  res.Iterations,
		Converged:   res.Converged,
		Delta:       res.Delta,
		Eigenvalues: closedLoopEigenvalues(a, b, k),
	}, nil
}

func closedLoopEigenvalues(a, b, k mat.Matrix) []complex128 {
	var bk, cl mat.Dense
	bk.Mul(b, k)
	cl.Sub(a, &bk)

	var eig mat.Eigen
	if !eig.Factorize(&cl, mat.EigenNone) {
		return nil
	}
	return eig.Values(nil)
}

// LQR applies a fixed state-feedback gain, u = −K(x − target).
type LQR struct {
	K      *mat.Dense
	Target *mat.VecDense
}

func NewLQR(k *mat.Dense) *LQR {
	return &LQR{K: k}
}

func (l *LQR) Compute(x mat.Vector) *mat.VecDense {
	m, n := l.K.Dims()

	e := mat.NewVecDense(n, nil)
	e.CopyVec(x)
	if l.Target != nil {
		e.SubVec(e, l.Target)
	}

	u := mat.NewVecDense(m, nil)
	u.MulVec(l.K, e)
	u.ScaleVec(-1, u)
	return u
}
