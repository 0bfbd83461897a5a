package solver

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
)

// Dense solves with an LU factorization of the real form of the complex
// system:
//
//	[Re A  -Im A] [Re x]   [Re z]
//	[Im A   Re A] [Im x] = [Im z]
type Dense struct{}

func (Dense) Name() string { return DenseName }

func (Dense) Solve(a [][]complex128, z []complex128) ([]complex128, error) {
	if err := checkShape(a, z); err != nil {
		return nil, err
	}
	n := len(a)
	if n == 0 {
		return nil, nil
	}

	m := mat.NewDense(2*n, 2*n, nil)
	rhs := mat.NewVecDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			re, im := real(a[i][j]), imag(a[i][j])
			m.Set(i, j, re)
			m.Set(i, n+j, -im)
			m.Set(n+i, j, im)
			m.Set(n+i, n+j, re)
		}
		rhs.SetVec(i, real(z[i]))
		rhs.SetVec(n+i, imag(z[i]))
	}
	equilibrate(m, rhs)

	// Singularity comes from the condition estimate. The determinant
	// underflows on large circuits.
	var lu mat.LU
	lu.Factorize(m)

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, rhs); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) && math.IsInf(float64(cond), 1) {
			return nil, cerrors.Wrap(cerrors.ErrCodeSingularSystem, err, "matrix is singular")
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeSingularSystem, err, "matrix is ill-conditioned")
	}

	out := make([]complex128, n)
	for i := range out {
		out[i] = complex(x.AtVec(i), x.AtVec(n+i))
	}
	if err := checkFinite(out); err != nil {
		return nil, err
	}
	return out, nil
}

// equilibrate scales every row to a unit max norm. Conductances, source
// rows and gains differ by many decades and would otherwise inflate the
// condition estimate. The solution is unchanged.
func equilibrate(m *mat.Dense, rhs *mat.VecDense) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		var peak float64
		for j := 0; j < c; j++ {
			peak = math.Max(peak, math.Abs(m.At(i, j)))
		}
		if peak == 0 {
			continue
		}
		for j := 0; j < c; j++ {
			m.Set(i, j, m.At(i, j)/peak)
		}
		rhs.SetVec(i, rhs.AtVec(i)/peak)
	}
}
