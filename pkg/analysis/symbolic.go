package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// solveSymbolic substitutes every symbol except s and applies Cramer's rule,
// giving each unknown as a rational function of s.
func solveSymbolic(sys *matrix.System, b symbolic.Binding) ([]symbolic.Rational, error) {
	a, err := sys.A.Poly(b)
	if err != nil {
		return nil, err
	}
	z := make([]symbolic.Poly, len(sys.Z))
	for i, e := range sys.Z {
		if z[i], err = e.Poly(b); err != nil {
			return nil, err
		}
	}

	x, err := symbolic.Cramer(a, z)
	if errors.Is(err, symbolic.ErrSingular) {
		return nil, cerrors.Wrap(cerrors.ErrCodeSingularSystem, err, "symbolic solve")
	}
	return x, err
}

// agreement bounds how far a closed form evaluated at s may drift from the
// numeric solution, relative to that component plus a small share of the
// largest one.
const agreement = 1e-6

// checkTransfer evaluates every closed form at s and compares it with the
// numeric solution.
func checkTransfer(x []symbolic.Rational, want []complex128, names []string, s complex128) error {
	var scale float64
	for _, v := range want {
		scale = math.Max(scale, cmplx.Abs(v))
	}
	for i, r := range x {
		got := r.Eval(s)
		limit := agreement * (cmplx.Abs(want[i]) + 1e-6*scale)
		if d := cmplx.Abs(got - want[i]); !(d <= limit) {
			return cerrors.New(cerrors.ErrCodeInternal,
				"closed form for %s gives %s at s=%s, numeric solve gives %s",
				names[i], formatComplex(got), formatComplex(s), formatComplex(want[i]))
		}
	}
	return nil
}
