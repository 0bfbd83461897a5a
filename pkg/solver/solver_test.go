package solver

import (
	"math/cmplx"
	"testing"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
)

const tol = 1e-9

func solvers() []Solver { return []Solver{Dense{}, Sparse{}} }

func TestSolveDivider(t *testing.T) {
	// V1 1 0 10, R1 1 2 1k, R2 2 0 1k
	g := 1e-3
	a := [][]complex128{
		{complex(g, 0), complex(-g, 0), 1},
		{complex(-g, 0), complex(2*g, 0), 0},
		{1, 0, 0},
	}
	z := []complex128{0, 0, 10}
	want := []complex128{10, 5, -5e-3}

	for _, s := range solvers() {
		t.Run(s.Name(), func(t *testing.T) {
			x, err := s.Solve(a, z)
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			for i := range want {
				if cmplx.Abs(x[i]-want[i]) > tol {
					t.Errorf("x[%d] = %v, want %v", i, x[i], want[i])
				}
			}
		})
	}
}

func TestSolveComplex(t *testing.T) {
	// RC lowpass, R = C = 1, at s = j: v2 = 1/(1+j)
	s := complex(0, 1)
	a := [][]complex128{
		{1, -1, 1},
		{-1, 1 + s, 0},
		{1, 0, 0},
	}
	z := []complex128{0, 0, 1}
	want := 1 / (1 + s)

	for _, sv := range solvers() {
		t.Run(sv.Name(), func(t *testing.T) {
			x, err := sv.Solve(a, z)
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if cmplx.Abs(x[1]-want) > tol {
				t.Errorf("v2 = %v, want %v", x[1], want)
			}
		})
	}
}

func TestSolveSingular(t *testing.T) {
	a := [][]complex128{
		{1, 1},
		{1, 1},
	}
	for _, s := range solvers() {
		t.Run(s.Name(), func(t *testing.T) {
			_, err := s.Solve(a, []complex128{1, 2})
			if !cerrors.Is(err, cerrors.ErrCodeSingularSystem) {
				t.Fatalf("err = %v, want SINGULAR_SYSTEM", err)
			}
		})
	}
}

// ladder builds the MNA system of a source driving n-1 series resistors of
// conductance g into a load of the same conductance. Nodes are 1..n and the
// source current is the last unknown.
func ladder(n int, g float64) ([][]complex128, []complex128) {
	a := make([][]complex128, n+1)
	for i := range a {
		a[i] = make([]complex128, n+1)
	}
	stamp := func(i, j int) {
		a[i][i] += complex(g, 0)
		if j >= 0 {
			a[j][j] += complex(g, 0)
			a[i][j] -= complex(g, 0)
			a[j][i] -= complex(g, 0)
		}
	}
	for k := 0; k < n-1; k++ {
		stamp(k, k+1)
	}
	stamp(n-1, -1)
	a[0][n], a[n][0] = 1, 1
	z := make([]complex128, n+1)
	z[n] = 1
	return a, z
}

func TestSolveLargeLadder(t *testing.T) {
	// 40 nodes of 1 Mohm: every pivot is near 1e-6, so the determinant
	// of the real form underflows although the system is well posed.
	const n = 40
	a, z := ladder(n, 1e-6)
	for _, s := range solvers() {
		t.Run(s.Name(), func(t *testing.T) {
			x, err := s.Solve(a, z)
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			for k := 0; k < n; k++ {
				want := 1 - float64(k)/n
				if cmplx.Abs(x[k]-complex(want, 0)) > 1e-9 {
					t.Errorf("v%d = %v, want %g", k+1, x[k], want)
				}
			}
			if cmplx.Abs(x[n]+complex(1e-6/n, 0)) > 1e-15 {
				t.Errorf("source current = %v, want %g", x[n], -1e-6/n)
			}
		})
	}
}

func TestSolveEmpty(t *testing.T) {
	for _, s := range solvers() {
		x, err := s.Solve(nil, nil)
		if err != nil || len(x) != 0 {
			t.Errorf("%s: Solve(empty) = %v, %v", s.Name(), x, err)
		}
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "dense", "sparse"} {
		if _, err := New(name); err != nil {
			t.Errorf("New(%q): %v", name, err)
		}
	}
	if _, err := New("qr"); !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
		t.Errorf("New(qr) err = %v, want INVALID_INPUT", err)
	}
}
