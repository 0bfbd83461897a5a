// Package solver solves the complex linear systems produced by substituting
// numbers into an MNA matrix.
package solver

import (
	"math/cmplx"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
)

// Solver solves a x = z for a square complex a.
type Solver interface {
	Name() string
	Solve(a [][]complex128, z []complex128) ([]complex128, error)
}

// Solver names accepted by New.
const (
	DenseName  = "dense"
	SparseName = "sparse"
)

// New returns the solver registered under name. An empty name selects the
// dense solver.
func New(name string) (Solver, error) {
	switch name {
	case "", DenseName:
		return Dense{}, nil
	case SparseName:
		return Sparse{}, nil
	}
	return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "unknown solver %q (want %s or %s)", name, DenseName, SparseName)
}

func checkShape(a [][]complex128, z []complex128) error {
	n := len(a)
	if len(z) != n {
		return cerrors.New(cerrors.ErrCodeInternal, "rhs has %d rows, matrix has %d", len(z), n)
	}
	for i, row := range a {
		if len(row) != n {
			return cerrors.New(cerrors.ErrCodeInternal, "matrix row %d has %d columns, want %d", i, len(row), n)
		}
	}
	return nil
}

// checkFinite rejects solutions poisoned by a near-zero pivot.
func checkFinite(x []complex128) error {
	for i, v := range x {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return cerrors.New(cerrors.ErrCodeSingularSystem, "solution component %d is not finite", i+1)
		}
	}
	return nil
}
