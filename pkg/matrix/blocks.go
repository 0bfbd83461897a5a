// Package matrix holds the MNA block matrices and assembles them into one
// linear system.
package matrix

import (
	"errors"
	"fmt"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// Blocks are the MNA sub-matrices for n nodes and m unknown currents:
// G (n x n), B (n x m), C (m x n), D (m x m), I (n x 1) and Ev (m x 1).
type Blocks struct {
	N, M int

	G, B, C, D *symbolic.Matrix
	I, Ev      *symbolic.Matrix

	claimed map[int]string
	err     error
}

var _ Stamper = (*Blocks)(nil)

// NewBlocks returns zeroed blocks.
func NewBlocks(n, m int) *Blocks {
	return &Blocks{
		N:       n,
		M:       m,
		G:       symbolic.NewMatrix(n, n),
		B:       symbolic.NewMatrix(n, m),
		C:       symbolic.NewMatrix(m, n),
		D:       symbolic.NewMatrix(m, m),
		I:       symbolic.NewMatrix(n, 1),
		Ev:      symbolic.NewMatrix(m, 1),
		claimed: make(map[int]string),
	}
}

func (b *Blocks) nodeOK(n int) bool {
	if n < 0 || n > b.N {
		b.fail("node %d out of range 0..%d", n, b.N)
		return false
	}
	return n != 0
}

func (b *Blocks) branchOK(k int) bool {
	if k < 0 || k >= b.M {
		b.fail("branch %d out of range 0..%d", k, b.M-1)
		return false
	}
	return true
}

func (b *Blocks) fail(format string, args ...any) {
	b.err = errors.Join(b.err, cerrors.New(cerrors.ErrCodeInternal, format, args...))
}

func (b *Blocks) AddG(i, j int, t symbolic.Term) {
	if b.nodeOK(i) && b.nodeOK(j) {
		b.G.AddTerm(i-1, j-1, t)
	}
}

func (b *Blocks) AddB(node, branch int, t symbolic.Term) {
	if b.nodeOK(node) && b.branchOK(branch) {
		b.B.AddTerm(node-1, branch, t)
	}
}

func (b *Blocks) AddC(branch, node int, t symbolic.Term) {
	if b.branchOK(branch) && b.nodeOK(node) {
		b.C.AddTerm(branch, node-1, t)
	}
}

func (b *Blocks) AddD(row, col int, t symbolic.Term) {
	if b.branchOK(row) && b.branchOK(col) {
		b.D.AddTerm(row, col, t)
	}
}

func (b *Blocks) AddI(node int, t symbolic.Term) {
	if b.nodeOK(node) {
		b.I.AddTerm(node-1, 0, t)
	}
}

func (b *Blocks) AddEv(branch int, t symbolic.Term) {
	if b.branchOK(branch) {
		b.Ev.AddTerm(branch, 0, t)
	}
}

func (b *Blocks) ClaimBranch(branch int, name string) error {
	if branch < 0 || branch >= b.M {
		return cerrors.New(cerrors.ErrCodeSourceCountMismatch,
			"%s claims branch %d but only %d unknown currents are registered", name, branch, b.M)
	}
	if owner, ok := b.claimed[branch]; ok && owner != name {
		return cerrors.New(cerrors.ErrCodeSourceCountMismatch,
			"%s and %s both claim branch %d", owner, name, branch)
	}
	b.claimed[branch] = name
	return nil
}

// StampAll stamps every device in order, then checks that each registry row
// was claimed by exactly one element.
func StampAll(b *Blocks, devices []Device) error {
	for _, dev := range devices {
		if err := dev.Stamp(b); err != nil {
			return fmt.Errorf("stamping device %s: %w", dev.GetName(), err)
		}
	}
	if b.err != nil {
		return b.err
	}
	if len(b.claimed) != b.M {
		return cerrors.New(cerrors.ErrCodeSourceCountMismatch,
			"stamped %d branch equations, registry holds %d unknown currents", len(b.claimed), b.M)
	}
	return nil
}
