package matrix

import (
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// Stamper receives element stamps. Node arguments are 1-based with 0 as
// ground; ground rows and columns are never written. Branch arguments are
// 0-based registry indices.
type Stamper interface {
	AddG(i, j int, t symbolic.Term)
	AddB(node, branch int, t symbolic.Term)
	AddC(branch, node int, t symbolic.Term)
	AddD(row, col int, t symbolic.Term)
	AddI(node int, t symbolic.Term)
	AddEv(branch int, t symbolic.Term)

	// ClaimBranch marks a registry row as stamped by the element owning it.
	ClaimBranch(branch int, name string) error
}

// Device is anything that can stamp itself.
type Device interface {
	GetName() string
	Stamp(m Stamper) error
}
