package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// CCCS drives f times the current of a controlling branch from p to n.
//
// Its own current is an unknown tied to the control by the branch row
// I - f*I_ctrl = 0. The row has no node-voltage terms, so nothing is
// written to C.
type CCCS struct {
	BaseDevice
	branch
	ctrlName string
	ctrlIdx  int
}

var _ BranchDevice = (*CCCS)(nil)

func NewCCCS(name string, nodes []int, ctrlName string, ctrlIdx int, gain float64) *CCCS {
	return &CCCS{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: nodes,
			Value: gain,
		},
		ctrlName: ctrlName,
		ctrlIdx:  ctrlIdx,
	}
}

func (f *CCCS) GetType() netlist.Kind { return netlist.KindCCCS }

func (f *CCCS) Control() string { return f.ctrlName }

func (f *CCCS) Stamp(m matrix.Stamper) error {
	n1, n2 := f.Nodes[0], f.Nodes[1]
	bIdx := f.branchIdx

	if err := m.ClaimBranch(bIdx, f.Name); err != nil {
		return err
	}
	m.AddB(n1, bIdx, one)
	m.AddB(n2, bIdx, symbolic.Const(-1))
	m.AddD(bIdx, f.ctrlIdx, symbolic.Term{Coef: -1, Sym: f.gain()})
	m.AddD(bIdx, bIdx, one)
	return nil
}
