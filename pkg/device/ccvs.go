package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// CCVS holds v(p) - v(n) = h * I_ctrl.
type CCVS struct {
	BaseDevice
	branch
	ctrlName string
	ctrlIdx  int
}

var _ BranchDevice = (*CCVS)(nil)

func NewCCVS(name string, nodes []int, ctrlName string, ctrlIdx int, gain float64) *CCVS {
	return &CCVS{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: nodes,
			Value: gain,
		},
		ctrlName: ctrlName,
		ctrlIdx:  ctrlIdx,
	}
}

func (h *CCVS) GetType() netlist.Kind { return netlist.KindCCVS }

func (h *CCVS) Control() string { return h.ctrlName }

func (h *CCVS) Stamp(m matrix.Stamper) error {
	n1, n2 := h.Nodes[0], h.Nodes[1]
	bIdx := h.branchIdx

	if err := m.ClaimBranch(bIdx, h.Name); err != nil {
		return err
	}
	stampBranchVoltage(m, n1, n2, bIdx)
	m.AddD(bIdx, h.ctrlIdx, symbolic.Term{Coef: -1, Sym: h.gain()})
	return nil
}
