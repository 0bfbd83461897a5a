package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// VCVS holds v(p) - v(n) = e * (v(cp) - v(cn)).
type VCVS struct {
	BaseDevice
	branch
}

var _ BranchDevice = (*VCVS)(nil)

func NewVCVS(name string, nodes []int, gain float64) *VCVS {
	return &VCVS{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: nodes,
			Value: gain,
		},
	}
}

func (e *VCVS) GetType() netlist.Kind { return netlist.KindVCVS }

func (e *VCVS) Stamp(m matrix.Stamper) error {
	n1, n2, cp, cn := e.Nodes[0], e.Nodes[1], e.Nodes[2], e.Nodes[3]
	bIdx := e.branchIdx
	gain := e.gain()

	if err := m.ClaimBranch(bIdx, e.Name); err != nil {
		return err
	}
	stampBranchVoltage(m, n1, n2, bIdx)
	m.AddC(bIdx, cp, symbolic.Term{Coef: -1, Sym: gain})
	m.AddC(bIdx, cn, symbolic.Term{Coef: 1, Sym: gain})
	return nil
}
