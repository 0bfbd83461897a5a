package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// OpAmp is an ideal operational amplifier: infinite gain holds v(+) = v(-)
// while the output supplies whatever current the output node needs.
// Nodes are +input, -input, output.
type OpAmp struct {
	BaseDevice
	branch
}

var _ BranchDevice = (*OpAmp)(nil)

func NewOpAmp(name string, nodes []int) *OpAmp {
	return &OpAmp{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: nodes,
		},
	}
}

func (o *OpAmp) GetType() netlist.Kind { return netlist.KindOpAmp }

func (o *OpAmp) Stamp(m matrix.Stamper) error {
	inP, inN, out := o.Nodes[0], o.Nodes[1], o.Nodes[2]
	bIdx := o.branchIdx

	if err := m.ClaimBranch(bIdx, o.Name); err != nil {
		return err
	}
	m.AddB(out, bIdx, one)
	m.AddC(bIdx, inP, one)
	m.AddC(bIdx, inN, symbolic.Const(-1))
	return nil
}
