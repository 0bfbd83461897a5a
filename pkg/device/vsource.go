package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

type VoltageSource struct {
	BaseDevice
	branch
}

var _ BranchDevice = (*VoltageSource)(nil)

func NewVoltageSource(name string, nodes []int, value float64) *VoltageSource {
	return &VoltageSource{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: nodes,
			Value: value,
		},
	}
}

func (v *VoltageSource) GetType() netlist.Kind { return netlist.KindVoltageSource }

// Stamp writes v1 - v2 = V.
func (v *VoltageSource) Stamp(m matrix.Stamper) error {
	n1, n2 := v.Nodes[0], v.Nodes[1]
	bIdx := v.branchIdx

	if err := m.ClaimBranch(bIdx, v.Name); err != nil {
		return err
	}
	stampBranchVoltage(m, n1, n2, bIdx)
	m.AddEv(bIdx, symbolic.Term{Coef: 1, Sym: symbolic.Value(v.Name)})
	return nil
}
