package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// Inductor carries its current as an unknown so coupled inductors can
// reference it.
type Inductor struct {
	BaseDevice
	branch
}

var _ BranchDevice = (*Inductor)(nil)

func NewInductor(name string, nodes []int, value float64) *Inductor {
	return &Inductor{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: nodes,
			Value: value,
		},
	}
}

func (l *Inductor) GetType() netlist.Kind { return netlist.KindInductor }

// Stamp writes the branch row v1 - v2 - sL*I = 0.
func (l *Inductor) Stamp(m matrix.Stamper) error {
	n1, n2 := l.Nodes[0], l.Nodes[1]
	bIdx := l.branchIdx

	if err := m.ClaimBranch(bIdx, l.Name); err != nil {
		return err
	}
	stampBranchVoltage(m, n1, n2, bIdx)
	m.AddD(bIdx, bIdx, symbolic.Term{Coef: -1, Order: 1, Sym: symbolic.Value(l.Name)})
	return nil
}
