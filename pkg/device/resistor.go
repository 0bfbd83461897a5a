package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

type Resistor struct {
	BaseDevice
}

func NewResistor(name string, nodes []int, value float64) *Resistor {
	return &Resistor{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: nodes,
			Value: value,
		},
	}
}

func (r *Resistor) GetType() netlist.Kind { return netlist.KindResistor }

// Stamp adds g = 1/R between the two terminals.
func (r *Resistor) Stamp(m matrix.Stamper) error {
	n1, n2 := r.Nodes[0], r.Nodes[1]
	g := symbolic.Term{Coef: 1, Sym: symbolic.Value(r.Name), Inv: true}
	stampConductance(m, n1, n2, g)
	return nil
}
