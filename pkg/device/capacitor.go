package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

type Capacitor struct {
	BaseDevice
}

func NewCapacitor(name string, nodes []int, value float64) *Capacitor {
	return &Capacitor{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: nodes,
			Value: value,
		},
	}
}

func (c *Capacitor) GetType() netlist.Kind { return netlist.KindCapacitor }

// Stamp adds the admittance sC.
func (c *Capacitor) Stamp(m matrix.Stamper) error {
	n1, n2 := c.Nodes[0], c.Nodes[1]
	y := symbolic.Term{Coef: 1, Order: 1, Sym: symbolic.Value(c.Name)}
	stampConductance(m, n1, n2, y)
	return nil
}
