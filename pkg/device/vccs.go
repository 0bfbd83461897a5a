package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// VCCS drives g * (v(cp) - v(cn)) from p to n. It needs no unknown current.
type VCCS struct {
	BaseDevice
}

func NewVCCS(name string, nodes []int, gain float64) *VCCS {
	return &VCCS{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: nodes,
			Value: gain,
		},
	}
}

func (g *VCCS) GetType() netlist.Kind { return netlist.KindVCCS }

func (g *VCCS) Stamp(m matrix.Stamper) error {
	n1, n2, cp, cn := g.Nodes[0], g.Nodes[1], g.Nodes[2], g.Nodes[3]
	gm := symbolic.Term{Coef: 1, Sym: g.gain()}
	neg := symbolic.Term{Coef: -1, Sym: g.gain()}

	m.AddG(n1, cp, gm)
	m.AddG(n2, cn, gm)
	m.AddG(n1, cn, neg)
	m.AddG(n2, cp, neg)
	return nil
}
