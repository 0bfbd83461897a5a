package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// CurrentSource drives its value from n1 to n2 through the source.
type CurrentSource struct {
	BaseDevice
}

func NewCurrentSource(name string, nodes []int, value float64) *CurrentSource {
	return &CurrentSource{
		BaseDevice: BaseDevice{
			Name:  name,
			Nodes: nodes,
			Value: value,
		},
	}
}

func (i *CurrentSource) GetType() netlist.Kind { return netlist.KindCurrentSource }

func (i *CurrentSource) Stamp(m matrix.Stamper) error {
	n1, n2 := i.Nodes[0], i.Nodes[1]
	sym := symbolic.Value(i.Name)

	m.AddI(n1, symbolic.Term{Coef: -1, Sym: sym})
	m.AddI(n2, symbolic.Term{Coef: 1, Sym: sym})
	return nil
}
