package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// Mutual couples two inductors through the mutual inductance M. The value
// on the netlist line is M itself, not a coupling coefficient.
type Mutual struct {
	BaseDevice
	names   [2]string
	indices [2]int
}

func NewMutual(name string, indNames [2]string, indices [2]int, value float64) *Mutual {
	return &Mutual{
		BaseDevice: BaseDevice{Name: name, Value: value},
		names:      indNames,
		indices:    indices,
	}
}

func (k *Mutual) GetType() netlist.Kind { return netlist.KindMutual }

func (k *Mutual) GetInductorNames() [2]string { return k.names }

// Stamp adds -sM symmetrically between the two inductor branch rows.
func (k *Mutual) Stamp(m matrix.Stamper) error {
	i1, i2 := k.indices[0], k.indices[1]
	sm := symbolic.Term{Coef: -1, Order: 1, Sym: symbolic.Mutual(k.Name).Named(k.Param)}

	m.AddD(i1, i2, sm) // V1 = sL1*I1 + sM*I2
	m.AddD(i2, i1, sm) // V2 = sL2*I2 + sM*I1
	return nil
}
