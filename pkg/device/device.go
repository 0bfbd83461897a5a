// Package device turns netlist elements into MNA stamps, one type per element kind.
package device

import (
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

type Device interface {
	GetName() string
	GetType() netlist.Kind
	GetNodes() []int
	GetValue() float64
	Stamp(m matrix.Stamper) error
}

// BranchDevice is a device with its own unknown current.
type BranchDevice interface {
	Device
	BranchIndex() int
}

// Resolver maps an element name to its unknown-current index and kind.
type Resolver interface {
	Branch(name string) (int, netlist.Kind, error)
}

type BaseDevice struct {
	Name  string
	Nodes []int
	Value float64

	// Param names the netlist parameter behind a gain or mutual inductance.
	Param string
}

func (d *BaseDevice) GetName() string { return d.Name }

func (d *BaseDevice) GetNodes() []int { return d.Nodes }

func (d *BaseDevice) GetValue() float64 { return d.Value }

func (d *BaseDevice) setParam(param string) { d.Param = param }

// gain is the symbol of a controlled source's gain.
func (d *BaseDevice) gain() symbolic.Symbol {
	return symbolic.Gain(d.Name).Named(d.Param)
}

// branch holds the registry index of a device's own current.
type branch struct {
	branchIdx int
}

func (b *branch) BranchIndex() int { return b.branchIdx }

func (b *branch) SetBranchIndex(idx int) { b.branchIdx = idx }

var one = symbolic.Const(1)

// stampConductance adds the four-entry pattern of a two-terminal admittance.
func stampConductance(m matrix.Stamper, n1, n2 int, g symbolic.Term) {
	neg := g
	neg.Coef = -neg.Coef

	m.AddG(n1, n1, g)
	m.AddG(n2, n2, g)
	m.AddG(n1, n2, neg)
	m.AddG(n2, n1, neg)
}

// stampBranchVoltage adds the incidence pair shared by every element whose
// branch current is an unknown and whose row constrains v(n1) - v(n2).
func stampBranchVoltage(m matrix.Stamper, n1, n2, idx int) {
	m.AddB(n1, idx, one)
	m.AddB(n2, idx, symbolic.Const(-1))
	m.AddC(idx, n1, one)
	m.AddC(idx, n2, symbolic.Const(-1))
}
