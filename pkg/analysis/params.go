package analysis

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/edp1096/circuit-analyzer/internal/consts"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/solver"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// Params are the substitution parameters of one analysis.
type Params struct {
	S         complex128         // frequency variable
	Overrides map[string]float64 // element values replacing the netlist's

	DefaultGain   float64 // gain for controlled sources with no value
	DefaultMutual float64 // M for coupled inductors with no value
}

// DefaultParams evaluates at s = 1.
func DefaultParams() Params {
	return Params{
		S:             complex(consts.DefaultS, 0),
		DefaultGain:   consts.DefaultGain,
		DefaultMutual: consts.DefaultMutual,
	}
}

// AtFrequency returns p evaluated at s = j*2*pi*hz.
func (p Params) AtFrequency(hz float64) Params {
	p.S = complex(0, 2*math.Pi*hz)
	return p
}

func (p Params) binding(values netlist.Values) symbolic.Binding {
	return symbolic.Binding{
		Values:        values.Merge(p.Overrides),
		S:             p.S,
		DefaultGain:   p.DefaultGain,
		DefaultMutual: p.DefaultMutual,
	}
}

// Options control how an analysis runs.
type Options struct {
	Logger *log.Logger

	// Lenient downgrades malformed lines and node gaps to warnings.
	Lenient bool

	// Symbolic adds each unknown as a rational function of s.
	Symbolic bool

	// Solver defaults to solver.Dense.
	Solver solver.Solver
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
