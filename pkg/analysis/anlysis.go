// Package analysis runs the MNA pipeline on a netlist: parse, index,
// stamp, assemble, substitute and solve.
package analysis

import (
	"context"
	"math"
	"math/cmplx"

	"github.com/charmbracelet/log"

	"github.com/edp1096/circuit-analyzer/pkg/circuit"
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/solver"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

type Analysis interface {
	Setup(ckt *circuit.Circuit) error
	Execute(ctx context.Context) error
	GetResults() map[string][]float64
}

type BaseAnalysis struct {
	Circuit *circuit.Circuit
	Blocks  *matrix.Blocks
	System  *matrix.System
	Binding symbolic.Binding
	Solver  solver.Solver
	Logger  *log.Logger
	results map[string][]float64 // key: variable name, value: result per point
}

func NewBaseAnalysis(b symbolic.Binding, slv solver.Solver, logger *log.Logger) *BaseAnalysis {
	if slv == nil {
		slv = solver.Dense{}
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &BaseAnalysis{
		Binding: b,
		Solver:  slv,
		Logger:  logger,
		results: make(map[string][]float64),
	}
}

// Setup stamps and assembles the circuit once; every point reuses the system.
func (a *BaseAnalysis) Setup(ckt *circuit.Circuit) error {
	blocks, sys, err := ckt.Assemble()
	if err != nil {
		return err
	}
	a.Circuit = ckt
	a.Blocks = blocks
	a.System = sys
	return nil
}

// solveAt substitutes b into the assembled system and solves it.
func (a *BaseAnalysis) solveAt(b symbolic.Binding) ([]complex128, error) {
	av, err := a.System.A.Eval(b)
	if err != nil {
		return nil, err
	}
	z := make([]complex128, len(a.System.Z))
	for i, e := range a.System.Z {
		if z[i], err = e.Eval(b); err != nil {
			return nil, err
		}
	}
	return a.Solver.Solve(av, z)
}

func (a *BaseAnalysis) StoreACResult(freq float64, unknowns []string, x []complex128) {
	a.results["FREQ"] = append(a.results["FREQ"], freq)

	for i, name := range unknowns {
		a.results[name+"_MAG"] = append(a.results[name+"_MAG"], cmplx.Abs(x[i]))
		a.results[name+"_PHASE"] = append(a.results[name+"_PHASE"], cmplx.Phase(x[i])*180.0/math.Pi)
	}
}

func (a *BaseAnalysis) StoreResult(key string, sweepVal float64, unknowns []string, x []complex128) {
	a.results[key] = append(a.results[key], sweepVal)

	for i, name := range unknowns {
		a.results[name] = append(a.results[name], real(x[i]))
		a.results[name+"_IMAG"] = append(a.results[name+"_IMAG"], imag(x[i]))
	}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}
