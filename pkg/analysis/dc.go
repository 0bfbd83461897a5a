package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/edp1096/circuit-analyzer/pkg/circuit"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// ParamSpec sweeps one element value from Start to Stop by Step at fixed s.
type ParamSpec struct {
	Name  string
	Start float64
	Stop  float64
	Step  float64
}

// ParamSweep re-binds a single element value at every point. The matrices
// are assembled once; only the substitution changes.
type ParamSweep struct {
	BaseAnalysis
	spec      ParamSpec
	sweepVals []float64
}

func NewParamSweep(b symbolic.Binding, spec ParamSpec, opts Options) *ParamSweep {
	spec.Name = netlist.CanonicalName(spec.Name)
	ps := &ParamSweep{
		BaseAnalysis: *NewBaseAnalysis(b, opts.Solver, opts.Logger),
		spec:         spec,
	}

	if spec.Step > 0 {
		// Tolerate rounding at the last point.
		limit := spec.Stop + spec.Step*1e-9
		for i := 0; ; i++ {
			v := spec.Start + float64(i)*spec.Step
			if v > limit {
				break
			}
			ps.sweepVals = append(ps.sweepVals, v)
		}
	}
	return ps
}

func (ps *ParamSweep) Setup(ckt *circuit.Circuit) error {
	if ps.spec.Step <= 0 || math.IsNaN(ps.spec.Step) {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "sweep step must be positive, got %g", ps.spec.Step)
	}
	if len(ps.sweepVals) == 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "sweep range %g..%g is empty", ps.spec.Start, ps.spec.Stop)
	}

	found := false
	for _, e := range ckt.Elements {
		if e.Name == ps.spec.Name && e.Kind != netlist.KindOpAmp {
			found = true
			break
		}
	}
	if !found {
		return cerrors.New(cerrors.ErrCodeUnresolvedParameter, "no element %s with a value to sweep", ps.spec.Name)
	}
	return ps.BaseAnalysis.Setup(ckt)
}

func (ps *ParamSweep) Execute(ctx context.Context) error {
	if ps.System == nil {
		return cerrors.New(cerrors.ErrCodeInternal, "circuit not set")
	}

	for _, val := range ps.sweepVals {
		if err := ctx.Err(); err != nil {
			return err
		}

		b := ps.Binding
		b.Values = netlist.Values(b.Values).Merge(map[string]float64{ps.spec.Name: val})
		x, err := ps.solveAt(b)
		if err != nil {
			return fmt.Errorf("solve error at %s=%g: %w", ps.spec.Name, val, err)
		}
		ps.StoreResult("SWEEP1", val, ps.System.X, x)
	}
	return nil
}

// ParamResult holds the solution at every swept value.
type ParamResult struct {
	Name      string
	Values    []float64
	Unknowns  []string
	Solutions [][]complex128 // Solutions[i] is the solution at Values[i]
}

// SweepParameter runs a parameter sweep over text.
func SweepParameter(ctx context.Context, text string, params Params, spec ParamSpec, opts Options) (*ParamResult, error) {
	ckt, err := build(text, opts)
	if err != nil {
		return nil, err
	}
	ps := NewParamSweep(params.binding(netlist.ExtractValues(text)), spec, opts)
	if err := ps.Setup(ckt); err != nil {
		return nil, err
	}
	if err := ps.Execute(ctx); err != nil {
		return nil, err
	}

	res := ps.GetResults()
	out := &ParamResult{
		Name:     ps.spec.Name,
		Values:   res["SWEEP1"],
		Unknowns: ps.System.X,
	}
	for i := range out.Values {
		row := make([]complex128, len(out.Unknowns))
		for j, name := range out.Unknowns {
			row[j] = complex(res[name][i], res[name+"_IMAG"][i])
		}
		out.Solutions = append(out.Solutions, row)
	}
	return out, nil
}
