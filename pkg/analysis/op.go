package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/edp1096/circuit-analyzer/pkg/circuit"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// OperatingPoint solves the circuit at a single value of s.
type OperatingPoint struct {
	BaseAnalysis
	withSymbolic bool

	Solution []complex128
	Transfer []symbolic.Rational
}

func NewOP(b symbolic.Binding, opts Options) *OperatingPoint {
	return &OperatingPoint{
		BaseAnalysis: *NewBaseAnalysis(b, opts.Solver, opts.Logger),
		withSymbolic: opts.Symbolic,
	}
}

func (op *OperatingPoint) Execute(ctx context.Context) error {
	if op.System == nil {
		return cerrors.New(cerrors.ErrCodeInternal, "circuit not set")
	}

	x, err := op.solveAt(op.Binding)
	if err != nil {
		return err
	}
	op.Solution = x
	op.StoreResult("S", real(op.Binding.S), op.System.X, x)
	op.results["S_IMAG"] = append(op.results["S_IMAG"], imag(op.Binding.S))
	op.Logger.Debug("solved", "solver", op.Solver.Name(), "unknowns", len(x))

	if !op.withSymbolic {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if op.Transfer, err = solveSymbolic(op.System, op.Binding); err != nil {
		return err
	}
	return checkTransfer(op.Transfer, op.Solution, op.System.X, op.Binding.S)
}

// Run executes the whole pipeline on text: parse, build, stamp, assemble,
// substitute params and solve. Nothing is shared between calls.
func Run(ctx context.Context, text string, params Params, opts Options) (*Result, error) {
	data, err := netlist.Parse(text)
	if err != nil {
		return nil, err
	}
	ckt, err := buildFrom(data, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	op := NewOP(params.binding(netlist.ExtractValues(text)), opts)
	if err := op.Setup(ckt); err != nil {
		return nil, err
	}
	if err := op.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("solving at s=%s: %w", formatComplex(params.S), err)
	}

	return newResult(data, op), nil
}

func logReport(logger *log.Logger, data *netlist.NetlistData, ckt *circuit.Circuit) {
	logger.Debug("net list report",
		"lines", data.Lines,
		"nodes", ckt.Nodes.Count,
		"currents", ckt.Registry.Len(),
		"R", data.Count(netlist.KindResistor),
		"L", data.Count(netlist.KindInductor),
		"C", data.Count(netlist.KindCapacitor),
		"V", data.Count(netlist.KindVoltageSource),
		"I", data.Count(netlist.KindCurrentSource),
		"O", data.Count(netlist.KindOpAmp),
		"E", data.Count(netlist.KindVCVS),
		"G", data.Count(netlist.KindVCCS),
		"F", data.Count(netlist.KindCCCS),
		"H", data.Count(netlist.KindCCVS),
		"K", data.Count(netlist.KindMutual),
	)
}
