package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/edp1096/circuit-analyzer/pkg/circuit"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// Point spacing of a frequency sweep.
const (
	SweepDEC = "DEC" // points spread evenly per decade
	SweepOCT = "OCT" // points spread evenly per octave
	SweepLIN = "LIN"
)

// SweepSpec describes a frequency sweep. Points is the total point count.
type SweepSpec struct {
	Type   string
	Points int
	FStart float64
	FStop  float64
}

func (s SweepSpec) Validate() error {
	switch strings.ToUpper(s.Type) {
	case SweepDEC, SweepOCT:
		if s.FStart <= 0 {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "%s sweep needs a positive start frequency", s.Type)
		}
	case SweepLIN:
		if s.FStart < 0 {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "start frequency must not be negative")
		}
	default:
		return cerrors.New(cerrors.ErrCodeInvalidInput, "unknown sweep type %q (want DEC, OCT or LIN)", s.Type)
	}
	if s.Points < 2 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "sweep needs at least 2 points, got %d", s.Points)
	}
	if s.FStop <= s.FStart {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "stop frequency %g must exceed start %g", s.FStop, s.FStart)
	}
	return nil
}

type ACAnalysis struct {
	BaseAnalysis
	spec        SweepSpec
	frequencies []float64
}

func NewAC(b symbolic.Binding, spec SweepSpec, opts Options) *ACAnalysis {
	return &ACAnalysis{
		BaseAnalysis: *NewBaseAnalysis(b, opts.Solver, opts.Logger),
		spec:         spec,
	}
}

func (ac *ACAnalysis) Setup(ckt *circuit.Circuit) error {
	if err := ac.spec.Validate(); err != nil {
		return err
	}
	if err := ac.BaseAnalysis.Setup(ckt); err != nil {
		return err
	}
	ac.generateFrequencyPoints()
	return nil
}

// Execute re-substitutes s = j*2*pi*f into the assembled system at every point.
func (ac *ACAnalysis) Execute(ctx context.Context) error {
	if ac.System == nil {
		return cerrors.New(cerrors.ErrCodeInternal, "circuit not set")
	}

	for _, freq := range ac.frequencies {
		if err := ctx.Err(); err != nil {
			return err
		}

		b := ac.Binding
		b.S = complex(0, 2*math.Pi*freq)
		x, err := ac.solveAt(b)
		if err != nil {
			return fmt.Errorf("matrix solve error at f=%g: %w", freq, err)
		}
		ac.StoreACResult(freq, ac.System.X, x)
	}
	ac.Logger.Debug("ac sweep done", "points", len(ac.frequencies))
	return nil
}

func (ac *ACAnalysis) Frequencies() []float64 {
	return ac.frequencies
}

func (ac *ACAnalysis) generateFrequencyPoints() {
	ac.frequencies = make([]float64, ac.spec.Points)
	n := ac.spec.Points

	switch strings.ToUpper(ac.spec.Type) {
	case SweepDEC: // Decade
		logStart := math.Log10(ac.spec.FStart)
		logStop := math.Log10(ac.spec.FStop)
		step := (logStop - logStart) / float64(n-1)
		for i := range n {
			ac.frequencies[i] = math.Pow(10, logStart+float64(i)*step)
		}

	case SweepOCT: // Octave
		logStart := math.Log2(ac.spec.FStart)
		logStop := math.Log2(ac.spec.FStop)
		step := (logStop - logStart) / float64(n-1)
		for i := range n {
			ac.frequencies[i] = math.Pow(2, logStart+float64(i)*step)
		}

	case SweepLIN: // Linear
		step := (ac.spec.FStop - ac.spec.FStart) / float64(n-1)
		for i := range n {
			ac.frequencies[i] = ac.spec.FStart + float64(i)*step
		}
	}
}

// SweepResult holds magnitude and phase per unknown per frequency.
type SweepResult struct {
	Frequencies []float64
	Unknowns    []string
	results     map[string][]float64
}

// Magnitude returns |x| of an unknown at every frequency.
func (r *SweepResult) Magnitude(name string) []float64 { return r.results[name+"_MAG"] }

// Phase returns the phase of an unknown in degrees at every frequency.
func (r *SweepResult) Phase(name string) []float64 { return r.results[name+"_PHASE"] }

// Sweep runs an AC sweep over text.
func Sweep(ctx context.Context, text string, params Params, spec SweepSpec, opts Options) (*SweepResult, error) {
	ckt, err := build(text, opts)
	if err != nil {
		return nil, err
	}
	ac := NewAC(params.binding(netlist.ExtractValues(text)), spec, opts)
	if err := ac.Setup(ckt); err != nil {
		return nil, err
	}
	if err := ac.Execute(ctx); err != nil {
		return nil, err
	}
	return &SweepResult{
		Frequencies: ac.Frequencies(),
		Unknowns:    ac.System.X,
		results:     ac.GetResults(),
	}, nil
}

// build parses text and builds its circuit.
func build(text string, opts Options) (*circuit.Circuit, error) {
	data, err := netlist.Parse(text)
	if err != nil {
		return nil, err
	}
	return buildFrom(data, opts)
}

// buildFrom builds the circuit of parsed data, logging tolerated issues.
func buildFrom(data *netlist.NetlistData, opts Options) (*circuit.Circuit, error) {
	ckt, err := circuit.Build(data, circuit.BuildOptions{Lenient: opts.Lenient})
	if err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		for _, w := range ckt.Warnings {
			opts.Logger.Warn("netlist issue ignored", "err", w)
		}
		logReport(opts.Logger, data, ckt)
	}
	return ckt, nil
}
