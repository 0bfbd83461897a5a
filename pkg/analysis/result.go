package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/edp1096/circuit-analyzer/pkg/circuit"
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
	"github.com/edp1096/circuit-analyzer/pkg/util"
)

// Result is everything one analysis produced.
type Result struct {
	Elements []netlist.Element
	Lines    int
	Nodes    int
	Currents []circuit.Entry
	Warnings []*cerrors.Error

	Blocks *matrix.Blocks
	System *matrix.System

	Values   netlist.Values
	S        complex128
	Solution []complex128        // one entry per unknown, in System.X order
	Transfer []symbolic.Rational // nil unless a symbolic solve was requested
}

func newResult(data *netlist.NetlistData, op *OperatingPoint) *Result {
	return &Result{
		Elements: data.Elements,
		Lines:    data.Lines,
		Nodes:    op.Circuit.Nodes.Count,
		Currents: op.Circuit.Registry.Entries(),
		Warnings: op.Circuit.Warnings,
		Blocks:   op.Blocks,
		System:   op.System,
		Values:   op.Binding.Values,
		S:        op.Binding.S,
		Solution: op.Solution,
		Transfer: op.Transfer,
	}
}

// Lookup returns the solved value of an unknown such as "v2" or "I_V1".
func (r *Result) Lookup(name string) (complex128, bool) {
	for i, x := range r.System.X {
		if strings.EqualFold(x, name) {
			return r.Solution[i], true
		}
	}
	return 0, false
}

// Expression returns the symbolic solution of an unknown.
func (r *Result) Expression(name string) (symbolic.Rational, bool) {
	if r.Transfer == nil {
		return symbolic.Rational{}, false
	}
	for i, x := range r.System.X {
		if strings.EqualFold(x, name) {
			return r.Transfer[i], true
		}
	}
	return symbolic.Rational{}, false
}

// Text renders the result as plain text, one section per matrix.
func (r *Result) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Net list report\n")
	fmt.Fprintf(&b, "  lines: %d\n", r.Lines)
	fmt.Fprintf(&b, "  nodes: %d\n", r.Nodes)
	fmt.Fprintf(&b, "  unknown currents: %d\n", len(r.Currents))
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", cerrors.UserMessage(w))
	}
	b.WriteString("\n")

	section := func(name string, m *symbolic.Matrix) {
		fmt.Fprintf(&b, "%s matrix:\n", name)
		if m.Rows() == 0 || m.Cols() == 0 {
			b.WriteString("[]\n\n")
			return
		}
		b.WriteString(m.String())
		b.WriteString("\n")
	}
	section("G", r.Blocks.G)
	section("B", r.Blocks.B)
	section("C", r.Blocks.C)
	section("D", r.Blocks.D)
	section("I", r.Blocks.I)
	section("Ev", r.Blocks.Ev)
	section("A", r.System.A)

	fmt.Fprintf(&b, "X: [%s]\n", strings.Join(r.System.X, ", "))
	z := make([]string, len(r.System.Z))
	for i, e := range r.System.Z {
		z[i] = e.String()
	}
	fmt.Fprintf(&b, "Z: [%s]\n\n", strings.Join(z, ", "))

	b.WriteString("Equations:\n")
	for _, eq := range r.System.Equations {
		fmt.Fprintf(&b, "  %s\n", eq)
	}

	fmt.Fprintf(&b, "\nSolution at s = %s:\n", formatComplex(r.S))
	for i, name := range r.System.X {
		unit := "V"
		if i >= r.Nodes {
			unit = "A"
		}
		fmt.Fprintf(&b, "  %-8s %s\n", name, formatPhasor(r.Solution[i], unit))
	}

	if r.Transfer != nil {
		b.WriteString("\nSymbolic solution:\n")
		for i, name := range r.System.X {
			fmt.Fprintf(&b, "  %s = %s\n", name, r.Transfer[i])
		}
	}
	return b.String()
}

// Phasor is a complex value with its polar form.
type Phasor struct {
	Re    float64 `json:"re"`
	Im    float64 `json:"im"`
	Mag   float64 `json:"mag"`
	Phase float64 `json:"phase_deg"`
}

func NewPhasor(v complex128) Phasor {
	return Phasor{
		Re:    real(v),
		Im:    imag(v),
		Mag:   cmplx.Abs(v),
		Phase: cmplx.Phase(v) * 180 / math.Pi,
	}
}

// NetlistReport summarizes the parsed netlist.
type NetlistReport struct {
	Lines    int            `json:"lines"`
	Nodes    int            `json:"nodes"`
	Currents int            `json:"unknown_currents"`
	Elements map[string]int `json:"elements"`
}

// Report is the JSON form of a Result.
type Report struct {
	Netlist   NetlistReport         `json:"netlist"`
	Warnings  []string              `json:"warnings,omitempty"`
	S         Phasor                `json:"s"`
	Equations []string              `json:"equations"`
	Matrices  map[string][][]string `json:"matrices"`
	Unknowns  []string              `json:"unknowns"`
	Solution  map[string]Phasor     `json:"solution"`
	Symbolic  map[string]string     `json:"symbolic,omitempty"`
}

func (r *Result) Report() *Report {
	rep := &Report{
		Netlist: NetlistReport{
			Lines:    r.Lines,
			Nodes:    r.Nodes,
			Currents: len(r.Currents),
			Elements: make(map[string]int),
		},
		S:        NewPhasor(r.S),
		Matrices: make(map[string][][]string),
		Unknowns: append([]string(nil), r.System.X...),
		Solution: make(map[string]Phasor),
	}
	for _, e := range r.Elements {
		rep.Netlist.Elements[string(rune(e.Kind))]++
	}
	for _, w := range r.Warnings {
		rep.Warnings = append(rep.Warnings, w.Error())
	}
	for _, eq := range r.System.Equations {
		rep.Equations = append(rep.Equations, eq.String())
	}

	for name, m := range map[string]*symbolic.Matrix{
		"G": r.Blocks.G, "B": r.Blocks.B, "C": r.Blocks.C, "D": r.Blocks.D,
		"I": r.Blocks.I, "Ev": r.Blocks.Ev, "A": r.System.A,
	} {
		rep.Matrices[name] = cells(m)
	}
	z := make([][]string, len(r.System.Z))
	for i, e := range r.System.Z {
		z[i] = []string{e.String()}
	}
	rep.Matrices["Z"] = z
	x := make([][]string, len(r.System.X))
	for i, name := range r.System.X {
		x[i] = []string{name}
	}
	rep.Matrices["X"] = x

	for i, name := range r.System.X {
		rep.Solution[name] = NewPhasor(r.Solution[i])
	}
	if r.Transfer != nil {
		rep.Symbolic = make(map[string]string)
		for i, name := range r.System.X {
			rep.Symbolic[name] = r.Transfer[i].String()
		}
	}
	return rep
}

func cells(m *symbolic.Matrix) [][]string {
	out := make([][]string, m.Rows())
	for i := range out {
		out[i] = make([]string, m.Cols())
		for j := range out[i] {
			out[i][j] = m.At(i, j).String()
		}
	}
	return out
}

func formatComplex(v complex128) string {
	switch {
	case imag(v) == 0:
		return fmt.Sprintf("%g", real(v))
	case real(v) == 0:
		return fmt.Sprintf("%gj", imag(v))
	}
	return fmt.Sprintf("%g%+gj", real(v), imag(v))
}

// formatPhasor prints real values with an SI prefix and complex ones in polar form.
func formatPhasor(v complex128, unit string) string {
	if math.Abs(imag(v)) <= 1e-12*math.Max(1, math.Abs(real(v))) {
		return util.FormatValueFactor(real(v), unit)
	}
	p := NewPhasor(v)
	return util.FormatPolar(p.Mag, p.Phase)
}
