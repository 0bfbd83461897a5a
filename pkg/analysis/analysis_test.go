package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/cmplx"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/solver"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

const tol = 1e-9

const divider = `* resistive divider
V1 1 0 10
R1 1 2 1k
R2 2 0 1k
`

const lowpass = `V1 1 0 1
R1 1 2 1
C1 2 0 1
`

func run(t *testing.T, text string, params Params, opts Options) *Result {
	t.Helper()
	res, err := Run(context.Background(), text, params, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func lookup(t *testing.T, res *Result, name string) complex128 {
	t.Helper()
	v, ok := res.Lookup(name)
	if !ok {
		t.Fatalf("no unknown %s in %v", name, res.System.X)
	}
	return v
}

func TestRunSolutions(t *testing.T) {
	tests := []struct {
		name    string
		netlist string
		unknown string
		want    complex128
	}{
		{"divider", divider, "v2", 5},
		{"divider source current", divider, "I_V1", -5e-3},
		{"lowpass at s=1", lowpass, "v2", 0.5},
		{"inverting amplifier", "V1 1 0 1\nR1 1 2 1k\nR2 2 3 10k\nO1 0 2 3\n", "v3", -10},
		{"vcvs", "V1 1 0 1\nR1 1 0 1\nE1 2 0 1 0 3\nR2 2 0 1\n", "v2", 3},
		{"vccs", "V1 1 0 1\nR1 1 0 1\nG1 0 2 1 0 0.5\nR2 2 0 4\n", "v2", 2},
		{"cccs", "V1 1 0 1\nR1 1 2 1\nV2 2 0 0\nF1 0 3 V2 2\nR2 3 0 1\n", "v3", 2},
		{"ccvs", "V1 1 0 1\nR1 1 2 1\nV2 2 0 0\nH1 3 0 V2 5\nR2 3 0 1\n", "v3", 5},
		{"current source", "I1 0 1 2m\nR1 1 0 1k\n", "v1", 2},
		{"coupled inductors", "V1 1 0 1\nR1 1 2 1\nL1 2 0 1\nL2 3 0 1\nR2 3 0 1\nK1 L1 L2 0.5\n", "v3", 2.0 / 15},
		{"uncoupled inductors", "V1 1 0 1\nR1 1 2 1\nL1 2 0 1\nL2 3 0 1\nR2 3 0 1\nK1 L1 L2 0\n", "v3", 0},
	}
	for _, tt := range tests {
		for _, slv := range []solver.Solver{solver.Dense{}, solver.Sparse{}} {
			t.Run(tt.name+"/"+slv.Name(), func(t *testing.T) {
				res := run(t, tt.netlist, DefaultParams(), Options{Solver: slv})
				if got := lookup(t, res, tt.unknown); cmplx.Abs(got-tt.want) > tol {
					t.Errorf("%s = %v, want %v", tt.unknown, got, tt.want)
				}
			})
		}
	}
}

// rcLadder returns a source driving stages series resistors, each followed
// by a shunt capacitor. Node stages+1 is the far end.
func rcLadder(stages int, r, c string) string {
	var b strings.Builder
	b.WriteString("V1 1 0 1\n")
	for i := 1; i <= stages; i++ {
		fmt.Fprintf(&b, "R%d %d %d %s\n", i, i, i+1, r)
		fmt.Fprintf(&b, "C%d %d 0 %s\n", i, i+1, c)
	}
	return b.String()
}

func TestRunLargeLadder(t *testing.T) {
	// 40 nodes of 1 Mohm and 1 pF: tiny pivots, well-posed system.
	text := rcLadder(39, "1meg", "1p")
	var results []*Result
	for _, slv := range []solver.Solver{solver.Dense{}, solver.Sparse{}} {
		t.Run(slv.Name(), func(t *testing.T) {
			res := run(t, text, DefaultParams(), Options{Solver: slv})
			v40 := lookup(t, res, "v40")
			if real(v40) < 0.99 || real(v40) > 1 {
				t.Errorf("v40 = %v, want just under 1", v40)
			}
			results = append(results, res)
		})
	}
	if len(results) != 2 {
		t.Fatal("a solver failed")
	}
	for i, name := range results[0].System.X {
		a, b := results[0].Solution[i], results[1].Solution[i]
		if cmplx.Abs(a-b) > 1e-6*math.Max(cmplx.Abs(a), 1e-12) {
			t.Errorf("%s: dense %v, sparse %v", name, a, b)
		}
	}
}

func TestRunRealisticValues(t *testing.T) {
	tests := []struct {
		name    string
		netlist string
		params  Params
		unknown string
		want    complex128
	}{
		// Resistive divider is the same at every s.
		{"divider at 1 kHz", divider, DefaultParams().AtFrequency(1e3), "v2", 5},
		{"divider at complex s", divider, Params{S: complex(3, -7)}, "v2", 5},
		// 1.5 kohm and 100 nF put the corner at 1/(2*pi*150us).
		{"lowpass corner", "V1 1 0 1\nR1 1 2 1.5k\nC1 2 0 100n\n", DefaultParams().AtFrequency(1 / (2 * math.Pi * 150e-6)), "v2", complex(0.5, -0.5)},
		// 10 mH and 1 uF resonate at 10 krad/s, leaving only the 50 ohm.
		{"series resonance", "V1 1 0 1\nR1 1 2 50\nL1 2 3 10m\nC1 3 0 1u\n", Params{S: complex(0, 1/math.Sqrt(10e-3*1e-6))}, "I_V1", -1.0 / 50},
		// 47 pF feedback over 10 Mohm input, unity magnitude integrator at 1/(2*pi*RC).
		{"integrator", "V1 1 0 1\nR1 1 2 10meg\nC1 2 3 47p\nO1 0 2 3\n", DefaultParams().AtFrequency(1 / (2 * math.Pi * 10e6 * 47e-12)), "v3", complex(0, 1)},
	}
	for _, tt := range tests {
		for _, slv := range []solver.Solver{solver.Dense{}, solver.Sparse{}} {
			t.Run(tt.name+"/"+slv.Name(), func(t *testing.T) {
				res := run(t, tt.netlist, tt.params, Options{Solver: slv, Symbolic: true})
				got := lookup(t, res, tt.unknown)
				if cmplx.Abs(got-tt.want) > 1e-6*cmplx.Abs(tt.want) {
					t.Errorf("%s = %v, want %v", tt.unknown, got, tt.want)
				}
				for i, name := range res.System.X {
					expr, _ := res.Expression(name)
					if v := expr.Eval(tt.params.S); cmplx.Abs(v-res.Solution[i]) > 1e-6*math.Max(cmplx.Abs(res.Solution[i]), 1e-9) {
						t.Errorf("%s(s) = %v, numeric %v", name, v, res.Solution[i])
					}
				}
			})
		}
	}
}

func TestRunSymbolicRealisticLadder(t *testing.T) {
	// Three 1 ohm / 1 uF sections at 1 MHz.
	res := run(t, rcLadder(3, "1", "1u"), DefaultParams().AtFrequency(1e6), Options{Symbolic: true})

	expr, _ := res.Expression("v4")
	tau := 1e-6
	s := DefaultParams().AtFrequency(1e6).S
	want := 1 / (1 + 5*complex(tau, 0)*s + 6*complex(tau*tau, 0)*s*s + complex(tau*tau*tau, 0)*s*s*s)
	if got := expr.Eval(s); cmplx.Abs(got-want) > 1e-9*cmplx.Abs(want) {
		t.Errorf("v4(s) = %v, want %v (%s)", got, want, expr)
	}
	if got := lookup(t, res, "v4"); cmplx.Abs(got-want) > 1e-9*cmplx.Abs(want) {
		t.Errorf("numeric v4 = %v, want %v", got, want)
	}
	if got := expr.Eval(0); cmplx.Abs(got-1) > 1e-12 {
		t.Errorf("DC gain = %v, want 1", got)
	}

	unit := run(t, rcLadder(3, "1", "1"), DefaultParams(), Options{Symbolic: true})
	if got, _ := unit.Expression("v4"); got.String() != "1/(s^3 + 5*s^2 + 6*s + 1)" {
		t.Errorf("v4(s) = %q", got.String())
	}
}

func TestCheckTransfer(t *testing.T) {
	x := []symbolic.Rational{
		{Num: symbolic.Poly{1}, Den: symbolic.Poly{1}},
		{Num: symbolic.Poly{1}, Den: symbolic.Poly{1, 1}},
	}
	if err := checkTransfer(x, []complex128{1, 0.5}, []string{"v1", "v2"}, 1); err != nil {
		t.Errorf("matching closed forms: %v", err)
	}
	err := checkTransfer(x, []complex128{1, 0.4}, []string{"v1", "v2"}, 1)
	if !cerrors.Is(err, cerrors.ErrCodeInternal) || !strings.Contains(err.Error(), "v2") {
		t.Errorf("err = %v, want INTERNAL_ERROR naming v2", err)
	}
}

func TestRunNamedGain(t *testing.T) {
	const text = "V1 1 0 1\nR1 1 0 1\nE1 2 0 1 0 ea1\nR2 2 0 1\n"
	tests := []struct {
		name      string
		overrides map[string]float64
		want      complex128
	}{
		{"default gain", nil, 2},
		{"parameter override", map[string]float64{"ea1": 3}, 3},
		{"element override", map[string]float64{"E1": 5}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			params.Overrides = tt.overrides
			res := run(t, text, params, Options{Symbolic: true})
			if got := lookup(t, res, "v2"); cmplx.Abs(got-tt.want) > tol {
				t.Errorf("v2 = %v, want %v", got, tt.want)
			}
		})
	}

	params := DefaultParams()
	params.DefaultGain = 7
	if got := lookup(t, run(t, text, params, Options{}), "v2"); cmplx.Abs(got-7) > tol {
		t.Errorf("v2 = %v with default gain 7", got)
	}
	var eqs []string
	for _, eq := range run(t, text, DefaultParams(), Options{}).System.Equations {
		eqs = append(eqs, eq.String())
	}
	if joined := strings.Join(eqs, "\n"); !strings.Contains(joined, "ea1") {
		t.Errorf("equations do not name ea1:\n%s", joined)
	}
}

func TestRunNamedMutual(t *testing.T) {
	const text = "V1 1 0 1\nR1 1 2 1\nL1 2 0 1\nL2 3 0 1\nR2 3 0 1\nK1 L1 L2 mab\n"
	res := run(t, text, DefaultParams(), Options{})
	if got := lookup(t, res, "v3"); cmplx.Abs(got) > tol {
		t.Errorf("v3 = %v, want 0 with the default mutual inductance", got)
	}

	params := DefaultParams()
	params.Overrides = map[string]float64{"mab": 0.5}
	if got := lookup(t, run(t, text, params, Options{}), "v3"); cmplx.Abs(got-2.0/15) > tol {
		t.Errorf("v3 = %v, want 2/15", got)
	}
}

func TestRunSymbolicLowpass(t *testing.T) {
	res := run(t, lowpass, DefaultParams(), Options{Symbolic: true})

	expr, ok := res.Expression("v2")
	if !ok {
		t.Fatal("no symbolic solution for v2")
	}
	if got := expr.String(); got != "1/(s + 1)" {
		t.Errorf("v2(s) = %q, want %q", got, "1/(s + 1)")
	}
	if got := expr.Eval(1); cmplx.Abs(got-0.5) > tol {
		t.Errorf("v2(1) = %v, want 0.5", got)
	}
	if got, _ := res.Expression("v1"); got.String() != "1" {
		t.Errorf("v1(s) = %q, want 1", got.String())
	}
}

func TestRunAtFrequency(t *testing.T) {
	// Corner frequency of R = C = 1.
	fc := 1 / (2 * math.Pi)
	res := run(t, lowpass, DefaultParams().AtFrequency(fc), Options{})

	v2 := lookup(t, res, "v2")
	if math.Abs(cmplx.Abs(v2)-1/math.Sqrt2) > tol {
		t.Errorf("|v2| = %g, want %g", cmplx.Abs(v2), 1/math.Sqrt2)
	}
	if deg := cmplx.Phase(v2) * 180 / math.Pi; math.Abs(deg+45) > 1e-6 {
		t.Errorf("phase = %g, want -45", deg)
	}
}

func TestRunOverrides(t *testing.T) {
	params := DefaultParams()
	params.Overrides = map[string]float64{"r2": 3e3}
	res := run(t, divider, params, Options{})
	if got := lookup(t, res, "v2"); cmplx.Abs(got-7.5) > tol {
		t.Errorf("v2 = %v, want 7.5", got)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		netlist string
		code    cerrors.Code
	}{
		{"unresolved control", "V1 1 0 1\nR1 1 0 1\nF1 1 0 V9 2\n", cerrors.ErrCodeUnresolvedReference},
		{"parallel sources", "V1 1 0 1\nV2 1 0 2\n", cerrors.ErrCodeSingularSystem},
		{"floating node", "V1 1 0 1\nR1 1 0 1\nC1 2 3 1\n", cerrors.ErrCodeSingularSystem},
		{"format", "V1 1 0 1\nR1 1 0\n", cerrors.ErrCodeFormat},
		{"node gap", "V1 1 0 1\nR1 1 3 1\nR2 3 0 1\n", cerrors.ErrCodeNodeContinuity},
		{"empty", "* nothing\n", cerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(context.Background(), tt.netlist, DefaultParams(), Options{})
			if res != nil {
				t.Errorf("got a partial result")
			}
			if !cerrors.Is(err, tt.code) {
				t.Fatalf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunDeterministic(t *testing.T) {
	text := "V1 1 0 1\nR1 1 2 1\nL1 2 3 1m\nC1 3 0 1u\nE1 4 0 3 0 2\nR2 4 0 1k\n"
	params := DefaultParams().AtFrequency(1e3)
	a := run(t, text, params, Options{Symbolic: true})
	b := run(t, text, params, Options{Symbolic: true})

	if a.Text() != b.Text() {
		t.Error("text output differs between identical runs")
	}
	for i := range a.Solution {
		if a.Solution[i] != b.Solution[i] {
			t.Errorf("x[%d]: %v vs %v", i, a.Solution[i], b.Solution[i])
		}
	}
}

func TestResultText(t *testing.T) {
	text := run(t, divider, DefaultParams(), Options{}).Text()
	for _, want := range []string{
		"Net list report",
		"G matrix:",
		"[1/R1, -1/R1]",
		"Ev matrix:",
		"v1/R1 - v2/R1 + I_V1 = 0",
		"v1 = V1",
		"5.000 V",
		"-5.000 mA",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text output missing %q:\n%s", want, text)
		}
	}
}

func TestResultReport(t *testing.T) {
	rep := run(t, lowpass, DefaultParams(), Options{Symbolic: true}).Report()

	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"netlist", "equations", "matrices", "unknowns", "solution", "symbolic"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report missing %q", key)
		}
	}

	if got := rep.Solution["v2"].Re; math.Abs(got-0.5) > tol {
		t.Errorf("solution v2 = %g, want 0.5", got)
	}
	if got := rep.Symbolic["v2"]; got != "1/(s + 1)" {
		t.Errorf("symbolic v2 = %q", got)
	}
	for _, name := range []string{"G", "B", "C", "D", "I", "Ev", "A", "Z", "X"} {
		if _, ok := rep.Matrices[name]; !ok {
			t.Errorf("matrices missing %s", name)
		}
	}
	if rep.Netlist.Elements["R"] != 1 || rep.Netlist.Nodes != 2 || rep.Netlist.Currents != 1 {
		t.Errorf("netlist report = %+v", rep.Netlist)
	}
}

func TestRunLogsReport(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	run(t, divider, DefaultParams(), Options{Logger: logger})

	out := buf.String()
	if !strings.Contains(out, "net list report") || !strings.Contains(out, "nodes=2") {
		t.Errorf("debug log missing report:\n%s", out)
	}
}

func TestRunLenientWarnings(t *testing.T) {
	res := run(t, "V1 1 0 10\nR1 1 2 1k\nR2 2 0 1k\nR3 1 2\n", DefaultParams(), Options{Lenient: true})
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v", res.Warnings)
	}
	if got := lookup(t, res, "v2"); cmplx.Abs(got-5) > tol {
		t.Errorf("v2 = %v, want 5", got)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, divider, DefaultParams(), Options{}); err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
