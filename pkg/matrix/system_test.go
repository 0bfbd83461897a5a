package matrix_test

import (
	"testing"

	"github.com/edp1096/circuit-analyzer/pkg/circuit"
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

func assemble(t *testing.T, input string) (*matrix.Blocks, *matrix.System) {
	t.Helper()
	data, err := netlist.Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c, err := circuit.Build(data, circuit.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	blocks, sys, err := c.Assemble()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return blocks, sys
}

func TestAssembleDivider(t *testing.T) {
	_, sys := assemble(t, "V1 1 0 10\nR1 1 2 1k\nR2 2 0 1k\n")

	want := []string{
		"v1/R1 - v2/R1 + I_V1 = 0",
		"-v1/R1 + (1/R1 + 1/R2)*v2 = 0",
		"v1 = V1",
	}
	if len(sys.Equations) != len(want) {
		t.Fatalf("equations = %v", sys.Equations)
	}
	for i, eq := range sys.Equations {
		if eq.String() != want[i] {
			t.Errorf("equation %d = %q, want %q", i, eq.String(), want[i])
		}
	}
}

func TestAssembleWithoutBranches(t *testing.T) {
	blocks, sys := assemble(t, "I1 0 1 1m\nR1 1 2 1k\nR2 2 0 1k\nC1 2 0 1u\n")

	if blocks.M != 0 {
		t.Fatalf("M = %d, want 0", blocks.M)
	}
	if !sys.A.Equal(blocks.G) {
		t.Errorf("A != G:\nA:\n%sG:\n%s", sys.A, blocks.G)
	}
	if blocks.B.Cols() != 0 || blocks.C.Rows() != 0 || blocks.D.Rows() != 0 {
		t.Errorf("branch blocks not empty: B %dx%d, C %dx%d, D %dx%d",
			blocks.B.Rows(), blocks.B.Cols(), blocks.C.Rows(), blocks.C.Cols(), blocks.D.Rows(), blocks.D.Cols())
	}
	if got := sys.Z[0].String(); got != "I1" {
		t.Errorf("Z[0] = %q, want I1", got)
	}
}

func TestAssembleBlockLayout(t *testing.T) {
	blocks, sys := assemble(t, "V1 1 0 1\nR1 1 2 1\nL1 2 0 1m\n")
	n := blocks.N
	for i := 0; i < blocks.M; i++ {
		for j := 0; j < n; j++ {
			if !sys.A.At(j, n+i).Equal(blocks.B.At(j, i)) {
				t.Errorf("A[%d,%d] != B[%d,%d]", j, n+i, j, i)
			}
			if !sys.A.At(n+i, j).Equal(blocks.C.At(i, j)) {
				t.Errorf("A[%d,%d] != C[%d,%d]", n+i, j, i, j)
			}
		}
		for j := 0; j < blocks.M; j++ {
			if !sys.A.At(n+i, n+j).Equal(blocks.D.At(i, j)) {
				t.Errorf("A[%d,%d] != D[%d,%d]", n+i, n+j, i, j)
			}
		}
	}
	if !sys.Z[n].Equal(symbolic.NewExpr(symbolic.Term{Coef: 1, Sym: symbolic.Value("V1")})) {
		t.Errorf("Z[%d] = %s, want V1", n, sys.Z[n])
	}
}

func TestStampDeterministic(t *testing.T) {
	input := "V1 1 0 1\nR1 1 2 1\nL1 2 3 1m\nL2 3 0 2m\nK1 L1 L2 0.1m\nE1 4 0 2 0 3\nR2 4 0 1\n"
	_, a := assemble(t, input)
	_, b := assemble(t, input)
	if !a.A.Equal(b.A) {
		t.Fatal("two assemblies of the same netlist differ")
	}
	for i := range a.Equations {
		if a.Equations[i] != b.Equations[i] {
			t.Errorf("equation %d differs: %q vs %q", i, a.Equations[i], b.Equations[i])
		}
	}
}

func TestStampLocality(t *testing.T) {
	base := "V1 1 0 1\nR1 1 2 1k\nC1 2 3 1n\nL1 3 0 1m\nE1 4 0 2 0 3\nR2 4 0 1k\n"
	before, _ := assemble(t, base)
	after, _ := assemble(t, base+"R3 1 2 2k\n")

	touched := map[[2]int]bool{{0, 0}: true, {0, 1}: true, {1, 0}: true, {1, 1}: true}
	for i := 0; i < before.G.Rows(); i++ {
		for j := 0; j < before.G.Cols(); j++ {
			changed := !before.G.At(i, j).Equal(after.G.At(i, j))
			if changed != touched[[2]int{i, j}] {
				t.Errorf("G[%d,%d] changed = %v: %s -> %s", i, j, changed, before.G.At(i, j), after.G.At(i, j))
			}
		}
	}
	for _, pair := range []struct {
		name string
		a, b *symbolic.Matrix
	}{
		{"B", before.B, after.B},
		{"C", before.C, after.C},
		{"D", before.D, after.D},
		{"I", before.I, after.I},
		{"Ev", before.Ev, after.Ev},
	} {
		if !pair.a.Equal(pair.b) {
			t.Errorf("%s changed by a resistor:\n%s\n%s", pair.name, pair.a, pair.b)
		}
	}
}
