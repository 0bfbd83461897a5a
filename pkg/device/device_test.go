package device

import (
	"testing"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
	"github.com/edp1096/circuit-analyzer/pkg/matrix"
	"github.com/edp1096/circuit-analyzer/pkg/netlist"
	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// fixedResolver serves branch indices from a map.
type fixedResolver map[string]struct {
	idx  int
	kind netlist.Kind
}

func (r fixedResolver) Branch(name string) (int, netlist.Kind, error) {
	e, ok := r[name]
	if !ok {
		return 0, 0, cerrors.New(cerrors.ErrCodeUnresolvedReference, "%s not registered", name)
	}
	return e.idx, e.kind, nil
}

// nonzero lists the (row, col) entries of m that hold a term.
func nonzero(m *symbolic.Matrix) map[[2]int]string {
	out := make(map[[2]int]string)
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if e := m.At(i, j); !e.IsZero() {
				out[[2]int{i, j}] = e.String()
			}
		}
	}
	return out
}

func checkEntries(t *testing.T, label string, m *symbolic.Matrix, want map[[2]int]string) {
	t.Helper()
	got := nonzero(m)
	if len(got) != len(want) {
		t.Errorf("%s: entries %v, want %v", label, got, want)
		return
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s[%d,%d] = %q, want %q", label, k[0], k[1], got[k], v)
		}
	}
}

func TestResistorStamp(t *testing.T) {
	b := matrix.NewBlocks(3, 0)
	if err := NewResistor("R1", []int{1, 3}, 100).Stamp(b); err != nil {
		t.Fatal(err)
	}
	checkEntries(t, "G", b.G, map[[2]int]string{
		{0, 0}: "1/R1",
		{2, 2}: "1/R1",
		{0, 2}: "-1/R1",
		{2, 0}: "-1/R1",
	})
}

func TestGroundNeverWritten(t *testing.T) {
	b := matrix.NewBlocks(1, 1)
	devs := []matrix.Device{
		NewCapacitor("C1", []int{1, 0}, 1),
		NewCurrentSource("I1", []int{0, 1}, 1),
	}
	v := NewVoltageSource("V1", []int{0, 1}, 1)
	v.SetBranchIndex(0)
	devs = append(devs, v)

	if err := matrix.StampAll(b, devs); err != nil {
		t.Fatal(err)
	}
	checkEntries(t, "G", b.G, map[[2]int]string{{0, 0}: "s*C1"})
	checkEntries(t, "I", b.I, map[[2]int]string{{0, 0}: "I1"})
	checkEntries(t, "B", b.B, map[[2]int]string{{0, 0}: "-1"})
	checkEntries(t, "C", b.C, map[[2]int]string{{0, 0}: "-1"})
	checkEntries(t, "Ev", b.Ev, map[[2]int]string{{0, 0}: "V1"})
}

func TestControlledSourceStamps(t *testing.T) {
	r := fixedResolver{
		"V1": {0, netlist.KindVoltageSource},
		"E1": {1, netlist.KindVCVS},
		"H1": {2, netlist.KindCCVS},
		"F1": {3, netlist.KindCCCS},
		"O1": {4, netlist.KindOpAmp},
	}
	input := `V1 1 0 1
E1 2 0 1 0 3
H1 3 0 V1 4
F1 4 0 V1 5
O1 1 2 5
G1 5 0 3 4 6
`
	data, err := netlist.Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	b := matrix.NewBlocks(5, 5)
	var devs []matrix.Device
	for _, e := range data.Elements {
		d, err := New(e, r)
		if err != nil {
			t.Fatalf("New(%s): %v", e.Name, err)
		}
		devs = append(devs, d)
	}
	if err := matrix.StampAll(b, devs); err != nil {
		t.Fatal(err)
	}

	checkEntries(t, "B", b.B, map[[2]int]string{
		{0, 0}: "1", // V1
		{1, 1}: "1", // E1
		{2, 2}: "1", // H1
		{3, 3}: "1", // F1
		{4, 4}: "1", // O1 output
	})
	checkEntries(t, "C", b.C, map[[2]int]string{
		{0, 0}: "1",
		{1, 1}: "1",
		{1, 0}: "-e1",
		{2, 2}: "1",
		{4, 0}: "1",
		{4, 1}: "-1",
	})
	checkEntries(t, "D", b.D, map[[2]int]string{
		{2, 0}: "-h1",
		{3, 0}: "-f1",
		{3, 3}: "1",
	})
	checkEntries(t, "G", b.G, map[[2]int]string{
		{4, 2}: "g1",
		{4, 3}: "-g1",
	})
}

func TestMutualSymmetric(t *testing.T) {
	r := fixedResolver{
		"L1": {0, netlist.KindInductor},
		"L2": {1, netlist.KindInductor},
	}
	data, err := netlist.Parse("L1 1 0 1m\nL2 2 0 2m\nK1 L1 L2 0.5m\n")
	if err != nil {
		t.Fatal(err)
	}
	b := matrix.NewBlocks(2, 2)
	var devs []matrix.Device
	for _, e := range data.Elements {
		d, err := New(e, r)
		if err != nil {
			t.Fatalf("New(%s): %v", e.Name, err)
		}
		devs = append(devs, d)
	}
	if err := matrix.StampAll(b, devs); err != nil {
		t.Fatal(err)
	}

	if !b.D.At(0, 1).Equal(b.D.At(1, 0)) {
		t.Errorf("D[0,1] = %s, D[1,0] = %s", b.D.At(0, 1), b.D.At(1, 0))
	}
	checkEntries(t, "D", b.D, map[[2]int]string{
		{0, 0}: "-s*L1",
		{1, 1}: "-s*L2",
		{0, 1}: "-s*M1",
		{1, 0}: "-s*M1",
	})
}

func TestNamedParamStamps(t *testing.T) {
	r := fixedResolver{
		"V1": {0, netlist.KindVoltageSource},
		"E1": {1, netlist.KindVCVS},
		"L1": {2, netlist.KindInductor},
		"L2": {3, netlist.KindInductor},
	}
	data, err := netlist.Parse("V1 1 0 1\nE1 2 0 1 0 ea1\nG1 3 0 1 0 gm\nL1 4 0 1m\nL2 5 0 1m\nK1 L1 L2 mab\n")
	if err != nil {
		t.Fatal(err)
	}
	b := matrix.NewBlocks(5, 4)
	var devs []matrix.Device
	for _, e := range data.Elements {
		d, err := New(e, r)
		if err != nil {
			t.Fatalf("New(%s): %v", e.Name, err)
		}
		devs = append(devs, d)
	}
	if err := matrix.StampAll(b, devs); err != nil {
		t.Fatal(err)
	}

	checkEntries(t, "C", b.C, map[[2]int]string{
		{0, 0}: "1",
		{1, 1}: "1",
		{1, 0}: "-ea1",
		{2, 3}: "1",
		{3, 4}: "1",
	})
	checkEntries(t, "G", b.G, map[[2]int]string{{2, 0}: "gm"})
	if got := b.D.At(2, 3).String(); got != "-s*mab" {
		t.Errorf("D[2,3] = %q, want %q", got, "-s*mab")
	}
}

func TestMutualRequiresInductors(t *testing.T) {
	r := fixedResolver{
		"L1": {0, netlist.KindInductor},
		"V1": {1, netlist.KindVoltageSource},
	}
	elem := netlist.Element{Kind: netlist.KindMutual, Name: "K1", L1: "L1", L2: "V1", Value: 1}
	if _, err := New(elem, r); !cerrors.Is(err, cerrors.ErrCodeUnresolvedReference) {
		t.Fatalf("err = %v, want UNRESOLVED_REFERENCE", err)
	}
}

// silent owns a branch but never claims it.
type silent struct{}

func (silent) GetName() string              { return "X1" }
func (silent) Stamp(m matrix.Stamper) error { return nil }

func TestSourceCountMismatch(t *testing.T) {
	b := matrix.NewBlocks(1, 2)
	v := NewVoltageSource("V1", []int{1, 0}, 1)
	v.SetBranchIndex(0)

	err := matrix.StampAll(b, []matrix.Device{v, silent{}})
	if !cerrors.Is(err, cerrors.ErrCodeSourceCountMismatch) {
		t.Fatalf("err = %v, want SOURCE_COUNT_MISMATCH", err)
	}

	b = matrix.NewBlocks(1, 1)
	v2 := NewVoltageSource("V2", []int{1, 0}, 1)
	v2.SetBranchIndex(0)
	err = matrix.StampAll(b, []matrix.Device{v, v2})
	if !cerrors.Is(err, cerrors.ErrCodeSourceCountMismatch) {
		t.Fatalf("double claim err = %v, want SOURCE_COUNT_MISMATCH", err)
	}
}
