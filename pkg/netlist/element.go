package netlist

import (
	"fmt"
	"strings"
)

// Kind selects the element type by the first letter of its name.
type Kind byte

const (
	KindResistor      Kind = 'R'
	KindInductor      Kind = 'L'
	KindCapacitor     Kind = 'C'
	KindVoltageSource Kind = 'V'
	KindCurrentSource Kind = 'I'
	KindOpAmp         Kind = 'O'
	KindVCVS          Kind = 'E'
	KindVCCS          Kind = 'G'
	KindCCCS          Kind = 'F'
	KindCCVS          Kind = 'H'
	KindMutual        Kind = 'K'
)

// tokenCount is the number of whitespace separated tokens a line of each kind must have.
var tokenCount = map[Kind]int{
	KindResistor:      4,
	KindInductor:      4,
	KindCapacitor:     4,
	KindVoltageSource: 4,
	KindCurrentSource: 4,
	KindOpAmp:         4,
	KindVCVS:          6,
	KindVCCS:          6,
	KindCCCS:          5,
	KindCCVS:          5,
	KindMutual:        4,
}

// KindOf returns the kind selected by the leading character of name.
func KindOf(name string) (Kind, bool) {
	if name == "" {
		return 0, false
	}
	k := Kind(strings.ToUpper(name[:1])[0])
	_, ok := tokenCount[k]
	return k, ok
}

// Tokens returns the expected token count of a netlist line of this kind.
func (k Kind) Tokens() int { return tokenCount[k] }

// TakesParam reports whether the value of this kind may be a parameter name
// bound at solve time instead of a number.
func (k Kind) TakesParam() bool {
	switch k {
	case KindVCVS, KindVCCS, KindCCCS, KindCCVS, KindMutual:
		return true
	}
	return false
}

// HasBranch reports whether elements of this kind need an explicit current unknown.
func (k Kind) HasBranch() bool {
	switch k {
	case KindInductor, KindVoltageSource, KindOpAmp, KindVCVS, KindCCVS, KindCCCS:
		return true
	}
	return false
}

func (k Kind) String() string {
	switch k {
	case KindResistor:
		return "resistor"
	case KindInductor:
		return "inductor"
	case KindCapacitor:
		return "capacitor"
	case KindVoltageSource:
		return "voltage source"
	case KindCurrentSource:
		return "current source"
	case KindOpAmp:
		return "op amp"
	case KindVCVS:
		return "VCVS"
	case KindVCCS:
		return "VCCS"
	case KindCCCS:
		return "CCCS"
	case KindCCVS:
		return "CCVS"
	case KindMutual:
		return "coupled inductors"
	}
	return fmt.Sprintf("kind(%c)", byte(k))
}

// Element is one parsed netlist line.
//
// Which fields are set depends on Kind:
//
//	R L C V I   P N Value
//	O           P N Out
//	E G         P N CP CN Value
//	F H         P N Ctrl Value
//	K           L1 L2 Value
//
// Gains and mutual inductances may instead name a parameter, kept in
// Param with Value left at zero.
type Element struct {
	Kind  Kind
	Name  string
	Line  int // 1-based line in the source text
	P, N  int
	CP    int
	CN    int
	Out   int
	Ctrl  string
	L1    string
	L2    string
	Value float64
	Param string
}

// Nodes returns every node the element touches, terminal nodes first.
// Coupled inductors touch no nodes directly.
func (e Element) Nodes() []int {
	switch e.Kind {
	case KindMutual:
		return nil
	case KindOpAmp:
		return []int{e.P, e.N, e.Out}
	case KindVCVS, KindVCCS:
		return []int{e.P, e.N, e.CP, e.CN}
	default:
		return []int{e.P, e.N}
	}
}

// Refs returns the names of other elements this element depends on.
func (e Element) Refs() []string {
	switch e.Kind {
	case KindCCCS, KindCCVS:
		return []string{e.Ctrl}
	case KindMutual:
		return []string{e.L1, e.L2}
	}
	return nil
}

// Validate checks that exactly the fields relevant to the element's kind are populated.
func (e Element) Validate() error {
	if _, ok := tokenCount[e.Kind]; !ok {
		return fmt.Errorf("element %s: unknown kind %q", e.Name, byte(e.Kind))
	}
	for _, n := range e.Nodes() {
		if n < 0 {
			return fmt.Errorf("element %s: negative node %d", e.Name, n)
		}
	}

	twoPort := e.Kind == KindVCVS || e.Kind == KindVCCS
	if !twoPort && (e.CP != 0 || e.CN != 0) {
		return fmt.Errorf("element %s: control nodes set on %s", e.Name, e.Kind)
	}
	if e.Kind != KindOpAmp && e.Out != 0 {
		return fmt.Errorf("element %s: output node set on %s", e.Name, e.Kind)
	}

	controlled := e.Kind == KindCCCS || e.Kind == KindCCVS
	if controlled != (e.Ctrl != "") {
		return fmt.Errorf("element %s: controlling branch mismatch for %s", e.Name, e.Kind)
	}

	mutual := e.Kind == KindMutual
	if mutual != (e.L1 != "" && e.L2 != "") || (!mutual && (e.L1 != "" || e.L2 != "")) {
		return fmt.Errorf("element %s: inductor names mismatch for %s", e.Name, e.Kind)
	}
	if mutual && (e.P != 0 || e.N != 0) {
		return fmt.Errorf("element %s: coupled inductors have no terminals", e.Name)
	}
	if e.Kind == KindOpAmp && e.Value != 0 {
		return fmt.Errorf("element %s: op amp has no value", e.Name)
	}
	if e.Param != "" && !e.Kind.TakesParam() {
		return fmt.Errorf("element %s: %s takes no parameter name", e.Name, e.Kind)
	}
	if e.Param != "" && e.Value != 0 {
		return fmt.Errorf("element %s: both a value and a parameter name", e.Name)
	}
	return nil
}

// CanonicalName normalizes an element name: first rune upper case, rest lower case.
func CanonicalName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}
