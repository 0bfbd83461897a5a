package netlist

import (
	"maps"
	"slices"
	"strings"
)

// Values maps canonical element names to numeric values.
type Values map[string]float64

// ExtractValues reads element name -> value pairs straight from the netlist
// text, taking the last token of every element line (op amps carry none). It runs independently of
// Parse so values can be rebound without reparsing; lines whose last token is
// not a number are skipped.
func ExtractValues(input string) Values {
	values := make(Values)
	for _, l := range scanLines(input) {
		tokens := strings.Fields(l.text)
		if len(tokens) < 2 {
			continue
		}
		if kind, ok := KindOf(tokens[0]); ok && kind == KindOpAmp {
			continue
		}
		value, err := ParseValue(tokens[len(tokens)-1])
		if err != nil {
			continue
		}
		values[CanonicalName(tokens[0])] = value
	}
	return values
}

// Merge returns a copy of v with every entry of overrides applied on top.
// Override keys are canonicalized.
func (v Values) Merge(overrides map[string]float64) Values {
	out := maps.Clone(v)
	if out == nil {
		out = make(Values)
	}
	for name, value := range overrides {
		out[CanonicalName(name)] = value
	}
	return out
}

// Names returns the value names in sorted order.
func (v Values) Names() []string {
	return slices.Sorted(maps.Keys(v))
}
