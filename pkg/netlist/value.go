package netlist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SPICE scale factors are case-insensitive; "meg" must be tried before "m".
var unitMap = map[string]float64{
	"t":   1e12,  // tera
	"g":   1e9,   // giga
	"meg": 1e6,   // mega
	"k":   1e3,   // kilo
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"µ":   1e-6,  // micro sign
	"μ":   1e-6,  // greek mu
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var valueRe = regexp.MustCompile(`^([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)((?i:meg|[tgkmunpfµμ]))?([a-zA-ZΩ]*)$`)

// ParseValue - Parse value and factor. 1k -> 1000, 2.2u -> 2.2e-6, 1meg -> 1e6.
// Trailing unit letters after the factor are ignored (10kohm, 1uF, 4.7µF, 1megΩ).
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor
	if matches[2] != "" {
		num *= unitMap[strings.ToLower(matches[2])]
	}

	return num, nil
}

// parseNode converts a node token into its number. "gnd" is ground.
func parseNode(tok string) (int, error) {
	if strings.EqualFold(tok, "gnd") {
		return 0, nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid node %q: nodes are non-negative integers", tok)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid node %q: nodes are non-negative integers", tok)
	}
	return n, nil
}
