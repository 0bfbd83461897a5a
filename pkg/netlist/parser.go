// Package netlist parses SPICE-style circuit descriptions into typed elements.
package netlist

import (
	"bufio"
	"errors"
	"strings"
	"unicode"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
)

// NetlistData is the ordered element list parsed from one netlist.
type NetlistData struct {
	Elements []Element        // Circuit elements, netlist order
	Issues   []*cerrors.Error // Line level problems, netlist order
	Lines    int              // Element lines considered (after stripping)
}

// Err joins every issue into one error, nil when the netlist is clean.
func (d *NetlistData) Err() error {
	if len(d.Issues) == 0 {
		return nil
	}
	errs := make([]error, len(d.Issues))
	for i, issue := range d.Issues {
		errs[i] = issue
	}
	return errors.Join(errs...)
}

// Count returns how many elements of kind k were parsed.
func (d *NetlistData) Count(k Kind) int {
	n := 0
	for _, e := range d.Elements {
		if e.Kind == k {
			n++
		}
	}
	return n
}

type sourceLine struct {
	number int
	text   string
}

// Parse reads a netlist. Blank lines, comments (* or ;) and dot directives are
// skipped, "+" lines continue the previous line. Malformed lines are recorded in
// Issues and skipped; parsing always covers the whole input.
func Parse(input string) (*NetlistData, error) {
	lines := scanLines(input)
	if len(lines) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "netlist has no element lines")
	}

	netlistData := &NetlistData{Lines: len(lines)}
	for _, l := range lines {
		elem, issue := parseElement(l)
		if issue != nil {
			netlistData.Issues = append(netlistData.Issues, issue)
			continue
		}
		netlistData.Elements = append(netlistData.Elements, elem)
	}

	return netlistData, nil
}

// scanLines strips comments, directives and blank lines, joins continuation
// lines and collapses whitespace.
func scanLines(input string) []sourceLine {
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []sourceLine
	number := 0
	for scanner.Scan() {
		number++
		line := strings.TrimSpace(scanner.Text())

		// Inline comment
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" || strings.HasPrefix(line, "*") || strings.HasPrefix(line, ".") {
			continue
		}

		// Line continue
		if strings.HasPrefix(line, "+") {
			if len(lines) > 0 {
				last := &lines[len(lines)-1]
				last.text += " " + strings.TrimSpace(line[1:])
			}
			continue
		}

		lines = append(lines, sourceLine{number: number, text: line})
	}

	for i := range lines {
		lines[i].text = strings.Join(strings.Fields(lines[i].text), " ")
	}
	return lines
}

// Parse circuit element
func parseElement(l sourceLine) (Element, *cerrors.Error) {
	fields := strings.Fields(l.text)
	kind, ok := KindOf(fields[0])
	if !ok {
		return Element{}, cerrors.AtLine(cerrors.ErrCodeUnknownElement, l.number,
			"unknown element type %q in %q", fields[0][:1], l.text)
	}
	if len(fields) != kind.Tokens() {
		return Element{}, cerrors.AtLine(cerrors.ErrCodeFormat, l.number,
			"%s %q not formatted correctly: had %d items and should be %d", kind, l.text, len(fields), kind.Tokens())
	}

	elem := Element{
		Kind: kind,
		Name: CanonicalName(fields[0]),
		Line: l.number,
	}

	var err error
	bad := func(format string, args ...any) *cerrors.Error {
		return cerrors.AtLine(cerrors.ErrCodeFormat, l.number, format, args...)
	}

	switch kind {
	case KindMutual: // KXX LYY LZZ value
		elem.L1 = CanonicalName(fields[1])
		elem.L2 = CanonicalName(fields[2])
		if elem.L1 == elem.L2 {
			return Element{}, bad("coupled inductors %s must name two different inductors", elem.Name)
		}

	default:
		if elem.P, err = parseNode(fields[1]); err != nil {
			return Element{}, bad("%s: %v", elem.Name, err)
		}
		if elem.N, err = parseNode(fields[2]); err != nil {
			return Element{}, bad("%s: %v", elem.Name, err)
		}
	}

	switch kind {
	case KindOpAmp: // Oxx p n vout
		if elem.Out, err = parseNode(fields[3]); err != nil {
			return Element{}, bad("%s: %v", elem.Name, err)
		}
		return elem, nil

	case KindVCVS, KindVCCS: // xx p n cp cn gain
		if elem.CP, err = parseNode(fields[3]); err != nil {
			return Element{}, bad("%s: %v", elem.Name, err)
		}
		if elem.CN, err = parseNode(fields[4]); err != nil {
			return Element{}, bad("%s: %v", elem.Name, err)
		}

	case KindCCCS, KindCCVS: // xx p n vname gain
		elem.Ctrl = CanonicalName(fields[3])
	}

	valueStr := fields[len(fields)-1]
	if elem.Value, err = ParseValue(valueStr); err != nil {
		if !kind.TakesParam() || !isParamName(valueStr) {
			return Element{}, bad("%s: %v", elem.Name, err)
		}
		elem.Param = CanonicalName(valueStr)
	}

	return elem, nil
}

// isParamName accepts a letter followed by letters, digits or underscores.
func isParamName(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
