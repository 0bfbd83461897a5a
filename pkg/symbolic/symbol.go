// Package symbolic holds the typed expressions that populate MNA matrices.
//
// Matrix entries are sums of terms Coef * s^Order * Sym^(±1), where s is the
// frequency variable and Sym refers to an element value, a controlled-source
// gain or a mutual inductance. Symbols are typed: the parameter behind a
// gain is looked up by its element name, never by a generated identifier.
package symbolic

import (
	"strings"
)

// Role tells what an element contributes through its symbol.
type Role int

const (
	// RoleValue is an element's own value (resistance, capacitance, source value).
	RoleValue Role = iota
	// RoleGain is the gain of a controlled source.
	RoleGain
	// RoleMutual is the mutual inductance of a coupled inductor pair.
	RoleMutual
)

func (r Role) String() string {
	switch r {
	case RoleGain:
		return "gain"
	case RoleMutual:
		return "mutual"
	}
	return "value"
}

// Symbol is a named parameter of one element.
type Symbol struct {
	Name  string // canonical element name
	Role  Role
	Param string // canonical parameter name given on the netlist line, if any
}

// Value returns the symbol for an element's own value.
func Value(name string) Symbol { return Symbol{Name: name, Role: RoleValue} }

// Gain returns the symbol for a controlled source gain.
func Gain(name string) Symbol { return Symbol{Name: name, Role: RoleGain} }

// Mutual returns the symbol for a coupled inductor's mutual inductance.
func Mutual(name string) Symbol { return Symbol{Name: name, Role: RoleMutual} }

// Named returns s bound late to the netlist parameter param. An empty
// param leaves s unchanged.
func (s Symbol) Named(param string) Symbol {
	s.Param = param
	return s
}

// IsZero reports whether s is the empty symbol.
func (s Symbol) IsZero() bool { return s.Name == "" }

// String renders the display name: R1, e1 for a gain, M1 for the mutual
// inductance of K1, or the lower-cased parameter name when there is one.
func (s Symbol) String() string {
	if s.Param != "" {
		return strings.ToLower(s.Param)
	}
	switch s.Role {
	case RoleGain:
		return strings.ToLower(s.Name)
	case RoleMutual:
		if len(s.Name) > 1 {
			return "M" + strings.ToLower(s.Name[1:])
		}
		return "M"
	}
	return s.Name
}
