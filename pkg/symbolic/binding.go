package symbolic

import (
	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
)

// Binding supplies numbers for symbols and the frequency variable s.
type Binding struct {
	Values map[string]float64
	S      complex128

	// Fallbacks for gain and mutual symbols with no entry in Values.
	// Element values never fall back.
	DefaultGain   float64
	DefaultMutual float64
}

// Lookup resolves a symbol to its number. A named parameter wins over the
// element's own entry, which wins over the default.
func (b Binding) Lookup(sym Symbol) (float64, error) {
	if sym.Param != "" {
		if v, ok := b.Values[sym.Param]; ok {
			return v, nil
		}
	}
	if v, ok := b.Values[sym.Name]; ok {
		return v, nil
	}
	switch sym.Role {
	case RoleGain:
		return b.DefaultGain, nil
	case RoleMutual:
		return b.DefaultMutual, nil
	}
	return 0, cerrors.New(cerrors.ErrCodeUnresolvedParameter, "no value bound for %s", sym)
}

// term evaluates t without its power of s.
func (b Binding) term(t Term) (complex128, error) {
	if t.Sym.IsZero() {
		return complex(t.Coef, 0), nil
	}
	v, err := b.Lookup(t.Sym)
	if err != nil {
		return 0, err
	}
	if t.Inv {
		if v == 0 {
			return 0, cerrors.New(cerrors.ErrCodeInvalidInput, "%s is zero and appears as a divisor", t.Sym)
		}
		return complex(t.Coef/v, 0), nil
	}
	return complex(t.Coef*v, 0), nil
}
