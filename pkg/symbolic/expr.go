package symbolic

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Term is Coef * s^Order * Sym, or Coef * s^Order / Sym when Inv is set.
// A zero Sym means a plain coefficient.
type Term struct {
	Coef  float64
	Order int
	Sym   Symbol
	Inv   bool
}

// Const returns a numeric term.
func Const(c float64) Term { return Term{Coef: c} }

// likeTerm reports whether t and o differ only by coefficient.
func (t Term) likeTerm(o Term) bool {
	return t.Order == o.Order && t.Sym == o.Sym && t.Inv == o.Inv
}

// String renders the term without its sign.
func (t Term) body() string {
	var parts []string
	coef := abs(t.Coef)
	if coef != 1 || (t.Order == 0 && t.Sym.IsZero()) {
		parts = append(parts, formatFloat(coef))
	}
	switch {
	case t.Order == 1:
		parts = append(parts, "s")
	case t.Order > 1:
		parts = append(parts, "s^"+strconv.Itoa(t.Order))
	}
	if !t.Sym.IsZero() && !t.Inv {
		parts = append(parts, t.Sym.String())
	}

	out := strings.Join(parts, "*")
	if !t.Sym.IsZero() && t.Inv {
		if out == "" {
			out = "1"
		}
		out += "/" + t.Sym.String()
	}
	return out
}

func (t Term) String() string {
	if t.Coef < 0 {
		return "-" + t.body()
	}
	return t.body()
}

// Expr is a sum of terms. The zero value is the zero expression.
type Expr struct {
	terms []Term
}

// NewExpr builds an expression from terms, merging like terms.
func NewExpr(terms ...Term) Expr {
	var e Expr
	for _, t := range terms {
		e.AddTerm(t)
	}
	return e
}

// Terms returns the terms in insertion order.
func (e Expr) Terms() []Term {
	return append([]Term(nil), e.terms...)
}

// AddTerm adds t, merging it into a like term when one exists. Copies of
// an Expr share storage, so e gets a fresh slice instead of being edited
// in place.
func (e *Expr) AddTerm(t Term) {
	if t.Coef == 0 {
		return
	}
	for i, u := range e.terms {
		if !u.likeTerm(t) {
			continue
		}
		terms := make([]Term, 0, len(e.terms))
		terms = append(terms, e.terms[:i]...)
		if u.Coef += t.Coef; u.Coef != 0 {
			terms = append(terms, u)
		}
		e.terms = append(terms, e.terms[i+1:]...)
		return
	}
	e.terms = append(e.terms[:len(e.terms):len(e.terms)], t)
}

// Add adds every term of o in place.
func (e *Expr) Add(o Expr) {
	for _, t := range o.terms {
		e.AddTerm(t)
	}
}

// Neg returns -e.
func (e Expr) Neg() Expr {
	out := Expr{terms: make([]Term, len(e.terms))}
	for i, t := range e.terms {
		t.Coef = -t.Coef
		out.terms[i] = t
	}
	return out
}

// IsZero reports whether e has no terms.
func (e Expr) IsZero() bool { return len(e.terms) == 0 }

// Equal reports whether e and o hold the same terms regardless of order.
func (e Expr) Equal(o Expr) bool {
	if len(e.terms) != len(o.terms) {
		return false
	}
	for _, t := range e.terms {
		found := false
		for _, u := range o.terms {
			if t.likeTerm(u) && t.Coef == u.Coef {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Symbols returns the distinct symbols used by e, sorted by display name.
func (e Expr) Symbols() []Symbol {
	seen := make(map[Symbol]bool)
	var out []Symbol
	for _, t := range e.terms {
		if !t.Sym.IsZero() && !seen[t.Sym] {
			seen[t.Sym] = true
			out = append(out, t.Sym)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (e Expr) String() string {
	if len(e.terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range e.terms {
		switch {
		case i == 0:
			b.WriteString(t.String())
		case t.Coef < 0:
			b.WriteString(" - " + t.body())
		default:
			b.WriteString(" + " + t.body())
		}
	}
	return b.String()
}

// Eval substitutes every symbol and s from the binding.
func (e Expr) Eval(b Binding) (complex128, error) {
	var sum complex128
	for _, t := range e.terms {
		v, err := b.term(t)
		if err != nil {
			return 0, err
		}
		sum += v * ipow(b.S, t.Order)
	}
	return sum, nil
}

// Poly substitutes every symbol but keeps s, giving a polynomial in s.
func (e Expr) Poly(b Binding) (Poly, error) {
	var p Poly
	for _, t := range e.terms {
		v, err := b.term(t)
		if err != nil {
			return nil, err
		}
		if imag(v) != 0 {
			return nil, fmt.Errorf("symbol %s has a complex value", t.Sym)
		}
		p = p.Add(Monomial(real(v), t.Order))
	}
	return p, nil
}

func ipow(s complex128, n int) complex128 {
	out := complex(1, 0)
	for range n {
		out *= s
	}
	return out
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
