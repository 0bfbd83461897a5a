package matrix

import (
	"fmt"
	"strings"

	"github.com/edp1096/circuit-analyzer/pkg/symbolic"
)

// System is A·X = Z with A = [[G, B], [C, D]] and Z = [I; Ev].
type System struct {
	A         *symbolic.Matrix
	X         []string
	Z         []symbolic.Expr
	Equations []Equation
}

// Equation is one row of A·X = Z in text form.
type Equation struct {
	LHS string
	RHS string
}

func (e Equation) String() string { return e.LHS + " = " + e.RHS }

// Size returns n + m.
func (s *System) Size() int { return len(s.X) }

// Assemble lays the blocks out into A and names the unknowns: v1..vn, then
// I_<name> for every registry entry in order.
func Assemble(b *Blocks, currents []string) *System {
	size := b.N + b.M
	a := symbolic.NewMatrix(size, size)
	place := func(m *symbolic.Matrix, r0, c0 int) {
		for i := 0; i < m.Rows(); i++ {
			for j := 0; j < m.Cols(); j++ {
				if e := m.At(i, j); !e.IsZero() {
					a.Set(r0+i, c0+j, e)
				}
			}
		}
	}
	place(b.G, 0, 0)
	place(b.B, 0, b.N)
	place(b.C, b.N, 0)
	place(b.D, b.N, b.N)

	sys := &System{A: a, X: make([]string, 0, size), Z: make([]symbolic.Expr, 0, size)}
	for i := 1; i <= b.N; i++ {
		sys.X = append(sys.X, fmt.Sprintf("v%d", i))
	}
	for _, name := range currents {
		sys.X = append(sys.X, name)
	}
	for i := 0; i < b.N; i++ {
		sys.Z = append(sys.Z, b.I.At(i, 0))
	}
	for i := 0; i < b.M; i++ {
		sys.Z = append(sys.Z, b.Ev.At(i, 0))
	}

	for i := 0; i < size; i++ {
		sys.Equations = append(sys.Equations, Equation{
			LHS: rowString(a, i, sys.X),
			RHS: sys.Z[i].String(),
		})
	}
	return sys
}

func rowString(a *symbolic.Matrix, row int, x []string) string {
	var b strings.Builder
	for j := 0; j < a.Cols(); j++ {
		e := a.At(row, j)
		if e.IsZero() {
			continue
		}
		neg, body := product(e, x[j])
		switch {
		case b.Len() == 0 && neg:
			b.WriteString("-" + body)
		case b.Len() == 0:
			b.WriteString(body)
		case neg:
			b.WriteString(" - " + body)
		default:
			b.WriteString(" + " + body)
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

// product renders e*x, returning the sign separately.
func product(e symbolic.Expr, x string) (neg bool, body string) {
	terms := e.Terms()
	if len(terms) > 1 {
		return false, "(" + e.String() + ")*" + x
	}
	t := terms[0]
	neg = t.Coef < 0
	t.Coef = abs(t.Coef)
	switch {
	case t.Coef == 1 && t.Order == 0 && t.Sym.IsZero():
		return neg, x
	case t.Inv:
		// 1/R1 -> v1/R1
		num := symbolic.Term{Coef: t.Coef, Order: t.Order}
		if num.Coef == 1 && num.Order == 0 {
			return neg, x + "/" + t.Sym.String()
		}
		return neg, num.String() + "*" + x + "/" + t.Sym.String()
	}
	return neg, t.String() + "*" + x
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
