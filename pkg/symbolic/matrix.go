package symbolic

import (
	"fmt"
	"strings"
)

// Matrix is a dense rows x cols matrix of expressions. Entries start at zero.
type Matrix struct {
	rows, cols int
	data       []Expr
}

// NewMatrix returns a zero matrix. A dimension of zero is allowed.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]Expr, rows*cols)}
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) At(i, j int) Expr {
	m.check(i, j)
	return m.data[i*m.cols+j]
}

// AddTerm accumulates t into entry (i, j).
func (m *Matrix) AddTerm(i, j int, t Term) {
	m.check(i, j)
	m.data[i*m.cols+j].AddTerm(t)
}

// Add accumulates e into entry (i, j).
func (m *Matrix) Add(i, j int, e Expr) {
	m.check(i, j)
	m.data[i*m.cols+j].Add(e)
}

// Set overwrites entry (i, j).
func (m *Matrix) Set(i, j int, e Expr) {
	m.check(i, j)
	m.data[i*m.cols+j] = NewExpr(e.terms...)
}

func (m *Matrix) check(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("symbolic: index (%d,%d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
}

// Equal reports whether both matrices have the same shape and entries.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		if !m.data[i].Equal(o.data[i]) {
			return false
		}
	}
	return true
}

// Poly substitutes every symbol, keeping s.
func (m *Matrix) Poly(b Binding) ([][]Poly, error) {
	out := make([][]Poly, m.rows)
	for i := range out {
		out[i] = make([]Poly, m.cols)
		for j := range out[i] {
			p, err := m.At(i, j).Poly(b)
			if err != nil {
				return nil, err
			}
			out[i][j] = p
		}
	}
	return out, nil
}

// Eval substitutes every symbol and s.
func (m *Matrix) Eval(b Binding) ([][]complex128, error) {
	out := make([][]complex128, m.rows)
	for i := range out {
		out[i] = make([]complex128, m.cols)
		for j := range out[i] {
			v, err := m.At(i, j).Eval(b)
			if err != nil {
				return nil, err
			}
			out[i][j] = v
		}
	}
	return out, nil
}

// String renders one bracketed row per line.
func (m *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < m.rows; i++ {
		b.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.At(i, j).String())
		}
		b.WriteString("]\n")
	}
	return b.String()
}
