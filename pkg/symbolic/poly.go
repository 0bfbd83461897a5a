package symbolic

import (
	"math"
	"strings"
)

// Poly is a real polynomial in s; Poly[i] is the coefficient of s^i.
type Poly []float64

// Monomial returns c * s^order.
func Monomial(c float64, order int) Poly {
	if c == 0 {
		return nil
	}
	p := make(Poly, order+1)
	p[order] = c
	return p
}

// Degree returns the highest power with a nonzero coefficient, or -1 for zero.
func (p Poly) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}

// IsZero reports whether p is identically zero.
func (p Poly) IsZero() bool { return p.Degree() < 0 }

func (p Poly) trim() Poly {
	return p[:p.Degree()+1]
}

func (p Poly) Add(q Poly) Poly {
	n := max(len(p), len(q))
	out := make(Poly, n)
	copy(out, p)
	for i, c := range q {
		out[i] += c
	}
	return out.trim()
}

func (p Poly) Sub(q Poly) Poly {
	return p.Add(q.Scale(-1))
}

func (p Poly) Scale(c float64) Poly {
	out := make(Poly, len(p))
	for i, v := range p {
		out[i] = v * c
	}
	return out.trim()
}

func (p Poly) Mul(q Poly) Poly {
	if p.IsZero() || q.IsZero() {
		return nil
	}
	out := make(Poly, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		for j, b := range q {
			out[i+j] += a * b
		}
	}
	return out.trim()
}

// Div divides p by q and returns the quotient and remainder.
func (p Poly) Div(q Poly) (quo, rem Poly) {
	dq := q.Degree()
	if dq < 0 {
		panic("symbolic: polynomial division by zero")
	}
	rem = append(Poly(nil), p.trim()...)
	if rem.Degree() < dq {
		return nil, rem
	}
	quo = make(Poly, rem.Degree()-dq+1)
	lead := q[dq]
	for d := rem.Degree(); d >= dq && !rem.IsZero(); d = rem.Degree() {
		c := rem[d] / lead
		quo[d-dq] = c
		for i := 0; i <= dq; i++ {
			rem[d-dq+i] -= c * q[i]
		}
		rem[d] = 0
		rem = rem.trim()
	}
	return quo.trim(), rem
}

// Eval evaluates p at s.
func (p Poly) Eval(s complex128) complex128 {
	var out complex128
	for i := len(p) - 1; i >= 0; i-- {
		out = out*s + complex(p[i], 0)
	}
	return out
}

// weights returns log(|p_k| * radius^k) for every nonzero coefficient and
// the largest of them. Zero coefficients get -Inf.
func (p Poly) weights(radius float64) ([]float64, float64) {
	w := make([]float64, len(p))
	top := math.Inf(-1)
	lr := math.Log(radius)
	for k, c := range p {
		w[k] = math.Inf(-1)
		if c != 0 {
			w[k] = math.Log(math.Abs(c)) + float64(k)*lr
			top = math.Max(top, w[k])
		}
	}
	return w, top
}

// chopAt zeroes coefficients whose weight on the circle |s| = radius is
// below tol times the largest weight.
func (p Poly) chopAt(tol, radius float64) Poly {
	w, top := p.weights(radius)
	floor := top + math.Log(tol)
	out := make(Poly, len(p))
	for k, c := range p {
		if w[k] > floor {
			out[k] = c
		}
	}
	return out.trim()
}

// radius returns where the lowest and highest coefficients of p have
// equal weight, or 1 when p has fewer than two terms.
func (p Poly) radius() float64 {
	lo, hi := -1, p.Degree()
	for k, c := range p {
		if c != 0 {
			lo = k
			break
		}
	}
	if lo < 0 || lo == hi {
		return 1
	}
	return math.Pow(math.Abs(p[lo])/math.Abs(p[hi]), 1/float64(hi-lo))
}

// String renders p with descending powers, e.g. "2*s^2 - s + 1".
func (p Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	var b strings.Builder
	first := true
	for i := len(p) - 1; i >= 0; i-- {
		c := p[i]
		if c == 0 {
			continue
		}
		t := Term{Coef: c, Order: i}
		switch {
		case first:
			b.WriteString(t.String())
		case c < 0:
			b.WriteString(" - " + t.body())
		default:
			b.WriteString(" + " + t.body())
		}
		first = false
	}
	return b.String()
}

// terms counts nonzero coefficients.
func (p Poly) terms() int {
	n := 0
	for _, c := range p {
		if c != 0 {
			n++
		}
	}
	return n
}
