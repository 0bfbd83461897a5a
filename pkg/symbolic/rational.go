package symbolic

import (
	"math"
)

// Tolerance is the relative weight below which coefficients are dropped
// when a rational function is normalized. Weights are taken on the circle
// where the denominator's outer coefficients balance, so coefficients of
// very different magnitude survive when they matter at that scale.
const Tolerance = 1e-12

// Rational is Num/Den, both polynomials in s.
type Rational struct {
	Num Poly
	Den Poly
}

// Normalize drops negligible coefficients, cancels common powers of s and
// scales so the lowest-order coefficient of the denominator is 1.
func (r Rational) Normalize() Rational {
	radius := r.Den.radius()
	num := r.Num.chopAt(Tolerance, radius)
	den := r.Den.chopAt(Tolerance, radius)
	if den.IsZero() {
		return Rational{Num: num, Den: den}
	}
	if num.IsZero() {
		return Rational{Den: Poly{1}}
	}

	shift := 0
	for shift < len(num) && shift < len(den) && num[shift] == 0 && den[shift] == 0 {
		shift++
	}
	num, den = num[shift:], den[shift:]

	lead := 0.0
	for _, c := range den {
		if c != 0 {
			lead = c
			break
		}
	}
	num = num.Scale(1 / lead)
	den = den.Scale(1 / lead)

	// Cancel a shared polynomial factor when the denominator divides the
	// numerator exactly, which covers the common single-pole case.
	if den.Degree() > 0 && num.Degree() >= den.Degree() {
		q, rem := num.Div(den)
		_, top := num.weights(radius)
		if _, rtop := rem.weights(radius); rtop < top+math.Log(1e-9) {
			num, den = q, Poly{1}
		}
	}
	return Rational{Num: cleanup(num), Den: cleanup(den)}
}

// Eval evaluates the function at s.
func (r Rational) Eval(s complex128) complex128 {
	return r.Num.Eval(s) / r.Den.Eval(s)
}

// IsFinite reports whether the denominator is not identically zero.
func (r Rational) IsFinite() bool {
	return !r.Den.IsZero()
}

func (r Rational) String() string {
	if r.Num.IsZero() {
		return "0"
	}
	num := r.Num.String()
	if r.Den.Degree() == 0 && r.Den[0] == 1 {
		return num
	}
	if r.Num.terms() > 1 {
		num = "(" + num + ")"
	}
	den := r.Den.String()
	if r.Den.terms() > 1 || r.Den.Degree() > 0 && r.Den[r.Den.Degree()] != 1 {
		den = "(" + den + ")"
	}
	return num + "/" + den
}

// cleanup rounds coefficients that sit within rounding noise of an integer.
func cleanup(p Poly) Poly {
	out := make(Poly, len(p))
	for i, c := range p {
		if r := math.Round(c); r != 0 && math.Abs(c-r) < 1e-9*math.Abs(r) {
			c = r
		}
		out[i] = c
	}
	return out.trim()
}
