package symbolic

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrSingular is returned when the system determinant is identically zero.
var ErrSingular = errors.New("determinant is identically zero")

const (
	// noiseFloor is the fraction of the peak coefficient, measured at the
	// radius where the determinant is balanced, below which a coefficient
	// is rounding noise.
	noiseFloor = 1e-10
	// zeroFloor is the fraction of the largest solution below which a
	// whole numerator is zero.
	zeroFloor = 1e-13
)

// Det computes the determinant of a square polynomial matrix. It returns
// nil when the matrix is singular for every s. a is not modified.
func Det(a [][]Poly) Poly {
	if len(a) == 0 {
		return Poly{1}
	}
	smp, err := balance(a, nil, degreeBound(a, nil)+1)
	if err != nil {
		return nil
	}
	c := smp.coefficients(smp.det)
	p := smp.poly(c, peak(c))
	for i := range p {
		p[i] = math.Ldexp(p[i], smp.exp)
	}
	return cleanup(p)
}

// Cramer solves a x = z for x by Cramer's rule, returning one normalized
// rational function of s per unknown.
//
// Expanding the determinants symbolically cancels badly once element
// values span many decades. Instead the system is solved at points on a
// circle in the s plane, where x_i = det(a_i)/det(a) gives the value of
// every numerator, and the polynomials are read back with a discrete
// Fourier transform. The circle radius is chosen so the determinant's
// coefficients are balanced.
func Cramer(a [][]Poly, z []Poly) ([]Rational, error) {
	n := len(a)
	if n == 0 {
		return nil, nil
	}
	m := max(degreeBound(a, nil), degreeBound(a, z)) + 1
	smp, err := balance(a, z, m)
	if err != nil {
		return nil, err
	}

	cd := smp.coefficients(smp.det)
	den := smp.poly(cd, peak(cd))
	if den.IsZero() {
		return nil, ErrSingular
	}

	var xmax float64
	for _, xk := range smp.x {
		for _, v := range xk {
			xmax = math.Max(xmax, cmplx.Abs(v))
		}
	}
	floor := zeroFloor * peak(cd) * xmax

	out := make([]Rational, n)
	v := make([]complex128, m)
	for i := range out {
		for k := range v {
			v[k] = smp.det[k] * smp.x[k][i]
		}
		cn := smp.coefficients(v)
		var num Poly
		if pk := peak(cn); pk > floor {
			num = smp.poly(cn, pk)
		}
		out[i] = Rational{Num: num, Den: den}.Normalize()
	}
	return out, nil
}

// degreeBound bounds the degree of det(a), or of every Cramer numerator
// when z is given.
func degreeBound(a [][]Poly, z []Poly) int {
	n := len(a)
	rows, cols := 0, 0
	colDeg := make([]int, n)
	for i := range a {
		d := 0
		for j, p := range a[i] {
			d = max(d, p.Degree())
			colDeg[j] = max(colDeg[j], p.Degree())
		}
		if z != nil {
			d = max(d, z[i].Degree())
		}
		rows += d
	}
	if z != nil {
		return rows
	}
	for _, d := range colDeg {
		cols += d
	}
	return min(rows, cols)
}

// samples holds the determinant and solution of a at m points
// radius * exp(j*(phase + 2*pi*k/m)).
type samples struct {
	radius float64
	phase  float64
	det    []complex128 // true determinant is det[k] * 2^exp
	exp    int
	x      [][]complex128
}

// balance samples a, moving the circle until the determinant's lowest and
// highest coefficients have equal weight on it.
func balance(a [][]Poly, z []Poly, m int) (*samples, error) {
	radius := initialRadius(a)
	var smp *samples
	for range 4 {
		var err error
		if smp, err = sample(a, z, m, radius); err != nil {
			return nil, err
		}
		next := smp.balancedRadius()
		if next > radius/2 && next < radius*2 {
			break
		}
		radius = next
	}
	return smp, nil
}

// initialRadius guesses the balance point from the ratio of constant to
// s-dependent entries row by row.
func initialRadius(a [][]Poly) float64 {
	var sum float64
	var count int
	for _, row := range a {
		var peaks []float64
		for _, p := range row {
			for k, c := range p {
				for len(peaks) <= k {
					peaks = append(peaks, 0)
				}
				peaks[k] = math.Max(peaks[k], math.Abs(c))
			}
		}
		if len(peaks) == 0 || peaks[0] == 0 {
			continue
		}
		for k := 1; k < len(peaks); k++ {
			if peaks[k] > 0 {
				sum += math.Log(peaks[0]/peaks[k]) / float64(k)
				count++
			}
		}
	}
	if count == 0 {
		return 1
	}
	return math.Exp(sum / float64(count))
}

// sample evaluates a at m points, rotating the circle when a point lands
// on a root of the determinant. A matrix singular at every rotation is
// singular for every s.
func sample(a [][]Poly, z []Poly, m int, radius float64) (*samples, error) {
	for _, turn := range []float64{0.1, 0.37, 0.73} {
		if smp, ok := sampleOnce(a, z, m, radius, turn*2*math.Pi/float64(m)); ok {
			return smp, nil
		}
	}
	return nil, ErrSingular
}

func sampleOnce(a [][]Poly, z []Poly, m int, radius, phase float64) (*samples, bool) {
	smp := &samples{radius: radius, phase: phase, det: make([]complex128, m), x: make([][]complex128, m)}
	exps := make([]int, m)
	for k := 0; k < m; k++ {
		s := cmplx.Rect(radius, phase+2*math.Pi*float64(k)/float64(m))
		f, ok := factor(evalMatrix(a, s))
		if !ok {
			return nil, false
		}
		smp.det[k], exps[k] = f.mant, f.exp
		if z != nil {
			smp.x[k] = f.solve(evalVector(z, s))
		}
	}

	smp.exp = exps[0]
	for _, e := range exps {
		smp.exp = max(smp.exp, e)
	}
	for k, d := range smp.det {
		shift := exps[k] - smp.exp
		smp.det[k] = complex(math.Ldexp(real(d), shift), math.Ldexp(imag(d), shift))
	}
	return smp, true
}

func evalMatrix(a [][]Poly, s complex128) [][]complex128 {
	out := make([][]complex128, len(a))
	for i, row := range a {
		out[i] = evalVector(row, s)
	}
	return out
}

func evalVector(v []Poly, s complex128) []complex128 {
	out := make([]complex128, len(v))
	for i, p := range v {
		out[i] = p.Eval(s)
	}
	return out
}

// coefficients interpolates values at the sample points. c[k] is the
// coefficient of s^k times radius^k.
func (smp *samples) coefficients(v []complex128) []complex128 {
	m := len(v)
	c := make([]complex128, m)
	for k := range c {
		var sum complex128
		for i, vi := range v {
			sum += vi * cmplx.Rect(1, -2*math.Pi*float64(i*k%m)/float64(m))
		}
		c[k] = sum / complex(float64(m), 0) * cmplx.Rect(1, -smp.phase*float64(k))
	}
	return c
}

// poly drops coefficients below noiseFloor*ref and maps the rest back to
// powers of s.
func (smp *samples) poly(c []complex128, ref float64) Poly {
	p := make(Poly, len(c))
	for k, ck := range c {
		if cmplx.Abs(ck) > noiseFloor*ref {
			p[k] = real(ck) / math.Pow(smp.radius, float64(k))
		}
	}
	return p.trim()
}

// balancedRadius returns the radius at which the lowest and highest
// coefficients of the determinant have equal weight.
func (smp *samples) balancedRadius() float64 {
	c := smp.coefficients(smp.det)
	ref := peak(c)
	lo, hi := -1, -1
	for k, ck := range c {
		if cmplx.Abs(ck) > noiseFloor*ref {
			if lo < 0 {
				lo = k
			}
			hi = k
		}
	}
	if lo < 0 || lo == hi {
		return smp.radius
	}
	return smp.radius * math.Pow(cmplx.Abs(c[lo])/cmplx.Abs(c[hi]), 1/float64(hi-lo))
}

func peak(c []complex128) float64 {
	var out float64
	for _, v := range c {
		out = math.Max(out, cmplx.Abs(v))
	}
	return out
}
