package symbolic

import (
	"math"
	"math/cmplx"
)

// lu is a dense complex LU factorization with partial pivoting of a row
// and column equilibrated copy of a matrix. The determinant is kept as
// mant * 2^exp so long products of small pivots do not underflow.
type lu struct {
	a    [][]complex128
	perm []int
	row  []float64
	col  []float64
	mant complex128
	exp  int
}

// factor returns false when a pivot falls to rounding noise.
func factor(a [][]complex128) (*lu, bool) {
	n := len(a)
	f := &lu{
		a:    make([][]complex128, n),
		perm: make([]int, n),
		row:  make([]float64, n),
		col:  make([]float64, n),
		mant: 1,
	}
	for i := range a {
		f.a[i] = append([]complex128(nil), a[i]...)
		f.perm[i] = i
		f.row[i] = rescale(f.a[i])
		if f.row[i] == 0 {
			return nil, false
		}
		f.mul(complex(f.row[i], 0))
	}
	for j := 0; j < n; j++ {
		var peak float64
		for i := 0; i < n; i++ {
			peak = math.Max(peak, cmplx.Abs(f.a[i][j]))
		}
		if peak == 0 {
			return nil, false
		}
		for i := 0; i < n; i++ {
			f.a[i][j] /= complex(peak, 0)
		}
		f.col[j] = peak
		f.mul(complex(peak, 0))
	}

	tiny := 1e-14 * float64(n)
	for k := 0; k < n; k++ {
		p := k
		for i := k + 1; i < n; i++ {
			if cmplx.Abs(f.a[i][k]) > cmplx.Abs(f.a[p][k]) {
				p = i
			}
		}
		if cmplx.Abs(f.a[p][k]) <= tiny {
			return nil, false
		}
		if p != k {
			f.a[k], f.a[p] = f.a[p], f.a[k]
			f.perm[k], f.perm[p] = f.perm[p], f.perm[k]
			f.mant = -f.mant
		}
		pivot := f.a[k][k]
		f.mul(pivot)
		for i := k + 1; i < n; i++ {
			m := f.a[i][k] / pivot
			f.a[i][k] = m
			if m == 0 {
				continue
			}
			for j := k + 1; j < n; j++ {
				f.a[i][j] -= m * f.a[k][j]
			}
		}
	}
	return f, true
}

// rescale divides v by its largest magnitude and returns that magnitude.
func rescale(v []complex128) float64 {
	var peak float64
	for _, c := range v {
		peak = math.Max(peak, cmplx.Abs(c))
	}
	if peak == 0 {
		return 0
	}
	for i := range v {
		v[i] /= complex(peak, 0)
	}
	return peak
}

func (f *lu) mul(c complex128) {
	f.mant *= c
	m := cmplx.Abs(f.mant)
	if m == 0 {
		return
	}
	_, e := math.Frexp(m)
	f.mant = complex(math.Ldexp(real(f.mant), -e), math.Ldexp(imag(f.mant), -e))
	f.exp += e
}

// solve returns x with a x = z for the factorized a.
func (f *lu) solve(z []complex128) []complex128 {
	n := len(f.a)
	y := make([]complex128, n)
	for k := range y {
		y[k] = z[f.perm[k]] / complex(f.row[f.perm[k]], 0)
	}
	for i := 1; i < n; i++ {
		for k := 0; k < i; k++ {
			y[i] -= f.a[i][k] * y[k]
		}
	}
	for i := n - 1; i >= 0; i-- {
		for j := i + 1; j < n; j++ {
			y[i] -= f.a[i][j] * y[j]
		}
		y[i] /= f.a[i][i]
	}
	for j := range y {
		y[j] /= complex(f.col[j], 0)
	}
	return y
}
