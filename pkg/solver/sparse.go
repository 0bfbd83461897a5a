package solver

import (
	"github.com/edp1096/sparse"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
)

// Sparse solves with the complex sparse LU of github.com/edp1096/sparse.
type Sparse struct{}

func (Sparse) Name() string { return SparseName }

func (Sparse) Solve(a [][]complex128, z []complex128) ([]complex128, error) {
	if err := checkShape(a, z); err != nil {
		return nil, err
	}
	n := len(a)
	if n == 0 {
		return nil, nil
	}

	m, err := newCircuitMatrix(n)
	if err != nil {
		return nil, err
	}
	defer m.Destroy()
	m.SetupElements()

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if v := a[i][j]; v != 0 {
				m.AddComplexElement(i+1, j+1, real(v), imag(v))
			}
		}
		m.AddComplexRHS(i+1, real(z[i]), imag(z[i]))
	}

	if err := m.Solve(); err != nil {
		return nil, err
	}

	out := make([]complex128, n)
	for i := range out {
		re, im := m.ComplexSolution(i + 1)
		out[i] = complex(re, im)
	}
	if err := checkFinite(out); err != nil {
		return nil, err
	}
	return out, nil
}

// circuitMatrix wraps a complex sparse matrix with interleaved rhs and
// solution vectors: entry i lives at [2i] (real) and [2i+1] (imaginary).
type circuitMatrix struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64
	solution []float64
}

func newCircuitMatrix(size int) (*circuitMatrix, error) {
	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           true,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, err, "creating sparse matrix")
	}

	return &circuitMatrix{
		Size:   size,
		matrix: mat,
		rhs:    make([]float64, 2*(size+1)), // 1-based indexing
	}, nil
}

// SetupElements creates every entry up front so ordering sees the full pattern.
func (m *circuitMatrix) SetupElements() {
	for i := 1; i <= m.Size; i++ {
		for j := 1; j <= m.Size; j++ {
			m.matrix.GetElement(int64(i), int64(j))
		}
	}
}

func (m *circuitMatrix) AddComplexElement(i, j int, real, imag float64) {
	element := m.matrix.GetElement(int64(i), int64(j))
	element.Real += real
	element.Imag += imag
}

func (m *circuitMatrix) AddComplexRHS(i int, real, imag float64) {
	m.rhs[2*i] += real
	m.rhs[2*i+1] += imag
}

func (m *circuitMatrix) Solve() error {
	var err error

	if err = m.matrix.Factor(); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeSingularSystem, err, "matrix factorization failed")
	}

	m.solution, _, err = m.matrix.SolveComplex(m.rhs, nil)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeSingularSystem, err, "matrix solve failed")
	}
	return nil
}

func (m *circuitMatrix) ComplexSolution(i int) (float64, float64) {
	return m.solution[2*i], m.solution[2*i+1]
}

func (m *circuitMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
}
