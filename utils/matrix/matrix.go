// Package matrix provides the small dense matrix used by the Jacobian solver,
// with bounds and shape checks that report errors instead of panicking.
package matrix

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidDimension is returned when a matrix is requested with a non-positive row or column count.
	ErrInvalidDimension = errors.New("invalid matrix dimension")
	// ErrIndexOutOfRange is returned for element access outside the matrix.
	ErrIndexOutOfRange = errors.New("matrix index out of range")
	// ErrDimensionMismatch is returned when operand shapes are incompatible.
	ErrDimensionMismatch = errors.New("matrix dimension mismatch")
	// ErrSingularMatrix is returned by Inverse when the determinant is exactly zero.
	ErrSingularMatrix = errors.New("matrix is singular")
)

// Matrix is a dense matrix of float64 values with a fixed shape.
type Matrix struct {
	dense *mat.Dense
}

// New returns a zero-initialized rows x cols matrix.
func New(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimension, "%dx%d", rows, cols)
	}
	return &Matrix{dense: mat.NewDense(rows, cols, nil)}, nil
}

// NewFromData returns a rows x cols matrix backed by a copy of data, which is in row-major order.
func NewFromData(rows, cols int, data []float64) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimension, "%dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, errors.Wrapf(ErrDimensionMismatch, "%d values for a %dx%d matrix", len(data), rows, cols)
	}
	return &Matrix{dense: mat.NewDense(rows, cols, append([]float64(nil), data...))}, nil
}

// NewColumn returns an n x 1 column vector holding values.
func NewColumn(values ...float64) (*Matrix, error) {
	return NewFromData(len(values), 1, values)
}

// Identity returns the n x n identity matrix.
func Identity(n int) (*Matrix, error) {
	m, err := New(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.dense.Set(i, i, 1)
	}
	return m, nil
}

func fromDense(d *mat.Dense) *Matrix {
	return &Matrix{dense: d}
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (rows, cols int) {
	return m.dense.Dims()
}

func (m *Matrix) checkIndex(r, c int) error {
	rows, cols := m.dense.Dims()
	if r < 0 || r >= rows || c < 0 || c >= cols {
		return errors.Wrapf(ErrIndexOutOfRange, "(%d, %d) in %dx%d", r, c, rows, cols)
	}
	return nil
}

// At returns the element at row r, column c.
func (m *Matrix) At(r, c int) (float64, error) {
	if err := m.checkIndex(r, c); err != nil {
		return 0, err
	}
	return m.dense.At(r, c), nil
}

// Set stores v at row r, column c.
func (m *Matrix) Set(r, c int, v float64) error {
	if err := m.checkIndex(r, c); err != nil {
		return err
	}
	m.dense.Set(r, c, v)
	return nil
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) ([]float64, error) {
	if err := m.checkIndex(0, j); err != nil {
		return nil, err
	}
	return mat.Col(nil, j, m.dense), nil
}

// T returns a new matrix that is the transpose of m. m is not modified.
func (m *Matrix) T() *Matrix {
	var t mat.Dense
	t.CloneFrom(m.dense.T())
	return fromDense(&t)
}

// Mul returns the product m * other.
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	mr, mc := m.Dims()
	or, oc := other.Dims()
	if mc != or {
		return nil, errors.Wrapf(ErrDimensionMismatch, "cannot multiply %dx%d by %dx%d", mr, mc, or, oc)
	}
	var p mat.Dense
	p.Mul(m.dense, other.dense)
	return fromDense(&p), nil
}

// Scale returns a new matrix with every element of m multiplied by f.
func (m *Matrix) Scale(f float64) *Matrix {
	var s mat.Dense
	s.Scale(f, m.dense)
	return fromDense(&s)
}

// PseudoInverse returns the Moore-Penrose pseudoinverse of m computed from its
// singular value decomposition. Singular values smaller than tolerance are
// treated as zero, so near-singular inputs give a bounded result instead of
// blowing up. A zero matrix yields a zero pseudoinverse.
func (m *Matrix) PseudoInverse(tolerance float64) (*Matrix, error) {
	if tolerance < 0 {
		return nil, errors.Errorf("pseudoinverse tolerance must be non-negative, got %v", tolerance)
	}
	rows, cols := m.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(m.dense, mat.SVDThin); !ok {
		return nil, errors.Wrap(ErrSingularMatrix, "singular value decomposition failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	// A+ = V * S+ * U^T, where S+ inverts only the singular values above tolerance.
	vs := mat.NewDense(cols, len(values), nil)
	for j, s := range values {
		if s <= tolerance {
			continue
		}
		for i := 0; i < cols; i++ {
			vs.Set(i, j, v.At(i, j)/s)
		}
	}
	pinv := mat.NewDense(cols, rows, nil)
	pinv.Mul(vs, u.T())
	return fromDense(pinv), nil
}

// Inverse returns the exact inverse of a square matrix. It fails with
// ErrSingularMatrix when the determinant is exactly zero.
func (m *Matrix) Inverse() (*Matrix, error) {
	rows, cols := m.Dims()
	if rows != cols {
		return nil, errors.Wrapf(ErrDimensionMismatch, "cannot invert non-square %dx%d matrix", rows, cols)
	}
	if mat.Det(m.dense) == 0 {
		return nil, ErrSingularMatrix
	}
	var inv mat.Dense
	if err := inv.Inverse(m.dense); err != nil {
		// gonum still fills in an ill-conditioned result alongside a finite Condition error.
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, errors.Wrap(ErrSingularMatrix, err.Error())
		}
	}
	return fromDense(&inv), nil
}

// EqualApprox reports whether m and other have the same shape and all elements within tol.
func (m *Matrix) EqualApprox(other *Matrix, tol float64) bool {
	mr, mc := m.Dims()
	or, oc := other.Dims()
	if mr != or || mc != oc {
		return false
	}
	return mat.EqualApprox(m.dense, other.dense, tol)
}

// String formats the matrix for debug output.
func (m *Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(m.dense, mat.Squeeze()))
}
