// Package stack holds the dense numeric containers the pipeline computes over:
// a row-major 2-D Matrix and a 3-D Stack of equally shaped subject matrices.
package stack

import (
	"math"

	"connmat/domain/core"
)

// Matrix is a dense row-major matrix of float64 values.
// The backing slice may be shared with a Stack slice view.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix creates a rows x cols matrix initialized to zeros.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// MatrixFromRows builds a matrix from row slices. All rows must have equal length.
func MatrixFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, core.ErrShapeMismatch
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, core.ErrShapeMismatch
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// At returns the value at (i, j). Indices are not bounds-checked; the
// loaders validate shapes once at the boundary.
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.cols+j] }

// Set assigns v at (i, j).
func (m *Matrix) Set(i, j int, v float64) { m.data[i*m.cols+j] = v }

// Data exposes the flat row-major backing slice.
func (m *Matrix) Data() []float64 { return m.data }

// Clone returns a deep copy with its own backing storage.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// Map applies f to every entry in place and returns the receiver.
func (m *Matrix) Map(f func(v float64) float64) *Matrix {
	for i, v := range m.data {
		m.data[i] = f(v)
	}
	return m
}

// ZeroNaN rewrites NaN entries to zero. Disconnected node pairs have zero
// strength, not undefined strength.
func (m *Matrix) ZeroNaN() *Matrix {
	return m.Map(func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	})
}

// LowerTriangle returns the strictly-below-diagonal entries of a square
// matrix, row by row. Its length is Nv*(Nv-1)/2, the maximum edge count.
func (m *Matrix) LowerTriangle() ([]float64, error) {
	if m.rows != m.cols {
		return nil, core.ErrNotSquare
	}
	out := make([]float64, 0, m.rows*(m.rows-1)/2)
	for i := 1; i < m.rows; i++ {
		for j := 0; j < i; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out, nil
}

// Density returns the fraction of nonzero off-diagonal lower-triangle
// entries relative to the maximum edge count.
func (m *Matrix) Density() (float64, error) {
	tri, err := m.LowerTriangle()
	if err != nil {
		return 0, err
	}
	if len(tri) == 0 {
		return 0, nil
	}
	nonzero := 0
	for _, v := range tri {
		if v != 0 {
			nonzero++
		}
	}
	return float64(nonzero) / float64(len(tri)), nil
}

// Equal reports exact elementwise equality of shape and values.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}
