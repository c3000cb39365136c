package stack

import (
	"math"

	"connmat/domain/core"
)

// Stack is a dense 3-D array of shape (rows, cols, subjects), the canonical
// container for per-subject connection matrices. Subject slices are stored
// contiguously in one flat backing slice, so Slice views are cheap.
type Stack struct {
	rows, cols, subjects int
	data                 []float64
}

// NewStack creates a zero-filled stack of the given shape.
func NewStack(rows, cols, subjects int) *Stack {
	return &Stack{
		rows:     rows,
		cols:     cols,
		subjects: subjects,
		data:     make([]float64, rows*cols*subjects),
	}
}

// Rows returns the row count of each slice.
func (s *Stack) Rows() int { return s.rows }

// Cols returns the column count of each slice.
func (s *Stack) Cols() int { return s.cols }

// Subjects returns the number of slices along the subject axis.
func (s *Stack) Subjects() int { return s.subjects }

// At returns the value at (i, j) for subject k.
func (s *Stack) At(i, j, k int) float64 {
	return s.data[k*s.rows*s.cols+i*s.cols+j]
}

// Set assigns v at (i, j) for subject k.
func (s *Stack) Set(i, j, k int, v float64) {
	s.data[k*s.rows*s.cols+i*s.cols+j] = v
}

// Slice returns subject k's matrix as a view sharing backing storage.
// Mutations through the view are visible in the stack.
func (s *Stack) Slice(k int) *Matrix {
	rc := s.rows * s.cols
	return &Matrix{rows: s.rows, cols: s.cols, data: s.data[k*rc : (k+1)*rc]}
}

// SetSlice copies m into subject k's position.
func (s *Stack) SetSlice(k int, m *Matrix) error {
	if m.rows != s.rows || m.cols != s.cols {
		return core.ErrShapeMismatch
	}
	rc := s.rows * s.cols
	copy(s.data[k*rc:(k+1)*rc], m.data)
	return nil
}

// Clone returns a deep copy of the stack.
func (s *Stack) Clone() *Stack {
	out := NewStack(s.rows, s.cols, s.subjects)
	copy(out.data, s.data)
	return out
}

// Data exposes the flat backing slice, subject-major then row-major.
func (s *Stack) Data() []float64 { return s.data }

// Map applies f to every entry in place and returns the receiver.
func (s *Stack) Map(f func(v float64) float64) *Stack {
	for i, v := range s.data {
		s.data[i] = f(v)
	}
	return s
}

// MapSlices applies f to each subject slice view in order. f may mutate the
// slice; shape must be preserved.
func (s *Stack) MapSlices(f func(k int, m *Matrix) error) error {
	for k := 0; k < s.subjects; k++ {
		if err := f(k, s.Slice(k)); err != nil {
			return err
		}
	}
	return nil
}

// ZeroNaN rewrites NaN entries to zero across the whole stack.
func (s *Stack) ZeroNaN() *Stack {
	return s.Map(func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	})
}

// Symmetrize replaces every subject slice with its symmetrized form.
func (s *Stack) Symmetrize(mode SymmetrizeMode) error {
	return s.MapSlices(func(k int, m *Matrix) error {
		sym, err := m.Symmetrize(mode)
		if err != nil {
			return err
		}
		copy(m.data, sym.data)
		return nil
	})
}

// Gather copies the cross-subject values at node pair (i, j) for the given
// subject indices into dst, which must have matching length.
func (s *Stack) Gather(i, j int, subjects []int, dst []float64) {
	for n, k := range subjects {
		dst[n] = s.At(i, j, k)
	}
}

// MeanAcross returns the elementwise mean over the given subject indices.
func (s *Stack) MeanAcross(subjects []int) (*Matrix, error) {
	if len(subjects) == 0 {
		return nil, core.ErrEmptyStack
	}
	out := NewMatrix(s.rows, s.cols)
	for _, k := range subjects {
		slice := s.Slice(k)
		for i, v := range slice.data {
			out.data[i] += v
		}
	}
	n := float64(len(subjects))
	for i := range out.data {
		out.data[i] /= n
	}
	return out, nil
}

// Fingerprint hashes the stack contents for replayability checks.
func (s *Stack) Fingerprint() core.Hash {
	return core.NewFloatHash(s.data)
}
