package stack

import (
	"math"

	"connmat/domain/core"
)

// SymmetrizeMode selects how mirrored off-diagonal entries are reconciled.
type SymmetrizeMode string

const (
	SymmetrizeMax SymmetrizeMode = "max"
	SymmetrizeMin SymmetrizeMode = "min"
	SymmetrizeAvg SymmetrizeMode = "avg"
)

// ParseSymmetrizeMode validates a symmetrize mode string.
func ParseSymmetrizeMode(s string) (SymmetrizeMode, error) {
	switch SymmetrizeMode(s) {
	case SymmetrizeMax, SymmetrizeMin, SymmetrizeAvg:
		return SymmetrizeMode(s), nil
	}
	return "", core.ErrUnknownSymmetrize
}

// Symmetrize returns a new matrix where (i,j) and (j,i) are both replaced by
// the max, min, or arithmetic mean of the mirrored pair. The diagonal is
// untouched. Idempotent for all three modes: the mirrored entries of a
// symmetric matrix are already equal.
func (m *Matrix) Symmetrize(mode SymmetrizeMode) (*Matrix, error) {
	if m.rows != m.cols {
		return nil, core.ErrNotSquare
	}
	out := m.Clone()
	for i := 1; i < m.rows; i++ {
		for j := 0; j < i; j++ {
			a, b := m.At(i, j), m.At(j, i)
			var v float64
			switch mode {
			case SymmetrizeMax:
				v = math.Max(a, b)
			case SymmetrizeMin:
				v = math.Min(a, b)
			case SymmetrizeAvg:
				v = (a + b) / 2
			default:
				return nil, core.ErrUnknownSymmetrize
			}
			out.Set(i, j, v)
			out.Set(j, i, v)
		}
	}
	return out, nil
}
