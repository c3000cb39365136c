package engine

import (
	"gonum.org/v1/gonum/floats"

	"connmat/domain/core"
	"connmat/domain/mats"
	"connmat/domain/stack"
)

// Normalize rescales the raw stack according to the configured divisor and
// returns a new stack of identical shape. Divisions that produce NaN (zero
// divisors on disconnected pairs) are rewritten to zero before returning.
// DivisorNone is the caller's concern: the caller passes the raw stack on
// unchanged instead of calling Normalize.
func (e *Engine) Normalize(raw, div *stack.Stack) (*stack.Stack, error) {
	switch e.opts.Divisor {
	case mats.DivisorWaytotal:
		if err := checkDivisor(raw, div); err != nil {
			return nil, err
		}
		out := raw.Clone()
		for k := 0; k < out.Subjects(); k++ {
			// One scalar per subject, broadcast across the whole slice
			way := div.At(0, 0, k)
			out.Slice(k).Map(func(v float64) float64 { return v / way })
		}
		return out.ZeroNaN(), nil

	case mats.DivisorSize:
		if err := checkDivisor(raw, div); err != nil {
			return nil, err
		}
		if div.Rows() != raw.Rows() {
			return nil, core.ErrShapeMismatch
		}
		return normalizeBySize(raw, div, e.opts.Samples), nil

	case mats.DivisorRowSums:
		out := raw.Clone()
		for k := 0; k < out.Subjects(); k++ {
			m := out.Slice(k)
			for i := 0; i < m.Rows(); i++ {
				row := m.Data()[i*m.Cols() : (i+1)*m.Cols()]
				sum := floats.Sum(row)
				for j := range row {
					row[j] /= sum
				}
			}
		}
		return out.ZeroNaN(), nil
	}
	return nil, core.ErrUnknownDivisor
}

// normalizeBySize computes 2*A[i,j]/(P*(size_i+size_j)) per subject, sizes
// taken from the single-column divisor stack.
func normalizeBySize(src, div *stack.Stack, samples int) *stack.Stack {
	out := src.Clone()
	p := float64(samples)
	for k := 0; k < out.Subjects(); k++ {
		m := out.Slice(k)
		for i := 0; i < m.Rows(); i++ {
			si := div.At(i, 0, k)
			for j := 0; j < m.Cols(); j++ {
				sj := div.At(j, 0, k)
				m.Set(i, j, 2*m.At(i, j)/(p*(si+sj)))
			}
		}
	}
	return out.ZeroNaN()
}

func checkDivisor(raw, div *stack.Stack) error {
	if div == nil {
		return core.ErrEmptyStack
	}
	if div.Subjects() != raw.Subjects() {
		return core.ErrShapeMismatch
	}
	return nil
}
