package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"connmat/domain/stack"
)

// thresholdMean keeps the node pairs whose cross-subject mean plus two
// sample standard deviations exceeds the threshold. The criterion is
// computed once over all subjects and the same mask is applied to every
// subject's matrix; surviving entries keep their per-subject values.
func (e *Engine) thresholdMean(ctx context.Context, norm *stack.Stack) (*strategyResult, error) {
	n := norm.Subjects()
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	upper := stack.NewMatrix(norm.Rows(), norm.Cols())
	buf := make([]float64, n)
	for i := 0; i < norm.Rows(); i++ {
		for j := 0; j < norm.Cols(); j++ {
			norm.Gather(i, j, all, buf)
			mean := stat.Mean(buf, nil)
			sd := stat.StdDev(buf, nil)
			upper.Set(i, j, mean+2*sd)
		}
	}

	nthr := len(e.opts.Thresholds)
	res := &strategyResult{
		masks:   make([][]*stack.Matrix, nthr),
		subject: make([]*stack.Stack, nthr),
	}

	g, _ := errgroup.WithContext(ctx)
	for ti, thr := range e.opts.Thresholds {
		g.Go(func() error {
			mask := upper.Clone().Map(func(v float64) float64 {
				if v > thr {
					return 1
				}
				return 0
			})

			filtered := norm.Clone()
			for k := 0; k < n; k++ {
				dst := filtered.Slice(k)
				for i, keep := range mask.Data() {
					if keep != 1 {
						dst.Data()[i] = 0
					}
				}
			}
			if err := filtered.Symmetrize(e.opts.SymmetrizeBy); err != nil {
				return err
			}
			res.masks[ti] = []*stack.Matrix{mask}
			res.subject[ti] = filtered
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
