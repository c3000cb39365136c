package engine

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"connmat/domain/group"
	"connmat/domain/stack"
)

// thresholdConsistency keeps the edges whose strength varies least across
// subjects. The per-pair coefficient of variation (population standard
// deviation over mean) is min-symmetrized; per threshold, a descending rank
// selects the CV cut and edges with CV strictly below it survive. The mask
// is shared by every subject, there is no grouping in the computation, but
// output positions are written through the group index so results land in
// original file order.
func (e *Engine) thresholdConsistency(ctx context.Context, norm *stack.Stack, groups *group.Index) (*strategyResult, error) {
	n := norm.Subjects()
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	cv := stack.NewMatrix(norm.Rows(), norm.Cols())
	buf := make([]float64, n)
	for i := 0; i < norm.Rows(); i++ {
		for j := 0; j < norm.Cols(); j++ {
			norm.Gather(i, j, all, buf)
			mean := stat.Mean(buf, nil)
			c := stat.PopStdDev(buf, nil) / mean
			if math.IsNaN(c) {
				c = 0
			}
			cv.Set(i, j, c)
		}
	}
	cvSym, err := cv.Symmetrize(stack.SymmetrizeMin)
	if err != nil {
		return nil, err
	}
	tri, err := cvSym.LowerTriangle()
	if err != nil {
		return nil, err
	}

	nthr := len(e.opts.Thresholds)
	res := &strategyResult{
		masks:   make([][]*stack.Matrix, nthr),
		subject: make([]*stack.Stack, nthr),
	}

	g, _ := errgroup.WithContext(ctx)
	for ti, thr := range e.opts.Thresholds {
		g.Go(func() error {
			cut := stack.RankThresholdDescending(tri, thr)
			mask := cvSym.Clone().Map(func(v float64) float64 {
				if v < cut {
					return 1
				}
				return 0
			})

			filtered := stack.NewStack(norm.Rows(), norm.Cols(), n)
			for gi := 0; gi < groups.NumGroups(); gi++ {
				for _, k := range groups.Members(gi) {
					dst := filtered.Slice(k)
					src := norm.Slice(k)
					for i, keep := range mask.Data() {
						if keep == 1 {
							dst.Data()[i] = src.Data()[i]
						}
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
