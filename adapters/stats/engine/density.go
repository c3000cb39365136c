package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"connmat/domain/stack"
)

// thresholdDensity keeps, per subject, approximately the top t fraction of
// edges by weight: the whole normalized stack is symmetrized first, then
// each subject's cut value is chosen by rank over the lower triangle and
// entries at or below the cut are zeroed. There is no group vote; resulting
// density matches t up to the rounding of the discrete rank.
func (e *Engine) thresholdDensity(ctx context.Context, norm *stack.Stack) (*strategyResult, error) {
	sym := norm.Clone()
	if err := sym.Symmetrize(e.opts.SymmetrizeBy); err != nil {
		return nil, err
	}

	nthr := len(e.opts.Thresholds)
	res := &strategyResult{subject: make([]*stack.Stack, nthr)}

	g, _ := errgroup.WithContext(ctx)
	for ti, thr := range e.opts.Thresholds {
		g.Go(func() error {
			out := sym.Clone()
			err := out.MapSlices(func(k int, m *stack.Matrix) error {
				tri, err := m.LowerTriangle()
				if err != nil {
					return err
				}
				cut := stack.RankThreshold(tri, thr)
				m.Map(func(v float64) float64 {
					if v > cut {
						return v
					}
					return 0
				})
				return nil
			})
			if err != nil {
				return err
			}
			res.subject[ti] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
