package engine

import (
	"connmat/domain/group"
	"connmat/domain/mats"
	"connmat/domain/stack"
)

// aggregate computes the per-threshold per-group mean matrices of the
// filtered subject stacks. Averaging blurs the per-subject density
// constraint, so in density mode each group mean is rank-thresholded again
// at the same target density.
func (e *Engine) aggregate(subject []*stack.Stack, groups *group.Index) ([][]*stack.Matrix, error) {
	means := make([][]*stack.Matrix, len(subject))
	for ti, filtered := range subject {
		means[ti] = make([]*stack.Matrix, groups.NumGroups())
		for gi := 0; gi < groups.NumGroups(); gi++ {
			m, err := filtered.MeanAcross(groups.Members(gi))
			if err != nil {
				return nil, err
			}
			if e.opts.Strategy == mats.StrategyDensity {
				tri, err := m.LowerTriangle()
				if err != nil {
					return nil, err
				}
				cut := stack.RankThreshold(tri, e.opts.Thresholds[ti])
				m.Map(func(v float64) float64 {
					if v > cut {
						return v
					}
					return 0
				})
			}
			means[ti][gi] = m
		}
	}
	return means, nil
}
