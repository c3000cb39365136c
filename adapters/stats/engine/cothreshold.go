package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"connmat/domain/core"
	"connmat/domain/mats"
	"connmat/domain/stack"
)

// ApplyThresholds transplants the edge topology a bundle selected onto a
// second, independently measured stack: per threshold and subject, entries
// of w survive exactly where the bundle's filtered stack is positive.
// Per-threshold per-group means of the second measure are gated the same
// way against the bundle's group mean positivity. The surviving edge set of
// the result is therefore always a subset of the bundle's.
func (e *Engine) ApplyThresholds(ctx context.Context, b *mats.MatrixBundle, w *stack.Stack) (*mats.CoBundle, error) {
	if w.Rows() != b.Norm.Rows() || w.Cols() != b.Norm.Cols() || w.Subjects() != b.Norm.Subjects() {
		return nil, core.ErrShapeMismatch
	}

	nthr := len(b.Subject)
	co := &mats.CoBundle{
		BundleID:   b.ID,
		Subject:    make([]*stack.Stack, nthr),
		GroupMeans: make([][]*stack.Matrix, nthr),
		CreatedAt:  core.Now(),
	}

	g, _ := errgroup.WithContext(ctx)
	for ti := 0; ti < nthr; ti++ {
		g.Go(func() error {
			gated := w.Clone()
			maskData := b.Subject[ti].Data()
			for i, m := range maskData {
				if m <= 0 {
					gated.Data()[i] = 0
				}
			}
			co.Subject[ti] = gated

			groups := b.Groups
			co.GroupMeans[ti] = make([]*stack.Matrix, groups.NumGroups())
			for gi := 0; gi < groups.NumGroups(); gi++ {
				wm, err := gated.MeanAcross(groups.Members(gi))
				if err != nil {
					return err
				}
				gmask := b.GroupMeans[ti][gi]
				for i, v := range gmask.Data() {
					if v <= 0 {
						wm.Data()[i] = 0
					}
				}
				co.GroupMeans[ti][gi] = wm
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return co, nil
}
