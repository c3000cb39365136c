package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"connmat/domain/core"
	"connmat/domain/group"
	"connmat/domain/mats"
	"connmat/domain/stack"
)

// thresholdConsensus keeps the node pairs that enough subjects of a group
// agree on. Per threshold: binarize the normalized stack with a strict >
// comparison, count per-group votes per node pair, build per-group inclusion
// masks, and zero every entry a subject's group did not agree on. Filtered
// per-group results are scattered back to original file order through the
// group index.
//
// Deterministic-tractography quirk: when the divisor is size, the values
// carried through the masks are the raw entries selected by the binarized
// stack, re-normalized by region size with P fixed at 1 regardless of the
// configured sample count. The asymmetry against the initial normalization
// pass is intentional and must not be "fixed".
func (e *Engine) thresholdConsensus(ctx context.Context, raw, norm, div *stack.Stack, groups *group.Index) (*strategyResult, error) {
	special := e.opts.Modality == mats.ModalityDTI &&
		e.opts.Algo == mats.AlgoDeterministic &&
		e.opts.Divisor == mats.DivisorSize
	if special && div == nil {
		return nil, core.ErrMissingDivisor
	}

	nthr := len(e.opts.Thresholds)
	res := &strategyResult{
		binarized: make([]*stack.Stack, nthr),
		masks:     make([][]*stack.Matrix, nthr),
		subject:   make([]*stack.Stack, nthr),
	}

	g, _ := errgroup.WithContext(ctx)
	for ti, thr := range e.opts.Thresholds {
		g.Go(func() error {
			bin := norm.Clone().Map(func(v float64) float64 {
				if v > thr {
					return 1
				}
				return 0
			})

			// Value source for the surviving entries: the normalized stack,
			// or the size-renormalized selection in the deterministic case.
			vals := norm
			if special {
				sel := raw.Clone()
				for i, b := range bin.Data() {
					if b == 0 {
						sel.Data()[i] = 0
					}
				}
				vals = normalizeBySize(sel, div, 1)
			}

			masks := make([]*stack.Matrix, groups.NumGroups())
			filtered := stack.NewStack(norm.Rows(), norm.Cols(), norm.Subjects())
			for gi := 0; gi < groups.NumGroups(); gi++ {
				members := groups.Members(gi)

				votes := stack.NewMatrix(norm.Rows(), norm.Cols())
				for _, k := range members {
					slice := bin.Slice(k)
					for i, v := range slice.Data() {
						votes.Data()[i] += v
					}
				}

				cut := e.opts.SubThresh * float64(len(members))
				mask := votes.Clone().Map(func(v float64) float64 {
					if e.opts.SubThresh == 0 {
						// Any positive vote counts; >= 0 would include
						// pairs no subject has.
						if v > 0 {
							return 1
						}
						return 0
					}
					if v >= cut {
						return 1
					}
					return 0
				})
				masks[gi] = mask

				for _, k := range members {
					dst := filtered.Slice(k)
					src := vals.Slice(k)
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
			res.binarized[ti] = bin
			res.masks[ti] = masks
			res.subject[ti] = filtered
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
