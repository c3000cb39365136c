// Package engine implements the thresholding engine that reduces a stack of
// per-subject connection matrices to group-consistent matrices, one result
// set per threshold value.
package engine

import (
	"context"

	"connmat/domain/core"
	"connmat/domain/group"
	"connmat/domain/mats"
	"connmat/domain/stack"
	"connmat/internal"
)

// Engine runs the normalization and thresholding pipeline for one fixed
// configuration. The strategy is selected once at construction; the four
// strategies are mutually exclusive and not composable within a call.
type Engine struct {
	opts mats.Options
	log  *internal.Logger
}

// New validates the options and creates an engine.
func New(opts mats.Options, log *internal.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = internal.NewDefaultLogger()
	}
	return &Engine{opts: opts, log: log.WithPrefix("engine")}, nil
}

// Options returns the engine's configuration.
func (e *Engine) Options() mats.Options { return e.opts }

// strategyResult is the per-strategy intermediate handed to the aggregator.
type strategyResult struct {
	binarized []*stack.Stack    // per threshold; consensus only
	masks     [][]*stack.Matrix // per threshold, per group (or a single shared mask)
	subject   []*stack.Stack    // per threshold filtered stacks, original subject order
}

// CreateMats runs the configured strategy over the normalized stack and
// returns the immutable result bundle. raw is the stack as loaded, norm the
// normalized stack (they may be the same object when no divisor applies),
// div the divisor stack (required only for the deterministic size special
// case), groups the subject partition.
func (e *Engine) CreateMats(ctx context.Context, raw, norm, div *stack.Stack, groups *group.Index) (*mats.MatrixBundle, error) {
	if raw.Rows() != raw.Cols() {
		return nil, core.ErrNotSquare
	}
	if norm.Rows() != raw.Rows() || norm.Cols() != raw.Cols() || norm.Subjects() != raw.Subjects() {
		return nil, core.ErrShapeMismatch
	}
	if groups.Total() != raw.Subjects() {
		return nil, core.ErrGroupPartition
	}

	e.log.Info("create_mats: strategy=%s subjects=%d nodes=%d thresholds=%d",
		e.opts.Strategy, raw.Subjects(), raw.Rows(), len(e.opts.Thresholds))

	var (
		res *strategyResult
		err error
	)
	switch e.opts.Strategy {
	case mats.StrategyConsensus:
		res, err = e.thresholdConsensus(ctx, raw, norm, div, groups)
	case mats.StrategyDensity:
		res, err = e.thresholdDensity(ctx, norm)
	case mats.StrategyMean:
		res, err = e.thresholdMean(ctx, norm)
	case mats.StrategyConsistency:
		res, err = e.thresholdConsistency(ctx, norm, groups)
	default:
		return nil, core.ErrUnknownStrategy
	}
	if err != nil {
		return nil, err
	}

	means, err := e.aggregate(res.subject, groups)
	if err != nil {
		return nil, err
	}

	return &mats.MatrixBundle{
		ID:          core.BundleID(core.NewID()),
		Options:     e.opts,
		Groups:      groups,
		Raw:         raw,
		Norm:        norm,
		Binarized:   res.binarized,
		Masks:       res.masks,
		Subject:     res.subject,
		GroupMeans:  means,
		Fingerprint: norm.Fingerprint(),
		CreatedAt:   core.Now(),
	}, nil
}
