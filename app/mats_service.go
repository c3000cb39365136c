// Package app wires the loaders, the thresholding engine, and the optional
// collaborators into one batch entry point.
package app

import (
	"context"

	"connmat/adapters/matfile"
	"connmat/adapters/stats/engine"
	"connmat/domain/group"
	"connmat/domain/mats"
	"connmat/domain/stack"
	"connmat/internal"
	"connmat/internal/errors"
	"connmat/ports"
)

// MatsService runs the full assembly-normalization-thresholding pipeline
// from on-disk grid files to an immutable MatrixBundle.
type MatsService struct {
	log      *internal.Logger
	ledger   ports.RunLedger      // optional
	exporter ports.BundleExporter // optional
}

// NewMatsService creates a service. ledger and exporter may be nil.
func NewMatsService(log *internal.Logger, ledger ports.RunLedger, exporter ports.BundleExporter) *MatsService {
	if log == nil {
		log = internal.NewDefaultLogger()
	}
	return &MatsService{log: log.WithPrefix("mats"), ledger: ledger, exporter: exporter}
}

// CreateMatsRequest names the input files and the subject partition for one
// pipeline run.
type CreateMatsRequest struct {
	// MatFiles lists one connection grid file per subject, in the file
	// order the group indices refer to.
	MatFiles []string

	// DivisorFiles lists one single-column divisor file per subject, for
	// the waytotal and size normalization modes.
	DivisorFiles []string

	// Groups partitions 0..len(MatFiles)-1 into study groups.
	Groups [][]int

	// Nodes optionally fixes the node count; zero infers it from the first
	// file.
	Nodes int

	Options mats.Options
}

// CreateMats loads every input up front, runs the configured strategy, and
// returns the result bundle. Any configuration or input failure aborts the
// whole run with no partial result.
func (s *MatsService) CreateMats(ctx context.Context, req CreateMatsRequest) (*mats.MatrixBundle, error) {
	if err := req.Options.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	eng, err := engine.New(req.Options, s.log)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	groups, err := group.New(req.Groups, len(req.MatFiles))
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	s.log.Info("loading %d connection matrices", len(req.MatFiles))
	raw, err := matfile.LoadStack(req.MatFiles, req.Nodes, req.Nodes)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInputError, err)
	}

	var div *stack.Stack
	norm := raw
	if req.Options.NormalizationActive() {
		switch req.Options.Divisor {
		case mats.DivisorWaytotal, mats.DivisorSize:
			if div, err = matfile.LoadDivisors(req.DivisorFiles); err != nil {
				return nil, errors.WithCode(errors.CodeInputError, err)
			}
		}
		if norm, err = eng.Normalize(raw, div); err != nil {
			return nil, errors.Wrap(err, "normalization failed")
		}
	}

	bundle, err := eng.CreateMats(ctx, raw, norm, div, groups)
	if err != nil {
		return nil, errors.Wrap(err, "thresholding failed")
	}

	if s.ledger != nil {
		if err := s.ledger.Record(ctx, bundle); err != nil {
			return nil, errors.WithCode(errors.CodeDatabaseError, err)
		}
	}
	if s.exporter != nil {
		if err := s.exporter.Export(bundle); err != nil {
			return nil, errors.WithCode(errors.CodeExportError, err)
		}
	}
	s.log.Info("bundle %s ready (%d thresholds, %d groups)",
		bundle.ID, len(bundle.Thresholds()), groups.NumGroups())
	return bundle, nil
}

// ApplyThresholds loads a second, independently measured stack and gates it
// with the topology an earlier bundle selected.
func (s *MatsService) ApplyThresholds(ctx context.Context, bundle *mats.MatrixBundle, matFiles []string) (*mats.CoBundle, error) {
	w, err := matfile.LoadStack(matFiles, bundle.Norm.Rows(), bundle.Norm.Cols())
	if err != nil {
		return nil, errors.WithCode(errors.CodeInputError, err)
	}
	eng, err := engine.New(bundle.Options, s.log)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	co, err := eng.ApplyThresholds(ctx, bundle, w)
	if err != nil {
		return nil, errors.Wrap(err, "co-thresholding failed")
	}
	return co, nil
}
