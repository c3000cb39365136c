// Package ports defines the interfaces the application layer uses to talk
// to optional external collaborators.
package ports

import (
	"context"

	"connmat/domain/mats"
)

// RunLedger persists run metadata for finished bundles. Matrices themselves
// are never persisted; the ledger records identity, configuration, and the
// fingerprint needed to recognize a replayed run.
type RunLedger interface {
	Record(ctx context.Context, bundle *mats.MatrixBundle) error
}

// BundleExporter writes a human-readable rendition of a bundle's group-level
// results to an external destination.
type BundleExporter interface {
	Export(bundle *mats.MatrixBundle) error
}
