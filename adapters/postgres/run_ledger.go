// Package postgres persists run metadata for finished bundles. It is the
// external persistence collaborator: matrices stay in memory, the ledger
// records identity, configuration, and fingerprints.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"connmat/domain/mats"
	"connmat/ports"
)

// runLedger implements ports.RunLedger on PostgreSQL
type runLedger struct {
	db *sqlx.DB
}

// NewRunLedger creates a run ledger backed by db
func NewRunLedger(db *sqlx.DB) ports.RunLedger {
	return &runLedger{db: db}
}

// Connect opens a PostgreSQL connection and verifies it
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// RunRecord is the persisted shape of one finished bundle
type RunRecord struct {
	ID          string       `db:"id"`
	Strategy    string       `db:"strategy"`
	Modality    string       `db:"modality"`
	Divisor     string       `db:"divisor"`
	Options     []byte       `db:"options"`
	Nodes       int          `db:"nodes"`
	Subjects    int          `db:"subjects"`
	Groups      int          `db:"groups"`
	Thresholds  int          `db:"thresholds"`
	Fingerprint string       `db:"fingerprint"`
	CreatedAt   sql.NullTime `db:"created_at"`
}

// Record inserts a run row for the bundle
func (r *runLedger) Record(ctx context.Context, b *mats.MatrixBundle) error {
	optionsJSON, err := json.Marshal(b.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	query := `INSERT INTO mat_runs (
		id, strategy, modality, divisor, options, nodes, subjects,
		groups, thresholds, fingerprint, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	)`

	_, err = r.db.ExecContext(ctx, query,
		b.ID.String(), string(b.Options.Strategy), string(b.Options.Modality),
		string(b.Options.Divisor), optionsJSON, b.Norm.Rows(), b.Norm.Subjects(),
		b.Groups.NumGroups(), len(b.Thresholds()), b.Fingerprint.String(),
		b.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}
