package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gqaudit/domain/core"
	"gqaudit/ports"
)

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run archive repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// EnsureSchema creates the archive table when it does not exist yet
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS audit_runs (
		run_id      TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		mode        TEXT NOT NULL,
		base_set    TEXT NOT NULL,
		seed        BIGINT NOT NULL,
		trial_count INTEGER NOT NULL DEFAULT 0,
		pool_size   INTEGER NOT NULL DEFAULT 0,
		fingerprint TEXT NOT NULL,
		summary     JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create audit_runs table: %w", err)
	}
	return nil
}

// Save inserts a run record into the archive
func (r *runRepository) Save(ctx context.Context, record ports.RunRecord) error {
	query := `INSERT INTO audit_runs (
		run_id, kind, mode, base_set, seed, trial_count, pool_size, fingerprint, summary, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		record.RunID.String(), record.Kind, record.Mode, record.BaseSet,
		record.Seed, record.TrialCount, record.PoolSize,
		record.Fingerprint.String(), record.Summary, record.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// ListRecent returns the newest archived runs
func (r *runRepository) ListRecent(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	query := `SELECT run_id, kind, mode, base_set, seed, trial_count, pool_size, fingerprint, summary, created_at
		FROM audit_runs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}
	defer rows.Close()

	var records []ports.RunRecord
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetByRunID returns one archived run
func (r *runRepository) GetByRunID(ctx context.Context, runID core.RunID) (*ports.RunRecord, error) {
	query := `SELECT run_id, kind, mode, base_set, seed, trial_count, pool_size, fingerprint, summary, created_at
		FROM audit_runs WHERE run_id = $1`

	row := r.db.QueryRowContext(ctx, query, runID.String())
	record, err := scanRecord(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("run", runID.String())
		}
		return nil, fmt.Errorf("failed to get run record: %w", err)
	}
	return &record, nil
}

func scanRecord(scan func(dest ...interface{}) error) (ports.RunRecord, error) {
	var (
		record      ports.RunRecord
		runID       string
		fingerprint string
		createdAt   sql.NullTime
	)
	err := scan(&runID, &record.Kind, &record.Mode, &record.BaseSet,
		&record.Seed, &record.TrialCount, &record.PoolSize, &fingerprint,
		&record.Summary, &createdAt)
	if err != nil {
		return record, err
	}
	record.RunID = core.RunID(runID)
	record.Fingerprint = core.ConfigHash(fingerprint)
	if createdAt.Valid {
		record.CreatedAt = core.NewTimestamp(createdAt.Time)
	}
	return record, nil
}
