package ports

import (
	"context"

	"gqaudit/domain/core"
)

// RunRecord is the archived summary of one completed audit run
type RunRecord struct {
	RunID       core.RunID      `db:"run_id" json:"run_id"`
	Kind        string          `db:"kind" json:"kind"` // "run" or "calibration"
	Mode        string          `db:"mode" json:"mode"`
	BaseSet     string          `db:"base_set" json:"base_set"`
	Seed        int64           `db:"seed" json:"seed"`
	TrialCount  int             `db:"trial_count" json:"trial_count"`
	PoolSize    int             `db:"pool_size" json:"pool_size"`
	Fingerprint core.ConfigHash `db:"fingerprint" json:"fingerprint"`
	Summary     string          `db:"summary" json:"summary"` // JSON payload of fits / p-values
	CreatedAt   core.Timestamp  `db:"created_at" json:"created_at"`
}

// RunRepository archives run summaries for cross-run history. The
// archive is optional: runs that produce only file artifacts skip it.
type RunRepository interface {
	Save(ctx context.Context, record RunRecord) error
	ListRecent(ctx context.Context, limit int) ([]RunRecord, error)
	GetByRunID(ctx context.Context, runID core.RunID) (*RunRecord, error)
}
