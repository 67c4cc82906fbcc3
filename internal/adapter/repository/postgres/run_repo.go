package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
)

// RunRepository implements usecase.RunRepository. Runs are the append-only
// audit trail of materialization passes and are written outside the
// materialization transaction.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

const createRunSQL = `
INSERT INTO recalculation_runs (
    id, tenant_id, account_id, account_type,
    entry_count, rows_written, outcome, error, duration_ms, started_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Create appends a run record.
func (r *RunRepository) Create(ctx context.Context, run *domain.RecalculationRun) error {
	_, err := r.pool.Exec(ctx, createRunSQL,
		run.ID, run.TenantID, run.AccountID, string(run.AccountType),
		run.EntryCount, run.RowsWritten, string(run.Outcome), run.Error,
		run.Duration.Milliseconds(), timeToPgTimestamptz(run.StartedAt))
	if err != nil {
		return fmt.Errorf("insert recalculation run: %w", err)
	}

	return nil
}
