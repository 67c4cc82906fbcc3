package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository. One snapshot row
// per account identity, upserted on every recalculation and never deleted.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

const upsertBalanceSQL = `
INSERT INTO balance_snapshots (
    tenant_id, account_id, account_type,
    total_debit, total_credit, balance, direction,
    entry_count, last_entry_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (tenant_id, account_id, account_type) DO UPDATE SET
    total_debit   = EXCLUDED.total_debit,
    total_credit  = EXCLUDED.total_credit,
    balance       = EXCLUDED.balance,
    direction     = EXCLUDED.direction,
    entry_count   = EXCLUDED.entry_count,
    last_entry_at = EXCLUDED.last_entry_at,
    updated_at    = EXCLUDED.updated_at`

// Upsert inserts or overwrites the snapshot keyed by the composite identity.
func (r *BalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, snapshot *domain.BalanceSnapshot) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, upsertBalanceSQL,
		snapshot.TenantID, snapshot.AccountID, string(snapshot.AccountType),
		decimalToNumeric(snapshot.TotalDebit), decimalToNumeric(snapshot.TotalCredit),
		decimalToNumeric(snapshot.Balance), string(snapshot.Direction),
		snapshot.EntryCount, timePtrToPgTimestamptz(snapshot.LastEntryAt),
		timeToPgTimestamptz(snapshot.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert balance snapshot: %w", err)
	}

	return nil
}

const getBalanceSQL = `
SELECT tenant_id, account_id, account_type,
       total_debit, total_credit, balance, direction,
       entry_count, last_entry_at, updated_at
FROM balance_snapshots
WHERE tenant_id = $1 AND account_id = $2 AND account_type = $3`

// Get retrieves the snapshot by its composite identity.
func (r *BalanceRepository) Get(ctx context.Context, ref domain.AccountRef) (*domain.BalanceSnapshot, error) {
	var (
		snapshot                       domain.BalanceSnapshot
		accountType, direction         string
		totalDebit, totalCredit, total pgtype.Numeric
		lastEntryAt, updatedAt         pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, getBalanceSQL, ref.TenantID, ref.AccountID, string(ref.Type)).
		Scan(&snapshot.TenantID, &snapshot.AccountID, &accountType,
			&totalDebit, &totalCredit, &total, &direction,
			&snapshot.EntryCount, &lastEntryAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}

		return nil, err
	}

	snapshot.AccountType = domain.AccountType(accountType)
	snapshot.Direction = domain.BalanceDirection(direction)
	snapshot.TotalDebit = numericToDecimal(totalDebit)
	snapshot.TotalCredit = numericToDecimal(totalCredit)
	snapshot.Balance = numericToDecimal(total)
	snapshot.LastEntryAt = pgTimestamptzToTimePtr(lastEntryAt)
	snapshot.UpdatedAt = updatedAt.Time

	return &snapshot, nil
}
