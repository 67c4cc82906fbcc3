package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository. The engine owns the
// ledger_rows table exclusively: the full row set per account is deleted and
// regenerated on every recalculation, rows are never patched individually.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

var ledgerColumns = []string{
	"tenant_id", "account_id", "account_type", "position",
	"entry_date", "kind", "narration", "reference",
	"debit", "credit", "cumulative_debit", "cumulative_credit", "balance",
	"source_id",
}

// Replace deletes the account's row set and bulk-inserts the new one via
// COPY, inside the caller's transaction.
func (r *LedgerRepository) Replace(ctx context.Context, tx usecase.Transaction, ref domain.AccountRef, ledgerRows []domain.LedgerRow) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`DELETE FROM ledger_rows WHERE tenant_id = $1 AND account_id = $2 AND account_type = $3`,
		ref.TenantID, ref.AccountID, string(ref.Type))
	if err != nil {
		return fmt.Errorf("delete ledger rows: %w", err)
	}

	if len(ledgerRows) == 0 {
		return nil
	}

	copyRows := make([][]any, 0, len(ledgerRows))
	for _, row := range ledgerRows {
		copyRows = append(copyRows, []any{
			row.TenantID, row.AccountID, string(row.AccountType), row.Position,
			timeToPgTimestamptz(row.Date), string(row.Kind), row.Narration, row.Reference,
			decimalToNumeric(row.Debit), decimalToNumeric(row.Credit),
			decimalToNumeric(row.CumulativeDebit), decimalToNumeric(row.CumulativeCredit),
			decimalToNumeric(row.Balance),
			row.SourceID,
		})
	}

	_, err = pgxTx.CopyFrom(ctx, pgx.Identifier{"ledger_rows"}, ledgerColumns, pgx.CopyFromRows(copyRows))
	if err != nil {
		return fmt.Errorf("bulk insert ledger rows: %w", err)
	}

	return nil
}

const listLedgerSQL = `
SELECT tenant_id, account_id, account_type, position,
       entry_date, kind, narration, reference,
       debit, credit, cumulative_debit, cumulative_credit, balance,
       source_id
FROM ledger_rows
WHERE tenant_id = $1 AND account_id = $2 AND account_type = $3
  AND ($4::timestamptz IS NULL OR entry_date >= $4)
  AND ($5::timestamptz IS NULL OR entry_date <= $5)
ORDER BY position`

// ListByAccount returns the account's ledger rows in position order,
// optionally bounded by a date range.
func (r *LedgerRepository) ListByAccount(ctx context.Context, ref domain.AccountRef, from, to *time.Time) ([]domain.LedgerRow, error) {
	rows, err := r.pool.Query(ctx, listLedgerSQL,
		ref.TenantID, ref.AccountID, string(ref.Type),
		timePtrToPgTimestamptz(from), timePtrToPgTimestamptz(to))
	if err != nil {
		return nil, fmt.Errorf("query ledger rows: %w", err)
	}
	defer rows.Close()

	var result []domain.LedgerRow

	for rows.Next() {
		var (
			row                             domain.LedgerRow
			accountType, kind               string
			entryDate                       pgtype.Timestamptz
			debit, credit                   pgtype.Numeric
			cumDebit, cumCredit, balance    pgtype.Numeric
		)

		err := rows.Scan(&row.TenantID, &row.AccountID, &accountType, &row.Position,
			&entryDate, &kind, &row.Narration, &row.Reference,
			&debit, &credit, &cumDebit, &cumCredit, &balance,
			&row.SourceID)
		if err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		row.Kind = domain.SourceKind(kind)
		row.Date = entryDate.Time
		row.Debit = numericToDecimal(debit)
		row.Credit = numericToDecimal(credit)
		row.CumulativeDebit = numericToDecimal(cumDebit)
		row.CumulativeCredit = numericToDecimal(cumCredit)
		row.Balance = numericToDecimal(balance)

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}

	return result, nil
}
