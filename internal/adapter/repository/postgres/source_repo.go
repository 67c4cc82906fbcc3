package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
)

// SourceRepository implements usecase.SourceRepository with one filtered read
// per (source table, participant column). The engine only ever reads these
// tables; the transaction workflows that own them write them.
type SourceRepository struct {
	pool *pgxpool.Pool
}

// NewSourceRepository creates a new SourceRepository.
func NewSourceRepository(pool *pgxpool.Pool) *SourceRepository {
	return &SourceRepository{pool: pool}
}

// sourceTables maps each kind to its table and role columns. The column set
// mirrors the source schema: vouchers carry generic dr/cr counter-account
// columns, bank vouchers add a dedicated bank column, and sale/purchase carry
// only the currency position column.
var sourceTables = map[domain.SourceKind]struct {
	table   string
	columns map[domain.ParticipantRole]string
}{
	domain.SourceJournal: {
		table: "journals",
		columns: map[domain.ParticipantRole]string{
			domain.RoleDebit:  "dr_account_id",
			domain.RoleCredit: "cr_account_id",
		},
	},
	domain.SourceBankPayment: {
		table: "bank_payments",
		columns: map[domain.ParticipantRole]string{
			domain.RoleDebit:  "dr_account_id",
			domain.RoleCredit: "cr_account_id",
			domain.RoleBank:   "bank_account_id",
		},
	},
	domain.SourceBankReceipt: {
		table: "bank_receipts",
		columns: map[domain.ParticipantRole]string{
			domain.RoleDebit:  "dr_account_id",
			domain.RoleCredit: "cr_account_id",
			domain.RoleBank:   "bank_account_id",
		},
	},
	domain.SourceCashPayment: {
		table: "cash_payments",
		columns: map[domain.ParticipantRole]string{
			domain.RoleDebit:  "dr_account_id",
			domain.RoleCredit: "cr_account_id",
		},
	},
	domain.SourceCashReceipt: {
		table: "cash_receipts",
		columns: map[domain.ParticipantRole]string{
			domain.RoleDebit:  "dr_account_id",
			domain.RoleCredit: "cr_account_id",
		},
	},
	domain.SourceSale: {
		table: "sales",
		columns: map[domain.ParticipantRole]string{
			domain.RoleStock: "currency_account_id",
		},
	},
	domain.SourcePurchase: {
		table: "purchases",
		columns: map[domain.ParticipantRole]string{
			domain.RoleStock: "currency_account_id",
		},
	},
}

// Journals returns journal rows where the account occupies any of the roles.
func (r *SourceRepository) Journals(ctx context.Context, tenantID, accountID string, roles []domain.ParticipantRole) ([]domain.SourceEntry, error) {
	return r.collect(ctx, domain.SourceJournal, tenantID, accountID, roles)
}

// BankPayments returns bank payment rows where the account occupies any of the roles.
func (r *SourceRepository) BankPayments(ctx context.Context, tenantID, accountID string, roles []domain.ParticipantRole) ([]domain.SourceEntry, error) {
	return r.collect(ctx, domain.SourceBankPayment, tenantID, accountID, roles)
}

// BankReceipts returns bank receipt rows where the account occupies any of the roles.
func (r *SourceRepository) BankReceipts(ctx context.Context, tenantID, accountID string, roles []domain.ParticipantRole) ([]domain.SourceEntry, error) {
	return r.collect(ctx, domain.SourceBankReceipt, tenantID, accountID, roles)
}

// CashPayments returns cash payment rows where the account occupies any of the roles.
func (r *SourceRepository) CashPayments(ctx context.Context, tenantID, accountID string, roles []domain.ParticipantRole) ([]domain.SourceEntry, error) {
	return r.collect(ctx, domain.SourceCashPayment, tenantID, accountID, roles)
}

// CashReceipts returns cash receipt rows where the account occupies any of the roles.
func (r *SourceRepository) CashReceipts(ctx context.Context, tenantID, accountID string, roles []domain.ParticipantRole) ([]domain.SourceEntry, error) {
	return r.collect(ctx, domain.SourceCashReceipt, tenantID, accountID, roles)
}

// Sales returns currency sale rows for the currency position account.
func (r *SourceRepository) Sales(ctx context.Context, tenantID, accountID string) ([]domain.SourceEntry, error) {
	return r.collect(ctx, domain.SourceSale, tenantID, accountID, []domain.ParticipantRole{domain.RoleStock})
}

// Purchases returns currency purchase rows for the currency position account.
func (r *SourceRepository) Purchases(ctx context.Context, tenantID, accountID string) ([]domain.SourceEntry, error) {
	return r.collect(ctx, domain.SourcePurchase, tenantID, accountID, []domain.ParticipantRole{domain.RoleStock})
}

func (r *SourceRepository) collect(ctx context.Context, kind domain.SourceKind, tenantID, accountID string, roles []domain.ParticipantRole) ([]domain.SourceEntry, error) {
	spec, ok := sourceTables[kind]
	if !ok {
		return nil, domain.ErrUnsupportedSource
	}

	var entries []domain.SourceEntry

	// One query per role: a row referencing the account in both its dr and
	// cr columns yields one entry per role, matching the source semantics.
	for _, role := range roles {
		column, ok := spec.columns[role]
		if !ok {
			return nil, fmt.Errorf("%w: %s has no %s column", domain.ErrUnsupportedSource, kind, role)
		}

		batch, err := r.queryEntries(ctx, spec.table, kind, role, column, tenantID, accountID)
		if err != nil {
			return nil, err
		}

		entries = append(entries, batch...)
	}

	return entries, nil
}

func (r *SourceRepository) queryEntries(ctx context.Context, table string, kind domain.SourceKind, role domain.ParticipantRole, column, tenantID, accountID string) ([]domain.SourceEntry, error) {
	// Table and column names come from the static sourceTables map, never
	// from input.
	sql := fmt.Sprintf(`
SELECT id, entry_date, amount, COALESCE(narration, ''), COALESCE(reference, ''), created_at
FROM %s
WHERE tenant_id = $1 AND %s = $2`, table, column)

	rows, err := r.pool.Query(ctx, sql, tenantID, accountID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var entries []domain.SourceEntry

	for rows.Next() {
		var (
			entry               domain.SourceEntry
			amount              pgtype.Numeric
			entryDate, createdAt pgtype.Timestamptz
		)

		if err := rows.Scan(&entry.SourceID, &entryDate, &amount, &entry.Narration, &entry.Reference, &createdAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		entry.Kind = kind
		entry.Role = role
		entry.Date = entryDate.Time
		entry.CreatedAt = createdAt.Time
		entry.Amount = numericToDecimal(amount)

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	return entries, nil
}
