package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/bookkeeper/internal/domain"
)

// AccountRepository implements usecase.AccountRepository over the single
// accounts table; the four variants share it behind an account_type
// discriminator.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const getAccountSQL = `
SELECT tenant_id, id, account_type, name, COALESCE(detail, ''), created_at, updated_at
FROM accounts
WHERE tenant_id = $1 AND id = $2 AND account_type = $3`

// Get retrieves an account by its composite identity.
func (r *AccountRepository) Get(ctx context.Context, ref domain.AccountRef) (*domain.Account, error) {
	var (
		account              domain.Account
		accountType          string
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, getAccountSQL, ref.TenantID, ref.AccountID, string(ref.Type)).
		Scan(&account.TenantID, &account.ID, &accountType, &account.Name, &account.Detail, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	account.Type = domain.AccountType(accountType)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}
