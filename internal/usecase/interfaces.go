package usecase

import (
	"context"
	"time"

	"github.com/iho/bookkeeper/internal/domain"
)

// AccountRepository defines data access for the account registry.
type AccountRepository interface {
	Get(ctx context.Context, ref domain.AccountRef) (*domain.Account, error)
}

// SourceRepository defines filtered reads against the seven source tables.
// Every method returns entries already tagged with the role the account
// occupied in the row; ordering is undefined.
type SourceRepository interface {
	Journals(ctx context.Context, tenantID, accountID string, roles []domain.ParticipantRole) ([]domain.SourceEntry, error)
	BankPayments(ctx context.Context, tenantID, accountID string, roles []domain.ParticipantRole) ([]domain.SourceEntry, error)
	BankReceipts(ctx context.Context, tenantID, accountID string, roles []domain.ParticipantRole) ([]domain.SourceEntry, error)
	CashPayments(ctx context.Context, tenantID, accountID string, roles []domain.ParticipantRole) ([]domain.SourceEntry, error)
	CashReceipts(ctx context.Context, tenantID, accountID string, roles []domain.ParticipantRole) ([]domain.SourceEntry, error)
	Sales(ctx context.Context, tenantID, accountID string) ([]domain.SourceEntry, error)
	Purchases(ctx context.Context, tenantID, accountID string) ([]domain.SourceEntry, error)
}

// LedgerRepository owns the materialized ledger rows.
type LedgerRepository interface {
	// Replace deletes the account's existing row set and bulk-inserts the
	// new one inside the given transaction.
	Replace(ctx context.Context, tx Transaction, ref domain.AccountRef, rows []domain.LedgerRow) error
	ListByAccount(ctx context.Context, ref domain.AccountRef, from, to *time.Time) ([]domain.LedgerRow, error)
}

// BalanceRepository owns the materialized balance snapshots.
type BalanceRepository interface {
	Upsert(ctx context.Context, tx Transaction, snapshot *domain.BalanceSnapshot) error
	Get(ctx context.Context, ref domain.AccountRef) (*domain.BalanceSnapshot, error)
}

// RunRepository records recalculation runs for the audit trail.
type RunRepository interface {
	Create(ctx context.Context, run *domain.RecalculationRun) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient store errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Unlock releases a previously acquired lock.
type Unlock func(ctx context.Context) error

// AccountLocker serializes recalculations per account key.
type AccountLocker interface {
	// Acquire blocks until the lock is held, the context expires, or the
	// locker gives up, in which case it returns domain.ErrLockNotAcquired.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// EngineMetrics records engine-level instrumentation. Implementations live in
// infrastructure; a nil-safe no-op is used when metrics are disabled.
type EngineMetrics interface {
	RecalculationObserved(outcome string, duration time.Duration, rowsWritten int)
	InvariantViolationObserved()
	LockContentionObserved()
}

// Recalculator triggers a full materialization pass for one account.
type Recalculator interface {
	Recalculate(ctx context.Context, ref domain.AccountRef) (*domain.BalanceSnapshot, error)
}
