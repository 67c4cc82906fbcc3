package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/bookkeeper/internal/domain"
)

// DefaultLockTTL bounds how long one recalculation may hold its account lock.
const DefaultLockTTL = 30 * time.Second

// RecalculationConfig holds dependencies for the RecalculationUseCase.
type RecalculationConfig struct {
	Accounts    AccountRepository
	Sources     SourceRepository
	LedgerRepo  LedgerRepository
	BalanceRepo BalanceRepository
	RunRepo     RunRepository
	TxManager   TransactionManager
	Locker      AccountLocker
	Retrier     Retrier
	IDGen       IDGenerator
	Metrics     EngineMetrics
	Logger      zerolog.Logger
	LockTTL     time.Duration
}

// RecalculationUseCase is the consistency coordinator: it sequences
// collect -> recompute -> replace for one account at a time, serialized per
// account key, and is invoked once per distinct account a source mutation
// references.
type RecalculationUseCase struct {
	accounts    AccountRepository
	collector   *Collector
	ledgerRepo  LedgerRepository
	balanceRepo BalanceRepository
	runRepo     RunRepository
	txManager   TransactionManager
	locker      AccountLocker
	retrier     Retrier
	idGen       IDGenerator
	metrics     EngineMetrics
	logger      zerolog.Logger
	lockTTL     time.Duration
}

// NewRecalculationUseCase creates a new RecalculationUseCase.
func NewRecalculationUseCase(cfg RecalculationConfig) *RecalculationUseCase {
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}

	return &RecalculationUseCase{
		accounts:    cfg.Accounts,
		collector:   NewCollector(cfg.Sources),
		ledgerRepo:  cfg.LedgerRepo,
		balanceRepo: cfg.BalanceRepo,
		runRepo:     cfg.RunRepo,
		txManager:   cfg.TxManager,
		locker:      cfg.Locker,
		retrier:     cfg.Retrier,
		idGen:       cfg.IDGen,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		lockTTL:     lockTTL,
	}
}

// Recalculate rebuilds the account's materialized ledger rows and balance
// snapshot from its source entries. The pass either completes (old row set
// replaced by the new one atomically) or leaves the previous materialization
// untouched.
func (uc *RecalculationUseCase) Recalculate(ctx context.Context, ref domain.AccountRef) (*domain.BalanceSnapshot, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	// Abort before any collection if the account does not exist.
	if _, err := uc.accounts.Get(ctx, ref); err != nil {
		return nil, err
	}

	unlock, err := uc.locker.Acquire(ctx, "recalc:"+ref.Key(), uc.lockTTL)
	if err != nil {
		if uc.metrics != nil && errors.Is(err, domain.ErrLockNotAcquired) {
			uc.metrics.LockContentionObserved()
		}

		return nil, err
	}

	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn().Err(err).Str("account", ref.Key()).Msg("failed to release recalculation lock")
		}
	}()

	start := time.Now().UTC()

	snapshot, rowCount, err := uc.recalculateLocked(ctx, ref)

	uc.recordRun(ctx, ref, start, rowCount, err)

	if uc.metrics != nil {
		outcome := string(domain.RunOutcomeCompleted)
		if err != nil {
			outcome = string(domain.RunOutcomeFailed)
		}

		uc.metrics.RecalculationObserved(outcome, time.Since(start), rowCount)
	}

	return snapshot, err
}

func (uc *RecalculationUseCase) recalculateLocked(ctx context.Context, ref domain.AccountRef) (*domain.BalanceSnapshot, int, error) {
	entries, err := uc.collector.Collect(ctx, ref)
	if err != nil {
		return nil, 0, err
	}

	rows, snapshot, err := Recompute(ref, entries, time.Now().UTC())
	if err != nil {
		return nil, 0, err
	}

	// A failed invariant means a bug in the polarity table or precision
	// handling. Nothing is persisted; surface it loudly.
	if err := snapshot.Validate(); err != nil {
		if uc.metrics != nil {
			uc.metrics.InvariantViolationObserved()
		}

		uc.logger.Error().Err(err).
			Str("account", ref.Key()).
			Int("entries", len(entries)).
			Msg("computed snapshot violates invariant, refusing to persist")

		return nil, 0, err
	}

	err = uc.retrier.Retry(ctx, func() error {
		return uc.replace(ctx, ref, rows, snapshot)
	})
	if err != nil {
		return nil, 0, err
	}

	uc.logger.Debug().
		Str("account", ref.Key()).
		Int("rows", len(rows)).
		Str("balance", snapshot.Balance.String()).
		Str("direction", string(snapshot.Direction)).
		Msg("materialization replaced")

	return snapshot, len(rows), nil
}

// replace runs the delete+insert and upsert as one transaction so readers
// observe either the previous or the new complete row set, never the empty
// window in between.
func (uc *RecalculationUseCase) replace(ctx context.Context, ref domain.AccountRef, rows []domain.LedgerRow, snapshot *domain.BalanceSnapshot) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.ledgerRepo.Replace(ctx, tx, ref, rows); err != nil {
		return err
	}

	if err := uc.balanceRepo.Upsert(ctx, tx, snapshot); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (uc *RecalculationUseCase) recordRun(ctx context.Context, ref domain.AccountRef, start time.Time, rowsWritten int, runErr error) {
	if uc.runRepo == nil {
		return
	}

	run := &domain.RecalculationRun{
		ID:          uc.idGen.Generate(),
		TenantID:    ref.TenantID,
		AccountID:   ref.AccountID,
		AccountType: ref.Type,
		EntryCount:  rowsWritten,
		RowsWritten: rowsWritten,
		Outcome:     domain.RunOutcomeCompleted,
		Duration:    time.Since(start),
		StartedAt:   start,
	}

	if runErr != nil {
		run.Outcome = domain.RunOutcomeFailed
		run.Error = runErr.Error()
		run.RowsWritten = 0
	}

	// Best-effort: the run log never fails the recalculation itself.
	if err := uc.runRepo.Create(context.WithoutCancel(ctx), run); err != nil {
		uc.logger.Warn().Err(err).Str("account", ref.Key()).Msg("failed to record recalculation run")
	}
}

// RecalculateMany triggers one independent recalculation per affected
// account. A source mutation touching two accounts (a bank payment has a
// bank side and a counter-party side) results in two invocations; each
// account's ledger is independently derived truth.
func (uc *RecalculationUseCase) RecalculateMany(ctx context.Context, refs []domain.AccountRef) error {
	var errs []error

	for _, ref := range refs {
		if _, err := uc.Recalculate(ctx, ref); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
