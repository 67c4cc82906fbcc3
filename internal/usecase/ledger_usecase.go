package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/bookkeeper/internal/domain"
)

// LedgerUseCase is the read interface over the materialized state. It never
// writes ledger rows or snapshots itself; a missing snapshot triggers a lazy
// recalculation since the materialization is always derivable from source
// entries.
type LedgerUseCase struct {
	balanceRepo BalanceRepository
	ledgerRepo  LedgerRepository
	recalc      Recalculator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(balanceRepo BalanceRepository, ledgerRepo LedgerRepository, recalc Recalculator) *LedgerUseCase {
	return &LedgerUseCase{
		balanceRepo: balanceRepo,
		ledgerRepo:  ledgerRepo,
		recalc:      recalc,
	}
}

// GetBalance returns the account's balance snapshot, materializing it on
// demand when absent.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, ref domain.AccountRef) (*domain.BalanceSnapshot, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := uc.balanceRepo.Get(ctx, ref)
	if err == nil {
		return snapshot, nil
	}

	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		return nil, err
	}

	return uc.recalc.Recalculate(ctx, ref)
}

// GetLedgerInput represents input for reading an account's ledger.
type GetLedgerInput struct {
	Ref  domain.AccountRef
	From *time.Time
	To   *time.Time
}

// GetLedger returns the account's ordered ledger rows, optionally limited to
// a date range.
func (uc *LedgerUseCase) GetLedger(ctx context.Context, input GetLedgerInput) ([]domain.LedgerRow, error) {
	if err := input.Ref.Validate(); err != nil {
		return nil, err
	}

	return uc.ledgerRepo.ListByAccount(ctx, input.Ref, input.From, input.To)
}
