package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

// Aggregate reduces normalized entries to a balance snapshot. It is a pure
// reduction over the same rows the Ledger Builder consumes.
func Aggregate(ref domain.AccountRef, normalized []NormalizedEntry, now time.Time) *domain.BalanceSnapshot {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	var lastEntryAt *time.Time

	for _, n := range normalized {
		totalDebit = totalDebit.Add(n.Debit)
		totalCredit = totalCredit.Add(n.Credit)

		if lastEntryAt == nil || n.Date.After(*lastEntryAt) {
			d := n.Date
			lastEntryAt = &d
		}
	}

	direction := domain.DirectionDebit
	if ref.Type != domain.AccountTypeCurrency && totalCredit.GreaterThanOrEqual(totalDebit) {
		direction = domain.DirectionCredit
	}

	return &domain.BalanceSnapshot{
		TenantID:    ref.TenantID,
		AccountID:   ref.AccountID,
		AccountType: ref.Type,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Balance:     totalCredit.Sub(totalDebit).Abs(),
		Direction:   direction,
		EntryCount:  len(normalized),
		LastEntryAt: lastEntryAt,
		UpdatedAt:   now,
	}
}

// Recompute is the idempotent pure core of the engine: given one account's
// raw entries it derives the complete ledger row set and balance snapshot.
// The side-effecting replace step lives in the coordinator.
func Recompute(ref domain.AccountRef, entries []domain.SourceEntry, now time.Time) ([]domain.LedgerRow, *domain.BalanceSnapshot, error) {
	normalized, err := Normalize(entries)
	if err != nil {
		return nil, nil, err
	}

	rows := BuildLedger(ref, normalized)
	snapshot := Aggregate(ref, normalized, now)

	return rows, snapshot, nil
}
