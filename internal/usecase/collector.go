package usecase

import (
	"context"
	"fmt"

	"github.com/iho/bookkeeper/internal/domain"
)

// collectOrder fixes the fan-out order so collection is deterministic and
// mock expectations in tests are stable. The Ledger Builder re-sorts anyway.
var collectOrder = []domain.SourceKind{
	domain.SourceJournal,
	domain.SourceBankPayment,
	domain.SourceBankReceipt,
	domain.SourceCashPayment,
	domain.SourceCashReceipt,
	domain.SourceSale,
	domain.SourcePurchase,
}

// Collector fetches every raw entry that can debit or credit one account,
// scoped to a tenant. It is read-only and assumes the account exists; the
// coordinator checks existence before invoking it.
type Collector struct {
	sources SourceRepository
}

// NewCollector creates a new Collector.
func NewCollector(sources SourceRepository) *Collector {
	return &Collector{sources: sources}
}

// Collect returns the unsorted union of all source entries referencing the
// account, per the participation matrix for its type.
func (c *Collector) Collect(ctx context.Context, ref domain.AccountRef) ([]domain.SourceEntry, error) {
	matrix := domain.Participation(ref.Type)

	var entries []domain.SourceEntry

	for _, kind := range collectOrder {
		roles, ok := matrix[kind]
		if !ok {
			continue
		}

		batch, err := c.collectKind(ctx, ref, kind, roles)
		if err != nil {
			return nil, fmt.Errorf("collect %s for %s: %w", kind, ref.Key(), err)
		}

		entries = append(entries, batch...)
	}

	return entries, nil
}

func (c *Collector) collectKind(ctx context.Context, ref domain.AccountRef, kind domain.SourceKind, roles []domain.ParticipantRole) ([]domain.SourceEntry, error) {
	switch kind {
	case domain.SourceJournal:
		return c.sources.Journals(ctx, ref.TenantID, ref.AccountID, roles)
	case domain.SourceBankPayment:
		return c.sources.BankPayments(ctx, ref.TenantID, ref.AccountID, roles)
	case domain.SourceBankReceipt:
		return c.sources.BankReceipts(ctx, ref.TenantID, ref.AccountID, roles)
	case domain.SourceCashPayment:
		return c.sources.CashPayments(ctx, ref.TenantID, ref.AccountID, roles)
	case domain.SourceCashReceipt:
		return c.sources.CashReceipts(ctx, ref.TenantID, ref.AccountID, roles)
	case domain.SourceSale:
		return c.sources.Sales(ctx, ref.TenantID, ref.AccountID)
	case domain.SourcePurchase:
		return c.sources.Purchases(ctx, ref.TenantID, ref.AccountID)
	default:
		return nil, domain.ErrUnsupportedSource
	}
}
