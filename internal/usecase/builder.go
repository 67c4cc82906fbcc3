package usecase

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

// NormalizedEntry is a raw source entry mapped onto the common ledger row
// schema: the polarity table has already decided which column the amount
// lands in, and the amount has been upscaled to the common precision.
type NormalizedEntry struct {
	Date      time.Time
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Narration string
	Reference string
	SourceID  string
	Kind      domain.SourceKind
	CreatedAt time.Time
}

// Normalize maps raw entries through the sign-convention table and sorts them
// into the global ledger order: date ascending, creation order as the stable
// tiebreak, then (kind, source id) so the order is total. Repeated calls over
// the same input produce identical output.
func Normalize(entries []domain.SourceEntry) ([]NormalizedEntry, error) {
	normalized := make([]NormalizedEntry, 0, len(entries))

	for _, e := range entries {
		side, err := domain.Contribution(e.Kind, e.Role)
		if err != nil {
			return nil, fmt.Errorf("normalize %s entry %s (role %s): %w", e.Kind, e.SourceID, e.Role, err)
		}

		n := NormalizedEntry{
			Date:      e.Date,
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
			Narration: e.Narration,
			Reference: e.Reference,
			SourceID:  e.SourceID,
			Kind:      e.Kind,
			CreatedAt: e.CreatedAt,
		}

		amount := domain.NormalizeAmount(e.Amount)
		if side == domain.SideDebit {
			n.Debit = amount
		} else {
			n.Credit = amount
		}

		normalized = append(normalized, n)
	}

	slices.SortFunc(normalized, compareNormalized)

	return normalized, nil
}

func compareNormalized(a, b NormalizedEntry) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}

	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}

	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}

		return 1
	}

	if a.SourceID < b.SourceID {
		return -1
	}

	if a.SourceID > b.SourceID {
		return 1
	}

	return 0
}

// BuildLedger walks the normalized sequence maintaining running cumulative
// debit and credit, emitting one ledger row per entry. The running balance
// follows the account type's natural side. An empty entry list yields an
// empty ledger.
func BuildLedger(ref domain.AccountRef, normalized []NormalizedEntry) []domain.LedgerRow {
	rows := make([]domain.LedgerRow, 0, len(normalized))

	cumulativeDebit := decimal.Zero
	cumulativeCredit := decimal.Zero

	for i, n := range normalized {
		cumulativeDebit = cumulativeDebit.Add(n.Debit)
		cumulativeCredit = cumulativeCredit.Add(n.Credit)

		rows = append(rows, domain.LedgerRow{
			TenantID:         ref.TenantID,
			AccountID:        ref.AccountID,
			AccountType:      ref.Type,
			Position:         i + 1,
			Date:             n.Date,
			Kind:             n.Kind,
			Narration:        n.Narration,
			Reference:        n.Reference,
			Debit:            n.Debit,
			Credit:           n.Credit,
			CumulativeDebit:  cumulativeDebit,
			CumulativeCredit: cumulativeCredit,
			Balance:          domain.RunningBalance(ref.Type, cumulativeDebit, cumulativeCredit),
			SourceID:         n.SourceID,
		})
	}

	return rows
}
