package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceDirection says which side the net balance favors.
type BalanceDirection string

const (
	DirectionDebit  BalanceDirection = "DEBIT"
	DirectionCredit BalanceDirection = "CREDIT"
)

// LedgerRow is one materialized line of an account's history. The full row
// set for an account is regenerated on every recalculation; rows are keyed by
// (account identity, position) so rebuilds of the same input are identical.
type LedgerRow struct {
	TenantID    string
	AccountID   string
	AccountType AccountType
	Position    int

	Date      time.Time
	Kind      SourceKind
	Narration string
	Reference string

	Debit            decimal.Decimal
	Credit           decimal.Decimal
	CumulativeDebit  decimal.Decimal
	CumulativeCredit decimal.Decimal
	Balance          decimal.Decimal

	// Back-reference to the source row for traceability.
	SourceID string
}

// BalanceSnapshot is the single materialized summary row per account,
// upserted on every recalculation.
type BalanceSnapshot struct {
	TenantID    string
	AccountID   string
	AccountType AccountType

	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balance     decimal.Decimal
	Direction   BalanceDirection
	EntryCount  int
	LastEntryAt *time.Time
	UpdatedAt   time.Time
}

// Ref returns the snapshot's composite account identity.
func (s *BalanceSnapshot) Ref() AccountRef {
	return AccountRef{TenantID: s.TenantID, AccountID: s.AccountID, Type: s.AccountType}
}

// Validate enforces the snapshot invariant: balance is the absolute net of
// the totals and the direction matches the favored side. Currency accounts
// are always reported as debit-direction stock positions.
func (s *BalanceSnapshot) Validate() error {
	net := s.TotalCredit.Sub(s.TotalDebit)
	if !s.Balance.Equal(net.Abs()) {
		return fmt.Errorf("%w: balance %s does not equal |%s - %s|",
			ErrInvariantViolation, s.Balance, s.TotalCredit, s.TotalDebit)
	}

	want := DirectionDebit
	if s.AccountType != AccountTypeCurrency && s.TotalCredit.GreaterThanOrEqual(s.TotalDebit) {
		want = DirectionCredit
	}

	if s.Direction != want {
		return fmt.Errorf("%w: direction %s, want %s", ErrInvariantViolation, s.Direction, want)
	}

	if s.EntryCount < 0 {
		return fmt.Errorf("%w: negative entry count %d", ErrInvariantViolation, s.EntryCount)
	}

	return nil
}

// RunningBalance computes the running balance for the account's natural
// side: customers, banks and general accounts grow on the credit side,
// currency positions on the debit (purchase) side.
func RunningBalance(t AccountType, cumulativeDebit, cumulativeCredit decimal.Decimal) decimal.Decimal {
	if t == AccountTypeCurrency {
		return cumulativeDebit.Sub(cumulativeCredit)
	}

	return cumulativeCredit.Sub(cumulativeDebit)
}
