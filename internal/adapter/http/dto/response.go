package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bookkeeper/internal/domain"
)

// BalanceResponse represents a balance snapshot in API responses.
type BalanceResponse struct {
	TenantID    string          `json:"tenant_id"`
	AccountID   string          `json:"account_id"`
	AccountType string          `json:"account_type"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balance     decimal.Decimal `json:"balance"`
	Direction   string          `json:"direction"`
	EntryCount  int             `json:"entry_count"`
	LastEntryAt *time.Time      `json:"last_entry_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BalanceFromDomain converts a domain snapshot to a response.
func BalanceFromDomain(s *domain.BalanceSnapshot) *BalanceResponse {
	return &BalanceResponse{
		TenantID:    s.TenantID,
		AccountID:   s.AccountID,
		AccountType: string(s.AccountType),
		TotalDebit:  s.TotalDebit,
		TotalCredit: s.TotalCredit,
		Balance:     s.Balance,
		Direction:   string(s.Direction),
		EntryCount:  s.EntryCount,
		LastEntryAt: s.LastEntryAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// LedgerRowResponse represents one materialized ledger line in API responses.
type LedgerRowResponse struct {
	Position         int             `json:"position"`
	Date             time.Time       `json:"date"`
	Kind             string          `json:"kind"`
	Narration        string          `json:"narration,omitempty"`
	Reference        string          `json:"reference,omitempty"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	CumulativeDebit  decimal.Decimal `json:"cumulative_debit"`
	CumulativeCredit decimal.Decimal `json:"cumulative_credit"`
	Balance          decimal.Decimal `json:"balance"`
	SourceID         string          `json:"source_id"`
}

// LedgerRowFromDomain converts a domain ledger row to a response.
func LedgerRowFromDomain(row domain.LedgerRow) LedgerRowResponse {
	return LedgerRowResponse{
		Position:         row.Position,
		Date:             row.Date,
		Kind:             string(row.Kind),
		Narration:        row.Narration,
		Reference:        row.Reference,
		Debit:            row.Debit,
		Credit:           row.Credit,
		CumulativeDebit:  row.CumulativeDebit,
		CumulativeCredit: row.CumulativeCredit,
		Balance:          row.Balance,
		SourceID:         row.SourceID,
	}
}

// LedgerRowsFromDomain converts domain ledger rows to responses.
func LedgerRowsFromDomain(rows []domain.LedgerRow) []LedgerRowResponse {
	result := make([]LedgerRowResponse, len(rows))
	for i, row := range rows {
		result[i] = LedgerRowFromDomain(row)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
