package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
)

func TestBalanceFromDomain(t *testing.T) {
	lastEntry := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	snapshot := &domain.BalanceSnapshot{
		TenantID:    "t1",
		AccountID:   "a1",
		AccountType: domain.AccountTypeCustomer,
		TotalDebit:  decimal.RequireFromString("40"),
		TotalCredit: decimal.RequireFromString("140"),
		Balance:     decimal.RequireFromString("100"),
		Direction:   domain.DirectionCredit,
		EntryCount:  2,
		LastEntryAt: &lastEntry,
		UpdatedAt:   lastEntry,
	}

	resp := dto.BalanceFromDomain(snapshot)

	assert.Equal(t, "t1", resp.TenantID)
	assert.Equal(t, "CUSTOMER", resp.AccountType)
	assert.Equal(t, "CREDIT", resp.Direction)
	assert.True(t, resp.Balance.Equal(decimal.RequireFromString("100")))
	require.NotNil(t, resp.LastEntryAt)
	assert.Equal(t, lastEntry, *resp.LastEntryAt)
}

func TestBalanceResponseOmitsMissingLastEntry(t *testing.T) {
	resp := dto.BalanceFromDomain(&domain.BalanceSnapshot{
		TenantID:    "t1",
		AccountID:   "a1",
		AccountType: domain.AccountTypeGeneral,
		Direction:   domain.DirectionCredit,
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "last_entry_at")
}

func TestLedgerRowsFromDomain(t *testing.T) {
	rows := []domain.LedgerRow{
		{
			Position: 1,
			Kind:     domain.SourceJournal,
			Credit:   decimal.RequireFromString("100"),
			Balance:  decimal.RequireFromString("100"),
			SourceID: "j1",
		},
		{
			Position: 2,
			Kind:     domain.SourceBankPayment,
			Debit:    decimal.RequireFromString("40"),
			Balance:  decimal.RequireFromString("60"),
			SourceID: "bp1",
		},
	}

	resp := dto.LedgerRowsFromDomain(rows)

	require.Len(t, resp, 2)
	assert.Equal(t, "JOURNAL", resp[0].Kind)
	assert.Equal(t, "j1", resp[0].SourceID)
	assert.Equal(t, 2, resp[1].Position)
	assert.True(t, resp[1].Balance.Equal(decimal.RequireFromString("60")))
}

func TestLedgerRowsFromDomainEmpty(t *testing.T) {
	resp := dto.LedgerRowsFromDomain(nil)
	require.NotNil(t, resp)
	assert.Empty(t, resp)
}
