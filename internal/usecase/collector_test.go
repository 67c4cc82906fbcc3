package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
	"github.com/iho/bookkeeper/internal/usecase/mocks"
)

func TestCollectorCustomerFanOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	sources := mocks.NewMockSourceRepository(ctrl)
	ctx := context.Background()

	bothRoles := []domain.ParticipantRole{domain.RoleDebit, domain.RoleCredit}

	sources.EXPECT().Journals(ctx, "t1", "cust-1", bothRoles).
		Return([]domain.SourceEntry{entry("j1", domain.SourceJournal, domain.RoleDebit, day(1), "10")}, nil)
	sources.EXPECT().BankPayments(ctx, "t1", "cust-1", bothRoles).
		Return([]domain.SourceEntry{entry("bp1", domain.SourceBankPayment, domain.RoleDebit, day(2), "20")}, nil)
	sources.EXPECT().BankReceipts(ctx, "t1", "cust-1", bothRoles).Return(nil, nil)
	sources.EXPECT().CashPayments(ctx, "t1", "cust-1", bothRoles).Return(nil, nil)
	sources.EXPECT().CashReceipts(ctx, "t1", "cust-1", bothRoles).Return(nil, nil)

	collector := usecase.NewCollector(sources)

	entries, err := collector.Collect(ctx, customerRef())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestCollectorBankFanOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	sources := mocks.NewMockSourceRepository(ctrl)
	ctx := context.Background()

	ref := domain.AccountRef{TenantID: "t1", AccountID: "bank-1", Type: domain.AccountTypeBank}
	bankRole := []domain.ParticipantRole{domain.RoleBank}
	bothRoles := []domain.ParticipantRole{domain.RoleDebit, domain.RoleCredit}

	// Bank accounts are referenced via the dedicated bank column on bank
	// vouchers and via the generic columns on cash vouchers. Journals never
	// reference them.
	sources.EXPECT().BankPayments(ctx, "t1", "bank-1", bankRole).Return(nil, nil)
	sources.EXPECT().BankReceipts(ctx, "t1", "bank-1", bankRole).Return(nil, nil)
	sources.EXPECT().CashPayments(ctx, "t1", "bank-1", bothRoles).Return(nil, nil)
	sources.EXPECT().CashReceipts(ctx, "t1", "bank-1", bothRoles).Return(nil, nil)

	collector := usecase.NewCollector(sources)

	if _, err := collector.Collect(ctx, ref); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCollectorCurrencyFanOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	sources := mocks.NewMockSourceRepository(ctrl)
	ctx := context.Background()

	ref := domain.AccountRef{TenantID: "t1", AccountID: "usd", Type: domain.AccountTypeCurrency}

	sources.EXPECT().Sales(ctx, "t1", "usd").
		Return([]domain.SourceEntry{entry("s1", domain.SourceSale, domain.RoleStock, day(1), "100")}, nil)
	sources.EXPECT().Purchases(ctx, "t1", "usd").Return(nil, nil)

	collector := usecase.NewCollector(sources)

	entries, err := collector.Collect(ctx, ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Kind != domain.SourceSale {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestCollectorPropagatesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	sources := mocks.NewMockSourceRepository(ctrl)
	ctx := context.Background()

	ref := domain.AccountRef{TenantID: "t1", AccountID: "gen-1", Type: domain.AccountTypeGeneral}
	queryErr := errors.New("connection reset")

	sources.EXPECT().Journals(ctx, "t1", "gen-1", gomock.Any()).Return(nil, queryErr)

	collector := usecase.NewCollector(sources)

	if _, err := collector.Collect(ctx, ref); !errors.Is(err, queryErr) {
		t.Fatalf("expected wrapped query error, got %v", err)
	}
}
