package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/bookkeeper/internal/adapter/http/dto"
	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
	"github.com/iho/bookkeeper/internal/usecase/mocks"
)

const accountRoute = "/api/v1/tenants/{tenantID}/accounts/{accountType}/{accountID}"

func newTestRouter(balanceUC *usecase.LedgerUseCase, recalc usecase.Recalculator) http.Handler {
	r := chi.NewRouter()
	r.Route(accountRoute, func(r chi.Router) {
		if balanceUC != nil {
			r.Get("/balance", NewBalanceHandler(balanceUC).Get)
			r.Get("/ledger", NewLedgerHandler(balanceUC).List)
		}
		if recalc != nil {
			r.Post("/recalculate", NewRecalcHandler(recalc).Trigger)
		}
	})
	return r
}

func TestBalanceHandlerGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	balanceRepo := mocks.NewMockBalanceRepository(ctrl)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	recalc := mocks.NewMockRecalculator(ctrl)

	ref := domain.AccountRef{TenantID: "t1", AccountID: "cust-1", Type: domain.AccountTypeCustomer}
	balanceRepo.EXPECT().Get(gomock.Any(), ref).Return(&domain.BalanceSnapshot{
		TenantID:    "t1",
		AccountID:   "cust-1",
		AccountType: domain.AccountTypeCustomer,
		TotalDebit:  decimal.RequireFromString("30"),
		TotalCredit: decimal.RequireFromString("100"),
		Balance:     decimal.RequireFromString("70"),
		Direction:   domain.DirectionCredit,
		EntryCount:  2,
		UpdatedAt:   time.Now(),
	}, nil)

	router := newTestRouter(usecase.NewLedgerUseCase(balanceRepo, ledgerRepo, recalc), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/t1/accounts/CUSTOMER/cust-1/balance", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balance.Equal(decimal.RequireFromString("70")) || resp.Direction != "CREDIT" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBalanceHandlerGetInvalidType(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(usecase.NewLedgerUseCase(
		mocks.NewMockBalanceRepository(ctrl),
		mocks.NewMockLedgerRepository(ctrl),
		mocks.NewMockRecalculator(ctrl),
	), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/t1/accounts/SAVINGS/cust-1/balance", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBalanceHandlerGetAccountMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	balanceRepo := mocks.NewMockBalanceRepository(ctrl)
	recalc := mocks.NewMockRecalculator(ctrl)

	// Lazy materialization kicks in on a snapshot miss; the account itself
	// turning out missing maps to 404.
	balanceRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, domain.ErrSnapshotNotFound)
	recalc.EXPECT().Recalculate(gomock.Any(), gomock.Any()).Return(nil, domain.ErrAccountNotFound)

	router := newTestRouter(usecase.NewLedgerUseCase(balanceRepo, mocks.NewMockLedgerRepository(ctrl), recalc), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/t1/accounts/CUSTOMER/ghost/balance", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLedgerHandlerList(t *testing.T) {
	ctrl := gomock.NewController(t)
	balanceRepo := mocks.NewMockBalanceRepository(ctrl)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	recalc := mocks.NewMockRecalculator(ctrl)

	ledgerRepo.EXPECT().ListByAccount(gomock.Any(), gomock.Any(), gomock.Nil(), gomock.Nil()).
		Return([]domain.LedgerRow{
			{Position: 1, Kind: domain.SourceJournal, SourceID: "j1",
				Debit: decimal.Zero, Credit: decimal.RequireFromString("100"),
				CumulativeDebit: decimal.Zero, CumulativeCredit: decimal.RequireFromString("100"),
				Balance: decimal.RequireFromString("100")},
		}, nil)

	router := newTestRouter(usecase.NewLedgerUseCase(balanceRepo, ledgerRepo, recalc), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/t1/accounts/CUSTOMER/cust-1/ledger", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rows []dto.LedgerRowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(rows) != 1 || rows[0].SourceID != "j1" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestLedgerHandlerListBadDateRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := newTestRouter(usecase.NewLedgerUseCase(
		mocks.NewMockBalanceRepository(ctrl),
		mocks.NewMockLedgerRepository(ctrl),
		mocks.NewMockRecalculator(ctrl),
	), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/t1/accounts/CUSTOMER/cust-1/ledger?from=yesterday", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecalcHandlerTrigger(t *testing.T) {
	ctrl := gomock.NewController(t)
	recalc := mocks.NewMockRecalculator(ctrl)

	recalc.EXPECT().Recalculate(gomock.Any(), domain.AccountRef{
		TenantID: "t1", AccountID: "bank-1", Type: domain.AccountTypeBank,
	}).DoAndReturn(func(_ context.Context, ref domain.AccountRef) (*domain.BalanceSnapshot, error) {
		return &domain.BalanceSnapshot{
			TenantID:    ref.TenantID,
			AccountID:   ref.AccountID,
			AccountType: ref.Type,
			Direction:   domain.DirectionCredit,
			UpdatedAt:   time.Now(),
		}, nil
	})

	router := newTestRouter(nil, recalc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants/t1/accounts/BANK/bank-1/recalculate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRecalcHandlerLockConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	recalc := mocks.NewMockRecalculator(ctrl)

	recalc.EXPECT().Recalculate(gomock.Any(), gomock.Any()).Return(nil, domain.ErrLockNotAcquired)

	router := newTestRouter(nil, recalc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants/t1/accounts/BANK/bank-1/recalculate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
