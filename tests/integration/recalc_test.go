package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	postgresrepo "github.com/iho/bookkeeper/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/bookkeeper/internal/adapter/repository/redis"
	"github.com/iho/bookkeeper/internal/domain"
	infraredis "github.com/iho/bookkeeper/internal/infrastructure/redis"
	"github.com/iho/bookkeeper/internal/usecase"
	"github.com/iho/bookkeeper/tests/testutil"
)

func newRecalcUseCase(t *testing.T, db *testutil.TestDB) *usecase.RecalculationUseCase {
	t.Helper()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(context.Background(), redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	logger := zerolog.Nop()

	return usecase.NewRecalculationUseCase(usecase.RecalculationConfig{
		Accounts:    postgresrepo.NewAccountRepository(db.Pool),
		Sources:     postgresrepo.NewSourceRepository(db.Pool),
		LedgerRepo:  postgresrepo.NewLedgerRepository(db.Pool),
		BalanceRepo: postgresrepo.NewBalanceRepository(db.Pool),
		RunRepo:     postgresrepo.NewRunRepository(db.Pool),
		TxManager:   postgresrepo.NewTxManager(db.Pool),
		Locker:      redisrepo.NewAccountLocker(redisClient),
		Retrier:     postgresrepo.NewRetrier(logger),
		IDGen:       postgresrepo.NewULIDGenerator(),
		Logger:      logger,
	})
}

func TestRecalculationEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	uc := newRecalcUseCase(t, db)
	ledgerRepo := postgresrepo.NewLedgerRepository(db.Pool)

	customer := db.SeedAccount(ctx, "t1", domain.AccountTypeCustomer, "acme")
	general := db.SeedAccount(ctx, "t1", domain.AccountTypeGeneral, "sales revenue")
	bank := db.SeedAccount(ctx, "t1", domain.AccountTypeBank, "main account")

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	// Invoice the customer, then receive part of it through the bank.
	db.SeedJournal(ctx, "t1", general.AccountID, customer.AccountID, monday, decimal.RequireFromString("100"))
	db.SeedBankPayment(ctx, "t1", customer.AccountID, general.AccountID, bank.AccountID, tuesday, decimal.RequireFromString("40"))

	snapshot, err := uc.Recalculate(ctx, customer)
	if err != nil {
		t.Fatalf("recalculate failed: %v", err)
	}

	// Journal CR credits 100; the bank payment's DR column credits another 40.
	if !snapshot.Balance.Equal(decimal.RequireFromString("140")) {
		t.Fatalf("balance = %s, want 140", snapshot.Balance)
	}
	if snapshot.Direction != domain.DirectionCredit {
		t.Fatalf("direction = %s, want CREDIT", snapshot.Direction)
	}

	rows, err := ledgerRepo.ListByAccount(ctx, customer, nil, nil)
	if err != nil {
		t.Fatalf("list ledger failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(rows))
	}
	if rows[0].Position != 1 || rows[1].Position != 2 {
		t.Fatalf("positions out of order: %d, %d", rows[0].Position, rows[1].Position)
	}

	// Rebuilding from the same inputs must be byte-identical.
	second, err := uc.Recalculate(ctx, customer)
	if err != nil {
		t.Fatalf("second recalculate failed: %v", err)
	}
	if !second.Balance.Equal(snapshot.Balance) || second.EntryCount != snapshot.EntryCount {
		t.Fatalf("rebuild diverged: %s/%d vs %s/%d",
			second.Balance, second.EntryCount, snapshot.Balance, snapshot.EntryCount)
	}

	rebuilt, err := ledgerRepo.ListByAccount(ctx, customer, nil, nil)
	if err != nil {
		t.Fatalf("list rebuilt ledger failed: %v", err)
	}
	for i := range rows {
		if rows[i].SourceID != rebuilt[i].SourceID || !rows[i].Balance.Equal(rebuilt[i].Balance) {
			t.Fatalf("row %d diverged between rebuilds", i)
		}
	}
}

func TestRecalculationEmptyWindowNotObservable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	uc := newRecalcUseCase(t, db)

	currency := db.SeedAccount(ctx, "t1", domain.AccountTypeCurrency, "USD")
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	db.SeedPurchase(ctx, "t1", currency.AccountID, date, decimal.RequireFromString("500"))
	db.SeedSale(ctx, "t1", currency.AccountID, date.AddDate(0, 0, 1), decimal.RequireFromString("200"))

	snapshot, err := uc.Recalculate(ctx, currency)
	if err != nil {
		t.Fatalf("recalculate failed: %v", err)
	}

	if !snapshot.Balance.Equal(decimal.RequireFromString("300")) {
		t.Fatalf("balance = %s, want 300", snapshot.Balance)
	}
	if snapshot.Direction != domain.DirectionDebit {
		t.Fatalf("direction = %s, want DEBIT for currency positions", snapshot.Direction)
	}
}

func TestRecalculationDeletedSourcesResetState(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	uc := newRecalcUseCase(t, db)
	ledgerRepo := postgresrepo.NewLedgerRepository(db.Pool)

	general := db.SeedAccount(ctx, "t1", domain.AccountTypeGeneral, "expenses")
	other := db.SeedAccount(ctx, "t1", domain.AccountTypeGeneral, "payables")
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	journalID := db.SeedJournal(ctx, "t1", general.AccountID, other.AccountID, date, decimal.RequireFromString("75"))

	if _, err := uc.Recalculate(ctx, general); err != nil {
		t.Fatalf("recalculate failed: %v", err)
	}

	// Remove the only source entry and rebuild: the old materialization must
	// be swept, not left stale.
	if _, err := db.Pool.Exec(ctx, "DELETE FROM journals WHERE id = $1", journalID); err != nil {
		t.Fatalf("failed to delete journal: %v", err)
	}

	snapshot, err := uc.Recalculate(ctx, general)
	if err != nil {
		t.Fatalf("recalculate after delete failed: %v", err)
	}
	if !snapshot.Balance.IsZero() || snapshot.EntryCount != 0 {
		t.Fatalf("expected zeroed snapshot, got balance=%s count=%d", snapshot.Balance, snapshot.EntryCount)
	}

	rows, err := ledgerRepo.ListByAccount(ctx, general, nil, nil)
	if err != nil {
		t.Fatalf("list ledger failed: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected swept ledger, got %d rows", len(rows))
	}
}
