package repository_test

import (
	"testing"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
	"github.com/nmoncada/portfolio-tracker-backend/internal/testutil"
)

func TestTradeRepository_InsertAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradeRepository(db)

	trades := []model.Trade{
		{
			TradeID:  "t2",
			Ticker:   "AAPL",
			Quantity: 5,
			Price:    190,
			Currency: "USD",
			DateTime: time.Date(2024, 2, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			TradeID:    "t1",
			Ticker:     "AAPL",
			Quantity:   10,
			Price:      180,
			Commission: -1,
			Currency:   "USD",
			DateTime:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}
	if err := repo.InsertTrades(trades); err != nil {
		t.Fatalf("InsertTrades() error = %v", err)
	}

	got, err := repo.ListTrades()
	if err != nil {
		t.Fatalf("ListTrades() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListTrades() returned %d trades, want 2", len(got))
	}

	// Oldest first regardless of insert order.
	if got[0].TradeID != "t1" || got[1].TradeID != "t2" {
		t.Errorf("ListTrades() order = [%s, %s], want [t1, t2]", got[0].TradeID, got[1].TradeID)
	}
	if got[0].Commission != -1 {
		t.Errorf("Commission = %v, want -1", got[0].Commission)
	}
	if !got[0].DateTime.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("DateTime = %v, round trip lost the execution time", got[0].DateTime)
	}
}

// WHY: the UNIQUE constraint is the backstop behind the dedup ledger; an
// insert that slips past the ledger must not fail the batch or create a
// second row.
func TestTradeRepository_DuplicateTradeIDIgnored(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradeRepository(db)

	trade := model.Trade{
		TradeID:  "t1",
		Ticker:   "MSFT",
		Quantity: 3,
		Price:    400,
		Currency: "USD",
		DateTime: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	if err := repo.InsertTrades([]model.Trade{trade, trade}); err != nil {
		t.Fatalf("InsertTrades() error = %v", err)
	}

	testutil.AssertRowCount(t, db, "trades", 1)
}

// WHY: some exports carry no trade id at all; the composite key then stands
// in as the stored identifier so re-imports still collide.
func TestTradeRepository_EmptyIDFallsBackToKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradeRepository(db)

	trade := model.Trade{
		Ticker:   "MSFT",
		Quantity: 3,
		Price:    400,
		Currency: "USD",
		DateTime: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
	if err := repo.InsertTrades([]model.Trade{trade}); err != nil {
		t.Fatalf("InsertTrades() error = %v", err)
	}

	got, err := repo.ListTrades()
	if err != nil {
		t.Fatalf("ListTrades() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListTrades() returned %d trades, want 1", len(got))
	}
	if got[0].TradeID != trade.Key() {
		t.Errorf("TradeID = %q, want composite key %q", got[0].TradeID, trade.Key())
	}
}

func TestTradeRepository_DeleteAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradeRepository(db)

	testutil.CreateTrade(t, db, "AAPL", 10, 180, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	testutil.AssertRowCount(t, db, "trades", 1)

	if err := repo.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	testutil.AssertRowCount(t, db, "trades", 0)
}
