package ledger

import (
	"testing"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

func trade(id, ticker string, qty, price float64) model.Trade {
	return model.Trade{
		TradeID:  id,
		Ticker:   ticker,
		Quantity: qty,
		Price:    price,
		DateTime: time.Date(2024, time.January, 19, 0, 0, 0, 0, time.UTC),
	}
}

// TestFilterTrades_WithinBatch tests that a batch containing the same row
// twice admits it once.
//
// WHY: Brokers re-export overlapping date ranges; the same file row appearing
// twice (or across two files) must never double-book a position.
func TestFilterTrades_WithinBatch(t *testing.T) {
	l := New()

	accepted, dups := l.FilterTrades([]model.Trade{
		trade("X1", "AAPL", 10, 190),
		trade("X1", "AAPL", 10, 190),
		trade("X2", "MSFT", 5, 400),
	})

	if len(accepted) != 2 || dups != 1 {
		t.Fatalf("got %d accepted, %d dups", len(accepted), dups)
	}
	if accepted[0].TradeID != "X1" || accepted[1].TradeID != "X2" {
		t.Errorf("input order not preserved: %+v", accepted)
	}
}

func TestFilterTrades_AcrossBatches(t *testing.T) {
	l := New()

	l.FilterTrades([]model.Trade{trade("X1", "AAPL", 10, 190)})
	accepted, dups := l.FilterTrades([]model.Trade{
		trade("X1", "AAPL", 10, 190),
		trade("X3", "TSLA", 1, 222),
	})

	if len(accepted) != 1 || dups != 1 {
		t.Fatalf("got %d accepted, %d dups", len(accepted), dups)
	}
	if accepted[0].TradeID != "X3" {
		t.Errorf("wrong survivor: %+v", accepted[0])
	}
}

func TestFilterTrades_CompositeKeyCatchesRegeneratedIDs(t *testing.T) {
	l := New()

	l.FilterTrades([]model.Trade{trade("X1", "AAPL", 10, 190)})
	// Same execution re-exported under a fresh id.
	accepted, dups := l.FilterTrades([]model.Trade{trade("Y9", "AAPL", 10, 190)})

	if len(accepted) != 0 || dups != 1 {
		t.Errorf("composite key must catch re-keyed rows: accepted=%v dups=%d", accepted, dups)
	}
}

func TestFilterTrades_EmptyIDFallsBackToKey(t *testing.T) {
	l := New()

	accepted, dups := l.FilterTrades([]model.Trade{
		trade("", "AAPL", 10, 190),
		trade("", "AAPL", 10, 190),
		trade("", "AAPL", -4, 150),
	})

	if len(accepted) != 2 || dups != 1 {
		t.Errorf("got %d accepted, %d dups", len(accepted), dups)
	}
}

func TestSeedTrades(t *testing.T) {
	l := New()
	l.SeedTrades([]model.Trade{trade("X1", "AAPL", 10, 190)})

	accepted, dups := l.FilterTrades([]model.Trade{trade("X1", "AAPL", 10, 190)})
	if len(accepted) != 0 || dups != 1 {
		t.Errorf("seeded trade must count as seen: accepted=%v dups=%d", accepted, dups)
	}
}

func TestFilterTransfers(t *testing.T) {
	l := New()
	l.SeedTransferIDs([]string{"FX:F1:EUR"})

	accepted, dups := l.FilterTransfers([]model.Transfer{
		{TransactionID: "FX:F1:EUR", Amount: 100},
		{TransactionID: "FX:F1:USD", Amount: -110},
		{TransactionID: "FX:F1:USD", Amount: -110},
	})

	if len(accepted) != 1 || dups != 2 {
		t.Fatalf("got %d accepted, %d dups", len(accepted), dups)
	}
	if accepted[0].TransactionID != "FX:F1:USD" {
		t.Errorf("wrong survivor: %+v", accepted[0])
	}
}

func TestFilterDividendsAndOptions(t *testing.T) {
	l := New()

	divs, dupD := l.FilterDividends([]model.Dividend{
		{ActionID: "D1"}, {ActionID: "D1"}, {ActionID: "D2"},
	})
	if len(divs) != 2 || dupD != 1 {
		t.Errorf("dividends: %d accepted, %d dups", len(divs), dupD)
	}

	opts, dupO := l.FilterOptions([]model.Option{
		{OptionID: "OPT:O1"}, {OptionID: "OPT:O1"},
	})
	if len(opts) != 1 || dupO != 1 {
		t.Errorf("options: %d accepted, %d dups", len(opts), dupO)
	}
}

func TestReset(t *testing.T) {
	l := New()
	l.FilterTrades([]model.Trade{trade("X1", "AAPL", 10, 190)})
	l.FilterTransfers([]model.Transfer{{TransactionID: "T1"}})

	l.Reset()

	if accepted, dups := l.FilterTrades([]model.Trade{trade("X1", "AAPL", 10, 190)}); len(accepted) != 1 || dups != 0 {
		t.Errorf("trades not cleared: accepted=%d dups=%d", len(accepted), dups)
	}
	if accepted, _ := l.FilterTransfers([]model.Transfer{{TransactionID: "T1"}}); len(accepted) != 1 {
		t.Error("transfers not cleared")
	}
}
