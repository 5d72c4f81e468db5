package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
	"github.com/nmoncada/portfolio-tracker-backend/internal/testutil"
	"github.com/nmoncada/portfolio-tracker-backend/internal/yahoo"
)

type fetchCall struct {
	symbol string
	start  time.Time
	end    time.Time
}

// stubFetcher records fetch calls and serves canned series per symbol.
type stubFetcher struct {
	mu     sync.Mutex
	calls  []fetchCall
	series map[string][]yahoo.ClosePoint
}

func (f *stubFetcher) GetDailyCloses(symbol string, startDate, endDate time.Time) (yahoo.CloseSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fetchCall{symbol: symbol, start: startDate, end: endDate})
	return yahoo.CloseSeries{Symbol: symbol, Points: f.series[symbol]}, nil
}

func (f *stubFetcher) callFor(symbol string) (fetchCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c.symbol == symbol {
			return c, true
		}
	}
	return fetchCall{}, false
}

func TestPriceService_SyncAllStoresClosesAndRates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	priceRepo := repository.NewPriceRepository(db)
	fxRateRepo := repository.NewFXRateRepository(db)

	today := dayOf(time.Now())
	tradeDay := today.AddDate(0, 0, -5)
	testutil.NewTrade("AAPL").WithCurrency("USD").WithDateTime(tradeDay).Build(t, db)

	fetcher := &stubFetcher{series: map[string][]yahoo.ClosePoint{
		"AAPL": {
			{Date: today.AddDate(0, 0, -1), Close: 180},
			{Date: today, Close: 181},
		},
		"EURUSD=X": {
			{Date: today.AddDate(0, 0, -1), Close: 1.09},
		},
	}}

	svc := NewPriceService(
		repository.NewTradeRepository(db),
		repository.NewTransferRepository(db),
		priceRepo,
		fxRateRepo,
		fetcher,
		"EUR",
	)

	summary, err := svc.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}
	if summary["AAPL"] != 2 {
		t.Errorf("summary[AAPL] = %d, want 2", summary["AAPL"])
	}
	if summary["EUR/USD"] != 1 {
		t.Errorf("summary[EUR/USD] = %d, want 1", summary["EUR/USD"])
	}

	call, ok := fetcher.callFor("AAPL")
	if !ok {
		t.Fatal("no fetch call for AAPL")
	}
	if !call.start.Equal(tradeDay) {
		t.Errorf("AAPL fetch start = %v, want first trade day %v", call.start, tradeDay)
	}

	// The USD currency on the trade triggers an EURUSD=X fetch.
	if _, ok := fetcher.callFor("EURUSD=X"); !ok {
		t.Fatal("no fetch call for EURUSD=X")
	}

	prices, err := priceRepo.GetPrices("AAPL")
	if err != nil {
		t.Fatalf("GetPrices() error = %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("stored prices = %d, want 2", len(prices))
	}
	if prices[0].Provisional {
		t.Error("yesterday's close stored as provisional")
	}
	if !prices[1].Provisional {
		t.Error("today's close not stored as provisional")
	}

	rate, err := fxRateRepo.GetRateOn("EUR", "USD", today)
	if err != nil {
		t.Fatalf("GetRateOn() error = %v", err)
	}
	if rate != 1.09 {
		t.Errorf("stored rate = %v, want 1.09", rate)
	}
}

// WHY: a same-day quote is provisional and must be refetched on the next
// run, with a few days of overlap so late corrections heal silently.
func TestPriceService_ProvisionalLastEntryRefetched(t *testing.T) {
	db := testutil.SetupTestDB(t)
	priceRepo := repository.NewPriceRepository(db)

	today := dayOf(time.Now())
	tradeDay := today.AddDate(0, 0, -30)
	testutil.NewTrade("MSFT").WithDateTime(tradeDay).Build(t, db)

	// Stored history ending in a provisional quote from yesterday.
	if err := priceRepo.UpsertPrice("MSFT", today.AddDate(0, 0, -2), 400, false); err != nil {
		t.Fatalf("UpsertPrice() error = %v", err)
	}
	if err := priceRepo.UpsertPrice("MSFT", today.AddDate(0, 0, -1), 401, true); err != nil {
		t.Fatalf("UpsertPrice() error = %v", err)
	}

	fetcher := &stubFetcher{series: map[string][]yahoo.ClosePoint{
		"MSFT": {{Date: today.AddDate(0, 0, -1), Close: 402}},
	}}
	svc := NewPriceService(
		repository.NewTradeRepository(db),
		repository.NewTransferRepository(db),
		priceRepo,
		repository.NewFXRateRepository(db),
		fetcher,
		"USD",
	)

	if _, err := svc.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}

	call, ok := fetcher.callFor("MSFT")
	if !ok {
		t.Fatal("no fetch call for MSFT")
	}
	// Provisional at D-1 steps back three days to D-4.
	want := today.AddDate(0, 0, -4)
	if !call.start.Equal(want) {
		t.Errorf("fetch start = %v, want %v", call.start, want)
	}

	prices, err := priceRepo.GetPrices("MSFT")
	if err != nil {
		t.Fatalf("GetPrices() error = %v", err)
	}
	last := prices[len(prices)-1]
	if last.Close != 402 || last.Provisional {
		t.Errorf("last stored close = %+v, want final 402", last)
	}
}
