package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
	"github.com/nmoncada/portfolio-tracker-backend/internal/yahoo"
)

// maxConcurrentFetches bounds parallel Yahoo requests during a sync run.
const maxConcurrentFetches = 4

// PriceService keeps stored closes and FX rates current from Yahoo Finance.
// Each ticker is synced from its first trade date forward; provisional
// same-day quotes are refetched on the next run until the session's final
// close lands.
type PriceService struct {
	tradeRepo    *repository.TradeRepository
	transferRepo *repository.TransferRepository
	priceRepo    *repository.PriceRepository
	fxRateRepo   *repository.FXRateRepository
	client       CloseFetcher
	baseCurrency string
}

// CloseFetcher is the slice of the Yahoo Finance client this service needs.
type CloseFetcher interface {
	GetDailyCloses(symbol string, startDate, endDate time.Time) (yahoo.CloseSeries, error)
}

func NewPriceService(
	tradeRepo *repository.TradeRepository,
	transferRepo *repository.TransferRepository,
	priceRepo *repository.PriceRepository,
	fxRateRepo *repository.FXRateRepository,
	client CloseFetcher,
	baseCurrency string,
) *PriceService {
	return &PriceService{
		tradeRepo:    tradeRepo,
		transferRepo: transferRepo,
		priceRepo:    priceRepo,
		fxRateRepo:   fxRateRepo,
		client:       client,
		baseCurrency: baseCurrency,
	}
}

// SyncAll refreshes closes for every traded ticker and FX rates for every
// currency seen in the ledger, fetching tickers concurrently. Per-ticker
// failures are logged and skipped so one delisted symbol cannot starve the
// rest; the returned map counts stored rows per ticker or pair.
func (s *PriceService) SyncAll(ctx context.Context) (map[string]int, error) {
	trades, err := s.tradeRepo.ListTrades()
	if err != nil {
		return nil, err
	}

	firstTradeDay := make(map[string]time.Time)
	for _, t := range trades {
		ticker := strings.ToUpper(strings.TrimSpace(t.Ticker))
		if ticker == "" {
			continue
		}
		day := dayOf(t.DateTime)
		if first, ok := firstTradeDay[ticker]; !ok || day.Before(first) {
			firstTradeDay[ticker] = day
		}
	}

	summary := make(map[string]int)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for ticker, start := range firstTradeDay {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			inserted, err := s.syncTicker(ticker, start)
			if err != nil {
				log.Printf("price sync for %s failed: %v", ticker, err)
				return nil
			}
			mu.Lock()
			summary[ticker] = inserted
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fxSummary, err := s.syncFXRates(trades)
	if err != nil {
		return nil, err
	}
	for pair, inserted := range fxSummary {
		summary[pair] = inserted
	}
	return summary, nil
}

// syncTicker fetches and stores the missing tail of one ticker's close
// history. A provisional last entry is refetched from its own date; a final
// one from the following day, stepped back three days to heal gaps from
// late corrections.
func (s *PriceService) syncTicker(ticker string, firstTrade time.Time) (int, error) {
	today := dayOf(time.Now())

	fetchFrom := firstTrade
	existing, err := s.priceRepo.GetPrices(ticker)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		last := existing[len(existing)-1]
		lastDay, err := time.Parse(dayFormat, last.Date)
		if err != nil {
			lastDay = today
		}
		if last.Provisional {
			fetchFrom = lastDay
		} else {
			fetchFrom = lastDay.AddDate(0, 0, 1)
		}
		if fetchFrom.After(today) {
			return 0, nil
		}
		if fetchFrom.After(firstTrade) {
			if backstep := fetchFrom.AddDate(0, 0, -3); backstep.After(firstTrade) {
				fetchFrom = backstep
			} else {
				fetchFrom = firstTrade
			}
		}
	}

	series, err := s.client.GetDailyCloses(ticker, fetchFrom, today)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, p := range series.Points {
		day := dayOf(p.Date)
		provisional := !day.Before(today)
		if err := s.priceRepo.UpsertPrice(ticker, day, p.Close, provisional); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// syncFXRates refreshes BASEQUOTE=X rates for every non-base currency seen
// on trades or transfers, each from the currency's first appearance.
func (s *PriceService) syncFXRates(trades []model.Trade) (map[string]int, error) {
	transfers, err := s.transferRepo.ListTransfers()
	if err != nil {
		return nil, err
	}

	firstSeen := make(map[string]time.Time)
	note := func(currency string, at time.Time) {
		currency = strings.ToUpper(strings.TrimSpace(currency))
		if currency == "" || currency == s.baseCurrency {
			return
		}
		day := dayOf(at)
		if first, ok := firstSeen[currency]; !ok || day.Before(first) {
			firstSeen[currency] = day
		}
	}
	for _, t := range trades {
		note(t.Currency, t.DateTime)
	}
	for _, t := range transfers {
		note(t.Currency, t.DateTime)
	}

	today := dayOf(time.Now())
	summary := make(map[string]int)
	for currency, start := range firstSeen {
		symbol := s.baseCurrency + currency + "=X"
		series, err := s.client.GetDailyCloses(symbol, start, today)
		if err != nil {
			log.Printf("fx sync for %s/%s failed: %v", s.baseCurrency, currency, err)
			continue
		}
		inserted := 0
		for _, p := range series.Points {
			if err := s.fxRateRepo.UpsertRate(s.baseCurrency, currency, dayOf(p.Date), p.Close); err != nil {
				return nil, err
			}
			inserted++
		}
		summary[s.baseCurrency+"/"+currency] = inserted
	}
	return summary, nil
}

// History returns the stored close history for one ticker.
func (s *PriceService) History(ticker string) ([]model.PricePoint, error) {
	return s.priceRepo.GetPrices(strings.ToUpper(strings.TrimSpace(ticker)))
}
