package service

import (
	"sort"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
)

// DividendService exposes the aggregated dividend views.
type DividendService struct {
	dividendRepo *repository.DividendRepository
}

func NewDividendService(dividendRepo *repository.DividendRepository) *DividendService {
	return &DividendService{dividendRepo: dividendRepo}
}

// List retrieves all dividends, oldest first.
func (s *DividendService) List() ([]model.Dividend, error) {
	return s.dividendRepo.ListDividends()
}

// Daily aggregates net dividend amounts per day and currency, ascending by
// date then currency.
func (s *DividendService) Daily() ([]model.DividendDaily, error) {
	dividends, err := s.dividendRepo.ListDividends()
	if err != nil {
		return nil, err
	}

	type key struct {
		date     string
		currency string
	}
	totals := make(map[key]float64)
	for _, d := range dividends {
		totals[key{dayOf(d.DateTime).Format(dayFormat), d.Currency}] += d.Amount
	}

	out := make([]model.DividendDaily, 0, len(totals))
	for k, amount := range totals {
		out = append(out, model.DividendDaily{Date: k.date, Currency: k.currency, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Currency < out[j].Currency
	})
	return out, nil
}

// ByAsset aggregates lifetime net dividends per ticker, sorted by ticker.
// Rows without a ticker are skipped; the currency shown is the first seen
// for the ticker.
func (s *DividendService) ByAsset() ([]model.DividendByAsset, error) {
	dividends, err := s.dividendRepo.ListDividends()
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*model.DividendByAsset)
	for _, d := range dividends {
		if d.Ticker == "" {
			continue
		}
		agg, ok := totals[d.Ticker]
		if !ok {
			agg = &model.DividendByAsset{Ticker: d.Ticker, Currency: d.Currency}
			totals[d.Ticker] = agg
		}
		agg.Amount += d.Amount
	}

	out := make([]model.DividendByAsset, 0, len(totals))
	for _, agg := range totals {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}
