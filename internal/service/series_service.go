package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/apperrors"
	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
)

// SeriesService builds the interval-bucketed portfolio and cash series out
// of stored trades, transfers, and prices, converting everything into the
// configured base currency.
type SeriesService struct {
	tradeRepo    *repository.TradeRepository
	transferRepo *repository.TransferRepository
	priceRepo    *repository.PriceRepository
	fxService    *FXService
	baseCurrency string
}

func NewSeriesService(
	tradeRepo *repository.TradeRepository,
	transferRepo *repository.TransferRepository,
	priceRepo *repository.PriceRepository,
	fxService *FXService,
	baseCurrency string,
) *SeriesService {
	return &SeriesService{
		tradeRepo:    tradeRepo,
		transferRepo: transferRepo,
		priceRepo:    priceRepo,
		fxService:    fxService,
		baseCurrency: baseCurrency,
	}
}

// PortfolioSeries builds the combined valuation series bucketed at the given
// interval. Each point carries the portfolio value (positions at close plus
// cash) in base currency, the bucket's external transfers in base currency,
// the profit percentage against cumulative contributions, and per-currency
// cash balances both raw and converted.
//
// Days whose price or FX rate is missing are skipped, not failed: the series
// is a best-effort view over whatever market data has been synced so far.
func (s *SeriesService) PortfolioSeries(interval model.Interval, from, to time.Time) ([]model.SeriesPoint, error) {
	if !interval.Valid() {
		return nil, apperrors.ErrInvalidInterval
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, apperrors.ErrInvalidDateRange
	}

	valueByDay, err := s.positionsValueByDay()
	if err != nil {
		return nil, err
	}

	transferByDay, cashBalanceByDay, err := s.transfersAndCashByDay()
	if err != nil {
		return nil, err
	}

	buckets := bucketObservations(valueByDay, transferByDay, cashBalanceByDay, interval, dayBound(from), dayBound(to))

	ends := make([]time.Time, 0, len(buckets))
	for end := range buckets {
		ends = append(ends, end)
	}
	sort.Slice(ends, func(i, j int) bool { return ends[i].Before(ends[j]) })

	var out []model.SeriesPoint
	var cumulativeTransfers, lastPositionsValue float64
	for _, end := range ends {
		bucket := buckets[end]
		cumulativeTransfers += bucket.transfers
		if bucket.hasValue {
			lastPositionsValue = bucket.value
		}

		cash := map[string]float64{}
		cashBase := map[string]float64{}
		var cashTotalBase float64
		for currency, balance := range bucket.cash {
			cash[currency] = balance
			converted, err := s.fxService.Convert(balance, currency, s.baseCurrency, end)
			if errors.Is(err, apperrors.ErrFXRateNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to convert cash balance: %w", err)
			}
			cashBase[currency] = converted
			cashTotalBase += converted
		}

		totalValue := lastPositionsValue + cashTotalBase
		var pnlPct float64
		if cumulativeTransfers > 0 {
			pnlPct = totalValue / cumulativeTransfers * 100
		}

		out = append(out, model.SeriesPoint{
			Date:      end.Format(dayFormat),
			Value:     totalValue,
			Transfers: bucket.transfers,
			PnlPct:    pnlPct,
			Cash:      cash,
			CashBase:  cashBase,
		})
	}
	return out, nil
}

// CashSeries builds per-currency cash balance series bucketed at the given
// interval, from the running sums of all cash-ledger entries.
func (s *SeriesService) CashSeries(interval model.Interval, from, to time.Time) (map[string][]model.CashPoint, error) {
	if !interval.Valid() {
		return nil, apperrors.ErrInvalidInterval
	}

	_, cashBalanceByDay, err := s.transfersAndCashByDay()
	if err != nil {
		return nil, err
	}

	buckets := bucketObservations(nil, nil, cashBalanceByDay, interval, dayBound(from), dayBound(to))

	ends := make([]time.Time, 0, len(buckets))
	for end := range buckets {
		ends = append(ends, end)
	}
	sort.Slice(ends, func(i, j int) bool { return ends[i].Before(ends[j]) })

	out := make(map[string][]model.CashPoint)
	for _, end := range ends {
		for currency, balance := range buckets[end].cash {
			out[currency] = append(out[currency], model.CashPoint{
				Date:    end.Format(dayFormat),
				Balance: balance,
			})
		}
	}
	return out, nil
}

// positionsValueByDay values each ticker's running holdings at every stored
// close, converted to base currency, and sums across tickers per day.
// Tickers with no price history contribute nothing; days with no FX rate
// for the ticker's currency are skipped.
func (s *SeriesService) positionsValueByDay() (map[time.Time]float64, error) {
	trades, err := s.tradeRepo.ListTrades()
	if err != nil {
		return nil, err
	}

	byTicker := make(map[string][]model.Trade)
	currencyOf := make(map[string]string)
	for _, t := range trades {
		if t.Ticker == "" {
			continue
		}
		byTicker[t.Ticker] = append(byTicker[t.Ticker], t)
		if _, ok := currencyOf[t.Ticker]; !ok && t.Currency != "" {
			currencyOf[t.Ticker] = t.Currency
		}
	}

	valueByDay := make(map[time.Time]float64)
	for ticker, tickerTrades := range byTicker {
		prices, err := s.priceRepo.GetPrices(ticker)
		if err != nil {
			return nil, err
		}
		if len(prices) == 0 {
			continue
		}

		sorted := sortTradesByTime(tickerTrades)
		currency := currencyOf[ticker]
		if currency == "" {
			currency = s.baseCurrency
		}

		idx := 0
		var qty float64
		for _, p := range prices {
			priceDay, err := time.Parse(dayFormat, p.Date)
			if err != nil {
				continue
			}
			for idx < len(sorted) && !dayOf(sorted[idx].DateTime).After(priceDay) {
				qty += sorted[idx].Quantity
				idx++
			}
			if qty == 0 {
				continue
			}
			converted, err := s.fxService.Convert(qty*p.Close, currency, s.baseCurrency, priceDay)
			if errors.Is(err, apperrors.ErrFXRateNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to convert position value: %w", err)
			}
			valueByDay[priceDay] += converted
		}
	}
	return valueByDay, nil
}

// transfersAndCashByDay derives two day-keyed views of the cash ledger: the
// external transfers converted to base currency, and the running balance of
// every currency after each day with activity.
func (s *SeriesService) transfersAndCashByDay() (map[time.Time]float64, map[time.Time]map[string]float64, error) {
	transfers, err := s.transferRepo.ListTransfers()
	if err != nil {
		return nil, nil, err
	}

	transferByDay := make(map[time.Time]float64)
	deltaByDay := make(map[time.Time]map[string]float64)
	for _, t := range transfers {
		d := dayOf(t.DateTime)
		if deltaByDay[d] == nil {
			deltaByDay[d] = map[string]float64{}
		}
		deltaByDay[d][t.Currency] += t.Amount

		if t.IsExternal() {
			converted, err := s.fxService.Convert(t.Amount, t.Currency, s.baseCurrency, d)
			if errors.Is(err, apperrors.ErrFXRateNotFound) {
				continue
			}
			if err != nil {
				return nil, nil, fmt.Errorf("failed to convert transfer: %w", err)
			}
			transferByDay[d] += converted
		}
	}

	days := make([]time.Time, 0, len(deltaByDay))
	for d := range deltaByDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	balanceByDay := make(map[time.Time]map[string]float64, len(days))
	running := map[string]float64{}
	for _, d := range days {
		for currency, delta := range deltaByDay[d] {
			running[currency] += delta
		}
		snapshot := make(map[string]float64, len(running))
		for currency, balance := range running {
			snapshot[currency] = balance
		}
		balanceByDay[d] = snapshot
	}
	return transferByDay, balanceByDay, nil
}

// dayBound truncates a range bound to its UTC day, preserving zero values.
func dayBound(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return dayOf(t)
}
