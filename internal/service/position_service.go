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

// PositionService assembles the per-ticker position view: FIFO holdings and
// realized profit, net invested capital, dividend statistics, option premium
// attribution, and current valuation from the latest stored closes.
type PositionService struct {
	tradeRepo    *repository.TradeRepository
	dividendRepo *repository.DividendRepository
	optionRepo   *repository.OptionRepository
	priceRepo    *repository.PriceRepository
	policy       CommissionPolicy
}

func NewPositionService(
	tradeRepo *repository.TradeRepository,
	dividendRepo *repository.DividendRepository,
	optionRepo *repository.OptionRepository,
	priceRepo *repository.PriceRepository,
	policy CommissionPolicy,
) *PositionService {
	return &PositionService{
		tradeRepo:    tradeRepo,
		dividendRepo: dividendRepo,
		optionRepo:   optionRepo,
		priceRepo:    priceRepo,
		policy:       policy,
	}
}

// Positions computes the position table as of now, sorted by ticker.
// Tickers whose trades have fully closed out still appear, carrying their
// realized profit and income history with zero quantity.
func (s *PositionService) Positions(now time.Time) ([]model.Position, error) {
	trades, err := s.tradeRepo.ListTrades()
	if err != nil {
		return nil, err
	}
	dividends, err := s.dividendRepo.ListDividends()
	if err != nil {
		return nil, err
	}
	options, err := s.optionRepo.ListOptions()
	if err != nil {
		return nil, err
	}

	tradesByTicker := make(map[string][]model.Trade)
	for _, t := range trades {
		if t.Ticker == "" {
			continue
		}
		tradesByTicker[t.Ticker] = append(tradesByTicker[t.Ticker], t)
	}
	dividendsByTicker := make(map[string][]model.Dividend)
	for _, d := range dividends {
		dividendsByTicker[d.Ticker] = append(dividendsByTicker[d.Ticker], d)
	}
	premiumByUnderlying := premiumNetByUnderlying(options, s.policy)

	var portfolioTotal float64
	positions := make([]model.Position, 0, len(tradesByTicker))
	for ticker, tickerTrades := range tradesByTicker {
		fifo := computeFIFO(tickerTrades)
		divStats := dividendStats(dividendsByTicker[ticker], now)
		premiumNet := premiumByUnderlying[ticker]
		flow := tradeCashFlow(tickerTrades)
		baseCost := computeBaseCost(flow, divStats.Total, premiumNet)

		currentPrice, err := s.priceRepo.GetLatestClose(ticker, now)
		if err != nil && !errors.Is(err, apperrors.ErrPriceNotFound) {
			return nil, fmt.Errorf("failed to price position: %w", err)
		}

		p := model.Position{
			Ticker:           ticker,
			Quantity:         fifo.Quantity,
			AvgCost:          fifo.AvgCost,
			RealizedProfit:   fifo.RealizedProfit,
			BaseCost:         baseCost,
			DividendsTotal:   divStats.Total,
			Dividends12M:     divStats.Last12M,
			OptionPremiumNet: premiumNet,
			CurrentPrice:     currentPrice,
			CurrentValue:     fifo.Quantity * currentPrice,
		}
		if fifo.Quantity > 0 {
			p.BaseCostPerShare = baseCost / fifo.Quantity
		}
		if fifo.AvgCost > 0 {
			p.UnrealizedPct = (currentPrice - fifo.AvgCost) / fifo.AvgCost * 100
			if fifo.Quantity > 0 {
				p.DividendYieldPct = (divStats.Last12M / fifo.Quantity) / fifo.AvgCost * 100
			}
		}
		if p.CurrentValue > 0 {
			portfolioTotal += p.CurrentValue
		}
		positions = append(positions, p)
	}

	for i := range positions {
		if portfolioTotal > 0 {
			positions[i].WeightPct = positions[i].CurrentValue / portfolioTotal * 100
		}
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].Ticker < positions[j].Ticker })
	return positions, nil
}

// Summary computes the top-line portfolio result: current value of all
// positions against net external contributions, with dividends and option
// premium counted as returned capital.
func (s *PositionService) Summary(now time.Time, transfers []model.Transfer) (model.Summary, error) {
	positions, err := s.Positions(now)
	if err != nil {
		return model.Summary{}, err
	}
	options, err := s.optionRepo.ListOptions()
	if err != nil {
		return model.Summary{}, err
	}
	dividends, err := s.dividendRepo.ListDividends()
	if err != nil {
		return model.Summary{}, err
	}

	var currentValue float64
	for _, p := range positions {
		currentValue += p.CurrentValue
	}
	var transfersNet float64
	for _, t := range transfers {
		if t.IsExternal() {
			transfersNet += t.Amount
		}
	}
	var dividendsSum float64
	for _, d := range dividends {
		dividendsSum += d.Amount
	}
	optionsNet := aggregateOptionsSummary(options, s.policy).PremiumNet

	return computeSummary(currentValue, transfersNet, dividendsSum, optionsNet), nil
}
