package service

import (
	"math"
	"sort"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

// lotEpsilon is the remaining-quantity threshold below which a FIFO lot is
// discarded, so floating-point fragments never survive as phantom holdings.
const lotEpsilon = 1e-7

// lot is one FIFO parcel: shares bought together at a commission-inclusive
// cost per share, consumed oldest-first on sale.
type lot struct {
	qty          float64
	costPerShare float64
}

// FIFOResult is the outcome of replaying one ticker's trade history:
// what is still held, at what weighted average cost, and the profit
// realized by the sales along the way.
type FIFOResult struct {
	Quantity       float64
	AvgCost        float64
	RealizedProfit float64
}

// sortTradesByTime orders trades for FIFO replay: ascending by execution
// time, records without a timestamp first. The sort is stable so trades
// sharing a timestamp keep their import order.
func sortTradesByTime(trades []model.Trade) []model.Trade {
	sorted := make([]model.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateTime.Before(sorted[j].DateTime)
	})
	return sorted
}

// computeFIFO replays one ticker's trades in execution order under strict
// first-in-first-out lot matching.
//
// Buys push a lot whose cost per share folds in the absolute commission:
// (quantity × price + |commission|) / quantity. Sells consume lots
// oldest-first, realizing taken × (sell price − lot cost) per slice, and
// then subtract the sale's absolute commission from realized profit
// regardless of commission currency. Selling more than the lots cover is
// not an error: matching simply stops when lots run out, so oversold
// quantity contributes no realized profit and holdings never go negative.
func computeFIFO(trades []model.Trade) FIFOResult {
	var lots []lot
	var realized float64

	for _, t := range sortTradesByTime(trades) {
		if t.Quantity > 0 {
			lots = append(lots, lot{
				qty:          t.Quantity,
				costPerShare: (t.Quantity*t.Price + math.Abs(t.Commission)) / t.Quantity,
			})
			continue
		}
		if t.Quantity == 0 {
			continue
		}

		sellQty := -t.Quantity
		for sellQty > 0 && len(lots) > 0 {
			taken := math.Min(lots[0].qty, sellQty)
			realized += taken * (t.Price - lots[0].costPerShare)
			lots[0].qty -= taken
			sellQty -= taken
			if lots[0].qty <= lotEpsilon {
				lots = lots[1:]
			}
		}
		realized -= math.Abs(t.Commission)
	}

	var quantity, cost float64
	for _, l := range lots {
		quantity += l.qty
		cost += l.qty * l.costPerShare
	}

	result := FIFOResult{Quantity: quantity, RealizedProfit: realized}
	if quantity > 0 {
		result.AvgCost = cost / quantity
	}
	return result
}

// tradeCashFlow sums the settlement cash effect of a ticker's trades:
// −(quantity × price) + commission per trade, so buys are negative flows
// and sells positive, both reduced by the (typically negative) commission.
func tradeCashFlow(trades []model.Trade) float64 {
	var flow float64
	for _, t := range trades {
		flow += -(t.Quantity * t.Price) + t.Commission
	}
	return flow
}

// computeBaseCost derives net invested capital: the negative of trade cash
// flow after counting dividends and net option premium as capital already
// returned. A fully-recouped position yields zero or negative base cost.
func computeBaseCost(flow, dividends, optionPremiumNet float64) float64 {
	return -(flow + dividends + optionPremiumNet)
}

// dividendStats totals a ticker's dividends over its lifetime and over the
// trailing 365 days ending at now.
func dividendStats(dividends []model.Dividend, now time.Time) model.DividendStats {
	cutoff := now.Add(-365 * 24 * time.Hour)
	var stats model.DividendStats
	for _, d := range dividends {
		stats.Total += d.Amount
		if !d.DateTime.Before(cutoff) {
			stats.Last12M += d.Amount
		}
	}
	return stats
}

// computeSummary derives the top-line result: profit of current value plus
// returned capital (dividends, option premium) over net external
// contributions, with max(0, contributions) as the percentage base.
func computeSummary(currentValue, transfersNet, dividendsSum, optionsPremiumNet float64) model.Summary {
	base := math.Max(0, transfersNet)
	benefit := (currentValue + transfersNet + dividendsSum + optionsPremiumNet) - base

	summary := model.Summary{Benefit: benefit}
	if base > 0 {
		summary.BenefitPct = benefit / base * 100
	}
	return summary
}
