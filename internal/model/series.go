package model

import "time"

// Interval selects the bucket width of a generated time series.
type Interval string

// Supported series intervals.
const (
	IntervalDay     Interval = "day"
	IntervalWeek    Interval = "week"
	IntervalMonth   Interval = "month"
	IntervalQuarter Interval = "quarter"
	IntervalYear    Interval = "year"
)

// Valid reports whether the interval is one of the supported bucket widths.
func (i Interval) Valid() bool {
	switch i {
	case IntervalDay, IntervalWeek, IntervalMonth, IntervalQuarter, IntervalYear:
		return true
	}
	return false
}

// ValuePoint is a dated portfolio valuation observation.
type ValuePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// FlowPoint is a dated cash flow observation with its origin tag. Only
// external-origin flows enter the capital base of a series.
type FlowPoint struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
	Origin string    `json:"origin,omitempty"`
}

// SeriesPoint is one bucket of the combined portfolio series. Value and
// Transfers are forward-filled; Transfers is the running total of external
// flows and PnlPct the valuation against max(0, Transfers) as capital base.
type SeriesPoint struct {
	Date      string             `json:"date"`
	Value     float64            `json:"value"`
	Transfers float64            `json:"transfers"`
	PnlPct    float64            `json:"pnlPct"`
	Cash      map[string]float64 `json:"cash,omitempty"`
	CashBase  map[string]float64 `json:"cashBase,omitempty"`
}

// CashPoint is one point of a per-currency cash balance series.
type CashPoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

// PricePoint is a stored closing price for one ticker and day.
type PricePoint struct {
	Date        string  `json:"date"`
	Close       float64 `json:"close"`
	Provisional bool    `json:"provisional"`
}
