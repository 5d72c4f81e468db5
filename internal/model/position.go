package model

// Position is the FIFO-derived state of one ticker: what is still held, at
// what weighted average cost, and how much profit has been realized so far.
type Position struct {
	Ticker           string  `json:"ticker"`
	Quantity         float64 `json:"quantity"`
	AvgCost          float64 `json:"avgCost"`
	RealizedProfit   float64 `json:"realizedProfit"`
	BaseCost         float64 `json:"baseCost"`
	BaseCostPerShare float64 `json:"baseCostPerShare"`
	DividendsTotal   float64 `json:"dividendsTotal"`
	Dividends12M     float64 `json:"dividends12m"`
	OptionPremiumNet float64 `json:"optionPremiumNet"`
	CurrentPrice     float64 `json:"currentPrice"`
	CurrentValue     float64 `json:"currentValue"`
	UnrealizedPct    float64 `json:"unrealizedPct"`
	DividendYieldPct float64 `json:"dividendYieldPct"`
	WeightPct        float64 `json:"weightPct"`
}

// DividendStats carries a ticker's lifetime and trailing-12-month dividend
// totals.
type DividendStats struct {
	Total   float64 `json:"total"`
	Last12M float64 `json:"last12m"`
}

// Summary is the top-line portfolio result: profit against net external
// contributions, counting dividends and option premium as returned capital.
type Summary struct {
	Benefit    float64 `json:"benefit"`
	BenefitPct float64 `json:"benefitPct"`
}
