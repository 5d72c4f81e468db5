package model

import "time"

// OptionSide is the trade direction of an option execution.
type OptionSide string

// Option trade sides. UNKNOWN means the export carried no Buy/Sell column;
// the sanitizer then infers direction from the sign of the quantity.
const (
	SideBuy     OptionSide = "BUY"
	SideSell    OptionSide = "SELL"
	SideUnknown OptionSide = "UNKNOWN"
)

// Option represents one option execution. Contracts is the absolute contract
// count; direction is carried by Side. PremiumGross = contracts × price ×
// multiplier and is always non-negative. The decoded fields (Expiry, OptType,
// Strike, CalcMultiplier) are zero values when the symbol did not match the
// OCC pattern; aggregations that need them simply skip such records.
type Option struct {
	OptionID           string     `json:"optionId"`
	Underlying         string     `json:"underlying"`
	Symbol             string     `json:"symbol"`
	Side               OptionSide `json:"side"`
	Contracts          float64    `json:"contracts"`
	TradePrice         float64    `json:"tradePrice"`
	Multiplier         float64    `json:"multiplier"`
	PremiumGross       float64    `json:"premiumGross"`
	Commission         float64    `json:"commission"`
	CommissionCurrency string     `json:"commissionCurrency,omitempty"`
	Currency           string     `json:"currency"`
	DateTime           time.Time  `json:"dateTime"`
	ExecID             string     `json:"execId,omitempty"`
	Expiry             time.Time  `json:"expiry,omitempty"`
	OptType            string     `json:"optType,omitempty"`
	Strike             float64    `json:"strike,omitempty"`
	CalcMultiplier     float64    `json:"calcMultiplier,omitempty"`
	Notional           float64    `json:"notional,omitempty"`
}

// Decoded reports whether the option symbol parsed as a recognized contract.
func (o Option) Decoded() bool {
	return o.OptType == "C" || o.OptType == "P"
}

// OptionsSummary aggregates premium cash effects across all option trades.
// Paid is stored as a positive magnitude; Net = Received − Paid.
type OptionsSummary struct {
	PremiumReceived float64 `json:"premiumReceived"`
	PremiumPaid     float64 `json:"premiumPaid"`
	PremiumNet      float64 `json:"premiumNet"`
	Contracts       float64 `json:"contracts"`
	Commission      float64 `json:"commission"`
}

// OptionUnderlyingStats splits contract counts and notional exposure by
// put/call for one underlying. Only records with a decoded option type
// contribute.
type OptionUnderlyingStats struct {
	Underlying     string  `json:"underlying"`
	PutsContracts  float64 `json:"putsContracts"`
	CallsContracts float64 `json:"callsContracts"`
	PutsNotional   float64 `json:"putsNotional"`
	CallsNotional  float64 `json:"callsNotional"`
	NetNotional    float64 `json:"netNotional"`
	PremiumNet     float64 `json:"premiumNet"`
}
