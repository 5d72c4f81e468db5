package model

import "time"

// Dividend represents one dividend payment. Tax is signed the way brokers
// report it (typically negative withholding), so Amount = Gross + Tax is the
// net amount received.
type Dividend struct {
	ActionID          string    `json:"actionId"`
	Ticker            string    `json:"ticker,omitempty"`
	Currency          string    `json:"currency"`
	DateTime          time.Time `json:"dateTime"`
	Gross             float64   `json:"gross"`
	Tax               float64   `json:"tax"`
	Amount            float64   `json:"amount"`
	IssuerCountryCode string    `json:"issuerCountryCode,omitempty"`
}

// DividendDaily is the per-day, per-currency dividend aggregate.
type DividendDaily struct {
	Date     string  `json:"date"`
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// DividendByAsset is the lifetime dividend aggregate per ticker.
type DividendByAsset struct {
	Ticker   string  `json:"ticker"`
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}
