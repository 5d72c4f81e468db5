// Package model defines the persisted domain records of the portfolio
// engine: trades, transfers, dividends, options, and the derived view
// types the services assemble from them.
package model

import (
	"fmt"
	"time"
)

// Trade is one stock execution. Quantity is signed: positive buys,
// negative sells. Commission follows the broker convention of being
// negative.
type Trade struct {
	TradeID            string    `json:"tradeId"`
	Ticker             string    `json:"ticker"`
	Quantity           float64   `json:"quantity"`
	Price              float64   `json:"price"`
	DateTime           time.Time `json:"dateTime"`
	Commission         float64   `json:"commission"`
	CommissionCurrency string    `json:"commissionCurrency,omitempty"`
	Currency           string    `json:"currency"`
	ISIN               string    `json:"isin,omitempty"`
	AssetClass         string    `json:"assetClass,omitempty"`
}

// Key is the composite fallback identity used to deduplicate trades whose
// export row carried no execution id.
func (t Trade) Key() string {
	return fmt.Sprintf("%s|%g|%g", t.Ticker, t.Quantity, t.Price)
}
