package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
	"github.com/nmoncada/portfolio-tracker-backend/internal/repository"
)

// TradeBuilder builds test trades with sensible defaults.
type TradeBuilder struct {
	trade model.Trade
}

// NewTrade creates a builder for a buy of 10 shares at 100.
func NewTrade(ticker string) *TradeBuilder {
	return &TradeBuilder{
		trade: model.Trade{
			TradeID:    uuid.NewString(),
			Ticker:     ticker,
			Quantity:   10,
			Price:      100,
			Currency:   "USD",
			AssetClass: "STK",
			DateTime:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}
}

func (b *TradeBuilder) WithTradeID(id string) *TradeBuilder {
	b.trade.TradeID = id
	return b
}

func (b *TradeBuilder) WithQuantity(qty float64) *TradeBuilder {
	b.trade.Quantity = qty
	return b
}

func (b *TradeBuilder) WithPrice(price float64) *TradeBuilder {
	b.trade.Price = price
	return b
}

func (b *TradeBuilder) WithCommission(commission float64) *TradeBuilder {
	b.trade.Commission = commission
	return b
}

func (b *TradeBuilder) WithCurrency(currency string) *TradeBuilder {
	b.trade.Currency = currency
	return b
}

func (b *TradeBuilder) WithDateTime(dt time.Time) *TradeBuilder {
	b.trade.DateTime = dt
	return b
}

// Build inserts the trade and returns it.
func (b *TradeBuilder) Build(t *testing.T, db *sql.DB) model.Trade {
	t.Helper()

	repo := repository.NewTradeRepository(db)
	if err := repo.InsertTrades([]model.Trade{b.trade}); err != nil {
		t.Fatalf("Failed to insert test trade: %v", err)
	}
	return b.trade
}

// CreateTrade inserts a trade with the given core fields.
func CreateTrade(t *testing.T, db *sql.DB, ticker string, qty, price float64, dt time.Time) model.Trade {
	t.Helper()
	return NewTrade(ticker).WithQuantity(qty).WithPrice(price).WithDateTime(dt).Build(t, db)
}

// TransferBuilder builds test ledger rows with sensible defaults.
type TransferBuilder struct {
	transfer model.Transfer
}

// NewTransfer creates a builder for an external deposit of 1000 USD.
func NewTransfer(amount float64) *TransferBuilder {
	return &TransferBuilder{
		transfer: model.Transfer{
			TransactionID: uuid.NewString(),
			Amount:        amount,
			Currency:      "USD",
			Origin:        model.OriginExternal,
			DateTime:      time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		},
	}
}

func (b *TransferBuilder) WithTransactionID(id string) *TransferBuilder {
	b.transfer.TransactionID = id
	return b
}

func (b *TransferBuilder) WithCurrency(currency string) *TransferBuilder {
	b.transfer.Currency = currency
	return b
}

func (b *TransferBuilder) WithOrigin(origin string) *TransferBuilder {
	b.transfer.Origin = origin
	return b
}

func (b *TransferBuilder) WithDateTime(dt time.Time) *TransferBuilder {
	b.transfer.DateTime = dt
	return b
}

// Internal marks the row as an internal cash effect, keeping it out of the
// external capital base.
func (b *TransferBuilder) Internal() *TransferBuilder {
	b.transfer.Origin = model.OriginInternal
	return b
}

// Build inserts the transfer and returns it.
func (b *TransferBuilder) Build(t *testing.T, db *sql.DB) model.Transfer {
	t.Helper()

	repo := repository.NewTransferRepository(db)
	if err := repo.InsertTransfers([]model.Transfer{b.transfer}); err != nil {
		t.Fatalf("Failed to insert test transfer: %v", err)
	}
	return b.transfer
}

// DividendBuilder builds test dividends with sensible defaults.
type DividendBuilder struct {
	dividend model.Dividend
}

// NewDividend creates a builder for a 24 gross / -3.6 tax payment.
func NewDividend(ticker string) *DividendBuilder {
	return &DividendBuilder{
		dividend: model.Dividend{
			ActionID: uuid.NewString(),
			Ticker:   ticker,
			Currency: "USD",
			Gross:    24,
			Tax:      -3.6,
			Amount:   20.4,
			DateTime: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
	}
}

func (b *DividendBuilder) WithAmount(gross, tax float64) *DividendBuilder {
	b.dividend.Gross = gross
	b.dividend.Tax = tax
	b.dividend.Amount = gross + tax
	return b
}

func (b *DividendBuilder) WithCurrency(currency string) *DividendBuilder {
	b.dividend.Currency = currency
	return b
}

func (b *DividendBuilder) WithDateTime(dt time.Time) *DividendBuilder {
	b.dividend.DateTime = dt
	return b
}

// Build inserts the dividend and returns it.
func (b *DividendBuilder) Build(t *testing.T, db *sql.DB) model.Dividend {
	t.Helper()

	repo := repository.NewDividendRepository(db)
	if err := repo.InsertDividends([]model.Dividend{b.dividend}); err != nil {
		t.Fatalf("Failed to insert test dividend: %v", err)
	}
	return b.dividend
}

// OptionBuilder builds test option executions with sensible defaults.
type OptionBuilder struct {
	option model.Option
}

// NewOption creates a builder for one sold put on the given underlying.
func NewOption(underlying string) *OptionBuilder {
	return &OptionBuilder{
		option: model.Option{
			OptionID:       uuid.NewString(),
			Underlying:     underlying,
			Symbol:         fmt.Sprintf("%s 240621P00100000", underlying),
			Side:           model.SideSell,
			Contracts:      1,
			TradePrice:     3,
			Multiplier:     100,
			PremiumGross:   300,
			Currency:       "USD",
			DateTime:       time.Date(2024, 2, 1, 15, 30, 0, 0, time.UTC),
			Expiry:         time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
			OptType:        "P",
			Strike:         100,
			CalcMultiplier: 100,
			Notional:       10000,
		},
	}
}

func (b *OptionBuilder) WithSide(side model.OptionSide) *OptionBuilder {
	b.option.Side = side
	return b
}

func (b *OptionBuilder) WithPremium(contracts, price, multiplier float64) *OptionBuilder {
	b.option.Contracts = contracts
	b.option.TradePrice = price
	b.option.Multiplier = multiplier
	b.option.PremiumGross = contracts * price * multiplier
	return b
}

func (b *OptionBuilder) WithCommission(commission float64, currency string) *OptionBuilder {
	b.option.Commission = commission
	b.option.CommissionCurrency = currency
	return b
}

// Undecoded drops the decoded contract fields, mimicking a symbol that did
// not match the OCC pattern.
func (b *OptionBuilder) Undecoded() *OptionBuilder {
	b.option.Expiry = time.Time{}
	b.option.OptType = ""
	b.option.Strike = 0
	b.option.CalcMultiplier = 0
	b.option.Notional = 0
	return b
}

// Build inserts the option and returns it.
func (b *OptionBuilder) Build(t *testing.T, db *sql.DB) model.Option {
	t.Helper()

	repo := repository.NewOptionRepository(db)
	if err := repo.InsertOptions([]model.Option{b.option}); err != nil {
		t.Fatalf("Failed to insert test option: %v", err)
	}
	return b.option
}

// CreatePrice stores one close for a ticker.
func CreatePrice(t *testing.T, db *sql.DB, ticker string, date time.Time, close float64) {
	t.Helper()

	repo := repository.NewPriceRepository(db)
	if err := repo.UpsertPrice(ticker, date, close, false); err != nil {
		t.Fatalf("Failed to insert test price: %v", err)
	}
}

// CreateFXRate stores one conversion rate for a base/quote pair.
func CreateFXRate(t *testing.T, db *sql.DB, base, quote string, date time.Time, rate float64) {
	t.Helper()

	repo := repository.NewFXRateRepository(db)
	if err := repo.UpsertRate(base, quote, date, rate); err != nil {
		t.Fatalf("Failed to insert test fx rate: %v", err)
	}
}
