package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
	"github.com/nmoncada/portfolio-tracker-backend/internal/occ"
)

// RowClass is the closed classification of a raw operations row.
type RowClass int

// Classification outcomes for an operations row. Each class carries its own
// emission rules in SanitizeOperations.
const (
	ClassIgnored RowClass = iota
	ClassStock
	ClassFX
	ClassCash
	ClassOption
)

// SkippedRow records one dropped input row and the reason it was dropped.
type SkippedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Batch is the sanitized output of one operations import: typed records plus
// the rows that did not survive sanitization. Rows classified as ignored
// (asset classes this engine does not track) are not reported as skipped.
type Batch struct {
	Stocks  []model.Trade
	Cash    []model.Transfer
	Options []model.Option
	Skipped []SkippedRow
}

// Classify assigns an operations row to its closed class. STK rows need both
// a symbol and an ISIN; CASH rows with a dotted symbol are FX conversions.
func Classify(assetClass, symbol, isin string) RowClass {
	switch assetClass {
	case "STK":
		if symbol != "" && isin != "" {
			return ClassStock
		}
	case "CASH":
		if symbol != "" && strings.Contains(symbol, ".") {
			return ClassFX
		}
		return ClassCash
	case "OPT":
		return ClassOption
	}
	return ClassIgnored
}

// SanitizeOperations normalizes a combined broker operations export. Rows
// without a parseable timestamp are skipped before classification. Stock
// rows become trades, CASH rows become one transfer (or two FX legs),
// OPT rows become an option record plus its premium cash transfer.
func SanitizeOperations(rows []Row) Batch {
	var out Batch
	for i, row := range rows {
		assetClass := row.Upper([]string{"AssetClass", "Asset"})
		symbol := row.Str(fieldSymbol)
		isin := row.Upper(fieldISIN)
		execID := row.Str(fieldExecID)
		qty := row.Num(fieldQuantity)
		price := row.Num(fieldPrice)
		commission := row.Num(fieldCommission)
		commissionCur := row.Upper(fieldCommissionCur)
		currency := row.Upper(fieldCurrency)

		dt, ok := row.Date(fieldDateTime)
		if !ok {
			out.Skipped = append(out.Skipped, SkippedRow{Index: i, Reason: "unparseable date"})
			continue
		}

		switch Classify(assetClass, symbol, isin) {
		case ClassStock:
			out.Stocks = append(out.Stocks, model.Trade{
				TradeID:            execID,
				Ticker:             symbol,
				Quantity:           qty,
				Price:              price,
				DateTime:           dt,
				Commission:         commission,
				CommissionCurrency: commissionCur,
				Currency:           currency,
				ISIN:               isin,
				AssetClass:         assetClass,
			})

		case ClassFX:
			legs := BuildFXTransfers(FXConversion{
				Symbol:             symbol,
				Side:               row.Upper(fieldSide),
				Quantity:           qty,
				Rate:               price,
				Commission:         commission,
				CommissionCurrency: commissionCur,
				DateTime:           dt,
				ExecID:             execID,
			})
			out.Cash = append(out.Cash, legs[0], legs[1])

		case ClassCash:
			cur := deriveCurrency(currency, symbol)
			amount := qty*price + matchingCommission(commission, commissionCur, cur)
			txID := model.PrefixCash + execID
			if execID == "" {
				txID = fmt.Sprintf("%s%s:%d:%.4f", model.PrefixCash, symbol, dt.UnixMilli(), amount)
			}
			out.Cash = append(out.Cash, model.Transfer{
				TransactionID: txID,
				DateTime:      dt,
				Amount:        amount,
				Currency:      cur,
				Origin:        model.OriginInternal,
			})

		case ClassOption:
			transfer, option := sanitizeOption(row, symbol, qty, price, commission, commissionCur, currency, dt)
			out.Cash = append(out.Cash, transfer)
			out.Options = append(out.Options, option)
		}
	}
	return out
}

// sanitizeOption builds the option record and its premium cash leg. Selling
// receives the gross premium, buying pays it; without an explicit side a
// negative quantity behaves as a sale. Commission affects the cash leg only
// when its currency matches the settlement currency.
func sanitizeOption(row Row, symbol string, qty, price, commission float64, commissionCur, currency string, dt time.Time) (model.Transfer, model.Option) {
	side := model.OptionSide(row.Upper(fieldSide))
	if side != model.SideBuy && side != model.SideSell {
		side = model.SideUnknown
	}

	contract := occ.Parse(symbol)
	multiplier := contract.Multiplier
	if multiplier == 0 {
		multiplier = occ.EquityMultiplier
	}
	contracts := abs(qty)
	gross := contracts * price * multiplier

	flow := -gross
	if side == model.SideSell || (side == model.SideUnknown && qty < 0) {
		flow = +gross
	}

	cur := currency
	if cur == "" {
		cur = "USD"
	}
	amount := flow + matchingCommission(commission, commissionCur, cur)

	optID := row.Str(fieldOptExecID)
	txID := model.PrefixOpt + optID
	if optID == "" {
		txID = fmt.Sprintf("%s%s:%d:%g:%g", model.PrefixOpt, symbol, dt.UnixMilli(), contracts, price)
	}

	underlying := row.Upper([]string{"Underlying"})
	if underlying == "" {
		underlying = contract.Underlying
	}
	if underlying == "" {
		underlying = occ.Underlying(symbol)
	}

	transfer := model.Transfer{
		TransactionID: txID,
		DateTime:      dt,
		Amount:        amount,
		Currency:      cur,
		Origin:        model.OriginInternal,
	}
	option := model.Option{
		OptionID:           txID,
		Underlying:         underlying,
		Symbol:             symbol,
		Side:               side,
		Contracts:          contracts,
		TradePrice:         price,
		Multiplier:         multiplier,
		PremiumGross:       gross,
		Commission:         commission,
		CommissionCurrency: commissionCur,
		Currency:           cur,
		DateTime:           dt,
		ExecID:             optID,
		Notional:           contract.Strike * multiplier * contracts,
	}
	if contract.Valid {
		option.Expiry = contract.Expiry
		option.OptType = contract.OptType
		option.Strike = contract.Strike
		option.CalcMultiplier = contract.Multiplier
	}
	return transfer, option
}

// SanitizeTransfers normalizes a transfers export. Rows missing an id,
// currency, timestamp, or amount are skipped with a reason.
func SanitizeTransfers(rows []Row) ([]model.Transfer, []SkippedRow) {
	var out []model.Transfer
	var skipped []SkippedRow
	for i, row := range rows {
		txID := row.Str(fieldTransactionID)
		if txID == "" {
			skipped = append(skipped, SkippedRow{Index: i, Reason: "missing transaction id"})
			continue
		}
		currency := row.Upper(fieldCurrency)
		if currency == "" {
			skipped = append(skipped, SkippedRow{Index: i, Reason: "missing currency"})
			continue
		}
		dt, ok := row.Date(fieldDivDateTime)
		if !ok {
			skipped = append(skipped, SkippedRow{Index: i, Reason: "unparseable date"})
			continue
		}
		amount, ok := row.NumOK([]string{"Amount"})
		if !ok {
			skipped = append(skipped, SkippedRow{Index: i, Reason: "missing amount"})
			continue
		}
		out = append(out, model.Transfer{
			TransactionID: txID,
			DateTime:      dt,
			Amount:        amount,
			Currency:      currency,
			Origin:        model.OriginExternal,
		})
	}
	return out, skipped
}

// SanitizeDividends normalizes a corporate-actions export. Only rows with
// action code "Po" (cash dividend payout) are kept; net amount is gross plus
// the (typically negative) withheld tax.
func SanitizeDividends(rows []Row) ([]model.Dividend, []SkippedRow) {
	var out []model.Dividend
	var skipped []SkippedRow
	for i, row := range rows {
		if code := row.Str(fieldActionCode); code != "Po" {
			continue
		}
		actionID := row.Str(fieldActionID)
		if actionID == "" {
			skipped = append(skipped, SkippedRow{Index: i, Reason: "missing action id"})
			continue
		}
		currency := row.Upper(fieldCurrency)
		if currency == "" {
			skipped = append(skipped, SkippedRow{Index: i, Reason: "missing currency"})
			continue
		}
		dt, ok := row.Date(fieldDivDateTime)
		if !ok {
			skipped = append(skipped, SkippedRow{Index: i, Reason: "unparseable date"})
			continue
		}
		gross, ok := row.NumOK([]string{"GrossAmount"})
		if !ok {
			skipped = append(skipped, SkippedRow{Index: i, Reason: "missing gross amount"})
			continue
		}
		tax := row.Num([]string{"Tax"})
		out = append(out, model.Dividend{
			ActionID:          actionID,
			Ticker:            row.Upper(fieldDivTicker),
			Currency:          currency,
			DateTime:          dt,
			Gross:             gross,
			Tax:               tax,
			Amount:            gross + tax,
			IssuerCountryCode: row.Upper(fieldCountry),
		})
	}
	return out, skipped
}

// StockTradesToCashRows synthesizes the settlement cash flow of each stock
// trade: buying reduces cash, selling increases it, the commission (broker
// convention: negative) adjusts the amount only when its currency matches
// the settlement currency. Ids carry the STK: prefix so the rows classify as
// trade-derived downstream.
func StockTradesToCashRows(trades []model.Trade) []model.Transfer {
	var out []model.Transfer
	for _, tr := range trades {
		if tr.DateTime.IsZero() || tr.Currency == "" {
			continue
		}
		amount := -(tr.Quantity * tr.Price) + matchingCommission(tr.Commission, tr.CommissionCurrency, tr.Currency)
		id := model.PrefixStock + tr.TradeID
		if tr.TradeID == "" {
			id = fmt.Sprintf("%s%s:%d:%g:%g", model.PrefixStock, tr.Ticker, tr.DateTime.UnixMilli(), tr.Quantity, tr.Price)
		}
		out = append(out, model.Transfer{
			TransactionID: id,
			DateTime:      tr.DateTime,
			Amount:        amount,
			Currency:      tr.Currency,
			Origin:        model.OriginInternal,
		})
	}
	return out
}

// matchingCommission returns the commission when its currency matches the
// settlement currency (or carries no currency tag at all), 0 otherwise.
// Cross-currency commissions are not reconciled by this engine.
func matchingCommission(commission float64, commissionCur, currency string) float64 {
	if commissionCur != "" && commissionCur != currency {
		return 0
	}
	return commission
}

// deriveCurrency falls back to the quote side of a dotted symbol, then the
// symbol itself, then USD when the row carries no currency column.
func deriveCurrency(currency, symbol string) string {
	if currency != "" {
		return currency
	}
	s := strings.ToUpper(symbol)
	if idx := strings.Index(s, "."); idx >= 0 {
		return s[idx+1:]
	}
	if s != "" {
		return s
	}
	return "USD"
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
