package importer

import (
	"math"
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateTime(t *testing.T) {
	t.Run("broker dialect with semicolon separator", func(t *testing.T) {
		got, ok := ParseDateTime("19/01/2024;15:30:05")
		if !ok {
			t.Fatal("expected parse to succeed")
		}
		want := time.Date(2024, time.January, 19, 15, 30, 5, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("space separator and date only", func(t *testing.T) {
		if got, ok := ParseDateTime("19/01/2024 15:30:05"); !ok || got.Hour() != 15 {
			t.Errorf("space separator: got %v ok=%v", got, ok)
		}
		if got, ok := ParseDateTime("19/01/2024"); !ok || !got.Equal(date(2024, time.January, 19)) {
			t.Errorf("date only: got %v ok=%v", got, ok)
		}
	})

	t.Run("iso forms accepted for re-imports", func(t *testing.T) {
		if _, ok := ParseDateTime("2024-01-19T15:30:05Z"); !ok {
			t.Error("RFC3339 not accepted")
		}
		if _, ok := ParseDateTime("2024-01-19"); !ok {
			t.Error("ISO date not accepted")
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		for _, in := range []string{"", "not a date", "19-01-2024", "00/01/2024", "19/01"} {
			if _, ok := ParseDateTime(in); ok {
				t.Errorf("ParseDateTime(%q) unexpectedly succeeded", in)
			}
		}
	})
}

// TestSanitizeOperations_Stock tests STK row normalization across header
// dialects.
//
// WHY: The same logical field arrives under different header spellings
// depending on the export tool; the synonym resolution must be first-match
// and case-faithful or re-imports stop colliding in the ledger.
func TestSanitizeOperations_Stock(t *testing.T) {
	rows := []Row{
		{
			"AssetClass": "STK", "Symbol": "AAPL", "ISIN": "US0378331005",
			"IBExecID": "X1", "Quantity": 10.0, "TradePrice": 190.5,
			"IBCommission": -1.0, "IBCommissionCurrency": "USD",
			"CurrencyPrimary": "USD", "DateTime": "19/01/2024;15:30:00",
		},
		{
			// Synonym spellings, whitespace asset class, string numbers.
			"Asset": " stk ", "Ticker": "MSFT", "Isin": "US5949181045",
			"Shares": "5", "Price": "400,25", "Commission": "-1,5",
			"Currency": "usd", "Date/Time": "20/01/2024 10:00:00",
		},
	}

	batch := SanitizeOperations(rows)

	if len(batch.Stocks) != 2 || len(batch.Cash) != 0 || len(batch.Options) != 0 {
		t.Fatalf("got %d stocks, %d cash, %d options", len(batch.Stocks), len(batch.Cash), len(batch.Options))
	}

	first := batch.Stocks[0]
	if first.TradeID != "X1" || first.Ticker != "AAPL" || first.Quantity != 10 || first.Price != 190.5 {
		t.Errorf("unexpected first trade: %+v", first)
	}
	second := batch.Stocks[1]
	if second.Ticker != "MSFT" || second.Quantity != 5 || second.Price != 400.25 {
		t.Errorf("comma decimals not handled: %+v", second)
	}
	if second.Currency != "USD" {
		t.Errorf("currency not uppercased: %q", second.Currency)
	}
	if second.TradeID != "" {
		t.Errorf("expected empty trade id, got %q", second.TradeID)
	}
}

func TestSanitizeOperations_StockRequiresSymbolAndISIN(t *testing.T) {
	rows := []Row{
		{"AssetClass": "STK", "Symbol": "AAPL", "Quantity": 1.0, "TradePrice": 1.0, "DateTime": "19/01/2024"},
	}
	batch := SanitizeOperations(rows)
	if len(batch.Stocks) != 0 {
		t.Errorf("STK without ISIN must be ignored, got %+v", batch.Stocks)
	}
}

func TestSanitizeOperations_DropsRowsWithoutDate(t *testing.T) {
	rows := []Row{
		{"AssetClass": "STK", "Symbol": "AAPL", "ISIN": "US0378331005", "Quantity": 1.0},
		{"AssetClass": "CASH", "Symbol": "EUR.USD", "Quantity": 100.0, "TradePrice": 1.1, "DateTime": "garbage"},
	}
	batch := SanitizeOperations(rows)
	if len(batch.Stocks) != 0 || len(batch.Cash) != 0 {
		t.Fatalf("rows without dates must be dropped: %+v", batch)
	}
	if len(batch.Skipped) != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", len(batch.Skipped))
	}
	if batch.Skipped[0].Reason != "unparseable date" || batch.Skipped[1].Index != 1 {
		t.Errorf("unexpected skip reporting: %+v", batch.Skipped)
	}
}

func TestSanitizeOperations_CashMovement(t *testing.T) {
	rows := []Row{
		{
			"AssetClass": "CASH", "Symbol": "USD", "IBExecID": "C1",
			"Quantity": 1000.0, "TradePrice": 1.0,
			"IBCommission": -2.0, "IBCommissionCurrency": "USD",
			"CurrencyPrimary": "USD", "DateTime": "01/02/2024",
		},
		{
			// Commission in another currency is excluded from the amount.
			"AssetClass": "CASH", "Symbol": "USD",
			"Quantity": 500.0, "TradePrice": 1.0,
			"IBCommission": -2.0, "IBCommissionCurrency": "EUR",
			"CurrencyPrimary": "USD", "DateTime": "02/02/2024",
		},
	}

	batch := SanitizeOperations(rows)
	if len(batch.Cash) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(batch.Cash))
	}
	if batch.Cash[0].Amount != 998 {
		t.Errorf("matching commission must adjust amount: got %v", batch.Cash[0].Amount)
	}
	if batch.Cash[0].TransactionID != "CASH:C1" {
		t.Errorf("exec id transfer id: got %q", batch.Cash[0].TransactionID)
	}
	if batch.Cash[1].Amount != 500 {
		t.Errorf("cross-currency commission must be excluded: got %v", batch.Cash[1].Amount)
	}
	if !strings.HasPrefix(batch.Cash[1].TransactionID, "CASH:USD:") {
		t.Errorf("fallback transfer id: got %q", batch.Cash[1].TransactionID)
	}
}

func TestSanitizeOperations_FXConversion(t *testing.T) {
	rows := []Row{
		{
			"AssetClass": "CASH", "Symbol": "EUR.USD", "Buy/Sell": "BUY",
			"Quantity": 100.0, "TradePrice": 1.1,
			"CurrencyPrimary": "USD", "DateTime": "01/02/2024", "IBExecID": "F1",
		},
	}

	batch := SanitizeOperations(rows)
	if len(batch.Cash) != 2 {
		t.Fatalf("FX row must produce two legs, got %d", len(batch.Cash))
	}
	baseLeg, quoteLeg := batch.Cash[0], batch.Cash[1]
	if baseLeg.Currency != "EUR" || baseLeg.Amount != 100 {
		t.Errorf("base leg: %+v", baseLeg)
	}
	if quoteLeg.Currency != "USD" || math.Abs(quoteLeg.Amount-(-110)) > 1e-9 {
		t.Errorf("quote leg: %+v", quoteLeg)
	}
	if baseLeg.TransactionID != "FX:F1:EUR" || quoteLeg.TransactionID != "FX:F1:USD" {
		t.Errorf("leg ids: %q %q", baseLeg.TransactionID, quoteLeg.TransactionID)
	}
}

// TestSanitizeOperations_Option tests OPT row handling: premium cash leg plus
// structural option record with decoded contract fields.
func TestSanitizeOperations_Option(t *testing.T) {
	rows := []Row{
		{
			"AssetClass": "OPT", "Symbol": "AAPL  240119C00190000", "Buy/Sell": "SELL",
			"Quantity": -2.0, "TradePrice": 1.5,
			"IBCommission": -1.3, "IBCommissionCurrency": "USD",
			"CurrencyPrimary": "USD", "DateTime": "10/01/2024;16:00:00", "IBExecID": "O1",
		},
	}

	batch := SanitizeOperations(rows)
	if len(batch.Options) != 1 || len(batch.Cash) != 1 {
		t.Fatalf("expected option + cash leg, got %+v", batch)
	}

	opt := batch.Options[0]
	if opt.Side != "SELL" || opt.Contracts != 2 {
		t.Errorf("side/contracts: %+v", opt)
	}
	// gross = 2 * 1.5 * 100
	if opt.PremiumGross != 300 {
		t.Errorf("PremiumGross = %v, want 300", opt.PremiumGross)
	}
	if opt.Underlying != "AAPL" || opt.OptType != "C" || opt.Strike != 190 {
		t.Errorf("decoded fields: %+v", opt)
	}
	if opt.Notional != 190*100*2 {
		t.Errorf("Notional = %v, want %v", opt.Notional, 190*100*2)
	}

	// Selling receives premium; matching-currency commission adjusts it.
	if got := batch.Cash[0].Amount; math.Abs(got-298.7) > 1e-9 {
		t.Errorf("cash leg amount = %v, want 298.7", got)
	}
	if batch.Cash[0].TransactionID != "OPT:O1" {
		t.Errorf("cash leg id = %q", batch.Cash[0].TransactionID)
	}
}

func TestSanitizeOperations_OptionSideInferredFromQuantity(t *testing.T) {
	base := Row{
		"AssetClass": "OPT", "Symbol": "XYZ240119P00050000",
		"TradePrice": 2.0, "CurrencyPrimary": "USD", "DateTime": "10/01/2024",
	}

	sell := Row{}
	buy := Row{}
	for k, v := range base {
		sell[k] = v
		buy[k] = v
	}
	sell["Quantity"] = -1.0
	buy["Quantity"] = 1.0

	sellBatch := SanitizeOperations([]Row{sell})
	buyBatch := SanitizeOperations([]Row{buy})

	if got := sellBatch.Cash[0].Amount; got != 200 {
		t.Errorf("negative quantity must behave as a sale: %v", got)
	}
	if got := buyBatch.Cash[0].Amount; got != -200 {
		t.Errorf("positive quantity must behave as a purchase: %v", got)
	}
	if sellBatch.Options[0].Side != "UNKNOWN" {
		t.Errorf("side without Buy/Sell column must stay UNKNOWN: %v", sellBatch.Options[0].Side)
	}
}

func TestSanitizeOperations_UndecodableOptionSymbolKept(t *testing.T) {
	rows := []Row{
		{
			"AssetClass": "OPT", "Symbol": "WEIRD-SYMBOL", "Buy/Sell": "BUY",
			"Quantity": 1.0, "TradePrice": 3.0,
			"CurrencyPrimary": "USD", "DateTime": "10/01/2024",
		},
	}
	batch := SanitizeOperations(rows)
	if len(batch.Options) != 1 {
		t.Fatal("undecodable symbols must still produce a record")
	}
	opt := batch.Options[0]
	if opt.Decoded() {
		t.Errorf("expected undecoded option, got type %q", opt.OptType)
	}
	if opt.Strike != 0 || !opt.Expiry.IsZero() {
		t.Errorf("decoded fields must stay zero: %+v", opt)
	}
	if opt.PremiumGross != 300 {
		t.Errorf("premium still computed from default multiplier: %v", opt.PremiumGross)
	}
}

func TestSanitizeOperations_IgnoresOtherAssetClasses(t *testing.T) {
	rows := []Row{
		{"AssetClass": "FUT", "Symbol": "ESH4", "Quantity": 1.0, "DateTime": "10/01/2024"},
		{"AssetClass": "BOND", "Symbol": "T 4.25", "Quantity": 1.0, "DateTime": "10/01/2024"},
	}
	batch := SanitizeOperations(rows)
	if len(batch.Stocks)+len(batch.Cash)+len(batch.Options) != 0 {
		t.Errorf("unknown asset classes must be ignored entirely: %+v", batch)
	}
	if len(batch.Skipped) != 0 {
		t.Errorf("ignored classes are not skip-reported: %+v", batch.Skipped)
	}
}

func TestSanitizeTransfers(t *testing.T) {
	rows := []Row{
		{"TransactionID": "T1", "CurrencyPrimary": "EUR", "Date/Time": "01/03/2024", "Amount": 1000.0},
		{"CurrencyPrimary": "EUR", "Date/Time": "01/03/2024", "Amount": 1.0},  // no id
		{"TransactionID": "T2", "Date/Time": "01/03/2024", "Amount": 1.0},     // no currency
		{"TransactionID": "T3", "CurrencyPrimary": "EUR", "Amount": 1.0},      // no date
		{"TransactionID": "T4", "CurrencyPrimary": "EUR", "Date/Time": "01/03/2024"}, // no amount
	}

	transfers, skipped := SanitizeTransfers(rows)
	if len(transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(transfers))
	}
	if transfers[0].TransactionID != "T1" || transfers[0].Amount != 1000 {
		t.Errorf("unexpected transfer: %+v", transfers[0])
	}
	if !transfers[0].IsExternal() {
		t.Error("imported plain transfers are external capital")
	}
	if len(skipped) != 4 {
		t.Errorf("expected 4 skipped rows, got %+v", skipped)
	}
}

func TestSanitizeDividends(t *testing.T) {
	rows := []Row{
		{
			"Code": "Po", "ActionID": "D1", "Ticker": "AAPL", "CurrencyPrimary": "USD",
			"Date/Time": "15/03/2024", "GrossAmount": 24.0, "Tax": -3.6,
			"IssuerCountryCode": "US",
		},
		{"Code": "Ti", "ActionID": "D2", "CurrencyPrimary": "USD", "Date/Time": "15/03/2024", "GrossAmount": 5.0},
		{"Code": "Po", "CurrencyPrimary": "USD", "Date/Time": "15/03/2024", "GrossAmount": 5.0},
	}

	divs, skipped := SanitizeDividends(rows)
	if len(divs) != 1 {
		t.Fatalf("expected 1 dividend, got %d", len(divs))
	}
	d := divs[0]
	if d.ActionID != "D1" || d.Ticker != "AAPL" {
		t.Errorf("unexpected dividend: %+v", d)
	}
	if math.Abs(d.Amount-20.4) > 1e-9 {
		t.Errorf("net amount = gross + tax: got %v, want 20.4", d.Amount)
	}
	// Non-payout codes are filtered silently, missing ids are reported.
	if len(skipped) != 1 || skipped[0].Reason != "missing action id" {
		t.Errorf("unexpected skip list: %+v", skipped)
	}
}

func TestStockTradesToCashRows(t *testing.T) {
	batch := SanitizeOperations([]Row{
		{
			"AssetClass": "STK", "Symbol": "AAPL", "ISIN": "US0378331005", "IBExecID": "X1",
			"Quantity": 10.0, "TradePrice": 100.0, "IBCommission": -1.0,
			"IBCommissionCurrency": "USD", "CurrencyPrimary": "USD", "DateTime": "19/01/2024",
		},
		{
			"AssetClass": "STK", "Symbol": "AAPL", "ISIN": "US0378331005",
			"Quantity": -4.0, "TradePrice": 150.0, "IBCommission": -1.0,
			"IBCommissionCurrency": "EUR", "CurrencyPrimary": "USD", "DateTime": "20/01/2024",
		},
	})

	cash := StockTradesToCashRows(batch.Stocks)
	if len(cash) != 2 {
		t.Fatalf("expected 2 cash rows, got %d", len(cash))
	}

	// Buy: -(10*100) + (-1) = -1001.
	if cash[0].Amount != -1001 {
		t.Errorf("buy cash flow = %v, want -1001", cash[0].Amount)
	}
	if cash[0].TransactionID != "STK:X1" {
		t.Errorf("trade-derived id = %q", cash[0].TransactionID)
	}
	// Sell: -(-4*150), EUR commission excluded = 600.
	if cash[1].Amount != 600 {
		t.Errorf("sell cash flow = %v, want 600", cash[1].Amount)
	}
	if !strings.HasPrefix(cash[1].TransactionID, "STK:AAPL:") {
		t.Errorf("fallback id = %q", cash[1].TransactionID)
	}
	if cash[0].IsExternal() {
		t.Error("trade-derived cash is internal, not external capital")
	}
}
