// Package importer normalizes loosely-typed broker export rows into typed
// trade, transfer, dividend, and option records. It owns classification by
// asset class, the FX leg builder, and the synthesis of cash-flow records
// from stock and option executions. It never touches files or storage; rows
// arrive already parsed, records leave as plain values.
package importer

import (
	"strconv"
	"strings"
	"time"
)

// Row is one raw import row, keyed by whatever header spelling the export
// dialect used. Values may be strings or numbers depending on the upstream
// parser.
type Row map[string]any

// Synonym lists per logical field, resolved first-match. The orderings come
// from the dialects seen in real IBKR exports and must not be reshuffled:
// an earlier, more specific header wins over a generic one.
var (
	fieldExecID        = []string{"IBExecID", "ExecID", "ExecutionID", "ExecutionId"}
	fieldOptExecID     = []string{"IVExecID", "IBExecID", "ExecID", "ExecutionID", "ExecutionId"}
	fieldSymbol        = []string{"Symbol", "Ticker"}
	fieldISIN          = []string{"ISIN", "Isin"}
	fieldQuantity      = []string{"Quantity", "Shares"}
	fieldPrice         = []string{"TradePrice", "Price", "PurchasePrice"}
	fieldCommission    = []string{"IBComission", "IBCommission", "Commission"}
	fieldCommissionCur = []string{"IBCommissionCurrency", "CommissionCurrency"}
	fieldCurrency      = []string{"CurrencyPrimary", "Currency"}
	fieldDateTime      = []string{"DateTime", "Date/Time", "Date", "Fecha"}
	fieldSide          = []string{"Buy/Sell", "Side", "BS"}
	fieldTransactionID = []string{"TransactionID", "TransactionId", "ID", "Id"}
	fieldActionID      = []string{"ActionID", "ActionId", "ID", "Id"}
	fieldActionCode    = []string{"Code", "ActionCode"}
	fieldDivTicker     = []string{"Ticker", "Symbol", "Underlying", "Asset"}
	fieldDivDateTime   = []string{"Date/Time", "DateTime", "Date", "PaymentDate"}
	fieldCountry       = []string{"IssuerCountryCode", "Country"}
)

// Str resolves the first present, non-empty candidate field as a trimmed
// string.
func (r Row) Str(candidates []string) string {
	for _, key := range candidates {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		s := strings.TrimSpace(toString(v))
		if s != "" {
			return s
		}
	}
	return ""
}

// Upper resolves like Str and uppercases the result.
func (r Row) Upper(candidates []string) string {
	return strings.ToUpper(r.Str(candidates))
}

// Num resolves the first candidate field that parses as a number. Comma
// decimal separators are accepted. Missing or unparseable fields yield 0,
// matching the tolerant numeric coercion of the original import path.
func (r Row) Num(candidates []string) float64 {
	for _, key := range candidates {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return 0
}

// NumOK is Num with an explicit found flag, for fields where 0 and absent
// must be told apart (dividend gross amounts).
func (r Row) NumOK(candidates []string) (float64, bool) {
	for _, key := range candidates {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

// Date resolves the first candidate field that parses as a timestamp.
func (r Row) Date(candidates []string) (time.Time, bool) {
	for _, key := range candidates {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		if t, ok := ParseDateTime(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", ".")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ParseDateTime parses the timestamp spellings seen in broker exports. The
// native dialect is DD/MM/YYYY with an optional time part separated by ';'
// or a space; ISO forms are accepted for re-imported data. All results are
// UTC. A false return means the row carries no usable timestamp and must be
// dropped before classification.
func ParseDateTime(value any) (time.Time, bool) {
	if t, ok := value.(time.Time); ok {
		return t.UTC(), true
	}
	clean := strings.TrimSpace(strings.ReplaceAll(toString(value), ";", " "))
	if clean == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, clean); err == nil {
			return t.UTC(), true
		}
	}

	parts := strings.Fields(clean)
	dmy := strings.Split(parts[0], "/")
	if len(dmy) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(dmy[0])
	month, err2 := strconv.Atoi(dmy[1])
	year, err3 := strconv.Atoi(dmy[2])
	if err1 != nil || err2 != nil || err3 != nil || day == 0 || month == 0 || year == 0 {
		return time.Time{}, false
	}

	var hours, minutes, seconds int
	if len(parts) > 1 {
		hms := strings.Split(parts[1], ":")
		if len(hms) > 0 {
			hours, _ = strconv.Atoi(hms[0])
		}
		if len(hms) > 1 {
			minutes, _ = strconv.Atoi(hms[1])
		}
		if len(hms) > 2 {
			seconds, _ = strconv.Atoi(hms[2])
		}
	}
	return time.Date(year, time.Month(month), day, hours, minutes, seconds, 0, time.UTC), true
}
