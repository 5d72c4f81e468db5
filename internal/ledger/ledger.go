// Package ledger tracks which records have already been accepted so that
// re-imported export files are idempotent. Identity is the stable record id
// where the broker supplied one; trades additionally dedupe on a composite
// ticker|quantity|price key so re-exports that regenerate execution ids do
// not double-book.
package ledger

import (
	"sync"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

// Ledger holds the cumulative identity sets across all imports since the
// last reset. Filtering is two-phase by construction: a batch is checked
// against itself and against history in one pass, so a file containing the
// same row twice admits it once.
type Ledger struct {
	mu          sync.Mutex
	tradeIDs    map[string]struct{}
	tradeKeys   map[string]struct{}
	transferIDs map[string]struct{}
	dividendIDs map[string]struct{}
	optionIDs   map[string]struct{}
}

// New returns an empty ledger.
func New() *Ledger {
	l := &Ledger{}
	l.clear()
	return l
}

func (l *Ledger) clear() {
	l.tradeIDs = make(map[string]struct{})
	l.tradeKeys = make(map[string]struct{})
	l.transferIDs = make(map[string]struct{})
	l.dividendIDs = make(map[string]struct{})
	l.optionIDs = make(map[string]struct{})
}

// Reset drops all identity sets. The caller is responsible for clearing the
// backing store in the same operation.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clear()
}

// SeedTrades marks previously persisted trades as seen. Used at startup to
// rebuild dedup state from storage.
func (l *Ledger) SeedTrades(trades []model.Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range trades {
		if t.TradeID != "" {
			l.tradeIDs[t.TradeID] = struct{}{}
		}
		l.tradeKeys[t.Key()] = struct{}{}
	}
}

// SeedTransferIDs marks previously persisted transfer ids as seen.
func (l *Ledger) SeedTransferIDs(ids []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		l.transferIDs[id] = struct{}{}
	}
}

// SeedDividendIDs marks previously persisted dividend action ids as seen.
func (l *Ledger) SeedDividendIDs(ids []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		l.dividendIDs[id] = struct{}{}
	}
}

// SeedOptionIDs marks previously persisted option ids as seen.
func (l *Ledger) SeedOptionIDs(ids []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		l.optionIDs[id] = struct{}{}
	}
}

// FilterTrades returns the trades not seen before, in input order, and the
// number of duplicates dropped. A trade is a duplicate when its execution id
// or its composite key has been seen; accepting a trade records both.
func (l *Ledger) FilterTrades(in []model.Trade) ([]model.Trade, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var accepted []model.Trade
	duplicates := 0
	for _, t := range in {
		key := t.Key()
		if _, dup := l.tradeKeys[key]; dup {
			duplicates++
			continue
		}
		if t.TradeID != "" {
			if _, dup := l.tradeIDs[t.TradeID]; dup {
				duplicates++
				continue
			}
			l.tradeIDs[t.TradeID] = struct{}{}
		}
		l.tradeKeys[key] = struct{}{}
		accepted = append(accepted, t)
	}
	return accepted, duplicates
}

// FilterTransfers returns the transfers whose transaction id has not been
// seen before, and the number of duplicates dropped.
func (l *Ledger) FilterTransfers(in []model.Transfer) ([]model.Transfer, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var accepted []model.Transfer
	duplicates := 0
	for _, t := range in {
		if _, dup := l.transferIDs[t.TransactionID]; dup {
			duplicates++
			continue
		}
		l.transferIDs[t.TransactionID] = struct{}{}
		accepted = append(accepted, t)
	}
	return accepted, duplicates
}

// FilterDividends returns the dividends whose action id has not been seen
// before, and the number of duplicates dropped.
func (l *Ledger) FilterDividends(in []model.Dividend) ([]model.Dividend, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var accepted []model.Dividend
	duplicates := 0
	for _, d := range in {
		if _, dup := l.dividendIDs[d.ActionID]; dup {
			duplicates++
			continue
		}
		l.dividendIDs[d.ActionID] = struct{}{}
		accepted = append(accepted, d)
	}
	return accepted, duplicates
}

// FilterOptions returns the option records whose id has not been seen
// before, and the number of duplicates dropped.
func (l *Ledger) FilterOptions(in []model.Option) ([]model.Option, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var accepted []model.Option
	duplicates := 0
	for _, o := range in {
		if _, dup := l.optionIDs[o.OptionID]; dup {
			duplicates++
			continue
		}
		l.optionIDs[o.OptionID] = struct{}{}
		accepted = append(accepted, o)
	}
	return accepted, duplicates
}
