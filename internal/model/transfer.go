package model

import (
	"strings"
	"time"
)

// Transfer origins. External transfers are capital moved in or out of the
// account by its owner; internal transfers are cash movements the engine
// synthesized from trades, options, and FX conversions. The stored value
// keeps the original system's spelling; IsExternal accepts both spellings
// plus the historical empty default.
const (
	OriginExternal = "externo"
	OriginInternal = "interno"
)

// Transaction id prefixes. The prefix is part of the persisted id contract:
// downstream classification and deduplication key off of it, so changing a
// prefix orphans previously imported rows.
const (
	PrefixCash  = "CASH:"
	PrefixFX    = "FX:"
	PrefixOpt   = "OPT:"
	PrefixStock = "STK:"
)

// Transfer is one cash-ledger entry in a single currency. Amount is signed:
// positive credits the balance, negative debits it.
type Transfer struct {
	TransactionID string    `json:"transactionId"`
	DateTime      time.Time `json:"dateTime"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Origin        string    `json:"origin"`
}

// TransferKind classifies a transfer by its id prefix.
type TransferKind string

// Transfer kinds, in the order the cash view groups them.
const (
	KindTransfer TransferKind = "TRANSFER"
	KindCash     TransferKind = "CASH"
	KindFX       TransferKind = "FX"
	KindStock    TransferKind = "STOCK"
	KindOption   TransferKind = "OPTION"
)

// Kind derives the transfer's classification from its transaction id.
// Rows with no recognized prefix are plain account transfers.
func (t Transfer) Kind() TransferKind {
	switch {
	case strings.HasPrefix(t.TransactionID, PrefixFX):
		return KindFX
	case strings.HasPrefix(t.TransactionID, PrefixStock):
		return KindStock
	case strings.HasPrefix(t.TransactionID, PrefixOpt):
		return KindOption
	case strings.HasPrefix(t.TransactionID, PrefixCash):
		return KindCash
	}
	return KindTransfer
}

// IsFX reports whether the kind is an FX conversion leg.
func (k TransferKind) IsFX() bool { return k == KindFX }

// IsExternal reports whether this transfer is external capital: an empty
// origin (legacy rows), the stored spelling, or the anglicized one.
func (t Transfer) IsExternal() bool {
	switch t.Origin {
	case "", OriginExternal, "external":
		return true
	}
	return false
}
