package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

// FXConversion describes one currency conversion row (AssetClass CASH with a
// BASE.QUOTE symbol) before it is split into its two cash legs.
type FXConversion struct {
	Symbol             string
	Side               string
	Quantity           float64
	Rate               float64
	Commission         float64
	CommissionCurrency string
	DateTime           time.Time
	ExecID             string
}

// BuildFXTransfers splits an FX conversion into two opposite-signed transfer
// legs. SELL sells the base currency (negative base leg, positive quote leg);
// BUY is the mirror image; with no side the sign of the raw quantity decides,
// negative meaning a base sale. The commission lands on whichever leg's
// currency matches the commission currency and is dropped if it matches
// neither. Leg ids are deterministic so re-imported rows collide in the
// dedup ledger.
func BuildFXTransfers(fx FXConversion) [2]model.Transfer {
	pair := strings.SplitN(strings.ToUpper(fx.Symbol), ".", 2)
	base, quote := pair[0], ""
	if len(pair) == 2 {
		quote = pair[1]
	}

	absQty := abs(fx.Quantity)
	baseFlow := +absQty
	quoteFlow := -absQty * fx.Rate
	sellingBase := fx.Side == "SELL" || (fx.Side != "BUY" && fx.Quantity < 0)
	if sellingBase {
		baseFlow, quoteFlow = -baseFlow, -quoteFlow
	}

	commCur := strings.ToUpper(fx.CommissionCurrency)
	if fx.Commission != 0 && commCur != "" {
		switch commCur {
		case base:
			baseFlow += fx.Commission
		case quote:
			quoteFlow += fx.Commission
		}
	}

	return [2]model.Transfer{
		{
			TransactionID: fxLegID(fx, base),
			DateTime:      fx.DateTime,
			Amount:        baseFlow,
			Currency:      base,
			Origin:        model.OriginInternal,
		},
		{
			TransactionID: fxLegID(fx, quote),
			DateTime:      fx.DateTime,
			Amount:        quoteFlow,
			Currency:      quote,
			Origin:        model.OriginInternal,
		},
	}
}

// fxLegID derives the stable per-leg transaction id: execution id plus leg
// currency when the broker supplied one, otherwise every field that makes the
// conversion unique.
func fxLegID(fx FXConversion, currency string) string {
	if fx.ExecID != "" {
		return fmt.Sprintf("%s%s:%s", model.PrefixFX, fx.ExecID, currency)
	}
	return fmt.Sprintf("%s%s:%d:%g:%g:%s:%s",
		model.PrefixFX, fx.Symbol, fx.DateTime.UnixMilli(), abs(fx.Quantity), fx.Rate, fx.Side, currency)
}
