package service

import (
	"errors"
	"testing"

	"github.com/nmoncada/portfolio-tracker-backend/internal/apperrors"
	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

func soldPut(underlying string, contracts, strike, premium, commission float64) model.Option {
	return model.Option{
		Underlying:   underlying,
		Side:         model.SideSell,
		Contracts:    contracts,
		PremiumGross: premium,
		Commission:   commission,
		Currency:     "USD",
		OptType:      "P",
		Strike:       strike,
		Multiplier:   100,
		Notional:     strike * 100 * contracts,
	}
}

func TestParseCommissionPolicy(t *testing.T) {
	if p, err := ParseCommissionPolicy(""); err != nil || p != PolicySettlementMatch {
		t.Errorf("empty value: got %v, %v", p, err)
	}
	if p, err := ParseCommissionPolicy("always"); err != nil || p != PolicyAlways {
		t.Errorf("always: got %v, %v", p, err)
	}
	if _, err := ParseCommissionPolicy("sometimes"); !errors.Is(err, apperrors.ErrUnknownCommissionPolicy) {
		t.Errorf("expected ErrUnknownCommissionPolicy, got %v", err)
	}
}

// TestOptionNetCash_Policies tests the two commission treatments on a trade
// whose commission settled in a different currency.
func TestOptionNetCash_Policies(t *testing.T) {
	o := model.Option{
		Side:               model.SideSell,
		PremiumGross:       300,
		Commission:         -1.5,
		CommissionCurrency: "EUR",
		Currency:           "USD",
	}

	if got := optionNetCash(o, PolicySettlementMatch); got != 300 {
		t.Errorf("settlement policy must skip mismatched commission: %v", got)
	}
	if got := optionNetCash(o, PolicyAlways); got != 298.5 {
		t.Errorf("always policy must include it: %v", got)
	}

	o.CommissionCurrency = "USD"
	if got := optionNetCash(o, PolicySettlementMatch); got != 298.5 {
		t.Errorf("matching commission must count under settlement policy: %v", got)
	}
}

func TestOptionNetCash_UnknownSidePays(t *testing.T) {
	o := model.Option{Side: model.SideUnknown, PremiumGross: 200, Currency: "USD"}
	if got := optionNetCash(o, PolicySettlementMatch); got != -200 {
		t.Errorf("non-SELL sides pay premium: %v", got)
	}
}

func TestAggregateOptionsSummary(t *testing.T) {
	options := []model.Option{
		soldPut("AAPL", 2, 190, 300, -1),
		{Side: model.SideBuy, Contracts: 1, PremiumGross: 120, Commission: -1, Currency: "USD"},
	}

	summary := aggregateOptionsSummary(options, PolicySettlementMatch)

	if summary.PremiumReceived != 299 {
		t.Errorf("PremiumReceived = %v, want 299", summary.PremiumReceived)
	}
	if summary.PremiumPaid != 121 {
		t.Errorf("PremiumPaid = %v, want 121", summary.PremiumPaid)
	}
	if summary.PremiumNet != 178 {
		t.Errorf("PremiumNet = %v, want 178", summary.PremiumNet)
	}
	if summary.Contracts != 3 {
		t.Errorf("Contracts = %v, want 3", summary.Contracts)
	}
	if summary.Commission != 2 {
		t.Errorf("Commission = %v, want 2 (absolute sum)", summary.Commission)
	}
}

func TestAggregateUnderlyingStats(t *testing.T) {
	options := []model.Option{
		soldPut("AAPL", 2, 190, 300, 0),
		{
			Underlying: "AAPL", Side: model.SideBuy, Contracts: 1,
			PremiumGross: 150, Currency: "USD",
			OptType: "C", Strike: 200, Multiplier: 100, Notional: 20000,
		},
		// Undecoded symbol: premium counts, notional split does not.
		{Underlying: "ZZZ", Side: model.SideSell, Contracts: 1, PremiumGross: 50, Currency: "USD"},
	}

	stats := aggregateUnderlyingStats(options, PolicySettlementMatch)

	if len(stats) != 2 {
		t.Fatalf("got %d underlyings, want 2", len(stats))
	}
	aapl := stats[0]
	if aapl.Underlying != "AAPL" {
		t.Fatalf("expected AAPL first (sorted), got %q", aapl.Underlying)
	}
	if aapl.PutsContracts != 2 || aapl.CallsContracts != 1 {
		t.Errorf("contracts: %+v", aapl)
	}
	if aapl.PutsNotional != 38000 || aapl.CallsNotional != 20000 || aapl.NetNotional != 58000 {
		t.Errorf("notional: %+v", aapl)
	}
	if aapl.PremiumNet != 150 {
		t.Errorf("PremiumNet = %v, want 150", aapl.PremiumNet)
	}

	zzz := stats[1]
	if zzz.PutsContracts != 0 || zzz.CallsContracts != 0 || zzz.NetNotional != 0 {
		t.Errorf("undecoded record leaked into notional stats: %+v", zzz)
	}
	if zzz.PremiumNet != 50 {
		t.Errorf("undecoded premium must still count: %v", zzz.PremiumNet)
	}
}
