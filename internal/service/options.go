package service

import (
	"math"
	"sort"

	"github.com/nmoncada/portfolio-tracker-backend/internal/apperrors"
	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

// CommissionPolicy selects how option commissions enter net premium.
type CommissionPolicy string

// Supported commission policies. Settlement-match mirrors the premium cash
// leg (commission counted only when its currency matches the option's
// settlement currency); always counts it unconditionally.
const (
	PolicySettlementMatch CommissionPolicy = "settlement"
	PolicyAlways          CommissionPolicy = "always"
)

// ParseCommissionPolicy validates a configured policy value. Empty input
// selects the settlement-match default.
func ParseCommissionPolicy(value string) (CommissionPolicy, error) {
	switch CommissionPolicy(value) {
	case "":
		return PolicySettlementMatch, nil
	case PolicySettlementMatch:
		return PolicySettlementMatch, nil
	case PolicyAlways:
		return PolicyAlways, nil
	}
	return "", apperrors.ErrUnknownCommissionPolicy
}

// optionNetCash is the signed premium effect of one option trade under the
// given commission policy. Only an explicit SELL receives premium; BUY and
// UNKNOWN pay it.
func optionNetCash(o model.Option, policy CommissionPolicy) float64 {
	net := -o.PremiumGross
	if o.Side == model.SideSell {
		net = +o.PremiumGross
	}
	switch policy {
	case PolicyAlways:
		net += o.Commission
	default:
		if o.CommissionCurrency == "" || o.CommissionCurrency == o.Currency {
			net += o.Commission
		}
	}
	return net
}

// aggregateOptionsSummary totals premium flows across all option trades.
// Positive net effects accumulate as premium received, negative ones as
// premium paid (stored as a positive magnitude).
func aggregateOptionsSummary(options []model.Option, policy CommissionPolicy) model.OptionsSummary {
	var summary model.OptionsSummary
	for _, o := range options {
		net := optionNetCash(o, policy)
		if net >= 0 {
			summary.PremiumReceived += net
		} else {
			summary.PremiumPaid += -net
		}
		summary.Contracts += math.Abs(o.Contracts)
		summary.Commission += math.Abs(o.Commission)
	}
	summary.PremiumNet = summary.PremiumReceived - summary.PremiumPaid
	return summary
}

// premiumNetByUnderlying sums each underlying's net premium effect.
func premiumNetByUnderlying(options []model.Option, policy CommissionPolicy) map[string]float64 {
	net := make(map[string]float64)
	for _, o := range options {
		net[o.Underlying] += optionNetCash(o, policy)
	}
	return net
}

// aggregateUnderlyingStats splits contract counts and notional exposure by
// put/call per underlying, sorted by underlying. Records whose symbol never
// decoded carry no recognized option type and are excluded from the
// put/call and notional figures, though their premium still counts.
func aggregateUnderlyingStats(options []model.Option, policy CommissionPolicy) []model.OptionUnderlyingStats {
	byUnderlying := make(map[string]*model.OptionUnderlyingStats)
	for _, o := range options {
		stats, ok := byUnderlying[o.Underlying]
		if !ok {
			stats = &model.OptionUnderlyingStats{Underlying: o.Underlying}
			byUnderlying[o.Underlying] = stats
		}
		stats.PremiumNet += optionNetCash(o, policy)

		contracts := math.Abs(o.Contracts)
		notional := o.Notional
		if notional == 0 {
			mult := o.CalcMultiplier
			if mult == 0 {
				mult = o.Multiplier
			}
			notional = o.Strike * mult * contracts
		}
		switch o.OptType {
		case "P":
			stats.PutsContracts += contracts
			stats.PutsNotional += notional
			stats.NetNotional += notional
		case "C":
			stats.CallsContracts += contracts
			stats.CallsNotional += notional
			stats.NetNotional += notional
		}
	}

	out := make([]model.OptionUnderlyingStats, 0, len(byUnderlying))
	for _, stats := range byUnderlying {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Underlying < out[j].Underlying })
	return out
}
