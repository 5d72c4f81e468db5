package service

import (
	"math"
	"sort"
	"time"

	"github.com/nmoncada/portfolio-tracker-backend/internal/model"
)

// dayOf truncates a timestamp to its UTC calendar day.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

const dayFormat = "2006-01-02"

// BuildCombinedSeries merges dated valuation points and external cash flows
// into one daily series. Only external-origin flows enter the capital base;
// internal flows (trade settlements, FX legs, premium) are excluded here
// because they move money between pockets without changing what the owner
// put in.
//
// The output has one point per day in the union of input days, ascending.
// Value and cumulative flow are forward-filled across days with no new
// observation, and each point derives
// pnlPct = (value + cumulativeFlow) / max(0, cumulativeFlow) × 100 (0 when
// the base is non-positive).
func BuildCombinedSeries(values []model.ValuePoint, flows []model.FlowPoint) []model.SeriesPoint {
	flowByDay := make(map[time.Time]float64)
	for _, f := range flows {
		origin := model.Transfer{Origin: f.Origin}
		if !origin.IsExternal() {
			continue
		}
		flowByDay[dayOf(f.Date)] += f.Amount
	}

	valueByDay := make(map[time.Time]float64)
	sortedValues := make([]model.ValuePoint, len(values))
	copy(sortedValues, values)
	sort.SliceStable(sortedValues, func(i, j int) bool {
		return sortedValues[i].Date.Before(sortedValues[j].Date)
	})
	for _, v := range sortedValues {
		// Later points on the same day win.
		valueByDay[dayOf(v.Date)] = v.Value
	}

	daySet := make(map[time.Time]struct{}, len(flowByDay)+len(valueByDay))
	for d := range flowByDay {
		daySet[d] = struct{}{}
	}
	for d := range valueByDay {
		daySet[d] = struct{}{}
	}
	days := make([]time.Time, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var out []model.SeriesPoint
	var lastValue, cumulativeFlow float64
	for _, d := range days {
		if v, ok := valueByDay[d]; ok {
			lastValue = v
		}
		cumulativeFlow += flowByDay[d]

		base := math.Max(0, cumulativeFlow)
		var pnlPct float64
		if base > 0 {
			pnlPct = (lastValue + cumulativeFlow) / base * 100
		}

		out = append(out, model.SeriesPoint{
			Date:      d.Format(dayFormat),
			Value:     lastValue,
			Transfers: cumulativeFlow,
			PnlPct:    pnlPct,
		})
	}
	return out
}

// periodEnd maps a day to the last day of its containing period. Weeks start
// on Monday.
func periodEnd(d time.Time, interval model.Interval) time.Time {
	switch interval {
	case model.IntervalWeek:
		weekday := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, 6-weekday)
	case model.IntervalMonth:
		firstOfNext := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return firstOfNext.AddDate(0, 0, -1)
	case model.IntervalQuarter:
		quarter := (int(d.Month()) - 1) / 3
		endMonth := time.Month(quarter*3 + 3)
		firstOfNext := time.Date(d.Year(), endMonth, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return firstOfNext.AddDate(0, 0, -1)
	case model.IntervalYear:
		return time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return d
}

// seriesBucket accumulates one period of the interval-bucketed portfolio
// series before currency conversion.
type seriesBucket struct {
	transfers float64
	value     float64
	hasValue  bool
	cash      map[string]float64
}

// bucketObservations groups day-level observations into period buckets.
// Transfers sum within a bucket; the last observed valuation wins; cash
// balances carry forward into every bucket so an idle period still reports
// the held balances. Days outside [from, to] are excluded (zero bounds mean
// unbounded).
func bucketObservations(
	valueByDay, transferByDay map[time.Time]float64,
	cashBalanceByDay map[time.Time]map[string]float64,
	interval model.Interval,
	from, to time.Time,
) map[time.Time]*seriesBucket {
	daySet := make(map[time.Time]struct{})
	for d := range valueByDay {
		daySet[d] = struct{}{}
	}
	for d := range transferByDay {
		daySet[d] = struct{}{}
	}
	for d := range cashBalanceByDay {
		daySet[d] = struct{}{}
	}

	var days []time.Time
	for d := range daySet {
		if !from.IsZero() && d.Before(from) {
			continue
		}
		if !to.IsZero() && d.After(to) {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	buckets := make(map[time.Time]*seriesBucket)
	carried := map[string]float64{}
	for _, d := range days {
		end := periodEnd(d, interval)
		bucket, ok := buckets[end]
		if !ok {
			bucket = &seriesBucket{cash: map[string]float64{}}
			buckets[end] = bucket
		}
		bucket.transfers += transferByDay[d]
		if v, ok := valueByDay[d]; ok {
			bucket.value = v
			bucket.hasValue = true
		}
		if balances, ok := cashBalanceByDay[d]; ok {
			carried = balances
		}
		bucket.cash = map[string]float64{}
		for cur, bal := range carried {
			bucket.cash[cur] = bal
		}
	}
	return buckets
}
