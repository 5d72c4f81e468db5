// Package occ decodes OCC-style option contract symbols into their
// components: underlying root, expiry date, option type, and strike.
package occ

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EquityMultiplier is the standard contract multiplier for equity options.
const EquityMultiplier = 100.0

// Contract is the decomposition of an option symbol. A zero Contract (Valid
// false) means the symbol did not match any known pattern; callers treat such
// records as uncategorized, never as errors.
type Contract struct {
	Underlying string
	Expiry     time.Time
	OptType    string // "C" or "P"
	Strike     float64
	Multiplier float64
	Valid      bool
}

// The three spellings brokers use for the same contract, tried in order:
// root and body separated by whitespace, by '@', or not at all.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`^([A-Z0-9.-]+)\s+(\d{6})([CP])(\d{8})$`),
	regexp.MustCompile(`^([A-Z0-9.-]+)@(\d{6})([CP])(\d{8})$`),
	regexp.MustCompile(`^([A-Z0-9.-]+?)(\d{6})([CP])(\d{8})$`),
}

// Parse decodes an option symbol such as "AAPL  240119C00190000". The date
// body is YYMMDD with the year taken as 2000+YY, and the 8-digit strike is
// the strike price multiplied by 1000. Parse has no side effects and returns
// a zero Contract on no match.
func Parse(symbol string) Contract {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, p := range patterns {
		m := p.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		yy, _ := strconv.Atoi(m[2][0:2])
		mm, _ := strconv.Atoi(m[2][2:4])
		dd, _ := strconv.Atoi(m[2][4:6])
		strikeRaw, _ := strconv.Atoi(m[4])
		return Contract{
			Underlying: m[1],
			Expiry:     time.Date(2000+yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC),
			OptType:    m[3],
			Strike:     float64(strikeRaw) / 1000,
			Multiplier: EquityMultiplier,
			Valid:      true,
		}
	}
	return Contract{}
}

// Underlying extracts the leading alphabetic root of a symbol. It is the
// fallback used when the full OCC decode fails but an underlying guess is
// still useful for grouping.
func Underlying(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return s[:i]
		}
	}
	return s
}
