package occ

import (
	"testing"
	"time"
)

// TestParse_Variants tests that all three symbol spellings decode to the same
// contract.
//
// WHY: Broker exports are inconsistent about the separator between root and
// contract body. All spellings must decode identically or dedup and grouping
// break across export dialects.
func TestParse_Variants(t *testing.T) {
	variants := []string{
		"AAPL  240119C00190000",
		"AAPL 240119C00190000",
		"AAPL@240119C00190000",
		"AAPL240119C00190000",
	}

	wantExpiry := time.Date(2024, time.January, 19, 0, 0, 0, 0, time.UTC)

	for _, symbol := range variants {
		t.Run(symbol, func(t *testing.T) {
			c := Parse(symbol)

			if !c.Valid {
				t.Fatalf("Parse(%q) did not match", symbol)
			}
			if c.Underlying != "AAPL" {
				t.Errorf("Underlying = %q, want AAPL", c.Underlying)
			}
			if !c.Expiry.Equal(wantExpiry) {
				t.Errorf("Expiry = %v, want %v", c.Expiry, wantExpiry)
			}
			if c.OptType != "C" {
				t.Errorf("OptType = %q, want C", c.OptType)
			}
			if c.Strike != 190.0 {
				t.Errorf("Strike = %v, want 190", c.Strike)
			}
			if c.Multiplier != 100 {
				t.Errorf("Multiplier = %v, want 100", c.Multiplier)
			}
		})
	}
}

func TestParse_Put(t *testing.T) {
	c := Parse("TSLA250620P00222500")

	if !c.Valid {
		t.Fatal("expected valid contract")
	}
	if c.OptType != "P" {
		t.Errorf("OptType = %q, want P", c.OptType)
	}
	if c.Strike != 222.5 {
		t.Errorf("Strike = %v, want 222.5", c.Strike)
	}
	if got := c.Expiry.Format("2006-01-02"); got != "2025-06-20" {
		t.Errorf("Expiry = %s, want 2025-06-20", got)
	}
}

// TestParse_NoMatch tests that unrecognized symbols return a zero Contract.
//
// WHY: The sanitizer still creates option records for undecodable symbols;
// only the decoded fields stay empty. A panic or error here would reject
// rows the import must keep.
func TestParse_NoMatch(t *testing.T) {
	inputs := []string{
		"",
		"AAPL",
		"EUR.USD",
		"AAPL 24019C00190000",  // five-digit date body
		"AAPL240119X00190000",  // bad type letter
		"AAPL240119C0019000",   // seven-digit strike
	}

	for _, symbol := range inputs {
		if c := Parse(symbol); c.Valid {
			t.Errorf("Parse(%q) unexpectedly matched: %+v", symbol, c)
		}
	}
}

func TestParse_LowercaseAndWhitespace(t *testing.T) {
	c := Parse("  aapl240119c00190000  ")
	if !c.Valid || c.Underlying != "AAPL" {
		t.Fatalf("expected lowercase input to normalize, got %+v", c)
	}
}

func TestUnderlying(t *testing.T) {
	cases := map[string]string{
		"AAPL240119C00190000": "AAPL",
		"TSLA":                "TSLA",
		"msft 240119":         "MSFT",
		"":                    "",
	}
	for in, want := range cases {
		if got := Underlying(in); got != want {
			t.Errorf("Underlying(%q) = %q, want %q", in, got, want)
		}
	}
}
