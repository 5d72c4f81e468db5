// Package yahoo fetches daily closing prices from the Yahoo Finance chart
// API. It serves both equity tickers and FX pair symbols of the form
// "EURUSD=X", which share the same endpoint and response shape.
package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Response maps the raw JSON of the Yahoo Finance chart API. Only the
// fields this application reads are declared; the close series is the one
// indicator consumed downstream.
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
				Symbol   string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// ClosePoint is one trading day's closing price.
type ClosePoint struct {
	Date  time.Time
	Close float64
}

// CloseSeries is the parsed result of one chart query: the symbol's daily
// closes in ascending date order plus its quote currency.
type CloseSeries struct {
	Symbol   string
	Currency string
	Points   []ClosePoint
}

// FinanceClient queries the Yahoo Finance chart API.
type FinanceClient struct {
	httpClient *http.Client
}

// NewFinanceClient creates a client with a 30-second request timeout.
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetDailyCloses fetches the daily close series for a symbol within a date
// range (inclusive). Days Yahoo reports without a close (market holidays
// inside the range) are skipped.
func (c *FinanceClient) GetDailyCloses(symbol string, startDate, endDate time.Time) (CloseSeries, error) {
	if startDate.After(endDate) {
		return CloseSeries{}, fmt.Errorf("invalid date range %s-%s", startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	}

	url := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		symbol,
		startDate.Unix(),
		endDate.AddDate(0, 0, 1).Unix(),
	)
	response, err := c.queryYahoo(url)
	if err != nil {
		return CloseSeries{}, err
	}
	if len(response.Chart.Result) == 0 {
		return CloseSeries{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	result := response.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return CloseSeries{}, fmt.Errorf("no price data returned for symbol %s", symbol)
	}
	if len(result.Indicators.Quote) == 0 {
		return CloseSeries{}, fmt.Errorf("no close prices returned for symbol %s", symbol)
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return CloseSeries{}, fmt.Errorf("mismatched data lengths for symbol %s", symbol)
	}

	series := CloseSeries{
		Symbol:   result.Meta.Symbol,
		Currency: result.Meta.Currency,
		Points:   make([]ClosePoint, 0, len(closes)),
	}
	for i, ts := range result.Timestamp {
		if closes[i] == 0 {
			continue
		}
		series.Points = append(series.Points, ClosePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: closes[i],
		})
	}
	return series, nil
}

// queryYahoo executes one request against the chart API. The browser-like
// User-Agent is required; Yahoo rejects the Go default.
func (c *FinanceClient) queryYahoo(url string) (Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s", *response.Chart.Error)
	}

	return response, nil
}
