package marketdata

import (
	"context"
	"fmt"
	"sort"

	"PortfolioOne/internal/domain/models"
	xhttp "PortfolioOne/pkg/http"
	"PortfolioOne/pkg/util"
)

// YahooClient fetches daily close history from the Yahoo Finance chart API.
type YahooClient struct {
	http     *xhttp.Client
	baseURL  string
	rng      string
	interval string
}

// NewYahooClient creates a chart API client.
func NewYahooClient(http *xhttp.Client, baseURL, rng, interval string) *YahooClient {
	return &YahooClient{http: http, baseURL: baseURL, rng: rng, interval: interval}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches the daily close series for a ticker, oldest first. Null
// closes (holidays, half-sessions) are skipped.
func (c *YahooClient) History(ctx context.Context, ticker string) ([]models.PricePoint, error) {
	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/%s", c.baseURL, ticker),
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (portfolio-one)",
		},
		QueryParams: map[string][]string{
			"range":    {c.rng},
			"interval": {c.interval},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", ticker, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s: %s", ticker, resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart %s: empty result", ticker)
	}

	r := resp.Chart.Result[0]
	closes := r.Indicators.Quote[0].Close
	n := len(r.Timestamp)
	if len(closes) < n {
		n = len(closes)
	}

	series := make([]models.PricePoint, 0, n)
	for i := 0; i < n; i++ {
		if closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		series = append(series, models.PricePoint{
			Date:  util.DayFromUnix(r.Timestamp[i]),
			Close: *closes[i],
		})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("chart %s: no usable closes", ticker)
	}

	// the API returns chronological data, but don't rely on it
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series, nil
}

// LatestClose fetches the most recent daily close for a ticker.
func (c *YahooClient) LatestClose(ctx context.Context, ticker string) (float64, error) {
	series, err := c.History(ctx, ticker)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1].Close, nil
}
