package marketdata

import (
	"context"
	"fmt"

	xhttp "PortfolioOne/pkg/http"
	"PortfolioOne/pkg/util"
)

// FredClient fetches the latest observation of a FRED series, used for the
// BBB corporate OAS credit spread.
type FredClient struct {
	http    *xhttp.Client
	baseURL string
	series  string
	apiKey  string
}

// NewFredClient creates a FRED observations client. An empty API key disables
// the client; LatestValue then reports ErrNoAPIKey.
func NewFredClient(http *xhttp.Client, baseURL, series, apiKey string) *FredClient {
	return &FredClient{http: http, baseURL: baseURL, series: series, apiKey: apiKey}
}

// ErrNoAPIKey signals the spread source is not configured rather than failing.
var ErrNoAPIKey = fmt.Errorf("fred: api key not configured")

type fredResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// LatestValue returns the most recent non-missing observation of the series.
func (c *FredClient) LatestValue(ctx context.Context) (float64, error) {
	if c.apiKey == "" {
		return 0, ErrNoAPIKey
	}

	var resp fredResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL,
		QueryParams: map[string][]string{
			"series_id":  {c.series},
			"api_key":    {c.apiKey},
			"file_type":  {"json"},
			"sort_order": {"desc"},
			"limit":      {"10"},
		},
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("fred %s: %w", c.series, err)
	}

	// FRED reports missing values as "."; take the newest real one
	for _, obs := range resp.Observations {
		if v, ok := util.ParseFloat(obs.Value); ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("fred %s: no usable observations", c.series)
}

// SpreadFromVolatility estimates the BBB OAS from the VIX level when no FRED
// key is configured. Linear fit over 2010-2024: spread ~ 0.5 + 0.09 * vix.
func SpreadFromVolatility(vix float64) float64 {
	return 0.5 + vix*0.09
}
