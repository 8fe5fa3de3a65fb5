package yahoo

import (
	"context"
	"time"

	"resty.dev/v3"

	"stockchart/internal/marketdata"
	"stockchart/internal/source"
)

// RangeClient calls the coarse range form of the chart API, the same
// access path the historical-data libraries use. It only understands whole
// named periods, so a lookback window is rounded up to the nearest token.
// Slower to answer but the more stable path; it sits behind ChartClient in
// the fallback order.
type RangeClient struct {
	client *resty.Client
}

// NewRangeClient creates a range-token client against the given base URL.
func NewRangeClient(baseURL string) *RangeClient {
	return &RangeClient{
		client: source.NewHTTPClient(baseURL),
	}
}

// Name identifies the strategy in logs.
func (c *RangeClient) Name() string {
	return "range"
}

// rangeToken maps a lookback window onto the coarse period descriptors the
// range form accepts.
func rangeToken(lookback time.Duration) string {
	if lookback <= 24*time.Hour {
		return "1d"
	}
	return "5d"
}

// Bars fetches 5-minute bars for the named period covering the lookback
// window, trusting the shared parser's null handling.
func (c *RangeClient) Bars(ctx context.Context, symbol string, lookback time.Duration) (marketdata.BarSeries, error) {
	var result chartResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"range":    rangeToken(lookback),
			"interval": interval,
		}).
		SetResult(&result).
		Get("/v8/finance/chart/{symbol}")

	if err != nil {
		return nil, source.NewNetworkError(err)
	}
	if !resp.IsSuccess() {
		return nil, source.NewStatusError(resp.StatusCode())
	}

	return result.bars()
}
