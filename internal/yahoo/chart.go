package yahoo

import (
	"context"
	"strconv"
	"time"

	"resty.dev/v3"

	"stockchart/internal/marketdata"
	"stockchart/internal/source"
)

// interval is fixed: the pipeline exists to serve 5-minute bars.
const interval = "5m"

// ChartClient queries the chart endpoint directly with explicit
// epoch-second bounds. This is the primary retrieval strategy: it exposes
// the raw OHLCV arrays and answers fastest, at the cost of being an
// undocumented interface that can drift or block.
type ChartClient struct {
	client *resty.Client
	now    func() time.Time
}

// NewChartClient creates a direct-query client against the given base URL.
func NewChartClient(baseURL string) *ChartClient {
	return &ChartClient{
		client: source.NewHTTPClient(baseURL),
		now:    time.Now,
	}
}

// Name identifies the strategy in logs.
func (c *ChartClient) Name() string {
	return "chart"
}

// Bars fetches 5-minute bars for the lookback window. The request bounds
// are widened to whole days: start-of-day at the window's open, end-of-day
// at its close, matching how the endpoint slices sessions.
func (c *ChartClient) Bars(ctx context.Context, symbol string, lookback time.Duration) (marketdata.BarSeries, error) {
	now := c.now()
	start := now.Add(-lookback)
	period1 := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	period2 := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	var result chartResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"period1":  strconv.FormatInt(period1.Unix(), 10),
			"period2":  strconv.FormatInt(period2.Unix(), 10),
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
