package testutil

import (
	"context"
	"sync"
	"time"

	"stockchart/internal/marketdata"
)

// MockSource is a scriptable retrieval strategy for tests. It counts
// calls so fallback ordering is observable.
type MockSource struct {
	BarsFunc func(ctx context.Context, symbol string, lookback time.Duration) (marketdata.BarSeries, error)
	NameFunc func() string

	mu    sync.Mutex
	calls int
}

// Bars implements the source interface.
func (m *MockSource) Bars(ctx context.Context, symbol string, lookback time.Duration) (marketdata.BarSeries, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.BarsFunc != nil {
		return m.BarsFunc(ctx, symbol, lookback)
	}
	return nil, nil
}

// Name implements the source interface.
func (m *MockSource) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

// Calls reports how many times Bars was invoked.
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// NewMockSource creates a mock source returning fixed values.
func NewMockSource(name string, bars marketdata.BarSeries, err error) *MockSource {
	return &MockSource{
		BarsFunc: func(context.Context, string, time.Duration) (marketdata.BarSeries, error) {
			return bars, err
		},
		NameFunc: func() string {
			return name
		},
	}
}

// SeriesFromCloses builds a bar series of 5-minute bars starting at start
// with the given closes. Open/high/low are derived from the close.
func SeriesFromCloses(start time.Time, closes ...float64) marketdata.BarSeries {
	series := make(marketdata.BarSeries, len(closes))
	for i, c := range closes {
		series[i] = marketdata.Bar{
			Timestamp: start.Add(time.Duration(i) * 5 * time.Minute),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return series
}
