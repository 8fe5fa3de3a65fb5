package source

import (
	"context"
	"log/slog"
	"time"

	"stockchart/internal/marketdata"
)

// Fallback tries an ordered list of sources and returns the first
// non-empty series. The ordering is a reliability trade-off: the direct
// chart query is fast and rich but undocumented and prone to drift, so the
// slower, more stable range path sits behind it as the safety net.
type Fallback struct {
	sources []Source
	logger  *slog.Logger
}

// NewFallback creates a retriever that tries sources in the given order.
func NewFallback(logger *slog.Logger, sources ...Source) *Fallback {
	return &Fallback{
		sources: sources,
		logger:  logger,
	}
}

// Bars returns the first source's non-empty result. Once a source
// succeeds, later sources are never invoked. If every source fails, the
// symbol is reported unavailable with the last failure as the cause; the
// caller degrades by omitting the instrument, not by aborting the batch.
func (f *Fallback) Bars(ctx context.Context, symbol string, lookback time.Duration) (marketdata.BarSeries, error) {
	var lastErr error
	for _, src := range f.sources {
		bars, err := src.Bars(ctx, symbol, lookback)
		if err != nil {
			f.logger.Debug("source failed",
				"source", src.Name(),
				"symbol", symbol,
				"error", err)
			lastErr = err
			continue
		}
		if len(bars) == 0 {
			lastErr = NewEmptyError("source returned an empty series")
			continue
		}
		return bars, nil
	}

	if lastErr == nil {
		lastErr = NewEmptyError("no sources configured")
	}
	return nil, NewUnavailableError(lastErr)
}
