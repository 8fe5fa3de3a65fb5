package source

import (
	"context"
	"time"

	"stockchart/internal/marketdata"
)

// Source is one retrieval strategy against an upstream access path.
// A strategy performs a single attempt: it never retries internally,
// because alternating between strategies is the Fallback's job.
type Source interface {
	// Bars fetches the 5-minute bars covering the lookback window for one
	// symbol. Failures come back as *SourceError, never as panics.
	Bars(ctx context.Context, symbol string, lookback time.Duration) (marketdata.BarSeries, error)

	// Name identifies the strategy in logs.
	Name() string
}
