// Package batch runs the retrieval pipeline across the whole instrument
// universe and aggregates the per-symbol outcomes.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"stockchart/internal/marketdata"
	"stockchart/internal/normalize"
	"stockchart/internal/source"
)

// Retriever fetches the raw bar series for one symbol.
type Retriever interface {
	Bars(ctx context.Context, symbol string, lookback time.Duration) (marketdata.BarSeries, error)
}

// Result carries one symbol's outcome from a worker back to the
// aggregator.
type Result struct {
	Symbol string
	Series marketdata.ReturnSeries
	Err    error
}

// Fetcher runs retrieval and normalization for every instrument in a
// universe. Symbols are independent, so they fan out across a bounded
// number of workers; a shared limiter paces upstream calls to stay under
// the chart endpoint's rate limiting.
type Fetcher struct {
	retriever   Retriever
	limiter     *rate.Limiter
	concurrency int
	logger      *slog.Logger
}

// New creates a batch fetcher. concurrency below 1 degrades to the
// sequential loop; a nil limiter disables pacing.
func New(retriever Retriever, limiter *rate.Limiter, concurrency int, logger *slog.Logger) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		retriever:   retriever,
		limiter:     limiter,
		concurrency: concurrency,
		logger:      logger,
	}
}

// FetchAll retrieves and normalizes every symbol in universe order.
// Failed symbols are omitted from the dataset and returned separately;
// the batch as a whole never fails. An empty dataset means every symbol
// failed, which is the caller's signal to stop rendering and ask for a
// different window.
func (f *Fetcher) FetchAll(ctx context.Context, universe []marketdata.Instrument, lookback, display time.Duration) (*marketdata.Dataset, []string) {
	results := make(chan Result, len(universe))
	sem := make(chan struct{}, f.concurrency)

	var wg sync.WaitGroup
	for _, inst := range universe {
		wg.Add(1)
		go func(inst marketdata.Instrument) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- f.fetchOne(ctx, inst.Symbol, lookback, display)
		}(inst)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	bySymbol := make(map[string]Result, len(universe))
	for r := range results {
		bySymbol[r.Symbol] = r
	}

	// merge back in universe order so legend and color assignment stay
	// stable across refreshes
	dataset := marketdata.NewDataset()
	var failed []string
	for _, inst := range universe {
		r := bySymbol[inst.Symbol]
		if r.Err != nil {
			f.logger.Warn("symbol unavailable",
				"symbol", inst.Symbol,
				"error", r.Err)
			failed = append(failed, inst.Symbol)
			continue
		}
		dataset.Add(inst, r.Series)
	}

	if dataset.Len() == 0 {
		f.logger.Error("every symbol failed", "universe", len(universe))
	}
	return dataset, failed
}

func (f *Fetcher) fetchOne(ctx context.Context, symbol string, lookback, display time.Duration) Result {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return Result{Symbol: symbol, Err: source.NewNetworkError(err)}
		}
	}

	bars, err := f.retriever.Bars(ctx, symbol, lookback)
	if err != nil {
		return Result{Symbol: symbol, Err: err}
	}

	series, err := normalize.Returns(bars, lookback, display)
	if err != nil {
		return Result{Symbol: symbol, Err: err}
	}
	return Result{Symbol: symbol, Series: series}
}
