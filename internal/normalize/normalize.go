// Package normalize converts raw bar series into comparable
// percentage-return series.
package normalize

import (
	"time"

	"stockchart/internal/marketdata"
	"stockchart/internal/source"
)

// Returns re-expresses a bar series as percentage change from its first
// close inside the display window. The series is sorted and deduplicated
// first; a display window strictly narrower than the requested lookback
// trims to the bars trailing the last observation. A display covering the
// whole lookback keeps every retrieved bar, including any day-boundary
// overhang the upstream request widened into. The transformation is pure,
// so calling it twice with the same inputs yields identical output.
func Returns(series marketdata.BarSeries, lookback, display time.Duration) (marketdata.ReturnSeries, error) {
	clean := series.Clean()
	if display > 0 && display < lookback {
		clean = clean.TrailingWindow(display)
	}
	if len(clean) == 0 {
		return nil, source.NewEmptyError("no bars inside the display window")
	}

	close0 := clean[0].Close
	if close0 <= 0 {
		// a zero or negative price is a data-quality failure, not a
		// usable anchor
		return nil, source.NewInvalidAnchorError(close0)
	}

	out := make(marketdata.ReturnSeries, len(clean))
	for i, b := range clean {
		out[i] = marketdata.ReturnBar{
			Bar:       b,
			ReturnPct: (b.Close - close0) / close0 * 100,
		}
	}
	return out, nil
}
