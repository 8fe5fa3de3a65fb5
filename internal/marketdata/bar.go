package marketdata

import (
	"sort"
	"time"
)

// Bar is one 5-minute OHLCV price observation.
type Bar struct {
	Timestamp time.Time `json:"ts"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// BarSeries is an ordered sequence of bars for one instrument.
type BarSeries []Bar

// Clean returns the series sorted ascending by timestamp with duplicate
// timestamps removed. The first occurrence in source order wins.
func (s BarSeries) Clean() BarSeries {
	out := make(BarSeries, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	dedup := out[:0]
	for _, b := range out {
		if len(dedup) > 0 && b.Timestamp.Equal(dedup[len(dedup)-1].Timestamp) {
			continue
		}
		dedup = append(dedup, b)
	}
	return dedup
}

// TrailingWindow keeps only the bars within d of the last bar's timestamp.
// The window anchors to the last observation rather than to the wall clock,
// so a series that ends mid-session is not truncated by elapsed time.
// The receiver must already be sorted ascending.
func (s BarSeries) TrailingWindow(d time.Duration) BarSeries {
	if len(s) == 0 {
		return s
	}
	cutoff := s[len(s)-1].Timestamp.Add(-d)
	for i, b := range s {
		if !b.Timestamp.Before(cutoff) {
			return s[i:]
		}
	}
	return nil
}

// ReturnBar is a Bar re-expressed as percentage change from the series'
// first close.
type ReturnBar struct {
	Bar
	ReturnPct float64 `json:"return_pct"`
}

// ReturnSeries is a normalized series for one instrument. It is never
// mutated after construction; a different display window requires
// re-deriving from the original BarSeries.
type ReturnSeries []ReturnBar
