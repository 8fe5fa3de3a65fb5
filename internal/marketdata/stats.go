package marketdata

// SeriesStats summarizes one instrument's return series for the
// statistics table: start and latest price plus latest, best and worst
// return over the displayed window.
type SeriesStats struct {
	Symbol       string  `json:"symbol"`
	Sector       string  `json:"sector"`
	StartPrice   float64 `json:"start_price"`
	LatestPrice  float64 `json:"latest_price"`
	LatestReturn float64 `json:"latest_return_pct"`
	MaxReturn    float64 `json:"max_return_pct"`
	MinReturn    float64 `json:"min_return_pct"`
	Count        int     `json:"count"`
}

// Summarize computes the statistics row for one instrument. The series
// must be non-empty; empty series never reach the dataset.
func Summarize(inst Instrument, s ReturnSeries) SeriesStats {
	stats := SeriesStats{
		Symbol:       inst.Symbol,
		Sector:       inst.Sector,
		StartPrice:   s[0].Close,
		LatestPrice:  s[len(s)-1].Close,
		LatestReturn: s[len(s)-1].ReturnPct,
		MaxReturn:    s[0].ReturnPct,
		MinReturn:    s[0].ReturnPct,
		Count:        len(s),
	}
	for _, rb := range s[1:] {
		if rb.ReturnPct > stats.MaxReturn {
			stats.MaxReturn = rb.ReturnPct
		}
		if rb.ReturnPct < stats.MinReturn {
			stats.MinReturn = rb.ReturnPct
		}
	}
	return stats
}
