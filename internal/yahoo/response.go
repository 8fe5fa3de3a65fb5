package yahoo

import (
	"time"

	"stockchart/internal/marketdata"
	"stockchart/internal/source"
)

// chartResponse models the v8 chart envelope: a result array carrying a
// timestamp array and parallel OHLCV arrays under indicators.quote.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  any           `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

// Price arrays use pointers because the upstream emits null for samples it
// missed; a nil entry at an index invalidates that bar.
type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// bars converts the envelope into a BarSeries. A bar is retained only when
// all four price fields are present at its index; a null volume degrades
// to zero rather than excluding the bar.
func (r *chartResponse) bars() (marketdata.BarSeries, error) {
	if len(r.Chart.Result) == 0 {
		return nil, source.NewMalformedError("chart result is absent or empty")
	}
	res := r.Chart.Result[0]
	if len(res.Timestamp) == 0 {
		return nil, source.NewEmptyError("result has no timestamps")
	}
	if len(res.Indicators.Quote) == 0 {
		return nil, source.NewMalformedError("result has no quote indicators")
	}

	q := res.Indicators.Quote[0]
	n := len(res.Timestamp)
	if len(q.Open) < n || len(q.High) < n || len(q.Low) < n || len(q.Close) < n {
		return nil, source.NewMalformedError("quote arrays shorter than the timestamp array")
	}

	series := make(marketdata.BarSeries, 0, n)
	for i, ts := range res.Timestamp {
		if q.Open[i] == nil || q.High[i] == nil || q.Low[i] == nil || q.Close[i] == nil {
			continue
		}
		var volume int64
		if i < len(q.Volume) && q.Volume[i] != nil {
			volume = *q.Volume[i]
		}
		series = append(series, marketdata.Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      *q.Open[i],
			High:      *q.High[i],
			Low:       *q.Low[i],
			Close:     *q.Close[i],
			Volume:    volume,
		})
	}

	if len(series) == 0 {
		return nil, source.NewEmptyError("every sample had a null price field")
	}
	return series, nil
}
