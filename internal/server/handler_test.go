package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stockchart/internal/cache"
	"stockchart/internal/marketdata"
	"stockchart/internal/testutil"
)

var handlerStart = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

// recordingFetcher serves canned datasets and counts invocations so cache
// behavior is observable through the handler.
type recordingFetcher struct {
	calls   int
	dataset func() *marketdata.Dataset
	failed  []string
}

func (f *recordingFetcher) FetchAll(_ context.Context, _ []marketdata.Instrument, _, _ time.Duration) (*marketdata.Dataset, []string) {
	f.calls++
	return f.dataset(), f.failed
}

func returnSeries(closes ...float64) marketdata.ReturnSeries {
	bars := testutil.SeriesFromCloses(handlerStart, closes...)
	out := make(marketdata.ReturnSeries, len(bars))
	for i, b := range bars {
		out[i] = marketdata.ReturnBar{Bar: b, ReturnPct: (b.Close - closes[0]) / closes[0] * 100}
	}
	return out
}

func newTestHandler(fetcher BatchFetcher) *Handler {
	universe := []marketdata.Instrument{
		{Symbol: "AAA", Sector: "Alpha"},
		{Symbol: "BBB", Sector: "Beta"},
	}
	return NewHandler(HandlerConfig{
		Universe: universe,
		Lookback: 5 * 24 * time.Hour,
		Windows: map[string]time.Duration{
			"1d": 24 * time.Hour,
			"3d": 3 * 24 * time.Hour,
			"5d": 5 * 24 * time.Hour,
		},
		DefaultWindow: "5d",
	}, fetcher, cache.NewTTL(300*time.Second), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetReturns_Success(t *testing.T) {
	fetcher := &recordingFetcher{
		dataset: func() *marketdata.Dataset {
			d := marketdata.NewDataset()
			d.Add(marketdata.Instrument{Symbol: "AAA", Sector: "Alpha"}, returnSeries(100, 101, 99))
			d.Add(marketdata.Instrument{Symbol: "BBB", Sector: "Beta"}, returnSeries(50, 50, 51))
			return d
		},
	}
	h := newTestHandler(fetcher)

	req := httptest.NewRequest(http.MethodGet, "/api/returns?window=1d", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp returnsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if resp.Window != "1d" || resp.Interval != "5m" {
		t.Errorf("window/interval = %q/%q", resp.Window, resp.Interval)
	}
	if len(resp.Series) != 2 {
		t.Fatalf("series count = %d, want 2", len(resp.Series))
	}
	if resp.Series[0].Symbol != "AAA" || resp.Series[1].Symbol != "BBB" {
		t.Errorf("series order = %s,%s, want AAA,BBB", resp.Series[0].Symbol, resp.Series[1].Symbol)
	}
	if resp.Series[0].Sector != "Alpha" {
		t.Errorf("sector = %q, want Alpha", resp.Series[0].Sector)
	}
	if resp.Series[0].Points[0].ReturnPct != 0 {
		t.Errorf("first point return = %v, want 0", resp.Series[0].Points[0].ReturnPct)
	}
	if resp.Failed == nil || len(resp.Failed) != 0 {
		t.Errorf("failed = %v, want empty array", resp.Failed)
	}
}

func TestGetReturns_DefaultWindow(t *testing.T) {
	fetcher := &recordingFetcher{
		dataset: func() *marketdata.Dataset {
			d := marketdata.NewDataset()
			d.Add(marketdata.Instrument{Symbol: "AAA"}, returnSeries(10, 11))
			return d
		},
	}
	h := newTestHandler(fetcher)

	req := httptest.NewRequest(http.MethodGet, "/api/returns", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp returnsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Window != "5d" {
		t.Errorf("window = %q, want the default 5d", resp.Window)
	}
}

func TestGetReturns_UnknownWindow(t *testing.T) {
	fetcher := &recordingFetcher{dataset: marketdata.NewDataset}
	h := newTestHandler(fetcher)

	req := httptest.NewRequest(http.MethodGet, "/api/returns?window=2w", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if fetcher.calls != 0 {
		t.Error("an invalid window still triggered a fetch")
	}
}

func TestGetReturns_TotalFailure(t *testing.T) {
	fetcher := &recordingFetcher{
		dataset: marketdata.NewDataset,
		failed:  []string{"AAA", "BBB"},
	}
	h := newTestHandler(fetcher)

	req := httptest.NewRequest(http.MethodGet, "/api/returns?window=1d", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestGetReturns_PartialFailureStillRenders(t *testing.T) {
	fetcher := &recordingFetcher{
		dataset: func() *marketdata.Dataset {
			d := marketdata.NewDataset()
			d.Add(marketdata.Instrument{Symbol: "AAA"}, returnSeries(10, 12))
			return d
		},
		failed: []string{"BBB"},
	}
	h := newTestHandler(fetcher)

	req := httptest.NewRequest(http.MethodGet, "/api/returns?window=1d", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp returnsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Series) != 1 || len(resp.Failed) != 1 || resp.Failed[0] != "BBB" {
		t.Errorf("partial failure misreported: series=%d failed=%v", len(resp.Series), resp.Failed)
	}
}

func TestGetReturns_CachedWithinTTL(t *testing.T) {
	fetcher := &recordingFetcher{
		dataset: func() *marketdata.Dataset {
			d := marketdata.NewDataset()
			d.Add(marketdata.Instrument{Symbol: "AAA"}, returnSeries(10, 11))
			return d
		},
	}
	h := newTestHandler(fetcher)
	router := h.Router()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/returns?window=1d", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}

	if fetcher.calls != 1 {
		t.Errorf("batch ran %d times for repeated identical requests, want 1", fetcher.calls)
	}
}

func TestGetStats(t *testing.T) {
	fetcher := &recordingFetcher{
		dataset: func() *marketdata.Dataset {
			d := marketdata.NewDataset()
			d.Add(marketdata.Instrument{Symbol: "AAA", Sector: "Alpha"}, returnSeries(100, 103, 98, 101))
			return d
		},
	}
	h := newTestHandler(fetcher)

	req := httptest.NewRequest(http.MethodGet, "/api/stats?window=3d", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Stats) != 1 {
		t.Fatalf("stats count = %d, want 1", len(resp.Stats))
	}

	row := resp.Stats[0]
	if row.StartPrice != 100 || row.LatestPrice != 101 {
		t.Errorf("prices = %v/%v, want 100/101", row.StartPrice, row.LatestPrice)
	}
	if row.MaxReturn != 3 || row.MinReturn != -2 {
		t.Errorf("max/min = %v/%v, want 3/-2", row.MaxReturn, row.MinReturn)
	}
	if row.Count != 4 {
		t.Errorf("count = %d, want 4", row.Count)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(&recordingFetcher{dataset: marketdata.NewDataset})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
