// Package server exposes the aggregated return series to the chart and
// statistics front end over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"stockchart/internal/cache"
	"stockchart/internal/marketdata"
)

// BatchFetcher runs the retrieval pipeline for the whole universe.
type BatchFetcher interface {
	FetchAll(ctx context.Context, universe []marketdata.Instrument, lookback, display time.Duration) (*marketdata.Dataset, []string)
}

// Handler serves the dataset endpoints.
type Handler struct {
	universe      []marketdata.Instrument
	lookback      time.Duration
	windows       map[string]time.Duration
	defaultWindow string
	store         *cache.TTL
	fetcher       BatchFetcher
	logger        *slog.Logger
}

// HandlerConfig carries the static inputs for a Handler.
type HandlerConfig struct {
	Universe      []marketdata.Instrument
	Lookback      time.Duration
	Windows       map[string]time.Duration
	DefaultWindow string
}

// NewHandler wires the cache-fronted batch pipeline to the HTTP surface.
func NewHandler(cfg HandlerConfig, fetcher BatchFetcher, store *cache.TTL, logger *slog.Logger) *Handler {
	return &Handler{
		universe:      cfg.Universe,
		lookback:      cfg.Lookback,
		windows:       cfg.Windows,
		defaultWindow: cfg.DefaultWindow,
		store:         store,
		fetcher:       fetcher,
		logger:        logger,
	}
}

// Router builds the route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/returns", h.getReturns).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", h.getStats).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	return r
}

type seriesPayload struct {
	Symbol string                  `json:"symbol"`
	Sector string                  `json:"sector"`
	Points marketdata.ReturnSeries `json:"points"`
}

type returnsResponse struct {
	Window   string          `json:"window"`
	Interval string          `json:"interval"`
	Series   []seriesPayload `json:"series"`
	Failed   []string        `json:"failed"`
}

type statsResponse struct {
	Window string                   `json:"window"`
	Stats  []marketdata.SeriesStats `json:"stats"`
	Failed []string                 `json:"failed"`
}

func (h *Handler) getReturns(w http.ResponseWriter, r *http.Request) {
	window, display, ok := h.window(w, r)
	if !ok {
		return
	}

	value := h.dataset(r.Context(), display)
	if value.Dataset.Len() == 0 {
		http.Error(w, "no data available for any instrument; try a different window", http.StatusBadGateway)
		return
	}

	resp := returnsResponse{
		Window:   window,
		Interval: "5m",
		Series:   make([]seriesPayload, 0, value.Dataset.Len()),
		Failed:   failedList(value.Failed),
	}
	for _, inst := range value.Dataset.Instruments() {
		series, _ := value.Dataset.Get(inst.Symbol)
		resp.Series = append(resp.Series, seriesPayload{
			Symbol: inst.Symbol,
			Sector: inst.Sector,
			Points: series,
		})
	}
	h.writeJSON(w, resp)
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	window, display, ok := h.window(w, r)
	if !ok {
		return
	}

	value := h.dataset(r.Context(), display)
	if value.Dataset.Len() == 0 {
		http.Error(w, "no data available for any instrument; try a different window", http.StatusBadGateway)
		return
	}

	resp := statsResponse{
		Window: window,
		Stats:  make([]marketdata.SeriesStats, 0, value.Dataset.Len()),
		Failed: failedList(value.Failed),
	}
	for _, inst := range value.Dataset.Instruments() {
		series, _ := value.Dataset.Get(inst.Symbol)
		resp.Stats = append(resp.Stats, marketdata.Summarize(inst, series))
	}
	h.writeJSON(w, resp)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// window resolves the window query parameter to a display duration,
// answering 400 on unknown presets.
func (h *Handler) window(w http.ResponseWriter, r *http.Request) (string, time.Duration, bool) {
	name := r.URL.Query().Get("window")
	if name == "" {
		name = h.defaultWindow
	}
	display, ok := h.windows[name]
	if !ok {
		http.Error(w, "unknown window preset: "+name, http.StatusBadRequest)
		return "", 0, false
	}
	return name, display, true
}

// dataset answers from the cache, computing the batch at most once per key
// within the TTL.
func (h *Handler) dataset(ctx context.Context, display time.Duration) cache.Value {
	key := cache.NewKey(h.universe, h.lookback, display)
	return h.store.GetOrCompute(ctx, key, func(ctx context.Context) cache.Value {
		dataset, failed := h.fetcher.FetchAll(ctx, h.universe, h.lookback, display)
		return cache.Value{Dataset: dataset, Failed: failed}
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// failedList keeps the failed field an array rather than null in JSON.
func failedList(failed []string) []string {
	if failed == nil {
		return []string{}
	}
	return failed
}
