package source

import (
	"time"

	"resty.dev/v3"
)

const (
	// requestTimeout bounds a single upstream attempt
	requestTimeout = 20 * time.Second

	// userAgent identifies us as browser traffic; the chart endpoint
	// rejects obvious bot clients
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// NewHTTPClient creates the HTTP client shared by the retrieval
// strategies. No retry policy is configured on it: a failed attempt falls
// through to the next strategy instead of being retried in place.
func NewHTTPClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
}
