package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/Ishitag04/price-comparison-app/internal/types"
)

// maxBodyBytes bounds how much of an upstream response is read
const maxBodyBytes = 10 * 1024 * 1024

// HTTPClient calls the search API. Every call is bounded by the configured
// timeout and paced by a shared limiter; failures are returned, not retried.
type HTTPClient struct {
	client  *http.Client
	config  *types.Config
	logger  types.Logger
	limiter *rate.Limiter
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config *types.Config, logger types.Logger) *HTTPClient {
	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	limit := rate.Inf
	if config.UpstreamRatePerSec > 0 {
		limit = rate.Limit(config.UpstreamRatePerSec)
	}
	burst := config.UpstreamBurst
	if burst < 1 {
		burst = 1
	}

	return &HTTPClient{
		client:  client,
		config:  config,
		logger:  logger,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Get performs a single GET request and returns the body of a 200 response
func (h *HTTPClient) Get(ctx context.Context, rawURL string) ([]byte, error) {
	// the timeout covers the wait for a limiter slot as well as the request
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	h.logger.Debugf("Making request to %s", redact(rawURL))

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	h.logger.Debugf("Successfully retrieved %d bytes from %s", len(body), redact(rawURL))
	return body, nil
}

// GetWithParams encodes params onto baseURL and performs Get
func (h *HTTPClient) GetWithParams(ctx context.Context, baseURL string, params url.Values) ([]byte, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()

	return h.Get(ctx, u.String())
}

// Close releases idle connections
func (h *HTTPClient) Close() {
	h.client.CloseIdleConnections()
}

// redact hides the api_key query parameter in logged URLs
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
