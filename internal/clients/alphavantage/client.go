// Package alphavantage provides a streaming client for the Alpha Vantage daily time series API
package alphavantage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/stockdesk/internal/common"
	"github.com/bobmcallan/stockdesk/internal/interfaces"
)

const (
	DefaultBaseURL    = "https://www.alphavantage.co"
	DefaultTimeout    = 60 * time.Second
	DefaultRateLimit  = 5 // requests per minute (free tier)
	DefaultOutputSize = "full"

	dailySeriesFunction = "TIME_SERIES_DAILY"
)

// Client implements the HistoryProvider interface
type Client struct {
	baseURL    string
	apiKey     string
	outputSize string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

var _ interfaces.HistoryProvider = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit in requests per minute. Zero or less disables limiting.
func WithRateLimit(requestsPerMinute int) ClientOption {
	return func(c *Client) {
		c.limiter = newLimiter(requestsPerMinute)
	}
}

// WithTimeout sets the HTTP timeout, which also bounds reading the stream
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithOutputSize selects "full" (20+ years) or "compact" (latest 100 points)
func WithOutputSize(size string) ClientOption {
	return func(c *Client) {
		if size != "" {
			c.outputSize = size
		}
	}
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		outputSize: DefaultOutputSize,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: newLimiter(DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-200 response. Alpha Vantage reports most
// failures (unknown symbol, bad key) in a 200 body instead.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// open performs a rate-limited GET and hands back the undecoded body.
func (c *Client) open(ctx context.Context, params url.Values) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().
		Str("function", params.Get("function")).
		Str("symbol", params.Get("symbol")).
		Msg("Alpha Vantage API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/query?function=" + params.Get("function"),
		}
	}

	return resp.Body, nil
}

// StreamDailySeries opens the daily OHLCV series for symbol, newest first.
// The caller must close the returned stream.
func (c *Client) StreamDailySeries(ctx context.Context, symbol string) (io.ReadCloser, error) {
	params := url.Values{}
	params.Set("function", dailySeriesFunction)
	params.Set("symbol", symbol)
	params.Set("outputsize", c.outputSize)
	return c.open(ctx, params)
}
