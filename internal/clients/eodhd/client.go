// Package eodhd provides a client for the EODHD real-time quote API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/stockdesk/internal/common"
	"github.com/bobmcallan/stockdesk/internal/interfaces"
	"github.com/bobmcallan/stockdesk/internal/models"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second

	// NotFoundMessage is the body EODHD sends for an unknown ticker.
	NotFoundMessage = "Ticker Not Found."
)

// flexInt64 handles JSON values that may be either a number or a string.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	var num int64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexInt64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexInt64(n)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into int64", string(data))
}

// flexDecimal handles prices sent as numbers, numeric strings or "NA".
// Valid is false when no price was sent.
type flexDecimal struct {
	Value decimal.Decimal
	Valid bool
}

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(data), `"`)
	switch text {
	case "", "NA", "N/A", "null":
		*f = flexDecimal{}
		return nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return fmt.Errorf("cannot unmarshal %s into decimal: %w", string(data), err)
	}
	*f = flexDecimal{Value: d, Valid: true}
	return nil
}

// realTimeResponse is the subset of the /real-time payload we use.
type realTimeResponse struct {
	Code      string      `json:"code"`
	Timestamp flexInt64   `json:"timestamp"`
	Close     flexDecimal `json:"close"`
}

// Client implements the QuoteProvider interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

var _ interfaces.QuoteProvider = (*Client)(nil)

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

// WithRateLimit sets the rate limit. Zero or less disables limiting.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Is matches interfaces.ErrQuoteNotFound when the body carries the
// provider's not-found sentinel.
func (e *APIError) Is(target error) bool {
	if target != interfaces.ErrQuoteNotFound {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(e.Message), NotFoundMessage)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetRealTimeQuote retrieves the latest (possibly delayed) price for symbol
func (c *Client) GetRealTimeQuote(ctx context.Context, symbol string) (*models.ProviderQuote, error) {
	path := "/real-time/" + url.PathEscape(symbol)

	var resp realTimeResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Close.Valid {
		return nil, fmt.Errorf("real-time quote for %s has no price", symbol)
	}
	// flexInt64 decodes "NA" as zero.
	if resp.Timestamp <= 0 {
		return nil, fmt.Errorf("real-time quote for %s has no timestamp", symbol)
	}

	code := resp.Code
	if code == "" {
		code = symbol
	}
	return &models.ProviderQuote{
		Symbol:    code,
		Price:     resp.Close.Value,
		Timestamp: int64(resp.Timestamp),
	}, nil
}
