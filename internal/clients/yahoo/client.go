// Package yahoo provides a client for Yahoo Finance's public JSON endpoints
package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/yfinance-mcp/internal/common"
	"github.com/bobmcallan/yfinance-mcp/internal/interfaces"
)

const (
	DefaultBaseURL   = "https://query2.finance.yahoo.com"
	DefaultCrumbURL  = "https://query1.finance.yahoo.com/v1/test/getcrumb"
	DefaultCookieURL = "https://fc.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxBodyBytes     = 16 << 20
)

const tickerHint = "Verify the ticker symbol is correct, for example AAPL or BRK-B."

// Client implements interfaces.MarketDataProvider against Yahoo Finance
type Client struct {
	baseURL    string
	crumbURL   string
	cookieURL  string
	userAgent  string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter

	// session credential for endpoints that require a crumb
	mu    sync.Mutex
	crumb string
}

var _ interfaces.MarketDataProvider = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL for data endpoints
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithSessionURLs sets the cookie and crumb endpoints
func WithSessionURLs(cookieURL, crumbURL string) ClientOption {
	return func(c *Client) {
		c.cookieURL = cookieURL
		c.crumbURL = crumbURL
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL:   DefaultBaseURL,
		crumbURL:  DefaultCrumbURL,
		cookieURL: DefaultCookieURL,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewClientFromConfig builds a client from the [clients.yahoo] config section
func NewClientFromConfig(cfg common.YahooConfig, logger *common.Logger) *Client {
	opts := []ClientOption{
		WithLogger(logger),
		WithTimeout(cfg.GetTimeout()),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.CookieURL != "" && cfg.CrumbURL != "" {
		opts = append(opts, WithSessionURLs(cfg.CookieURL, cfg.CrumbURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, WithRateLimit(cfg.RateLimit))
	}
	return NewClient(opts...)
}

// APIError represents a non-200 response from Yahoo
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET and returns the parsed JSON document.
// subject names what was asked for in error messages.
func (c *Client) get(ctx context.Context, path string, params url.Values, withCrumb bool, subject string) (gjson.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return gjson.Result{}, common.UpstreamFailure(err, "rate limit wait")
	}

	if params == nil {
		params = url.Values{}
	}
	if withCrumb {
		crumb, err := c.getCrumb(ctx)
		if err != nil {
			return gjson.Result{}, err
		}
		params.Set("crumb", crumb)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return gjson.Result{}, common.UpstreamFailure(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", c.baseURL+path).Str("subject", subject).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, common.UpstreamFailure(err, "request for %s failed", subject)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return gjson.Result{}, common.UpstreamFailure(err, "failed to read response for %s", subject)
	}

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, c.statusError(resp.StatusCode, path, subject, body)
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, common.UpstreamFailure(
			&APIError{StatusCode: resp.StatusCode, Message: "invalid JSON payload", Endpoint: path},
			"failed to decode response for %s", subject)
	}

	return gjson.ParseBytes(body), nil
}

// statusError classifies a non-200 response
func (c *Client) statusError(status int, path, subject string, body []byte) error {
	desc := gjson.GetBytes(body, "*.error.description").String()

	if status == http.StatusNotFound {
		if desc == "" {
			desc = "no data found"
		}
		return common.NotFound(tickerHint, "%s: %s", subject, desc)
	}

	if status == http.StatusUnauthorized {
		// crumb expired or was rejected; the next call fetches a fresh one
		c.invalidateCrumb()
	}

	msg := desc
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.logger.Warn().Int("status", status).Str("endpoint", path).Str("subject", subject).Msg("Yahoo API error")
	return common.UpstreamFailure(&APIError{StatusCode: status, Message: msg, Endpoint: path},
		"Yahoo Finance request for %s failed", subject)
}

// envelope unwraps Yahoo's {"<key>": {"result": [...], "error": {...}}} shape
// and returns the first result.
func envelope(root gjson.Result, key, subject string) (gjson.Result, error) {
	if e := root.Get(key + ".error"); e.Exists() && e.Type != gjson.Null {
		code := e.Get("code").String()
		desc := e.Get("description").String()
		if desc == "" {
			desc = code
		}
		if strings.EqualFold(code, "Not Found") {
			return gjson.Result{}, common.NotFound(tickerHint, "%s: %s", subject, desc)
		}
		return gjson.Result{}, common.UpstreamFailure(
			&APIError{StatusCode: http.StatusOK, Message: desc, Endpoint: key},
			"Yahoo Finance returned an error for %s", subject)
	}

	res := root.Get(key + ".result.0")
	if !res.Exists() || res.Type == gjson.Null {
		return gjson.Result{}, common.NotFound(tickerHint, "%s: no data found", subject)
	}
	return res, nil
}

// getCrumb returns the cached crumb, establishing a session first if needed
func (c *Client) getCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" {
		return c.crumb, nil
	}

	// the cookie endpoint answers 404 but still sets the session cookie
	if req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cookieURL, nil); err == nil {
		req.Header.Set("User-Agent", c.userAgent)
		if resp, err := c.httpClient.Do(req); err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		} else {
			c.logger.Debug().Err(err).Msg("Yahoo cookie request failed")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.crumbURL, nil)
	if err != nil {
		return "", common.UpstreamFailure(err, "failed to create crumb request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", common.UpstreamFailure(err, "failed to establish a Yahoo Finance session")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	crumb := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK || crumb == "" || strings.ContainsAny(crumb, "<{ ") {
		return "", common.UpstreamFailure(
			&APIError{StatusCode: resp.StatusCode, Message: "crumb unavailable", Endpoint: c.crumbURL},
			"failed to establish a Yahoo Finance session")
	}

	c.logger.Debug().Msg("Yahoo session crumb acquired")
	c.crumb = crumb
	return crumb, nil
}

func (c *Client) invalidateCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}
