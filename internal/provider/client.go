package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	baseURLV3      = "https://financialmodelingprep.com/api/v3"
	baseURLV4      = "https://financialmodelingprep.com/api/v4"
	defaultTimeout = 15 * time.Second
)

// Config holds the provider client's configuration.
type Config struct {
	APIKey     string
	BaseURLV3  string
	BaseURLV4  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is a thin, single-attempt HTTP client against the Financial
// Modeling Prep REST API. It performs no caching, rate limiting or
// retries — the fetcher composes those around raw Client calls so it can
// observe the status code and headers of every attempt.
type Client struct {
	apiKey     string
	baseURLV3  string
	baseURLV4  string
	httpClient *http.Client
}

// NewClient builds a Client, defaulting the base URLs and timeout.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	v3 := cfg.BaseURLV3
	if v3 == "" {
		v3 = baseURLV3
	}
	v4 := cfg.BaseURLV4
	if v4 == "" {
		v4 = baseURLV4
	}
	return &Client{apiKey: cfg.APIKey, baseURLV3: v3, baseURLV4: v4, httpClient: hc}
}

// NormalizeTicker converts share-class tickers to FMP's hyphenated form
// (BRK.A -> BRK-A).
func NormalizeTicker(ticker string) string {
	return strings.ReplaceAll(ticker, ".", "-")
}

// Response is the raw result of a single attempt, before any retry or
// cache decision is made by the caller.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// BuildURL joins a base, a path and query parameters (the api key is
// always appended last) into a fully fingerprint-able request URL.
func (c *Client) BuildURL(base, path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)
	return fmt.Sprintf("%s%s?%s", base, path, params.Encode())
}

// V3 returns the v3 base URL.
func (c *Client) V3() string { return c.baseURLV3 }

// V4 returns the v4 base URL.
func (c *Client) V4() string { return c.baseURLV4 }

// Get performs one GET request and returns the raw response. A non-nil
// error here means a transport-level failure (dial/timeout/context);
// non-2xx HTTP responses are returned as a Response with no error so the
// caller can classify 404/429/5xx itself.
func (c *Client) Get(ctx context.Context, fullURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}
