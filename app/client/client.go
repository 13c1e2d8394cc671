// Package client talks to the news backend over its REST API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	apiKey     string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithAPIKey sends key in the X-API-Key header. The backend requires it for
// POST /update when it is configured with an access key.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AllNews lists cached news. Zero limit or offset are left to the server.
func (c *Client) AllNews(ctx context.Context, limit, offset int) (*NewsResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	var resp NewsResponse
	if err := c.do(ctx, http.MethodGet, withQuery("/news/all", params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) TopNews(ctx context.Context) (*NewsResponse, error) {
	var resp NewsResponse
	if err := c.do(ctx, http.MethodGet, "/news/top", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) NewsByCategory(ctx context.Context, category string, limit int) (*NewsResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp NewsResponse
	endpoint := withQuery("/news/category/"+url.PathEscape(category), params)
	if err := c.do(ctx, http.MethodGet, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Categories(ctx context.Context) (*CategoriesResponse, error) {
	var resp CategoriesResponse
	if err := c.do(ctx, http.MethodGet, "/categories", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Stats(ctx context.Context) (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.do(ctx, http.MethodGet, "/stats", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TriggerUpdate asks the backend to rebuild its news corpus. The call
// returns as soon as the job is accepted.
func (c *Client) TriggerUpdate(ctx context.Context) (*UpdateResponse, error) {
	var resp UpdateResponse
	if err := c.do(ctx, http.MethodPost, "/update", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	if err != nil {
		return c.fail(endpoint, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(endpoint, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return c.fail(endpoint, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(endpoint, 0, fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}

func (c *Client) fail(endpoint string, status int, err error) error {
	slog.Error("API request failed", "endpoint", endpoint, "status", status, "error", err)
	return &RequestError{Endpoint: endpoint, StatusCode: status, Err: err}
}

func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
