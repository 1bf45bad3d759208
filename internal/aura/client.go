package aura

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/auragen/internal/meditation"
)

// ScriptFetcher defines the calls the terminal client makes against the
// auragen API. It is implemented by *Client and can be faked in tests.
type ScriptFetcher interface {
	GenerateScript(ctx context.Context, location string) (ScriptResponse, error)
	Health(ctx context.Context) (HealthResponse, error)
}

var _ ScriptFetcher = (*Client)(nil)

// Client talks to the auragen HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind        = "127.0.0.1:8787"
	defaultUserAgent      = "auragen/0.1"
	defaultRequestTimeout = 20 * time.Second
	maxErrorBody          = 4 << 10
)

// NewClient builds a Client using the provided apiBind host:port value. A
// non-positive timeout selects the default.
func NewClient(apiBind string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// GenerateScript asks the service for a script for location. The returned
// script always holds exactly six sentences.
func (c *Client) GenerateScript(ctx context.Context, location string) (ScriptResponse, error) {
	if c == nil {
		return ScriptResponse{}, fmt.Errorf("client is nil")
	}
	body, err := json.Marshal(scriptRequest{Location: location})
	if err != nil {
		return ScriptResponse{}, fmt.Errorf("encode request: %w", err)
	}
	var payload ScriptResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate-script", bytes.NewReader(body), &payload); err != nil {
		return ScriptResponse{}, err
	}
	if err := meditation.Script(payload.Script).Validate(); err != nil {
		return ScriptResponse{}, fmt.Errorf("generate script: %w", err)
	}
	return payload, nil
}

// Health retrieves the service health report.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	if c == nil {
		return HealthResponse{}, fmt.Errorf("client is nil")
	}
	var payload HealthResponse
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &payload); err != nil {
		return HealthResponse{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return newAPIError(path, resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newAPIError(path string, resp *http.Response) *APIError {
	apiErr := &APIError{Path: path, StatusCode: resp.StatusCode, RequestID: resp.Header.Get("X-Request-Id")}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err == nil {
		apiErr.Message = strings.TrimSpace(payload.Error)
	}
	return apiErr
}

// StatusCode extracts the HTTP status from an *APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
