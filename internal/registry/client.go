// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the production registry API.
	DefaultBaseURL = "https://uiua.boo/api/"

	// DefaultTimeout bounds every HTTP request.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a per-request identifier for correlating server logs.
	RequestIDHeader = "X-Request-Id"

	// maxResponseBytes is the upper bound on response bodies read from the registry.
	maxResponseBytes = 1 << 20
)

type (
	// Client talks to the registry API. The zero value is not usable; use New.
	Client struct {
		httpClient  *http.Client
		baseURL     string
		userAgent   string
		timeout     time.Duration
		accessToken string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the API base URL. Empty values are ignored.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		if base = strings.TrimSpace(base); base != "" {
			cl.baseURL = strings.TrimRight(base, "/") + "/"
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// New creates a Client with defaults: DefaultBaseURL, DefaultTimeout, and a
// "boo/dev" user agent.
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: "boo/dev",
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	} else if c.httpClient.Timeout == 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the API base URL, always ending in "/".
func (c *Client) BaseURL() string { return c.baseURL }

// UserAgent returns the User-Agent header value, which doubles as the app name sent
// with authorization requests.
func (c *Client) UserAgent() string { return c.userAgent }

// WithAccessToken returns a copy of the client that authenticates with token.
func (c *Client) WithAccessToken(token string) *Client {
	cp := *c
	cp.accessToken = token
	return &cp
}

// HasAccessToken reports whether authenticated endpoints can be called.
func (c *Client) HasAccessToken() bool { return c.accessToken != "" }

// endpoint joins path segments onto the base URL. Segments are escaped, so
// user-supplied values cannot introduce extra path components.
func (c *Client) endpoint(segments ...string) (string, error) {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u, err := url.JoinPath(c.baseURL, escaped...)
	if err != nil {
		return "", fmt.Errorf("invalid registry URL %q: %w", c.baseURL, err)
	}
	return u, nil
}

// doJSON sends a request with an optional JSON body and decodes a JSON response into out.
func (c *Client) doJSON(ctx context.Context, op, method string, auth bool, in, out any, segments ...string) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	reqURL, err := c.endpoint(segments...)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, op, auth, out)
}

// do executes req, maps non-2xx responses through decodeError, and decodes the
// success body into out when out is non-nil.
func (c *Client) do(req *http.Request, op string, auth bool, out any) error {
	if auth {
		if c.accessToken == "" {
			return ErrNoAccessToken
		}
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("registry request failed", "op", op, "method", req.Method, "path", req.URL.Path,
			"request_id", requestID, "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	slog.Debug("registry request", "op", op, "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "request_id", requestID, "duration", time.Since(start))
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ProtocolError{Op: op, Err: err}
	}
	return nil
}
