// Package api provides the HTTP transport to the marketplace server. It is
// a pure transport with credential injection: the bearer token is read from
// the session store immediately before each dispatch, never cached.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vlasovmk/marketctl/internal/errs"
)

// TokenSource yields the current bearer token, or "" when anonymous.
type TokenSource interface {
	Token() string
}

// Client issues JSON requests against a fixed base endpoint.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	log     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger attaches a logger; the default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the given base URL.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// serverMessage is the error body shape the server uses for all failures.
type serverMessage struct {
	Message string `json:"message"`
}

// Do performs one request. body (when non-nil) is marshaled as JSON; out
// (when non-nil) receives the decoded response body. Non-2xx statuses are
// translated to the errs taxonomy carrying the server message verbatim.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return errs.Transport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Transport(err)
	}

	c.log.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg serverMessage
		_ = json.Unmarshal(raw, &msg)
		return errs.FromStatus(resp.StatusCode, msg.Message)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errs.Transport(fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}
