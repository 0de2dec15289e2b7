package client

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/nesirat/MCP/internal/core/domain"
	"github.com/nesirat/MCP/internal/telemetry/logger"
)

// DefaultTimeout is the per-request timeout.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the current bearer token, or "" when anonymous.
type TokenSource func() string

// Client provides HTTP communication with the MCP server.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	token   TokenSource
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// New creates a client for the given server address. The token source
// is consulted on every request, so a login mid-run takes effect
// without rebuilding the client.
func New(server string, token TokenSource, opts ...Option) *Client {
	baseURL := server
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		// Politeness cap on outgoing requests; generous enough to be
		// invisible to an interactive user.
		limiter: rate.NewLimiter(rate.Limit(20), 40),
		log:     logger.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a GET request with bearer auth.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// postJSON performs a POST request with a JSON body.
func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, path, bodyReader, "application/json")
}

// postForm performs a POST request with a form-encoded body.
func (c *Client) postForm(ctx context.Context, path string, form string) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, strings.NewReader(form), "application/x-www-form-urlencoded")
}

// delete performs a DELETE request with bearer auth.
func (c *Client) delete(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, "")
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, domain.ErrNetworkUnavailable.WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", "mcp-cli/1.0")
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	c.log.Debug("request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.ErrNetworkUnavailable.WithCause(err)
	}
	return resp, nil
}

// parseResponse maps the response status onto the error taxonomy and
// decodes a 2xx body into target (which may be nil).
func parseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if detail := errorDetail(resp.Body); detail != "" {
			return domain.ErrUnauthorized.WithDetails(detail)
		}
		return domain.ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if detail := errorDetail(resp.Body); detail != "" {
			return domain.ErrRequestFailed.WithDetails(detail)
		}
		return domain.ErrRequestFailed.WithDetails(
			fmt.Sprintf("request failed with status %d", resp.StatusCode))
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return domain.ErrRequestFailed.WithDetails("malformed response body").WithCause(err)
		}
	}
	return nil
}

// errorDetail extracts the "detail" field from a JSON error body.
// Returns "" if the body is not well-formed JSON or has no detail.
func errorDetail(body io.Reader) string {
	var errResp struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&errResp); err != nil {
		return ""
	}
	return errResp.Detail
}
