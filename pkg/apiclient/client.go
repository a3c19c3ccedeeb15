// Package apiclient is the REST client for the storage appliance API.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marmos91/recursive-nfs/internal/logger"
	"github.com/marmos91/recursive-nfs/internal/telemetry"
)

// DefaultTimeout bounds every request when no other timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client talks to the appliance API rooted at baseURL (host + API path,
// e.g. "https://nas.local/api/v2.0").
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithInsecureTLS disables certificate verification, for appliances that
// serve the API with a self-signed certificate.
func WithInsecureTLS(insecure bool) Option {
	return func(c *Client) {
		if !insecure {
			return
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via config
		c.httpClient.Transport = transport
	}
}

// New creates a new API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a new client that authenticates with the given API key.
func (c *Client) WithToken(token string) *Client {
	return &Client{baseURL: c.baseURL, httpClient: c.httpClient, token: token}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// statusPolicy decides which response codes count as success.
type statusPolicy func(code int) bool

func any2xx(code int) bool { return code >= 200 && code < 300 }

func onlyOK(code int) bool { return code == http.StatusOK }

// do performs a JSON request and decodes the response into result. route is
// the path template used for tracing, path the concrete request path.
func (c *Client) do(ctx context.Context, method, route, path string, body, result any, ok statusPolicy) error {
	ctx, span := telemetry.StartApplianceSpan(ctx, method, route)
	defer span.End()

	err := c.roundTrip(ctx, method, path, body, result, ok)
	telemetry.RecordError(ctx, err)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, result any, ok statusPolicy) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: request failed: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	telemetry.SetAttributes(ctx, telemetry.HTTPStatus(resp.StatusCode))
	logger.DebugCtx(ctx, "appliance request",
		logger.KeyMethod, method,
		logger.KeyURL, url,
		logger.KeyStatus, resp.StatusCode,
		logger.KeyDurationMs, logger.Duration(start),
	)

	if !ok(resp.StatusCode) {
		return newAPIError(resp, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
