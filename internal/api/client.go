package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Options configure a Client.
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	Logger   *zap.Logger
	Observer Observer
	// Transport overrides the underlying round tripper (tests).
	Transport http.RoundTripper
}

// Client is a typed wrapper over the backend REST API. Every method issues
// exactly one HTTP request and never retries.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New returns a client for opts.BaseURL.
func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &transport{
				base:     base,
				logger:   logger,
				observer: opts.Observer,
			},
		},
		logger: logger,
	}
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one request. route is the templated path used for metrics.
type call struct {
	method      string
	route       string
	path        string
	body        io.Reader
	contentType string
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(b), nil
}

// do issues c and decodes the envelope's data into T.
func do[T any](ctx context.Context, cl *Client, c call) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(withRoute(ctx, c.route), c.method, cl.baseURL+c.path, c.body)
	if err != nil {
		return zero, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.contentType != "" {
		req.Header.Set("Content-Type", c.contentType)
	}

	resp, err := cl.http.Do(req)
	if err != nil {
		return zero, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("read response: %w", err)
	}

	var env Envelope[T]
	decodeErr := json.Unmarshal(raw, &env)
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		// A non-JSON error body still counts as a backend error.
		return zero, &Error{Status: resp.StatusCode, Message: env.Error}
	}
	if decodeErr != nil {
		return zero, fmt.Errorf("decode response: %w", decodeErr)
	}
	if !env.Success {
		return zero, &Error{Status: resp.StatusCode, Message: env.Error}
	}
	return env.Data, nil
}
