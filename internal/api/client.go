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

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultIdentityHeader carries the authenticated user's id.
const DefaultIdentityHeader = "X-User-ID"

// Identity is the caller a request is made on behalf of. The zero value
// is the anonymous (guest) caller.
type Identity string

// Anonymous is the guest identity; no identity header is sent for it.
const Anonymous Identity = ""

// IsAnonymous reports whether id carries no user.
func (id Identity) IsAnonymous() bool { return id == Anonymous }

// Client is a thin HTTP client for the todo backend. It handles JSON
// marshaling, the identity header, error mapping and response envelope
// normalization. It keeps no session state: every call names its caller.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	identityHeader string
	logger         *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithIdentityHeader overrides the header name used for the caller id.
func WithIdentityHeader(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.identityHeader = name
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the backend at baseURL, which includes
// the /api prefix (e.g., http://localhost:5000/api).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		identityHeader: DefaultIdentityHeader,
		logger:         log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs a single round trip. body, when non-nil, is sent as JSON.
// The normalized success payload is decoded into result when result is
// non-nil. No retries are attempted.
func (c *Client) Do(
	ctx context.Context,
	method string,
	path string,
	id Identity,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if !id.IsAnonymous() {
		req.Header.Set(c.identityHeader, string(id))
	}

	logger := c.logger.With("method", method, "path", path, "request_id", requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("request failed", "err", err)
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("reading response failed", "status", resp.StatusCode, "err", err)
		return &NetworkError{Method: method, Path: path, Err: err}
	}

	logger.Debug("request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(respBody),
		}
	}

	// No content to parse (e.g. 204).
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	payload := unwrapEnvelope(respBody)
	if len(payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, result); err != nil {
		logger.Warn("decoding response failed", "status", resp.StatusCode, "err", err)
		return &DecodeError{Method: method, Path: path, Err: err}
	}

	return nil
}

// get, post, put, patch and del are shorthands over Do.

func (c *Client) get(ctx context.Context, path string, id Identity, result interface{}) error {
	return c.Do(ctx, http.MethodGet, path, id, nil, result)
}

func (c *Client) post(ctx context.Context, path string, id Identity, body, result interface{}) error {
	return c.Do(ctx, http.MethodPost, path, id, body, result)
}

func (c *Client) put(ctx context.Context, path string, id Identity, body, result interface{}) error {
	return c.Do(ctx, http.MethodPut, path, id, body, result)
}

func (c *Client) patch(ctx context.Context, path string, id Identity, result interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, id, nil, result)
}

func (c *Client) del(ctx context.Context, path string, id Identity, result interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, id, nil, result)
}
