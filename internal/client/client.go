// ABOUTME: HTTP client core for the library management API
// ABOUTME: Builds headers and queries, sends requests and hands responses to the normalizer

package client

import (
	"bytes"
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

	"github.com/google/uuid"
)

// apiRoot prefixes every resource path
const apiRoot = "/api"

// DefaultUserAgent identifies the client to the backend
const DefaultUserAgent = "libctl"

// Default pagination used when callers pass zero values
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// TokenSource supplies the bearer token for authenticated calls.
// The client only ever reads from it.
type TokenSource interface {
	Token() string
}

// Client is the API client for the library backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	messages   *Messages
	userAgent  string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a whole-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		c.httpClient = &http.Client{
			Transport:     c.httpClient.Transport,
			CheckRedirect: c.httpClient.CheckRedirect,
			Jar:           c.httpClient.Jar,
			Timeout:       d,
		}
	}
}

// WithMessages selects the message catalog used for normalized errors
func WithMessages(m *Messages) Option {
	return func(c *Client) {
		if m != nil {
			c.messages = m
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a new API client for the backend at baseURL.
// tokens may be nil, in which case every request is sent unauthenticated.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		messages:   Vietnamese,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Messages returns the catalog used for error and status text
func (c *Client) Messages() *Messages {
	return c.messages
}

// Auth returns the authentication resource client
func (c *Client) Auth() *AuthClient { return &AuthClient{c: c} }

// Books returns the books resource client
func (c *Client) Books() *BooksClient { return &BooksClient{c: c} }

// Users returns the users resource client
func (c *Client) Users() *UsersClient { return &UsersClient{c: c} }

// Wishlist returns the wishlist resource client
func (c *Client) Wishlist() *WishlistClient { return &WishlistClient{c: c} }

// Borrows returns the borrow requests resource client
func (c *Client) Borrows() *BorrowsClient { return &BorrowsClient{c: c} }

// Health calls GET /health on the server root
func (c *Client) Health(ctx context.Context) (*Health, error) {
	return send[Health](ctx, c, call{
		method: http.MethodGet,
		url:    c.baseURL + "/health",
	})
}

// headers builds the default request headers. The Authorization header is
// added only when includeAuth is set and a token is available.
func (c *Client) headers(includeAuth bool) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	if includeAuth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			h.Set("Authorization", "Bearer "+token)
		}
	}
	return h
}

// apiURL joins a resource path onto the API root
func (c *Client) apiURL(path string) string {
	return c.baseURL + apiRoot + path
}

// filter is an optional query parameter
type filter struct {
	key   string
	value string
}

// listQuery builds pagination parameters plus every non-empty filter
func listQuery(page, pageSize int, filters ...filter) url.Values {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	for _, f := range filters {
		if f.value != "" {
			q.Set(f.key, f.value)
		}
	}
	return q
}

// call describes a single API request
type call struct {
	method  string
	url     string
	query   url.Values
	payload any        // JSON-encoded when non-nil
	form    url.Values // form-encoded when non-nil, takes precedence over payload
	auth    bool
}

// do sends the request and returns the normalized payload
func (c *Client) do(ctx context.Context, cl call) (json.RawMessage, error) {
	endpoint := cl.url
	if len(cl.query) > 0 {
		endpoint += "?" + cl.query.Encode()
	}

	var body io.Reader
	h := c.headers(cl.auth)
	switch {
	case cl.form != nil:
		body = strings.NewReader(cl.form.Encode())
		h.Set("Content-Type", "application/x-www-form-urlencoded")
	case cl.payload != nil:
		data, err := json.Marshal(cl.payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header = h
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("API request failed", "method", cl.method, "url", cl.url, "request_id", requestID, "error", err)
		return nil, c.handleRequestError(ctx, err)
	}
	slog.Debug("API request",
		"method", cl.method,
		"url", cl.url,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	return Normalize(resp, c.messages)
}

// handleRequestError converts context errors to user-friendly messages.
// Transport failures are never normalized into a RequestError.
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled: %w", ctx.Err())
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out: %w", ctx.Err())
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// send performs the call and decodes the payload into T
func send[T any](ctx context.Context, c *Client, cl call) (*T, error) {
	raw, err := c.do(ctx, cl)
	if err != nil {
		return nil, err
	}
	return decode[T](c, raw, cl.url)
}

// decode unmarshals a normalized payload. A payload that does not fit T is
// reported the same way as a non-JSON success body.
func decode[T any](c *Client, raw json.RawMessage, endpoint string) (*T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		slog.Debug("Unexpected response shape", "url", endpoint, "error", err)
		return nil, &RequestError{Message: c.messages.InvalidResponse}
	}
	return &out, nil
}

// exec performs the call and discards any payload
func (c *Client) exec(ctx context.Context, cl call) error {
	_, err := c.do(ctx, cl)
	return err
}
