// Package client is a typed HTTP client for the expenses API and the
// server-rendered pages. One attempt per call: no retry, no backoff, and no
// deadline other than the caller's context.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/joestump/joe-expenses/internal/api"
	"github.com/joestump/joe-expenses/internal/log"
)

const (
	// LoginPath is where an unauthorized response sends the user.
	LoginPath = "/login"

	maxBodySize = 4 << 20
)

// Client talks to one server and keeps its session cookie.
type Client struct {
	baseURL        string
	http           *http.Client
	onUnauthorized func(path string)
	log            *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is added
// if it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUnauthorizedHook sets the function called with LoginPath when a
// request comes back 401.
func WithUnauthorizedHook(fn func(path string)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("client: cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	c.log = c.log.WithComponent(log.ComponentClient)
	return c, nil
}

// SetUnauthorizedHook replaces the unauthorized hook after construction.
func (c *Client) SetUnauthorizedHook(fn func(path string)) {
	c.onUnauthorized = fn
}

// BaseURL returns the server root this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Do performs one JSON request. in, when non-nil, is sent as the JSON body;
// out, when non-nil, receives the decoded response and is validated if it
// implements api.Validator.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	return c.do(ctx, method, path, in, out, true)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, redirectOn401 bool) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encoding %s body: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "request failed", log.FieldMethod, method, log.FieldPath, path, log.FieldError, err.Error())
		return &ConnectionError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &ConnectionError{Err: err}
	}
	c.log.DebugContext(ctx, "request", log.FieldMethod, method, log.FieldPath, path, log.FieldStatus, resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized && redirectOn401 {
		if c.onUnauthorized != nil {
			c.onUnauthorized(LoginPath)
		}
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	if v, ok := out.(api.Validator); ok {
		if err := v.Validate(); err != nil {
			return &DecodeError{Path: path, Err: err}
		}
	}
	return nil
}

func apiError(status int, raw []byte) *APIError {
	var er api.ErrorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Error != "" {
		return &APIError{Status: status, Message: er.Error}
	}
	return &APIError{Status: status, Message: http.StatusText(status)}
}

// FetchPage returns the raw HTML the server renders for path. Redirects are
// followed, as a browser would.
func (c *Client) FetchPage(ctx context.Context, path string) (string, error) {
	html, _, err := c.LoadPage(ctx, path)
	return html, err
}

// LoadPage is FetchPage that also reports the path the page was finally
// served from once redirects are followed.
func (c *Client) LoadPage(ctx context.Context, path string) (html, final string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", "", fmt.Errorf("client: creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", &ConnectionError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", "", &ConnectionError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return string(raw), c.sitePath(resp.Request.URL, path), nil
}

// sitePath maps a served URL back to a path under the base URL, or returns
// fallback when the server sent us elsewhere.
func (c *Client) sitePath(u *url.URL, fallback string) string {
	base, err := url.Parse(c.baseURL)
	if err != nil || u == nil || u.Host != base.Host {
		return fallback
	}
	p := strings.TrimPrefix(u.Path, strings.TrimSuffix(base.Path, "/"))
	if p == "" {
		p = "/"
	}
	return p
}

// IsUnauthorized reports whether err is the 401 sentinel.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
