// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/devtinder/devtinder-tui/internal/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the REST base address (default: http://localhost:7777)
	BaseURL string

	// Timeout bounds each request (default: 15s)
	Timeout time.Duration

	// RequestsPerSecond paces outgoing calls. Zero or negative disables pacing.
	RequestsPerSecond float64

	// Burst is the limiter bucket size (default: 1 when pacing is on)
	Burst int

	// Jar holds the session cookie. A fresh in-memory jar is used when nil.
	Jar http.CookieJar

	// Logger receives one debug line per request. Discarded when nil.
	Logger logrus.FieldLogger

	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://localhost:7777",
		Timeout:           15 * time.Second,
		RequestsPerSecond: 5,
		Burst:             10,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the DevTinder backend. It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	base       *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logrus.FieldLogger
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	c, _ := NewClientWithConfig(DefaultConfig())
	return c
}

// NewClientWithConfig creates a client with custom configuration. It fails
// only when BaseURL does not parse.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:7777"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		cfg.Jar = jar
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Host == "" {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "invalid base URL " + cfg.BaseURL, Cause: err}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		config: &cfg,
		base:   base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Jar:       cfg.Jar,
			Transport: cfg.Transport,
		},
		limiter: limiter,
		log:     logging.OrDiscard(cfg.Logger),
	}, nil
}

// BaseURL returns the normalized REST base address.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Jar returns the cookie jar, shared with the realtime session.
func (c *Client) Jar() http.CookieJar {
	return c.config.Jar
}

// Cookies returns the session cookies currently held for the backend.
func (c *Client) Cookies() []*http.Cookie {
	return c.config.Jar.Cookies(c.base)
}

// SetCookies restores previously saved session cookies.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.config.Jar.SetCookies(c.base, cookies)
}

// ClearCookies drops the session locally by expiring every cookie.
func (c *Client) ClearCookies() {
	var expired []*http.Cookie
	for _, ck := range c.Cookies() {
		expired = append(expired, &http.Cookie{Name: ck.Name, Value: "", Path: "/", MaxAge: -1})
	}
	if len(expired) > 0 {
		c.config.Jar.SetCookies(c.base, expired)
	}
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do sends one request and decodes the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return c.transportError(ctx, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	fields := logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
		"duration":   time.Since(start),
	}
	if err != nil {
		c.log.WithFields(fields).WithError(err).Debug("Request failed")
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()
	fields["status"] = resp.StatusCode
	c.log.WithFields(fields).Debug("Request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read response", Cause: err}
	}
	if err := decodePayload(data, out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return &ClientError{Type: ErrTypeCanceled, Message: ErrCanceled.Message, Cause: err}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ClientError{Type: ErrTypeTimeout, Message: ErrTimeout.Message, Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: ErrUnreachable.Message, Cause: err}
}

// responseError builds a ClientError from a non-2xx response. The backend
// replies with JSON {"message": ...}, {"error": ...} or plain text such as
// "ERROR : Invalid credentials".
func responseError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := errorMessage(data)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &ClientError{Type: typeForStatus(resp.StatusCode), Status: resp.StatusCode, Message: msg}
}

func errorMessage(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '{' {
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(trimmed, &body) == nil {
			if body.Message != "" {
				return body.Message
			}
			if body.Error != "" {
				return body.Error
			}
		}
	}
	text := strings.TrimSpace(string(trimmed))
	if i := strings.Index(text, ":"); i >= 0 && strings.EqualFold(strings.TrimSpace(text[:i]), "error") {
		text = strings.TrimSpace(text[i+1:])
	}
	return text
}

// decodePayload unmarshals data into out, unwrapping a {"data": ...}
// envelope when present.
func decodePayload(data []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope map[string]jsoniter.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}
		if inner, ok := envelope["data"]; ok {
			return json.Unmarshal(inner, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}
