// internal/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	xerrors "storefront/internal/pkg/errors"
	"storefront/internal/pkg/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	envelopeSuccess = "success"
	envelopeError   = "error"
)

// envelope is the wrapper every backend response uses.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
}

// Client is the single gateway to the storefront REST API. It reads the
// bearer token from the session but never writes the session.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     session.TokenSource
	logger     *zap.Logger
	maxRetries int
	backoff    time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMaxRetries retries GET requests that fail transiently.
func WithMaxRetries(n int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = n
		c.backoff = backoff
	}
}

func New(baseURL string, tokens session.TokenSource, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		logger:     logger,
		backoff:    200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs one API call. A nil in omits the request body; a nil out
// discards the envelope data. Every failure is a *xerrors.RequestError.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	return c.do(ctx, method, path, in, out, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, header http.Header) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &xerrors.RequestError{Message: fmt.Sprintf("encode request: %v", err), Err: err}
		}
		payload = b
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.maxRetries
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = c.roundTrip(ctx, method, path, payload, out, header)
		if err == nil || attempt == attempts || !xerrors.IsTransient(err) {
			return err
		}
		c.logger.Debug("retrying transient failure",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return &xerrors.RequestError{Message: ctx.Err().Error(), Err: ctx.Err()}
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, out any, header http.Header) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &xerrors.RequestError{Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &xerrors.RequestError{Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &xerrors.RequestError{Status: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		if jsonErr := json.Unmarshal(raw, &env); jsonErr != nil {
			return xerrors.NewRequestError(resp.StatusCode, "", "")
		}
		return xerrors.NewRequestError(resp.StatusCode, env.Code, env.Message)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &xerrors.RequestError{Status: resp.StatusCode, Message: "malformed response envelope", Err: err}
	}
	if env.Status == envelopeError {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &xerrors.RequestError{Status: resp.StatusCode, Code: env.Code, Message: msg}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &xerrors.RequestError{Status: resp.StatusCode, Message: fmt.Sprintf("decode response data: %v", err), Err: err}
	}
	return nil
}

// AsRequestError unwraps err into a RequestError.
func AsRequestError(err error) (*xerrors.RequestError, bool) {
	var re *xerrors.RequestError
	ok := errors.As(err, &re)
	return re, ok
}
