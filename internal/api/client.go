// Package api is the typed HTTP client for the marketplace backend.
// Every endpoint the storefront consumes is a method on Client; the
// bearer token is read from a TokenSource at send time, never captured
// up front, so a login or logout between two concurrent calls affects
// only requests issued afterwards.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the current bearer token. An empty string means
// the request goes out unauthenticated. The session manager is the
// production implementation.
type TokenSource interface {
	CurrentToken() string
}

// Error is a non-2xx backend response. Message carries the body's
// "message" field when the body was parsable JSON, otherwise it is
// empty and callers fall back to their own wording.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// Client talks to the backend REST API. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
}

// New builds a Client for the given base URL. The URL is normalized to
// end in /api the same way the storefront always has: "http://host" and
// "http://host/api" both resolve to "http://host/api". timeout of zero
// disables the client-side timeout; calls then run until the transport
// reports success or failure.
func New(rawBase string, tokens TokenSource, timeout time.Duration) *Client {
	base := strings.TrimRight(rawBase, "/")
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}
	return &Client{
		baseURL: base,
		httpc:   &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// do issues one JSON request and decodes a 2xx body into out (when out
// is non-nil). Non-2xx responses become *Error; transport failures are
// wrapped and returned as-is.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.CurrentToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &Error{Status: res.StatusCode}
		var envelope struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			if envelope.Message != "" {
				apiErr.Message = envelope.Message
			} else {
				apiErr.Message = envelope.Error
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode body: %w", method, path, err)
	}
	return nil
}

// dataEnvelope is the {"data": ...} wrapper the backend uses on reads.
type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// Message extracts the backend's message from an *Error, falling back
// to the given wording for transport failures and unparsable bodies.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
