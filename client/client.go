// Package client is a Go API client for the school information system:
// a token-injecting HTTP client, a file-backed credential store and
// channel-based repositories for auth, students and teachers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// envelope mirrors the server's response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// transport injects the bearer token and a request ID into every call.
type transport struct {
	base  http.RoundTripper
	store *CredentialStore
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if token := t.store.Token(); token != "" {
		clone.Header.Set("Authorization", "Bearer "+token)
	}
	clone.Header.Set("X-Request-ID", uuid.NewString())
	return t.base.RoundTrip(clone)
}

// Client talks to the API. Construct one with New and share it; it is safe
// for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	store   *CredentialStore
}

type Option func(*Client)

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient swaps the underlying http.Client, keeping the
// token-injecting transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		hc.Transport = &transport{base: baseTransport(hc.Transport), store: c.store}
		c.http = hc
	}
}

func baseTransport(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}

func New(baseURL string, store *CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		store:   store,
	}
	c.http = &http.Client{
		Timeout:   defaultTimeout,
		Transport: &transport{base: http.DefaultTransport, store: store},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store exposes the credential store, mainly for session checks on startup.
func (c *Client) Store() *CredentialStore {
	return c.store
}

// do sends a request and decodes the envelope's data field into out (when
// out is non-nil). Non-2xx responses become an *APIError carrying the
// envelope message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return err
	}

	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}
