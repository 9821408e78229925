// Package client is the single HTTP pipeline every backend call goes
// through. It attaches the bearer token lazily at send time, logs each
// request and response, and applies a declarative policy to failure
// statuses (401 forces a logout before the error reaches the caller).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is generous to accommodate image upload and extraction
// latency on the backend.
const DefaultTimeout = 30 * time.Second

// Action is what the response policy asks the session layer to do.
type Action int

const (
	ActionNone Action = iota
	ActionLogout
)

// ResponsePolicy maps a failure status to a session action. Keeping this
// a plain function makes the "which statuses end the session" decision
// testable away from the transport.
type ResponsePolicy func(status int) Action

// DefaultPolicy logs out on 401 and nothing else. Token absence on the
// client side never triggers a logout; only the server's word does.
func DefaultPolicy(status int) Action {
	if status == http.StatusUnauthorized {
		return ActionLogout
	}
	return ActionNone
}

// Config holds client construction parameters.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8000".
	BaseURL string
	// Timeout for the whole request. Zero means DefaultTimeout.
	Timeout time.Duration
	// TokenSource returns the current bearer token. Read per request so
	// token rotation is honored without rebuilding the client.
	TokenSource func() (string, bool)
	// Policy classifies failure statuses. Nil means DefaultPolicy.
	Policy ResponsePolicy
	// OnLogout runs, and completes, before a policy-flagged error is
	// returned to the caller.
	OnLogout func(ctx context.Context)
	Logger   zerolog.Logger
}

// Client issues requests against the backend.
type Client struct {
	baseURL     string
	http        *http.Client
	tokenSource func() (string, bool)
	policy      ResponsePolicy
	onLogout    func(ctx context.Context)
	logger      zerolog.Logger
}

// New creates a configured client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	policy := cfg.Policy
	if policy == nil {
		policy = DefaultPolicy
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		http:        &http.Client{Timeout: timeout},
		tokenSource: cfg.TokenSource,
		policy:      policy,
		onLogout:    cfg.OnLogout,
		logger:      cfg.Logger,
	}
}

// Option adjusts a single request.
type Option func(*http.Request)

// WithBearer sets an explicit Authorization header, overriding the
// session token for this request only.
func WithBearer(token string) Option {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out, opts...)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out, opts...)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out, opts...)
}

// Patch issues a PATCH carrying parameters in the query string only.
func (c *Client) Patch(ctx context.Context, path string, query url.Values, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPatch, path, query, nil, out, opts...)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodDelete, path, query, nil, out, opts...)
}

// PostMultipart uploads a single file under the given form field.
func (c *Client) PostMultipart(ctx context.Context, path, field, filename string, file io.Reader, out any, opts ...Option) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to build multipart request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read upload file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build multipart request: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, nil, &buf, writer.FormDataContentType(), out, opts...)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any, opts ...Option) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, reader, contentType, out, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any, opts ...Option) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, opt := range opts {
		opt(req)
	}

	// Attach the session token only when the caller didn't set one
	// explicitly, and read it at send time so rotation is picked up.
	if req.Header.Get("Authorization") == "" && c.tokenSource != nil {
		if token, ok := c.tokenSource(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("request")
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("no response received")
		return fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.failure(ctx, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// failure builds the APIError and applies the response policy. A logout
// requested by the policy completes before the error is returned, so
// callers reacting to the error can assume the session is already cleared.
func (c *Client) failure(ctx context.Context, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	apiErr := &APIError{StatusCode: resp.StatusCode, Body: data}

	if c.policy(resp.StatusCode) == ActionLogout && c.onLogout != nil {
		c.logger.Debug().Int("status", resp.StatusCode).Msg("response policy forcing logout")
		c.onLogout(ctx)
	}

	return apiErr
}
