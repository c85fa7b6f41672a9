// Copyright 2026 Mynk Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package fetch provides a resilient HTTP helper shared by every outbound
// provider call.
//
// Each attempt is bounded by a per-attempt timeout. Rate-limit responses
// (HTTP 429) and attempt timeouts are retried with exponential backoff; any
// other failure is final. After the attempt budget is exhausted the caller
// receives ErrRateLimitExceeded or ErrRequestTimeout depending on what kept
// failing, so the two are distinguishable.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 20 * time.Second

	// DefaultRetries is the number of additional attempts after the first.
	DefaultRetries = 3

	// DefaultBackoffBase is the base delay between attempts; the actual
	// delay is base * 2^attempt.
	DefaultBackoffBase = 1 * time.Second

	// excerptLimit caps the response body excerpt carried by StatusError.
	excerptLimit = 300
)

// Request is an outbound HTTP request. The body is held as bytes so it can
// be replayed across attempts.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the successful result of a request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Sleeper blocks for the given duration or until the context is done.
// Injected in tests to make backoff timing deterministic.
type Sleeper func(ctx context.Context, d time.Duration) error

// Client performs HTTP calls with bounded timeouts and retry on
// rate-limiting and timeouts. Safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	timeout     time.Duration
	retries     int
	backoffBase time.Duration
	sleep       Sleeper
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of additional attempts after the first.
func WithRetries(retries int) Option {
	return func(c *Client) {
		c.retries = retries
	}
}

// WithBackoffBase sets the base backoff delay.
func WithBackoffBase(base time.Duration) Option {
	return func(c *Client) {
		c.backoffBase = base
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithSleeper sets the backoff sleep function.
func WithSleeper(sleep Sleeper) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewClient creates a resilient HTTP client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		httpClient:  &http.Client{},
		timeout:     DefaultTimeout,
		retries:     DefaultRetries,
		backoffBase: DefaultBackoffBase,
		sleep:       sleepContext,
		logger:      slog.Default().With("component", "fetch"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout %v", ErrInvalidConfig, c.timeout)
	}
	if c.retries < 0 {
		return nil, fmt.Errorf("%w: retries %d", ErrInvalidConfig, c.retries)
	}
	if c.backoffBase <= 0 {
		return nil, fmt.Errorf("%w: backoff base %v", ErrInvalidConfig, c.backoffBase)
	}

	return c, nil
}

// failureKind classifies the outcome of a single attempt.
type failureKind int

const (
	failNone failureKind = iota
	failRateLimit
	failTimeout
)

// Do performs the request and returns the response on 2xx. Non-success
// statuses other than 429 fail with a StatusError carrying the status and a
// truncated body excerpt. 429 and per-attempt timeouts are retried first.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Excerpt: excerpt(resp.Body)}
	}
	return resp, nil
}

// roundTrip runs the attempt loop and returns the final response as-is,
// whatever its status. Used by Transport, which must hand non-2xx responses
// back to the calling SDK unchanged.
func (c *Client) roundTrip(ctx context.Context, req *Request) (*Response, error) {
	var kind failureKind
	for attempt := 0; ; attempt++ {
		resp, k, err := c.attempt(ctx, req)
		if err != nil {
			return nil, err
		}
		if k == failNone {
			if attempt > 0 {
				c.logger.Debug("request succeeded after retry", "url", req.URL, "attempt", attempt+1)
			}
			return resp, nil
		}

		kind = k
		if attempt == c.retries {
			break
		}

		delay := c.backoffBase << attempt
		c.logger.Debug("request failed, will retry",
			"url", req.URL, "attempt", attempt+1, "maxAttempts", c.retries+1, "delay", delay)
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	if kind == failRateLimit {
		return nil, fmt.Errorf("%w after %d attempts: %s %s",
			ErrRateLimitExceeded, c.retries+1, req.Method, req.URL)
	}
	return nil, fmt.Errorf("%w after %d attempts: %s %s",
		ErrRequestTimeout, c.retries+1, req.Method, req.URL)
}

// attempt performs one bounded HTTP exchange.
func (c *Client) attempt(ctx context.Context, req *Request) (*Response, failureKind, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, req.URL, body)
	if err != nil {
		return nil, failNone, err
	}
	for key, values := range req.Header {
		httpReq.Header[key] = values
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		kind, cerr := c.classifyAttemptError(ctx, attemptCtx, err)
		return nil, kind, cerr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		kind, cerr := c.classifyAttemptError(ctx, attemptCtx, err)
		return nil, kind, cerr
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, failRateLimit, nil
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: respBody}, failNone, nil
}

// classifyAttemptError separates caller cancellation (final), attempt
// timeout (retryable) and transport failures (final).
func (c *Client) classifyAttemptError(ctx, attemptCtx context.Context, err error) (failureKind, error) {
	if ctx.Err() != nil {
		return failNone, ctx.Err()
	}
	if attemptCtx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return failTimeout, nil
	}
	return failNone, err
}

// excerpt returns the first excerptLimit bytes of a response body.
func excerpt(body []byte) string {
	if len(body) > excerptLimit {
		return string(body[:excerptLimit])
	}
	return string(body)
}

// sleepContext blocks for the delay with context awareness.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
