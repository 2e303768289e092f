package appstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// TokenSource supplies bearer tokens for API requests.
type TokenSource interface {
	Token() (string, error)
}

// authTransport injects the bearer token into every request.
type authTransport struct {
	base   http.RoundTripper
	source TokenSource
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token()
	if err != nil {
		return nil, fmt.Errorf("mint api token: %w", err)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(clone)
}

// apiError carries the HTTP status alongside the backend's error detail so
// the retry loop can tell transient failures from permanent ones.
type apiError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *apiError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("app store connect responded %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("app store connect responded %d", e.Status)
}

func (e *apiError) retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// newBreaker builds the circuit breaker guarding all backend calls.
func newBreaker(logger *slog.Logger, failureThreshold uint32, timeout time.Duration) *gobreaker.CircuitBreaker[[]byte] {
	settings := gobreaker.Settings{
		Name:    "appstore-connect",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return gobreaker.NewCircuitBreaker[[]byte](settings)
}

// do executes one API call through the circuit breaker with bounded
// exponential backoff on transient failures. The payload is rebuilt per
// attempt so retries replay the full request body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		var body []byte
		operation := func() error {
			var err error
			body, err = c.doOnce(ctx, method, path, query, payload)
			if err == nil {
				return nil
			}
			var apiErr *apiError
			if errors.As(err, &apiErr) && !apiErr.retryable() {
				return backoff.Permanent(err)
			}
			c.logger.Warn("api call failed, retrying",
				"method", method, "path", path, "error", err)
			return err
		}

		policy := backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
		if err := backoff.Retry(operation, policy); err != nil {
			return nil, err
		}
		return body, nil
	})
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api call", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &apiError{Status: resp.StatusCode, Detail: decodeErrorDetail(body)}
	}
	return body, nil
}
