// Package external provides the anti-corruption layer between hosteldesk
// domain logic and the mail transports. The Brevo HTTP variant routes its
// outbound calls through BaseClient, which enforces circuit breaking and
// error mapping. Retry is deliberately NOT handled here: the dispatch retry
// executor owns the entire retry budget, so the HTTP layer performs exactly
// one call per SendOne invocation.
package external

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"hosteldesk/internal/types"
)

// BaseClient wraps an *http.Client and a circuit breaker so that repeated
// provider outages fail fast instead of burning the 15-second request
// timeout on every retry attempt.
type BaseClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

// NewBaseClient creates a BaseClient with the given http client and breaker
// settings name. The breaker opens after five consecutive 429/5xx/transport
// failures and probes again after 30 seconds.
func NewBaseClient(httpClient *http.Client, breakerName string) *BaseClient {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &BaseClient{
		client:  httpClient,
		breaker: cb,
	}
}

// Do executes the HTTP request through the circuit breaker.
//
// Whenever a response was received it is returned to the caller regardless
// of status code; status mapping belongs to the provider client. 429 and
// 5xx responses still register as failures with the breaker. Transport
// errors and an open breaker surface as *types.AppError.
//
// The caller is responsible for closing the response body.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		r, doErr := c.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		// Count rate limits and server errors against the breaker.
		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
			return r, fmt.Errorf("upstream returned %d", r.StatusCode)
		}
		return r, nil
	})

	if resp != nil {
		return resp, nil
	}
	if err == nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "upstream call returned no response", nil)
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			"circuit breaker is open; upstream mail provider unavailable",
			err,
		)
	}

	// Network error, DNS failure, or the 15s request timeout.
	return nil, types.NewAppError(
		types.ErrCodeUpstreamUnavailable,
		"upstream request failed",
		err,
	)
}
