// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for fetching remote source
// documents.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Backoff controls retry pacing for throttled responses.
type Backoff struct {
	// Base is the first delay; each retry doubles it.
	Base time.Duration

	// MaxRetries caps the number of retries after the initial attempt.
	MaxRetries int
}

// DefaultBackoff is used when callers pass a zero Backoff.
var DefaultBackoff = Backoff{Base: 2 * time.Second, MaxRetries: 4}

// retryable reports whether the status indicates transient throttling.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// Do executes req and retries on HTTP 429 and 503 with exponential
// backoff. A parseable Retry-After header (delay-seconds form) overrides
// the computed delay for that attempt. The response body is drained and
// closed before each retry. If the context is cancelled during a wait,
// ctx.Err() is returned. After exhausting retries the last throttled
// response is returned so the caller can inspect it.
func Do(ctx context.Context, client *http.Client, req *http.Request, b Backoff) (*http.Response, error) {
	if b.Base <= 0 {
		b.Base = DefaultBackoff.Base
	}
	if b.MaxRetries <= 0 {
		b.MaxRetries = DefaultBackoff.MaxRetries
	}

	delay := b.Base
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= b.MaxRetries {
			return resp, nil
		}

		wait := delay
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, parseErr := strconv.Atoi(s); parseErr == nil && secs >= 0 {
				wait = time.Duration(secs) * time.Second
			}
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
}
