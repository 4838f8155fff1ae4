// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for calls to the academic graph API.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 and 503 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1500 * time.Millisecond

// MaxRetryDelay caps a single backoff wait, including server-provided
// Retry-After values.
var MaxRetryDelay = 15 * time.Second

// DoWithRetry executes an HTTP request and, when maxRetries is positive,
// retries on HTTP 429 (Too Many Requests) and 503 (Service Unavailable).
// With maxRetries <= 0 the request is sent exactly once.
//
// The wait before each retry is the Retry-After header when the server sends
// one in seconds, otherwise RetryBaseDelay doubled per attempt. Either way it
// is capped at MaxRetryDelay. The body of a retried response is drained and
// closed. If the context is cancelled during a wait the function returns
// ctx.Err(). After exhausting retries the last response is returned so the
// caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		slog.DebugContext(ctx, "rate limited, retrying",
			"status", resp.StatusCode,
			"path", req.URL.Path,
			"wait", wait,
			"attempt", attempt+1,
			"max_retries", maxRetries,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// backoff returns the wait before retry number attempt+1, always within
// [0, MaxRetryDelay]. Bounds are applied before converting to a Duration so
// huge Retry-After values or attempt counts cannot overflow.
func backoff(attempt int, retryAfter string) time.Duration {
	limit := MaxRetryDelay
	if secs, err := strconv.ParseFloat(strings.TrimSpace(retryAfter), 64); err == nil && secs >= 0 {
		if secs >= limit.Seconds() {
			return limit
		}
		return time.Duration(secs * float64(time.Second))
	}

	wait := RetryBaseDelay
	for i := 0; i < attempt && wait > 0 && wait < limit; i++ {
		wait *= 2
	}
	if wait < 0 || wait > limit {
		return limit
	}
	return wait
}
