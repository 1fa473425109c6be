// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for talking to the search service.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rohanthewiz/logger"
)

// RetryBaseDelay is the first backoff on a retryable response; it doubles
// per attempt. Tests override this to avoid real sleeps.
var RetryBaseDelay = 250 * time.Millisecond

// MaxRetryDelay caps any single backoff, including one asked for through
// Retry-After. Search box requests are interactive, so waits stay short.
var MaxRetryDelay = 2 * time.Second

const defaultMaxRetries = 2

// DoWithRetry executes req and retries on HTTP 429 (Too Many Requests) and
// 503 (Service Unavailable) with exponential backoff.
//
// maxRetries 0 selects the default (2); a negative value disables retries.
// A Retry-After header given in seconds replaces the computed backoff, both
// capped at MaxRetryDelay. If ctx is cancelled while waiting the function
// returns ctx.Err(). After exhausting retries the last response is returned
// so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	switch {
	case maxRetries == 0:
		maxRetries = defaultMaxRetries
	case maxRetries < 0:
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := retryDelay(resp, attempt)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Debug("search service busy, retrying",
			"status", strconv.Itoa(resp.StatusCode),
			"wait", wait.String(),
			"attempt", strconv.Itoa(attempt+1))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Retryable reports whether a response status is worth retrying.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func retryDelay(resp *http.Response, attempt int) time.Duration {
	wait := RetryBaseDelay << attempt
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
			wait = time.Duration(secs) * time.Second
		}
	}
	if wait > MaxRetryDelay {
		wait = MaxRetryDelay
	}
	return wait
}
