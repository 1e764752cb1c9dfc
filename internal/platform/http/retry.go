package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig controls DoWithRetry.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetry is used by the market-data clients.
var DefaultRetry = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   1 * time.Second,
	MaxDelay:    10 * time.Second,
}

// DoWithRetry executes a request with exponential backoff.
// Transport errors, 429 and 5xx responses are retried; any other response is
// returned to the caller as-is. buildReq is invoked per attempt so request
// bodies can be rebuilt.
func DoWithRetry(ctx context.Context, client *http.Client, cfg RetryConfig, buildReq func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultRetry.MaxAttempts
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = cfg.BaseDelay
	eb.MaxInterval = cfg.MaxDelay
	eb.MaxElapsedTime = 0
	eb.RandomizationFactor = 0
	var b backoff.BackOff = backoff.WithMaxRetries(eb, uint64(cfg.MaxAttempts-1))
	b = backoff.WithContext(b, ctx)

	var resp *http.Response
	attempt := 0
	op := func() error {
		attempt++
		req, err := buildReq(ctx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		r, err := client.Do(req)
		if err != nil {
			return err
		}
		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
			body, _ := io.ReadAll(io.LimitReader(r.Body, 512))
			_ = r.Body.Close()
			return fmt.Errorf("HTTP %d: %s", r.StatusCode, string(body))
		}
		resp = r
		return nil
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("http request failed, retrying",
			"attempt", attempt, "max_attempts", cfg.MaxAttempts, "wait", wait, "error", err)
	}

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("all %d attempts failed, last error: %w", attempt, err)
	}
	return resp, nil
}
