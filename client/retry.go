package client

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sethvargo/go-retry"

	searcherrors "github.com/vespabridge/searchkit/errors"
)

// isThrottling reports whether err represents a throttling response from
// the transport — the one class of insert error this package retries.
func isThrottling(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "throttl")
}

// insertWithRetry retries op on a throttling error with exponential
// backoff (attempt -> RetryDelay * 2^attempt), up to MaxRetryAttempts. Any
// other error is fatal on first occurrence. On exhaustion the last observed
// error is wrapped and returned (spec.md §9 Open Question (c)).
func (c *Client) insertWithRetry(ctx context.Context, docID, schema string, op func(context.Context) error) error {
	backoff, err := retry.NewExponential(c.config.RetryDelay)
	if err != nil {
		return searcherrors.InsertFailure(err, docID, schema)
	}
	backoff = retry.WithMaxRetries(uint64(c.config.MaxRetryAttempts), backoff)

	var lastErr error
	retryErr := retry.Do(ctx, backoff, func(ctx context.Context) error {
		opErr := op(ctx)
		if opErr == nil {
			return nil
		}
		lastErr = opErr
		if isThrottling(opErr) {
			c.metrics.InsertRetries.Inc()
			return retry.RetryableError(opErr)
		}
		return opErr
	})
	if retryErr != nil {
		cause := lastErr
		if cause == nil {
			cause = retryErr
		}
		slog.Error("insert err", slog.String("err", cause.Error()), slog.String("docId", docID), slog.String("schema", schema))
		return searcherrors.InsertFailure(cause, docID, schema)
	}
	return nil
}
