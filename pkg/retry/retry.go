// Package retry is the caller-side retry helper for this module. The CRM
// client itself never retries; wrap the calls you want retried:
//
//	page, err := retry.Do(ctx, retry.Options{}, func() (*zohocrm.RecordPage, error) {
//		return client.GetMany(ctx, "Accounts", params)
//	})
//
// Mark failures that retrying cannot fix with Permanent to stop early.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Options tunes the exponential backoff. Zero values pick the defaults.
type Options struct {
	MaxElapsed      time.Duration // total retry budget, default 5m
	InitialInterval time.Duration // first wait, default 100ms
	MaxInterval     time.Duration // wait cap, default 30s
}

// Do runs op with exponential backoff until it succeeds, returns a
// permanent error, the context is canceled, or the retry budget runs out.
func Do[T any](ctx context.Context, opts Options, op func() (T, error)) (T, error) {
	if opts.MaxElapsed == 0 {
		opts.MaxElapsed = 5 * time.Minute
	}
	if opts.InitialInterval == 0 {
		opts.InitialInterval = 100 * time.Millisecond
	}
	if opts.MaxInterval == 0 {
		opts.MaxInterval = 30 * time.Second
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = opts.InitialInterval
	expBackoff.MaxInterval = opts.MaxInterval
	expBackoff.Reset()

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxElapsedTime(opts.MaxElapsed))
}

// Permanent marks err as not worth retrying; Do returns it immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
