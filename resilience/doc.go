// Package resilience retries failing operations with capped exponential
// backoff.
//
//	client, err := resilience.Retry(ctx, resilience.RetryConfig{
//	    MaxAttempts:    3,
//	    InitialBackoff: 100 * time.Millisecond,
//	    RetryIf:        func(err error) bool { return !isAuthError(err) },
//	}, func() (*Client, error) {
//	    return dial(ctx)
//	})
//
// An operation can also opt out of further attempts by returning
// resilience.Permanent(err).
package resilience
