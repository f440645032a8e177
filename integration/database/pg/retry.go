package pg

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

func retryPolicy(ctx context.Context, attempts int, interval time.Duration) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if interval > 0 {
		eb.InitialInterval = interval
	}
	eb.MaxElapsedTime = 0

	var b backoff.BackOff = eb
	if attempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(attempts-1))
	}
	return backoff.WithContext(b, ctx)
}
