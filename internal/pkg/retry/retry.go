package retry

import (
	"context"
	"time"
)

// Policy is a bounded retry schedule. Delays[i] is the wait before attempt
// i+2; when attempts outnumber delays the last delay is reused. A nil
// Retryable treats every error as retryable.
type Policy struct {
	MaxAttempts int
	Delays      []time.Duration
	Retryable   func(error) bool
}

// Default matches the processing entry point's contract: three attempts with
// 1s and 2s backoff between them.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Delays:      []time.Duration{1 * time.Second, 2 * time.Second},
	}
}

// Do runs fn until it succeeds, a non-retryable error occurs, the attempt
// budget is exhausted, or ctx is cancelled. The last error is returned.
func (p Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(p.delayFor(attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if err = fn(ctx); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
	}
	return err
}

func (p Policy) delayFor(i int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if i >= len(p.Delays) {
		i = len(p.Delays) - 1
	}
	return p.Delays[i]
}
