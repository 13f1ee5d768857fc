package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoExhaustsAttemptBudget(t *testing.T) {
	policy := Policy{MaxAttempts: 3}
	boom := errors.New("boom")

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnSuccess(t *testing.T) {
	policy := Policy{MaxAttempts: 3}

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	policy := Policy{
		MaxAttempts: 3,
		Retryable:   func(err error) bool { return !errors.Is(err, fatal) },
	}

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	policy := Policy{MaxAttempts: 3, Delays: []time.Duration{time.Hour}}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := policy.Do(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDefaultSchedule(t *testing.T) {
	policy := Default()
	assert.Equal(t, 3, policy.MaxAttempts)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, policy.Delays)
}

func TestDelayReusesLastEntry(t *testing.T) {
	policy := Policy{MaxAttempts: 5, Delays: []time.Duration{time.Millisecond, 2 * time.Millisecond}}

	assert.Equal(t, time.Millisecond, policy.delayFor(0))
	assert.Equal(t, 2*time.Millisecond, policy.delayFor(1))
	assert.Equal(t, 2*time.Millisecond, policy.delayFor(3))
}

func TestZeroAttemptsRunsOnce(t *testing.T) {
	policy := Policy{}

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
