package llm_model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func noSleepPolicy(maxAttempts int) *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseBackoff: time.Second,
		Retryable:   func(error) bool { return true },
		Sleep:       func(time.Duration) {},
	}
}

func TestRetryPolicyDoSuccess(t *testing.T) {
	policy := noSleepPolicy(3)

	calls := 0
	err := policy.Do(context.Background(), "test", func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicyDoRetryThenSuccess(t *testing.T) {
	policy := noSleepPolicy(3)

	calls := 0
	err := policy.Do(context.Background(), "test", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient error")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicyDoExhausted(t *testing.T) {
	policy := noSleepPolicy(3)

	calls := 0
	err := policy.Do(context.Background(), "test", func() error {
		calls++
		return errors.New("always fail")
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestRetryPolicyDoNonRetryable(t *testing.T) {
	policy := noSleepPolicy(3)
	fatal := errors.New("fatal error")
	policy.Retryable = func(err error) bool {
		return !errors.Is(err, fatal)
	}

	calls := 0
	err := policy.Do(context.Background(), "test", func() error {
		calls++
		return fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicyDoExponentialBackoff(t *testing.T) {
	var slept []time.Duration
	policy := &RetryPolicy{
		MaxAttempts: 4,
		BaseBackoff: time.Second,
		Retryable:   func(error) bool { return true },
		Sleep: func(d time.Duration) {
			slept = append(slept, d)
		},
	}

	_ = policy.Do(context.Background(), "test", func() error {
		return errors.New("always fail")
	})

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, slept)
}

func TestRetryPolicyDoContextCanceled(t *testing.T) {
	policy := noSleepPolicy(5)

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := policy.Do(ctx, "test", func() error {
		calls++
		cancel()
		return errors.New("transient error")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
