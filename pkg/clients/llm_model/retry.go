package llm_model

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
)

// Do 在重试策略下执行 fn，返回最后一次的错误
func (p *RetryPolicy) Do(ctx context.Context, name string, fn func() error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * p.BaseBackoff
			log.Warnf("%s retrying (attempt %d/%d) after %v", name, attempt+1, maxAttempts, backoff)
			sleep(backoff)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		log.Errorf("%s request failed (attempt %d/%d): %v", name, attempt+1, maxAttempts, err)

		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}
