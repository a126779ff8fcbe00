package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func fastRetryConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}
}

func TestExecuteRetriesBrokerOutage(t *testing.T) {
	exec := NewExecutor(fastRetryConfig())

	attempts := 0
	errOutage := errors.New("no servers available")
	err := exec.Execute(context.Background(), "queue.publish", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errOutage
		}
		return nil
	}, func(err error) ErrorClassification {
		return ErrorClassification{
			Retryable:     errors.Is(err, errOutage),
			RecordFailure: true,
		}
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteFailsFastOnPermanentError(t *testing.T) {
	exec := NewExecutor(fastRetryConfig())

	attempts := 0
	errPermanent := errors.New("invalid subject")
	err := exec.Execute(context.Background(), "queue.publish", func(context.Context) error {
		attempts++
		return errPermanent
	}, func(error) ErrorClassification {
		return ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	})
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteOpensBreakerAfterFailures(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	errOutage := errors.New("connection closed")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{
			Retryable:     false,
			RecordFailure: true,
		}
	}

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "queue.publish", func(context.Context) error {
			return errOutage
		}, classifier)
		if !errors.Is(err, errOutage) {
			t.Fatalf("expected outage error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "queue.publish", func(context.Context) error {
		t.Fatalf("open breaker must not call the operation")
		return nil
	}, classifier)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if !IsCircuitOpen(err) {
		t.Fatalf("IsCircuitOpen() = false for %v", err)
	}
}

func TestExecuteCancelledContextStopsRetries(t *testing.T) {
	exec := NewExecutor(fastRetryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := exec.Execute(ctx, "queue.publish", func(context.Context) error {
		attempts++
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 0 {
		t.Fatalf("cancelled context must not invoke the operation, got %d attempts", attempts)
	}
}

func TestQueueConfigTightensDefaults(t *testing.T) {
	def := DefaultConfig()
	queue := QueueConfig()

	if queue.RetryInitialBackoff >= def.RetryInitialBackoff {
		t.Fatalf("queue backoff %v not tighter than default %v", queue.RetryInitialBackoff, def.RetryInitialBackoff)
	}
	if queue.BreakerMinRequests >= def.BreakerMinRequests {
		t.Fatalf("queue breaker min requests %d not tighter than default %d", queue.BreakerMinRequests, def.BreakerMinRequests)
	}
	if queue.RetryMaxAttempts != def.RetryMaxAttempts {
		t.Fatalf("queue attempts %d, want default %d", queue.RetryMaxAttempts, def.RetryMaxAttempts)
	}
}
