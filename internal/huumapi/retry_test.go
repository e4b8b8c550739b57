package huumapi

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fastRetry keeps test runs quick while preserving the attempt budget.
var fastRetry = RetryPolicy{
	MaxAttempts:     3,
	InitialInterval: 5 * time.Millisecond,
	MaxInterval:     20 * time.Millisecond,
}

func TestRetry_TransientFailureExhaustsThreeAttempts(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := fastRetry.Do(context.Background(), func() error {
		attempts++
		return errors.New("connection refused")
	})
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError after exhaustion", err)
	}
}

func TestRetry_RecoversAfterOneFailureWithBackoffDelay(t *testing.T) {
	t.Parallel()

	attempts := 0
	start := time.Now()
	err := fastRetry.Do(context.Background(), func() error {
		attempts++
		if attempts == 1 {
			return errors.New("timeout")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	if elapsed := time.Since(start); elapsed < fastRetry.InitialInterval {
		t.Fatalf("elapsed = %v, want at least one backoff delay of %v", elapsed, fastRetry.InitialInterval)
	}
}

func TestRetry_DecodeErrorIsRetried(t *testing.T) {
	t.Parallel()

	attempts := 0
	_ = fastRetry.Do(context.Background(), func() error {
		attempts++
		return &DecodeError{HTTPStatus: 200, Preview: "<html>", Cause: errors.New("not json")}
	})
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_SemanticErrorsAreNotRetried(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"api error", &APIError{Message: "sauna unavailable"}},
		{"auth error", &AuthError{Message: "invalid credentials"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := fastRetry.Do(context.Background(), func() error {
				attempts++
				return tt.err
			})
			if attempts != 1 {
				t.Fatalf("attempts = %d, want 1", attempts)
			}
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want original %v", err, tt.err)
			}
		})
	}
}

func TestRetry_ContextCancellationStopsRetrying(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := fastRetry.Do(ctx, func() error {
		attempts++
		cancel()
		return errors.New("timeout")
	})
	if err == nil {
		t.Fatalf("Do returned nil error, want context error")
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}
