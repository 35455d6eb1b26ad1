package errors

import (
	"context"
	"time"
)

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	Multiplier      float64
	RetryableErrors []ErrorCode
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		RetryableErrors: []ErrorCode{
			ErrCodeTiming,
			ErrCodeTimeout,
			ErrCodeDatabase,
		},
	}
}

// RetryFunc is a function that can be retried
type RetryFunc func() error

// RetryWithConfig retries fn with exponential backoff while it keeps failing
// with a retryable error.
func RetryWithConfig(ctx context.Context, fn RetryFunc, config *RetryConfig) error {
	op := &RetryOperation{Name: "retry", Fn: fn, Config: config}
	return op.Execute(ctx)
}

func isRetryableError(err error, retryableCodes []ErrorCode) bool {
	var relayerErr *RelayerError
	if As(err, &relayerErr) {
		for _, code := range retryableCodes {
			if relayerErr.Code == code {
				return true
			}
		}
		return false
	}
	return IsRetryable(err)
}

// RetryOperation represents an operation that can be retried
type RetryOperation struct {
	Name      string
	Fn        RetryFunc
	Config    *RetryConfig
	OnRetry   func(attempt int, err error)
	OnSuccess func()
	OnFailure func(err error)
}

// Execute runs the retry operation
func (op *RetryOperation) Execute(ctx context.Context) error {
	if op.Config == nil {
		op.Config = DefaultRetryConfig()
	}

	var lastErr error
	delay := op.Config.InitialDelay

	for attempt := 1; attempt <= op.Config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			op.fail(ctx.Err())
			return ctx.Err()
		default:
		}

		err := op.Fn()
		if err == nil {
			if op.OnSuccess != nil {
				op.OnSuccess()
			}
			return nil
		}
		lastErr = err

		if !isRetryableError(err, op.Config.RetryableErrors) {
			op.fail(err)
			return err
		}

		// Don't retry on last attempt
		if attempt == op.Config.MaxAttempts {
			break
		}
		if op.OnRetry != nil {
			op.OnRetry(attempt, err)
		}

		select {
		case <-ctx.Done():
			op.fail(ctx.Err())
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * op.Config.Multiplier)
		if delay > op.Config.MaxDelay {
			delay = op.Config.MaxDelay
		}
	}

	op.fail(lastErr)
	return WrapRelayerError(
		lastErr,
		ErrCodeInternal,
		op.Name,
		"operation '"+op.Name+"' failed after retries",
	).WithContext("attempts", op.Config.MaxAttempts)
}

func (op *RetryOperation) fail(err error) {
	if op.OnFailure != nil {
		op.OnFailure(err)
	}
}
