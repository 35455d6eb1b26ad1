package errors

import (
	stderrors "errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// WrapRelayerError wraps err as a RelayerError if it isn't already one.
func WrapRelayerError(err error, code ErrorCode, op, message string) *RelayerError {
	if err == nil {
		return nil
	}

	var relayerErr *RelayerError
	if stderrors.As(err, &relayerErr) {
		relayerErr.Context["wrapped_message"] = message
		if op != "" && relayerErr.Op == "" {
			relayerErr.Op = op
		}
		return relayerErr
	}
	return NewRelayerError(code, op, message, err)
}

func Is(err error, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// IsRelayerError checks if an error is a RelayerError with specific code
func IsRelayerError(err error, code ErrorCode) bool {
	var relayerErr *RelayerError
	if stderrors.As(err, &relayerErr) {
		return relayerErr.Code == code
	}
	return false
}

var retryablePatterns = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"temporary failure",
	"database is locked",
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var relayerErr *RelayerError
	if stderrors.As(err, &relayerErr) {
		return relayerErr.IsRetryable()
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
