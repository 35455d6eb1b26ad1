package errors

import (
	"fmt"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// ErrorCode represents different categories of errors
type ErrorCode string

const (
	// ErrCodeValidation indicates input validation errors
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeLedger indicates an operation the ledger refused for good
	ErrCodeLedger ErrorCode = "LEDGER"

	// ErrCodeTiming indicates an operation submitted before its time window
	ErrCodeTiming ErrorCode = "TIMING"

	// ErrCodeOracle indicates a rejected delay observation
	ErrCodeOracle ErrorCode = "ORACLE"

	// ErrCodeDatabase indicates database operation errors
	ErrCodeDatabase ErrorCode = "DATABASE"

	// ErrCodeConfig indicates configuration errors
	ErrCodeConfig ErrorCode = "CONFIG"

	// ErrCodeTimeout indicates timeout errors
	ErrCodeTimeout ErrorCode = "TIMEOUT"

	// ErrCodeInternal indicates internal system errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Severity represents the severity level of an error
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// RelayerError is an error raised while driving ledger operations.
type RelayerError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Op       string                 `json:"op,omitempty"`
	Severity Severity               `json:"severity"`
	Cause    error                  `json:"-"`
	Context  map[string]interface{} `json:"context,omitempty"`
}

// NewRelayerError creates a new RelayerError
func NewRelayerError(code ErrorCode, op, message string, cause error) *RelayerError {
	return &RelayerError{
		Code:     code,
		Message:  message,
		Op:       op,
		Severity: determineSeverity(code),
		Cause:    cause,
		Context:  make(map[string]interface{}),
	}
}

func (e *RelayerError) Error() string {
	msg := fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message)
	if e.Op != "" {
		msg = fmt.Sprintf("[%s:%s] %s: %s", e.Op, e.Code, e.Severity, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RelayerError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *RelayerError) WithContext(key string, value interface{}) *RelayerError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsRetryable reports whether submitting the same operation later may succeed.
func (e *RelayerError) IsRetryable() bool {
	switch e.Code {
	case ErrCodeTiming, ErrCodeTimeout:
		return true
	case ErrCodeDatabase:
		return e.Severity != SeverityCritical
	default:
		return false
	}
}

func determineSeverity(code ErrorCode) Severity {
	switch code {
	case ErrCodeInternal:
		return SeverityCritical
	case ErrCodeDatabase:
		return SeverityHigh
	case ErrCodeLedger, ErrCodeOracle, ErrCodeTimeout:
		return SeverityMedium
	case ErrCodeValidation, ErrCodeConfig:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// FromLedger classifies an error returned by the ledger for operation op.
func FromLedger(op string, err error) *RelayerError {
	if err == nil {
		return nil
	}
	kind := types.KindOf(err)
	var code ErrorCode
	switch kind {
	case types.KindTiming:
		code = ErrCodeTiming
	case types.KindOracleValidation:
		code = ErrCodeOracle
	case types.KindAuthorization, types.KindInvalidInput, types.KindNotFound:
		code = ErrCodeValidation
	case types.KindUnclassified:
		code = ErrCodeInternal
	default:
		code = ErrCodeLedger
	}
	return NewRelayerError(code, op, "ledger rejected operation", err).WithContext("kind", string(kind))
}

// Common error constructors

func NewDatabaseError(op, message string, cause error) *RelayerError {
	return NewRelayerError(ErrCodeDatabase, op, message, cause)
}

func NewConfigError(message string) *RelayerError {
	return NewRelayerError(ErrCodeConfig, "", message, nil)
}
