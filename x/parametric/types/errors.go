package types

import (
	"cosmossdk.io/errors"
)

// x/parametric module sentinel errors
var (
	ErrUnauthorized = errors.Register(ModuleName, 2, "unauthorized signer")

	ErrInvalidState    = errors.Register(ModuleName, 3, "operation not allowed in current state")
	ErrMasterNotActive = errors.Register(ModuleName, 4, "master policy is not active")

	ErrInvalidRatio       = errors.Register(ModuleName, 5, "basis-point shares must sum to 10000")
	ErrEscrowMismatch     = errors.Register(ModuleName, 6, "escrow amount does not match required deposit")
	ErrAlreadyResolved    = errors.Register(ModuleName, 7, "already resolved")
	ErrAlreadyExists      = errors.Register(ModuleName, 8, "already exists")
	ErrMasterNotConfirmed = errors.Register(ModuleName, 9, "master policy is not fully confirmed")
	ErrInvalidPayout      = errors.Register(ModuleName, 10, "invalid payout")
	ErrPoolInsufficient   = errors.Register(ModuleName, 11, "insufficient pool balance")

	ErrOracleStale        = errors.Register(ModuleName, 12, "oracle observation is stale")
	ErrOracleFormat       = errors.Register(ModuleName, 13, "oracle observation has invalid format")
	ErrOracleFeedMismatch = errors.Register(ModuleName, 14, "oracle feed does not match policy")

	ErrInvalidTimeWindow = errors.Register(ModuleName, 15, "invalid time window")
	ErrTooEarly          = errors.Register(ModuleName, 16, "too early for operation")

	ErrAlreadySettled = errors.Register(ModuleName, 17, "already settled")

	ErrInvalidInput  = errors.Register(ModuleName, 18, "invalid input")
	ErrInputTooLong  = errors.Register(ModuleName, 19, "input too long")
	ErrNotFound      = errors.Register(ModuleName, 20, "not found")
	ErrInvalidRole   = errors.Register(ModuleName, 21, "invalid confirmation role")
	ErrInvalidParams = errors.Register(ModuleName, 22, "invalid params")
)

// ErrorKind groups module errors into the categories callers act on.
type ErrorKind string

const (
	KindNone               ErrorKind = ""
	KindAuthorization      ErrorKind = "AuthorizationError"
	KindStateGuard         ErrorKind = "StateGuardError"
	KindInvariantViolation ErrorKind = "InvariantViolation"
	KindOracleValidation   ErrorKind = "OracleValidationError"
	KindTiming             ErrorKind = "TimingError"
	KindAlreadySettled     ErrorKind = "AlreadySettledError"
	KindInvalidInput       ErrorKind = "InvalidInputError"
	KindNotFound           ErrorKind = "NotFoundError"
	KindUnclassified       ErrorKind = "UnclassifiedError"
)

var errorKinds = []struct {
	kind ErrorKind
	errs []error
}{
	{KindAuthorization, []error{ErrUnauthorized}},
	{KindStateGuard, []error{ErrInvalidState, ErrMasterNotActive}},
	{KindInvariantViolation, []error{
		ErrInvalidRatio, ErrEscrowMismatch, ErrAlreadyResolved, ErrAlreadyExists,
		ErrMasterNotConfirmed, ErrInvalidPayout, ErrPoolInsufficient,
	}},
	{KindOracleValidation, []error{ErrOracleStale, ErrOracleFormat, ErrOracleFeedMismatch}},
	{KindTiming, []error{ErrInvalidTimeWindow, ErrTooEarly}},
	{KindAlreadySettled, []error{ErrAlreadySettled}},
	{KindInvalidInput, []error{ErrInvalidInput, ErrInputTooLong, ErrInvalidRole, ErrInvalidParams}},
	{KindNotFound, []error{ErrNotFound}},
}

// KindOf classifies err, looking through any wrapping.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	for _, k := range errorKinds {
		if errors.IsOf(err, k.errs...) {
			return k.kind
		}
	}
	return KindUnclassified
}
