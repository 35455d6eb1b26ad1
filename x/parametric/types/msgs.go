package types

import (
	"encoding/json"
	"sort"

	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Msg is a typed, signed request against the module.
type Msg interface {
	Type() string
	GetSigners() []sdk.AccAddress
	ValidateBasic() error
}

var msgFactories = map[string]func() Msg{
	TypeMsgUpdateParams:               func() Msg { return &MsgUpdateParams{} },
	TypeMsgCreatePolicy:               func() Msg { return &MsgCreatePolicy{} },
	TypeMsgOpenUnderwriting:           func() Msg { return &MsgOpenUnderwriting{} },
	TypeMsgAcceptShare:                func() Msg { return &MsgAcceptShare{} },
	TypeMsgRejectShare:                func() Msg { return &MsgRejectShare{} },
	TypeMsgActivatePolicy:             func() Msg { return &MsgActivatePolicy{} },
	TypeMsgCheckOracle:                func() Msg { return &MsgCheckOracle{} },
	TypeMsgApproveClaim:               func() Msg { return &MsgApproveClaim{} },
	TypeMsgSettleClaim:                func() Msg { return &MsgSettleClaim{} },
	TypeMsgExpirePolicy:               func() Msg { return &MsgExpirePolicy{} },
	TypeMsgRefundShare:                func() Msg { return &MsgRefundShare{} },
	TypeMsgRegisterPolicyholder:       func() Msg { return &MsgRegisterPolicyholder{} },
	TypeMsgCreateMasterPolicy:         func() Msg { return &MsgCreateMasterPolicy{} },
	TypeMsgRegisterParticipantWallets: func() Msg { return &MsgRegisterParticipantWallets{} },
	TypeMsgConfirmMaster:              func() Msg { return &MsgConfirmMaster{} },
	TypeMsgActivateMaster:             func() Msg { return &MsgActivateMaster{} },
	TypeMsgCancelMaster:               func() Msg { return &MsgCancelMaster{} },
	TypeMsgCloseMaster:                func() Msg { return &MsgCloseMaster{} },
	TypeMsgCreateFlightPolicy:         func() Msg { return &MsgCreateFlightPolicy{} },
	TypeMsgResolveFlightDelay:         func() Msg { return &MsgResolveFlightDelay{} },
	TypeMsgSettleFlightClaim:          func() Msg { return &MsgSettleFlightClaim{} },
	TypeMsgSettleFlightNoClaim:        func() Msg { return &MsgSettleFlightNoClaim{} },
}

// DecodeMsg builds the message registered under msgType from its JSON body.
func DecodeMsg(msgType string, bz []byte) (Msg, error) {
	factory, ok := msgFactories[msgType]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidInput, "unknown message type %q", msgType)
	}
	msg := factory()
	if err := json.Unmarshal(bz, msg); err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "decode %s: %s", msgType, err)
	}
	return msg, nil
}

// MsgTypes lists every registered message type in sorted order.
func MsgTypes() []string {
	out := make([]string, 0, len(msgFactories))
	for t := range msgFactories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func signers(addr string) []sdk.AccAddress {
	a, _ := sdk.AccAddressFromBech32(addr)
	return []sdk.AccAddress{a}
}

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errors.Wrapf(ErrInvalidInput, "invalid %s address %q: %s", field, addr, err)
	}
	return nil
}

func validateOptionalAddress(field, addr string) error {
	if addr == "" {
		return nil
	}
	return validateAddress(field, addr)
}

func validateLength(field, value string, max int) error {
	if len(value) > max {
		return errors.Wrapf(ErrInputTooLong, "%s is %d bytes, max %d", field, len(value), max)
	}
	return nil
}

func validatePositive(field string, amt sdkmath.Int) error {
	if amt.IsNil() || !amt.IsPositive() {
		return errors.Wrapf(ErrInvalidPayout, "%s must be positive", field)
	}
	return nil
}

func validateParticipants(participants []ParticipantShare) error {
	bps := make([]uint32, len(participants))
	seen := make(map[string]struct{}, len(participants))
	for i, p := range participants {
		if err := validateAddress("insurer", p.Insurer); err != nil {
			return err
		}
		if _, dup := seen[p.Insurer]; dup {
			return errors.Wrapf(ErrInvalidInput, "duplicate insurer %s", p.Insurer)
		}
		seen[p.Insurer] = struct{}{}
		bps[i] = p.RatioBps
	}
	return ValidateShares(bps)
}
