package types

import (
	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	TypeMsgCreateMasterPolicy         = "create_master_policy"
	TypeMsgRegisterParticipantWallets = "register_participant_wallets"
	TypeMsgConfirmMaster              = "confirm_master"
	TypeMsgActivateMaster             = "activate_master"
	TypeMsgCancelMaster               = "cancel_master"
	TypeMsgCloseMaster                = "close_master"
	TypeMsgCreateFlightPolicy         = "create_flight_policy"
	TypeMsgResolveFlightDelay         = "resolve_flight_delay"
	TypeMsgSettleFlightClaim          = "settle_flight_claim"
	TypeMsgSettleFlightNoClaim        = "settle_flight_no_claim"
)

// MsgCreateMasterPolicy creates a batch contract awaiting confirmations.
type MsgCreateMasterPolicy struct {
	Leader                 string             `json:"leader"`
	Operator               string             `json:"operator,omitempty"`
	Reinsurer              string             `json:"reinsurer"`
	ReinsurerDepositWallet string             `json:"reinsurer_deposit_wallet"`
	MasterId               uint64             `json:"master_id"`
	CoverageStart          int64              `json:"coverage_start"`
	CoverageEnd            int64              `json:"coverage_end"`
	PremiumPerPolicy       sdkmath.Int        `json:"premium_per_policy"`
	PayoutTiers            PayoutTiers        `json:"payout_tiers"`
	CededRatioBps          uint32             `json:"ceded_ratio_bps"`
	ReinsCommissionBps     uint32             `json:"reins_commission_bps"`
	Participants           []ParticipantShare `json:"participants"`
}

type MsgCreateMasterPolicyResponse struct {
	Master                string `json:"master"`
	LeaderDepositWallet   string `json:"leader_deposit_wallet"`
	ReinsurerPoolWallet   string `json:"reinsurer_pool_wallet"`
	ReinsurerEffectiveBps uint32 `json:"reinsurer_effective_bps"`
}

func (msg MsgCreateMasterPolicy) Type() string { return TypeMsgCreateMasterPolicy }

func (msg *MsgCreateMasterPolicy) GetSigners() []sdk.AccAddress { return signers(msg.Leader) }

// ValidateBasic does a sanity check on the provided data.
func (msg *MsgCreateMasterPolicy) ValidateBasic() error {
	if err := validateAddress("leader", msg.Leader); err != nil {
		return err
	}
	if err := validateOptionalAddress("operator", msg.Operator); err != nil {
		return err
	}
	if err := validateAddress("reinsurer", msg.Reinsurer); err != nil {
		return err
	}
	if err := validateAddress("reinsurer_deposit_wallet", msg.ReinsurerDepositWallet); err != nil {
		return err
	}
	if msg.CoverageStart >= msg.CoverageEnd {
		return errors.Wrapf(ErrInvalidTimeWindow, "coverage_start %d must precede coverage_end %d", msg.CoverageStart, msg.CoverageEnd)
	}
	if err := validatePositive("premium_per_policy", msg.PremiumPerPolicy); err != nil {
		return err
	}
	if err := msg.PayoutTiers.Validate(); err != nil {
		return err
	}
	if msg.CededRatioBps > BasisPointsTotal || msg.ReinsCommissionBps > BasisPointsTotal {
		return errors.Wrapf(ErrInvalidRatio, "ceded %d and commission %d must not exceed 10000", msg.CededRatioBps, msg.ReinsCommissionBps)
	}
	if err := validateParticipants(msg.Participants); err != nil {
		return err
	}
	if msg.Participants[0].Insurer != msg.Leader {
		return errors.Wrap(ErrInvalidInput, "leader must be participant 0")
	}
	return nil
}

// MsgRegisterParticipantWallets records a participant's deposit wallet and
// derives its pool wallet.
type MsgRegisterParticipantWallets struct {
	Signer        string `json:"signer"`
	Master        string `json:"master"`
	DepositWallet string `json:"deposit_wallet"`
}

type MsgRegisterParticipantWalletsResponse struct {
	PoolWallet string `json:"pool_wallet"`
}

func (msg MsgRegisterParticipantWallets) Type() string { return TypeMsgRegisterParticipantWallets }

func (msg *MsgRegisterParticipantWallets) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgRegisterParticipantWallets) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	if err := validateAddress("master", msg.Master); err != nil {
		return err
	}
	return validateAddress("deposit_wallet", msg.DepositWallet)
}

// MsgConfirmMaster confirms participation in a master as participant or reinsurer.
type MsgConfirmMaster struct {
	Signer string      `json:"signer"`
	Master string      `json:"master"`
	Role   ConfirmRole `json:"role"`
}

type MsgConfirmMasterResponse struct{}

func (msg MsgConfirmMaster) Type() string { return TypeMsgConfirmMaster }

func (msg *MsgConfirmMaster) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgConfirmMaster) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	if err := validateAddress("master", msg.Master); err != nil {
		return err
	}
	if msg.Role != ConfirmRoleParticipant && msg.Role != ConfirmRoleReinsurer {
		return errors.Wrapf(ErrInvalidRole, "%q", msg.Role)
	}
	return nil
}

// MsgActivateMaster activates a fully confirmed master.
type MsgActivateMaster struct {
	Signer string `json:"signer"`
	Master string `json:"master"`
}

type MsgActivateMasterResponse struct{}

func (msg MsgActivateMaster) Type() string { return TypeMsgActivateMaster }

func (msg *MsgActivateMaster) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgActivateMaster) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	return validateAddress("master", msg.Master)
}

// MsgCancelMaster cancels a master that never activated.
type MsgCancelMaster struct {
	Signer string `json:"signer"`
	Master string `json:"master"`
}

type MsgCancelMasterResponse struct{}

func (msg MsgCancelMaster) Type() string { return TypeMsgCancelMaster }

func (msg *MsgCancelMaster) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgCancelMaster) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	return validateAddress("master", msg.Master)
}

// MsgCloseMaster closes an Active master after coverage ends.
type MsgCloseMaster struct {
	Signer string `json:"signer"`
	Master string `json:"master"`
}

type MsgCloseMasterResponse struct{}

func (msg MsgCloseMaster) Type() string { return TypeMsgCloseMaster }

func (msg *MsgCloseMaster) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgCloseMaster) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	return validateAddress("master", msg.Master)
}

// MsgCreateFlightPolicy issues a child policy; the signer pays the premium.
type MsgCreateFlightPolicy struct {
	Signer        string `json:"signer"`
	Master        string `json:"master"`
	ChildId       uint64 `json:"child_id"`
	SubscriberRef string `json:"subscriber_ref"`
	FlightNo      string `json:"flight_no"`
	Route         string `json:"route"`
	DepartureTs   int64  `json:"departure_ts"`
}

type MsgCreateFlightPolicyResponse struct {
	Flight string `json:"flight"`
}

func (msg MsgCreateFlightPolicy) Type() string { return TypeMsgCreateFlightPolicy }

func (msg *MsgCreateFlightPolicy) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgCreateFlightPolicy) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	if err := validateAddress("master", msg.Master); err != nil {
		return err
	}
	if msg.FlightNo == "" {
		return errors.Wrap(ErrInvalidInput, "flight_no is empty")
	}
	if err := validateLength("subscriber_ref", msg.SubscriberRef, MaxSubscriberRefLength); err != nil {
		return err
	}
	if err := validateLength("flight_no", msg.FlightNo, MaxDescriptorLength); err != nil {
		return err
	}
	return validateLength("route", msg.Route, MaxDescriptorLength)
}

// MsgResolveFlightDelay records the trusted resolver's delay report.
type MsgResolveFlightDelay struct {
	Signer       string `json:"signer"`
	Master       string `json:"master"`
	ChildId      uint64 `json:"child_id"`
	DelayMinutes int64  `json:"delay_minutes"`
	Cancelled    bool   `json:"cancelled"`
}

type MsgResolveFlightDelayResponse struct {
	Status FlightStatus `json:"status"`
	Payout sdkmath.Int  `json:"payout"`
}

func (msg MsgResolveFlightDelay) Type() string { return TypeMsgResolveFlightDelay }

func (msg *MsgResolveFlightDelay) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgResolveFlightDelay) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	if err := validateAddress("master", msg.Master); err != nil {
		return err
	}
	if msg.DelayMinutes < 0 {
		return errors.Wrapf(ErrOracleFormat, "negative delay %d", msg.DelayMinutes)
	}
	return nil
}

// MsgSettleFlightClaim runs the claim waterfall for a Claimable child.
type MsgSettleFlightClaim struct {
	Signer  string `json:"signer"`
	Master  string `json:"master"`
	ChildId uint64 `json:"child_id"`
}

type MsgSettleFlightClaimResponse struct {
	Waterfall Waterfall `json:"waterfall"`
}

func (msg MsgSettleFlightClaim) Type() string { return TypeMsgSettleFlightClaim }

func (msg *MsgSettleFlightClaim) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgSettleFlightClaim) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	return validateAddress("master", msg.Master)
}

// MsgSettleFlightNoClaim runs the premium waterfall for a NoClaim child.
type MsgSettleFlightNoClaim struct {
	Signer  string `json:"signer"`
	Master  string `json:"master"`
	ChildId uint64 `json:"child_id"`
}

type MsgSettleFlightNoClaimResponse struct {
	Waterfall Waterfall `json:"waterfall"`
}

func (msg MsgSettleFlightNoClaim) Type() string { return TypeMsgSettleFlightNoClaim }

func (msg *MsgSettleFlightNoClaim) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgSettleFlightNoClaim) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	return validateAddress("master", msg.Master)
}
