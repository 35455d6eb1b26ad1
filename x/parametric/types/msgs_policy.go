package types

import (
	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	TypeMsgCreatePolicy         = "create_policy"
	TypeMsgOpenUnderwriting     = "open_underwriting"
	TypeMsgAcceptShare          = "accept_share"
	TypeMsgRejectShare          = "reject_share"
	TypeMsgActivatePolicy       = "activate_policy"
	TypeMsgCheckOracle          = "check_oracle"
	TypeMsgApproveClaim         = "approve_claim"
	TypeMsgSettleClaim          = "settle_claim"
	TypeMsgExpirePolicy         = "expire_policy"
	TypeMsgRefundShare          = "refund_share"
	TypeMsgRegisterPolicyholder = "register_policyholder"
)

// MsgCreatePolicy creates a Draft policy with its underwriting, pool, vault and registry.
type MsgCreatePolicy struct {
	Leader            string             `json:"leader"`
	Operator          string             `json:"operator,omitempty"`
	PolicyId          uint64             `json:"policy_id"`
	Route             string             `json:"route"`
	FlightNo          string             `json:"flight_no"`
	DepartureDate     string             `json:"departure_date"`
	DelayThresholdMin int64              `json:"delay_threshold_min"`
	PayoutAmount      sdkmath.Int        `json:"payout_amount"`
	PayoutTiers       *PayoutTiers       `json:"payout_tiers,omitempty"`
	OracleFeed        string             `json:"oracle_feed"`
	ActiveFrom        int64              `json:"active_from"`
	ActiveTo          int64              `json:"active_to"`
	Participants      []ParticipantShare `json:"participants"`
}

type MsgCreatePolicyResponse struct {
	Policy       string `json:"policy"`
	Underwriting string `json:"underwriting"`
	Pool         string `json:"pool"`
	Vault        string `json:"vault"`
}

func (msg MsgCreatePolicy) Type() string { return TypeMsgCreatePolicy }

func (msg *MsgCreatePolicy) GetSigners() []sdk.AccAddress { return signers(msg.Leader) }

// ValidateBasic does a sanity check on the provided data.
func (msg *MsgCreatePolicy) ValidateBasic() error {
	if err := validateAddress("leader", msg.Leader); err != nil {
		return err
	}
	if err := validateOptionalAddress("operator", msg.Operator); err != nil {
		return err
	}
	if err := validateLength("route", msg.Route, MaxDescriptorLength); err != nil {
		return err
	}
	if err := validateLength("flight_no", msg.FlightNo, MaxDescriptorLength); err != nil {
		return err
	}
	if err := validatePositive("payout_amount", msg.PayoutAmount); err != nil {
		return err
	}
	if msg.PayoutTiers != nil {
		if err := msg.PayoutTiers.Validate(); err != nil {
			return err
		}
		if msg.PayoutTiers.Max().GT(msg.PayoutAmount) {
			return errors.Wrapf(ErrInvalidPayout, "top tier %s exceeds collateralized payout %s",
				msg.PayoutTiers.Max(), msg.PayoutAmount)
		}
	}
	if msg.DelayThresholdMin <= 0 {
		return errors.Wrap(ErrInvalidInput, "delay threshold must be positive")
	}
	if err := ValidateFeedRef(msg.OracleFeed); err != nil {
		return err
	}
	if msg.ActiveFrom >= msg.ActiveTo {
		return errors.Wrapf(ErrInvalidTimeWindow, "active_from %d must precede active_to %d", msg.ActiveFrom, msg.ActiveTo)
	}
	return validateParticipants(msg.Participants)
}

// MsgOpenUnderwriting opens a Draft policy to participant deposits.
type MsgOpenUnderwriting struct {
	Leader string `json:"leader"`
	Policy string `json:"policy"`
}

type MsgOpenUnderwritingResponse struct{}

func (msg MsgOpenUnderwriting) Type() string { return TypeMsgOpenUnderwriting }

func (msg *MsgOpenUnderwriting) GetSigners() []sdk.AccAddress { return signers(msg.Leader) }

func (msg *MsgOpenUnderwriting) ValidateBasic() error {
	if err := validateAddress("leader", msg.Leader); err != nil {
		return err
	}
	return validateAddress("policy", msg.Policy)
}

// MsgAcceptShare escrows a participant's exact share of the payout.
type MsgAcceptShare struct {
	Signer        string      `json:"signer"`
	Policy        string      `json:"policy"`
	Index         uint32      `json:"index"`
	DepositAmount sdkmath.Int `json:"deposit_amount"`
}

type MsgAcceptShareResponse struct {
	Funded bool `json:"funded"`
}

func (msg MsgAcceptShare) Type() string { return TypeMsgAcceptShare }

func (msg *MsgAcceptShare) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgAcceptShare) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	if err := validateAddress("policy", msg.Policy); err != nil {
		return err
	}
	return validatePositive("deposit_amount", msg.DepositAmount)
}

// MsgRejectShare declines a pending share.
type MsgRejectShare struct {
	Signer string `json:"signer"`
	Policy string `json:"policy"`
	Index  uint32 `json:"index"`
}

type MsgRejectShareResponse struct{}

func (msg MsgRejectShare) Type() string { return TypeMsgRejectShare }

func (msg *MsgRejectShare) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgRejectShare) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	return validateAddress("policy", msg.Policy)
}

// MsgActivatePolicy moves a Funded policy to Active once its window opens.
type MsgActivatePolicy struct {
	Leader string `json:"leader"`
	Policy string `json:"policy"`
}

type MsgActivatePolicyResponse struct{}

func (msg MsgActivatePolicy) Type() string { return TypeMsgActivatePolicy }

func (msg *MsgActivatePolicy) GetSigners() []sdk.AccAddress { return signers(msg.Leader) }

func (msg *MsgActivatePolicy) ValidateBasic() error {
	if err := validateAddress("leader", msg.Leader); err != nil {
		return err
	}
	return validateAddress("policy", msg.Policy)
}

// MsgCheckOracle submits a feed observation against an Active policy. Anyone may sign.
type MsgCheckOracle struct {
	Signer      string           `json:"signer"`
	Policy      string           `json:"policy"`
	Observation DelayObservation `json:"observation"`
}

type MsgCheckOracleResponse struct {
	ClaimCreated bool        `json:"claim_created"`
	Claim        string      `json:"claim,omitempty"`
	Payout       sdkmath.Int `json:"payout"`
}

func (msg MsgCheckOracle) Type() string { return TypeMsgCheckOracle }

func (msg *MsgCheckOracle) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgCheckOracle) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	if err := validateAddress("policy", msg.Policy); err != nil {
		return err
	}
	if msg.Observation.DelayMinutes < 0 {
		return errors.Wrapf(ErrOracleFormat, "negative delay %d", msg.Observation.DelayMinutes)
	}
	return nil
}

// MsgApproveClaim approves a Claimable claim.
type MsgApproveClaim struct {
	Signer      string `json:"signer"`
	Policy      string `json:"policy"`
	OracleRound uint64 `json:"oracle_round"`
}

type MsgApproveClaimResponse struct{}

func (msg MsgApproveClaim) Type() string { return TypeMsgApproveClaim }

func (msg *MsgApproveClaim) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgApproveClaim) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	return validateAddress("policy", msg.Policy)
}

// MsgSettleClaim pays an Approved claim out of the vault to the beneficiary.
type MsgSettleClaim struct {
	Signer      string `json:"signer"`
	Policy      string `json:"policy"`
	OracleRound uint64 `json:"oracle_round"`
	Beneficiary string `json:"beneficiary"`
}

type MsgSettleClaimResponse struct {
	Paid     sdkmath.Int   `json:"paid"`
	Returned []sdkmath.Int `json:"returned"`
}

func (msg MsgSettleClaim) Type() string { return TypeMsgSettleClaim }

func (msg *MsgSettleClaim) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgSettleClaim) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	if err := validateAddress("policy", msg.Policy); err != nil {
		return err
	}
	return validateAddress("beneficiary", msg.Beneficiary)
}

// MsgExpirePolicy expires an Active policy past its window. Anyone may sign.
type MsgExpirePolicy struct {
	Signer string `json:"signer"`
	Policy string `json:"policy"`
}

type MsgExpirePolicyResponse struct{}

func (msg MsgExpirePolicy) Type() string { return TypeMsgExpirePolicy }

func (msg *MsgExpirePolicy) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgExpirePolicy) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	return validateAddress("policy", msg.Policy)
}

// MsgRefundShare returns a participant's escrow after expiry or failed underwriting.
type MsgRefundShare struct {
	Signer string `json:"signer"`
	Policy string `json:"policy"`
	Index  uint32 `json:"index"`
}

type MsgRefundShareResponse struct {
	Refunded sdkmath.Int `json:"refunded"`
}

func (msg MsgRefundShare) Type() string { return TypeMsgRefundShare }

func (msg *MsgRefundShare) GetSigners() []sdk.AccAddress { return signers(msg.Signer) }

func (msg *MsgRefundShare) ValidateBasic() error {
	if err := validateAddress("signer", msg.Signer); err != nil {
		return err
	}
	return validateAddress("policy", msg.Policy)
}

// MsgRegisterPolicyholder appends an insured party to the policy registry.
type MsgRegisterPolicyholder struct {
	Leader string            `json:"leader"`
	Policy string            `json:"policy"`
	Entry  PolicyholderEntry `json:"entry"`
}

type MsgRegisterPolicyholderResponse struct {
	Count uint32 `json:"count"`
}

func (msg MsgRegisterPolicyholder) Type() string { return TypeMsgRegisterPolicyholder }

func (msg *MsgRegisterPolicyholder) GetSigners() []sdk.AccAddress { return signers(msg.Leader) }

func (msg *MsgRegisterPolicyholder) ValidateBasic() error {
	if err := validateAddress("leader", msg.Leader); err != nil {
		return err
	}
	if err := validateAddress("policy", msg.Policy); err != nil {
		return err
	}
	if msg.Entry.ExternalRef == "" {
		return errors.Wrap(ErrInvalidInput, "external_ref is empty")
	}
	if err := validateLength("external_ref", msg.Entry.ExternalRef, MaxExternalRefLength); err != nil {
		return err
	}
	if err := validateLength("flight_no", msg.Entry.FlightNo, MaxDescriptorLength); err != nil {
		return err
	}
	for field, amt := range map[string]sdkmath.Int{
		"premium_paid":    msg.Entry.PremiumPaid,
		"coverage_amount": msg.Entry.CoverageAmount,
	} {
		if amt.IsNil() || amt.IsNegative() {
			return errors.Wrapf(ErrInvalidInput, "%s must be non-negative", field)
		}
	}
	return nil
}
