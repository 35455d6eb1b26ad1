package types

import (
	"encoding/json"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Params configures the settlement currency and the oracle rules.
type Params struct {
	Denom                     string `json:"denom"`
	DelayThresholdMinutes     int64  `json:"delay_threshold_minutes"`
	DelayGranularityMinutes   int64  `json:"delay_granularity_minutes"`
	OracleMaxStalenessSeconds int64  `json:"oracle_max_staleness_seconds"`
	MaxParticipants           uint32 `json:"max_participants"`
	MaxPolicyholders          uint32 `json:"max_policyholders"`
}

// DefaultParams returns default module parameters.
func DefaultParams() Params {
	return Params{
		Denom:                     "urisk",
		DelayThresholdMinutes:     Tier1DelayMinutes,
		DelayGranularityMinutes:   10,
		OracleMaxStalenessSeconds: 30 * 60,
		MaxParticipants:           MaxParticipants,
		MaxPolicyholders:          MaxPolicyholders,
	}
}

// Stringer method for Params.
func (p Params) String() string {
	bz, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}

	return string(bz)
}

// ValidateBasic does the sanity check on the params.
func (p Params) ValidateBasic() error {
	if err := sdk.ValidateDenom(p.Denom); err != nil {
		return errors.Wrapf(ErrInvalidParams, "denom: %s", err)
	}
	if p.DelayGranularityMinutes <= 0 {
		return errors.Wrap(ErrInvalidParams, "delay granularity must be positive")
	}
	if p.DelayThresholdMinutes <= 0 || p.DelayThresholdMinutes%p.DelayGranularityMinutes != 0 {
		return errors.Wrapf(ErrInvalidParams, "delay threshold %d must be a positive multiple of %d",
			p.DelayThresholdMinutes, p.DelayGranularityMinutes)
	}
	if p.OracleMaxStalenessSeconds <= 0 {
		return errors.Wrap(ErrInvalidParams, "oracle max staleness must be positive")
	}
	if p.MaxParticipants == 0 || p.MaxParticipants > MaxParticipants {
		return errors.Wrapf(ErrInvalidParams, "max participants must be in [1, %d]", MaxParticipants)
	}
	if p.MaxPolicyholders == 0 || p.MaxPolicyholders > MaxPolicyholders {
		return errors.Wrapf(ErrInvalidParams, "max policyholders must be in [1, %d]", MaxPolicyholders)
	}
	return nil
}
