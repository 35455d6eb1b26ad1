package types

import (
	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// Delay boundaries, in minutes, at which each payout tier starts.
const (
	Tier1DelayMinutes = 120
	Tier2DelayMinutes = 180
	Tier3DelayMinutes = 240
	Tier4DelayMinutes = 360
)

// PayoutTiers maps delay bands to payout amounts. Tier4 also covers cancellations.
type PayoutTiers struct {
	Tier1 sdkmath.Int `json:"tier1"`
	Tier2 sdkmath.Int `json:"tier2"`
	Tier3 sdkmath.Int `json:"tier3"`
	Tier4 sdkmath.Int `json:"tier4"`
}

// TierFor returns the tier (0 = no payout, 1..4) of an observed delay.
func TierFor(delayMinutes int64, cancelled bool) int {
	switch {
	case cancelled || delayMinutes >= Tier4DelayMinutes:
		return 4
	case delayMinutes >= Tier3DelayMinutes:
		return 3
	case delayMinutes >= Tier2DelayMinutes:
		return 2
	case delayMinutes >= Tier1DelayMinutes:
		return 1
	default:
		return 0
	}
}

// Payout returns the amount owed for the observed delay.
func (t PayoutTiers) Payout(delayMinutes int64, cancelled bool) sdkmath.Int {
	switch TierFor(delayMinutes, cancelled) {
	case 4:
		return t.Tier4
	case 3:
		return t.Tier3
	case 2:
		return t.Tier2
	case 1:
		return t.Tier1
	default:
		return sdkmath.ZeroInt()
	}
}

// Max is the largest amount any observation can pay.
func (t PayoutTiers) Max() sdkmath.Int {
	return t.Tier4
}

// Validate requires every tier to be set, non-negative and non-decreasing,
// with a positive top tier.
func (t PayoutTiers) Validate() error {
	tiers := []sdkmath.Int{t.Tier1, t.Tier2, t.Tier3, t.Tier4}
	for i, amt := range tiers {
		if amt.IsNil() || amt.IsNegative() {
			return errors.Wrapf(ErrInvalidPayout, "tier%d must be non-negative", i+1)
		}
		if i > 0 && amt.LT(tiers[i-1]) {
			return errors.Wrapf(ErrInvalidPayout, "tier%d (%s) is below tier%d (%s)", i+1, amt, i, tiers[i-1])
		}
	}
	if !t.Tier4.IsPositive() {
		return errors.Wrap(ErrInvalidPayout, "tier4 must be positive")
	}
	return nil
}
