package types

import (
	"fmt"

	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

const (
	// BasisPointsTotal is 100% expressed in basis points.
	BasisPointsTotal = 10000

	// MaxParticipants bounds the participant list of any policy.
	MaxParticipants = 16
)

// Waterfall is the deterministic split of Total between the reinsurer and
// the ordered participant list. Reinsurer + sum(Shares) == Total always holds.
type Waterfall struct {
	Total        sdkmath.Int   `json:"total"`
	Reinsurer    sdkmath.Int   `json:"reinsurer"`
	InsurerTotal sdkmath.Int   `json:"insurer_total"`
	Shares       []sdkmath.Int `json:"shares"`
}

// Sum returns Reinsurer plus every participant share.
func (w Waterfall) Sum() sdkmath.Int {
	sum := w.Reinsurer
	for _, s := range w.Shares {
		sum = sum.Add(s)
	}
	return sum
}

// EffectiveReinsurerBps is the reinsurer's net take once the ceding
// commission is retained by the insurers.
func EffectiveReinsurerBps(cededRatioBps, reinsCommissionBps uint32) uint32 {
	return uint32(uint64(cededRatioBps) * uint64(BasisPointsTotal-reinsCommissionBps) / BasisPointsTotal)
}

// ValidateShares checks a participant partition: non-empty, bounded, every
// share positive and the total exactly 10000.
func ValidateShares(shareBps []uint32) error {
	if len(shareBps) == 0 {
		return errors.Wrap(ErrInvalidRatio, "participant list is empty")
	}
	if len(shareBps) > MaxParticipants {
		return errors.Wrapf(ErrInvalidInput, "%d participants exceeds maximum of %d", len(shareBps), MaxParticipants)
	}
	var total uint64
	for i, bps := range shareBps {
		if bps == 0 {
			return errors.Wrapf(ErrInvalidRatio, "participant %d has zero share", i)
		}
		total += uint64(bps)
	}
	if total != BasisPointsTotal {
		return errors.Wrapf(ErrInvalidRatio, "shares sum to %d", total)
	}
	return nil
}

// SplitByBps splits amount across shareBps. Every share is truncated and the
// rounding remainder goes to index 0, so the result sums to amount exactly.
func SplitByBps(amount sdkmath.Int, shareBps []uint32) ([]sdkmath.Int, error) {
	if amount.IsNil() || amount.IsNegative() {
		return nil, errors.Wrapf(ErrInvalidInput, "amount must be non-negative, got %s", amount)
	}
	if err := ValidateShares(shareBps); err != nil {
		return nil, err
	}

	shares := make([]sdkmath.Int, len(shareBps))
	distributed := sdkmath.ZeroInt()
	for i, bps := range shareBps {
		shares[i] = amount.MulRaw(int64(bps)).QuoRaw(BasisPointsTotal)
		distributed = distributed.Add(shares[i])
	}
	shares[0] = shares[0].Add(amount.Sub(distributed))
	return shares, nil
}

// ComputeWaterfall cedes floor(total*reinsurerBps/10000) to the reinsurer and
// splits the rest across the participants with SplitByBps.
//
// The same split serves both directions: premiums flow out to the reinsurer,
// claims are reimbursed in from it.
func ComputeWaterfall(total sdkmath.Int, reinsurerBps uint32, shareBps []uint32) (Waterfall, error) {
	if total.IsNil() || total.IsNegative() {
		return Waterfall{}, errors.Wrapf(ErrInvalidInput, "total must be non-negative, got %s", total)
	}
	if reinsurerBps > BasisPointsTotal {
		return Waterfall{}, errors.Wrapf(ErrInvalidRatio, "reinsurer share %d exceeds 10000", reinsurerBps)
	}

	reins := total.MulRaw(int64(reinsurerBps)).QuoRaw(BasisPointsTotal)
	insurerTotal := total.Sub(reins)
	shares, err := SplitByBps(insurerTotal, shareBps)
	if err != nil {
		return Waterfall{}, err
	}

	return Waterfall{
		Total:        total,
		Reinsurer:    reins,
		InsurerTotal: insurerTotal,
		Shares:       shares,
	}, nil
}

func (w Waterfall) String() string {
	return fmt.Sprintf("total=%s reinsurer=%s insurers=%s shares=%v", w.Total, w.Reinsurer, w.InsurerTotal, w.Shares)
}
