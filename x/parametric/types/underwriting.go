package types

import (
	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

type UnderwritingStatus string

const (
	UnderwritingStatusProposed  UnderwritingStatus = "Proposed"
	UnderwritingStatusOpen      UnderwritingStatus = "Open"
	UnderwritingStatusFinalized UnderwritingStatus = "Finalized"
	// Failed once any participant rejects: 10000 bps can no longer be reached.
	UnderwritingStatusFailed UnderwritingStatus = "Failed"
)

type ShareStatus string

const (
	ShareStatusPending  ShareStatus = "Pending"
	ShareStatusAccepted ShareStatus = "Accepted"
	ShareStatusRejected ShareStatus = "Rejected"
	ShareStatusRefunded ShareStatus = "Refunded"
)

// ParticipantShare is a participant as proposed by the leader.
type ParticipantShare struct {
	Insurer  string `json:"insurer"`
	RatioBps uint32 `json:"ratio_bps"`
}

// UnderwritingShare tracks one participant's escrow.
type UnderwritingShare struct {
	Insurer        string      `json:"insurer"`
	RatioBps       uint32      `json:"ratio_bps"`
	Status         ShareStatus `json:"status"`
	EscrowedAmount sdkmath.Int `json:"escrowed_amount"`
	ReturnedAmount sdkmath.Int `json:"returned_amount"`
	AcceptedAt     int64       `json:"accepted_at"`
}

type Underwriting struct {
	Address      string              `json:"address"`
	Policy       string              `json:"policy"`
	Leader       string              `json:"leader"`
	PayoutAmount sdkmath.Int         `json:"payout_amount"`
	Participants []UnderwritingShare `json:"participants"`
	TotalRatio   uint32              `json:"total_ratio"`
	Status       UnderwritingStatus  `json:"status"`
	CreatedAt    int64               `json:"created_at"`
}

// NewUnderwriting builds a Proposed underwriting with every share pending.
func NewUnderwriting(address, policy, leader string, payout sdkmath.Int, participants []ParticipantShare, now int64) Underwriting {
	shares := make([]UnderwritingShare, len(participants))
	var total uint32
	for i, p := range participants {
		shares[i] = UnderwritingShare{
			Insurer:        p.Insurer,
			RatioBps:       p.RatioBps,
			Status:         ShareStatusPending,
			EscrowedAmount: sdkmath.ZeroInt(),
			ReturnedAmount: sdkmath.ZeroInt(),
		}
		total += p.RatioBps
	}
	return Underwriting{
		Address:      address,
		Policy:       policy,
		Leader:       leader,
		PayoutAmount: payout,
		Participants: shares,
		TotalRatio:   total,
		Status:       UnderwritingStatusProposed,
		CreatedAt:    now,
	}
}

// RatioBps returns the participant shares in order.
func (u Underwriting) RatioBps() []uint32 {
	out := make([]uint32, len(u.Participants))
	for i, p := range u.Participants {
		out[i] = p.RatioBps
	}
	return out
}

// AcceptedRatio is the cumulative bps of accepted shares.
func (u Underwriting) AcceptedRatio() uint32 {
	var sum uint32
	for _, p := range u.Participants {
		if p.Status == ShareStatusAccepted {
			sum += p.RatioBps
		}
	}
	return sum
}

func (u Underwriting) TotalEscrowed() sdkmath.Int {
	sum := sdkmath.ZeroInt()
	for _, p := range u.Participants {
		sum = sum.Add(p.EscrowedAmount)
	}
	return sum
}

// RequiredDeposit is the exact escrow participant index must lock: its
// bps allocation of the payout, with index 0 absorbing the rounding
// remainder so that all deposits add up to the payout.
func (u Underwriting) RequiredDeposit(index int) (sdkmath.Int, error) {
	if index < 0 || index >= len(u.Participants) {
		return sdkmath.Int{}, errors.Wrapf(ErrInvalidInput, "participant index %d out of range", index)
	}
	split, err := SplitByBps(u.PayoutAmount, u.RatioBps())
	if err != nil {
		return sdkmath.Int{}, err
	}
	return split[index], nil
}

// IsFullyFunded holds when every share is accepted and the escrow covers the payout exactly.
func (u Underwriting) IsFullyFunded() bool {
	return u.AcceptedRatio() == BasisPointsTotal && u.TotalEscrowed().Equal(u.PayoutAmount)
}

// RiskPool is the vault bookkeeping of a policy.
type RiskPool struct {
	Address          string      `json:"address"`
	Policy           string      `json:"policy"`
	Vault            string      `json:"vault"`
	TotalEscrowed    sdkmath.Int `json:"total_escrowed"`
	AvailableBalance sdkmath.Int `json:"available_balance"`
	PaidOut          sdkmath.Int `json:"paid_out"`
}

func NewRiskPool(address, policy, vault string) RiskPool {
	return RiskPool{
		Address:          address,
		Policy:           policy,
		Vault:            vault,
		TotalEscrowed:    sdkmath.ZeroInt(),
		AvailableBalance: sdkmath.ZeroInt(),
		PaidOut:          sdkmath.ZeroInt(),
	}
}
