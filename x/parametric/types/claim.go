package types

import (
	sdkmath "cosmossdk.io/math"
)

// ClaimStatus is the lifecycle of a claim. Rejected is reserved for a
// leader-side rejection flow: no message sets it yet, but genesis and
// queries accept it.
type ClaimStatus string

const (
	ClaimStatusClaimable ClaimStatus = "Claimable"
	ClaimStatusApproved  ClaimStatus = "Approved"
	ClaimStatusSettled   ClaimStatus = "Settled"
	ClaimStatusRejected  ClaimStatus = "Rejected"
)

// Claim is created from one oracle round crossing a policy's threshold.
type Claim struct {
	Address      string      `json:"address"`
	Policy       string      `json:"policy"`
	OracleRound  uint64      `json:"oracle_round"`
	OracleValue  int64       `json:"oracle_value"`
	Cancelled    bool        `json:"cancelled"`
	PayoutAmount sdkmath.Int `json:"payout_amount"`
	Beneficiary  string      `json:"beneficiary,omitempty"`
	ApprovedBy   string      `json:"approved_by,omitempty"`
	Status       ClaimStatus `json:"status"`
	VerifiedAt   int64       `json:"verified_at"`
	ApprovedAt   int64       `json:"approved_at,omitempty"`
	SettledAt    int64       `json:"settled_at,omitempty"`
}
