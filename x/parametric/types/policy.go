package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

type PolicyState string

const (
	PolicyStateDraft     PolicyState = "Draft"
	PolicyStateOpen      PolicyState = "Open"
	PolicyStateFunded    PolicyState = "Funded"
	PolicyStateActive    PolicyState = "Active"
	PolicyStateClaimable PolicyState = "Claimable"
	PolicyStateApproved  PolicyState = "Approved"
	PolicyStateSettled   PolicyState = "Settled"
	PolicyStateExpired   PolicyState = "Expired"
)

// MaxDescriptorLength bounds route and flight descriptors.
const MaxDescriptorLength = 16

// ParsePolicyState validates a state name.
func ParsePolicyState(s string) (PolicyState, error) {
	switch st := PolicyState(s); st {
	case PolicyStateDraft, PolicyStateOpen, PolicyStateFunded, PolicyStateActive,
		PolicyStateClaimable, PolicyStateApproved, PolicyStateSettled, PolicyStateExpired:
		return st, nil
	}
	return "", fmt.Errorf("unknown policy state %q", s)
}

// Policy is a single fully collateralized parametric policy.
type Policy struct {
	Address           string       `json:"address"`
	Leader            string       `json:"leader"`
	Operator          string       `json:"operator"`
	PolicyId          uint64       `json:"policy_id"`
	Route             string       `json:"route"`
	FlightNo          string       `json:"flight_no"`
	DepartureDate     string       `json:"departure_date"`
	DelayThresholdMin int64        `json:"delay_threshold_min"`
	PayoutAmount      sdkmath.Int  `json:"payout_amount"`
	PayoutTiers       *PayoutTiers `json:"payout_tiers,omitempty"`
	OracleFeed        string       `json:"oracle_feed"`
	ActiveFrom        int64        `json:"active_from"`
	ActiveTo          int64        `json:"active_to"`
	State             PolicyState  `json:"state"`
	Underwriting      string       `json:"underwriting"`
	Pool              string       `json:"pool"`
	Vault             string       `json:"vault"`
	Registry          string       `json:"registry"`
	CreatedAt         int64        `json:"created_at"`
}

// IsLeaderOrOperator reports whether addr holds leader authority.
func (p Policy) IsLeaderOrOperator(addr string) bool {
	return addr == p.Leader || (p.Operator != "" && addr == p.Operator)
}

// ClaimPayout is the amount owed for a threshold-crossing observation: the
// tier amount when the policy is tiered, otherwise the full payout.
func (p Policy) ClaimPayout(delayMinutes int64, cancelled bool) sdkmath.Int {
	if p.PayoutTiers != nil {
		return p.PayoutTiers.Payout(delayMinutes, cancelled)
	}
	return p.PayoutAmount
}

func (p Policy) String() string {
	return fmt.Sprintf("Policy %s | id=%d | %s %s | state=%s | payout=%s",
		p.Address, p.PolicyId, p.FlightNo, p.Route, p.State, p.PayoutAmount)
}
