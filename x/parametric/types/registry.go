package types

import (
	sdkmath "cosmossdk.io/math"
)

const (
	MaxPolicyholders     = 128
	MaxExternalRefLength = 32
)

// PolicyholderEntry records one insured party under a policy.
type PolicyholderEntry struct {
	ExternalRef    string      `json:"external_ref"`
	PolicyId       uint64      `json:"policy_id"`
	FlightNo       string      `json:"flight_no"`
	DepartureDate  string      `json:"departure_date"`
	PassengerCount uint32      `json:"passenger_count"`
	PremiumPaid    sdkmath.Int `json:"premium_paid"`
	CoverageAmount sdkmath.Int `json:"coverage_amount"`
	Timestamp      int64       `json:"timestamp"`
}

type PolicyholderRegistry struct {
	Address string              `json:"address"`
	Policy  string              `json:"policy"`
	Entries []PolicyholderEntry `json:"entries"`
}
