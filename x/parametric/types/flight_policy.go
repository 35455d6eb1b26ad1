package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

type FlightStatus string

const (
	FlightStatusIssued         FlightStatus = "Issued"
	FlightStatusAwaitingOracle FlightStatus = "AwaitingOracle"
	FlightStatusClaimable      FlightStatus = "Claimable"
	FlightStatusPaid           FlightStatus = "Paid"
	FlightStatusNoClaim        FlightStatus = "NoClaim"
	FlightStatusExpired        FlightStatus = "Expired"
)

const MaxSubscriberRefLength = 64

// FlightPolicy is a child policy issued under an active master.
type FlightPolicy struct {
	Address            string       `json:"address"`
	Master             string       `json:"master"`
	ChildId            uint64       `json:"child_id"`
	Creator            string       `json:"creator"`
	SubscriberRef      string       `json:"subscriber_ref"`
	FlightNo           string       `json:"flight_no"`
	Route              string       `json:"route"`
	DepartureTs        int64        `json:"departure_ts"`
	PremiumPaid        sdkmath.Int  `json:"premium_paid"`
	DelayMinutes       int64        `json:"delay_minutes"`
	Cancelled          bool         `json:"cancelled"`
	PayoutAmount       sdkmath.Int  `json:"payout_amount"`
	PremiumDistributed bool         `json:"premium_distributed"`
	Status             FlightStatus `json:"status"`
	CreatedAt          int64        `json:"created_at"`
	UpdatedAt          int64        `json:"updated_at"`
}

// IsResolved reports whether the delay outcome has been recorded.
func (f FlightPolicy) IsResolved() bool {
	return f.Status != FlightStatusIssued && f.Status != FlightStatusAwaitingOracle
}

// IsTerminal reports whether no further settlement can happen.
func (f FlightPolicy) IsTerminal() bool {
	return f.Status == FlightStatusPaid || f.Status == FlightStatusExpired
}

// FeedKey identifies the delay observation stream of a flight.
func (f FlightPolicy) FeedKey() string {
	return FlightFeedKey(f.FlightNo, f.DepartureTs)
}

func FlightFeedKey(flightNo string, departureTs int64) string {
	return fmt.Sprintf("%s@%d", flightNo, departureTs)
}
