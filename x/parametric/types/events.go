package types

import (
	"encoding/json"
	fmt "fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	EventTypePolicyCreated      = "policy_created"
	EventTypePolicyTransition   = "policy_transition"
	EventTypeShareEscrowed      = "share_escrowed"
	EventTypeShareReturned      = "share_returned"
	EventTypeShareRejected      = "share_rejected"
	EventTypeClaimCreated       = "claim_created"
	EventTypeClaimSettled       = "claim_settled"
	EventTypeMasterTransition   = "master_transition"
	EventTypeFlightPolicyIssued = "flight_policy_issued"
	EventTypeFlightResolved     = "flight_resolved"
	EventTypeFlightSettled      = "flight_settled"
)

func newDataEvent(eventType string, payload any, attrs ...sdk.Attribute) (sdk.Event, error) {
	bz, err := json.Marshal(payload)
	if err != nil {
		return sdk.Event{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	attrs = append(attrs, sdk.NewAttribute("data", string(bz))) // full JSON payload for off-chain consumption
	return sdk.NewEvent(eventType, attrs...), nil
}

// PolicyCreatedEvent is emitted when a leader creates a policy.
type PolicyCreatedEvent struct {
	Policy       string `json:"policy"`
	Leader       string `json:"leader"`
	PolicyId     uint64 `json:"policy_id"`
	FlightNo     string `json:"flight_no"`
	PayoutAmount string `json:"payout_amount"`
	Participants int    `json:"participants"`
}

func NewPolicyCreatedEvent(e PolicyCreatedEvent) (sdk.Event, error) {
	return newDataEvent(EventTypePolicyCreated, e,
		sdk.NewAttribute("policy", e.Policy),
		sdk.NewAttribute("leader", e.Leader),
		sdk.NewAttribute("policy_id", fmt.Sprintf("%d", e.PolicyId)),
	)
}

// String returns a readable log for CLI
func (e PolicyCreatedEvent) String() string {
	return fmt.Sprintf("Policy created | %s | id=%d | flight=%s | payout=%s | participants=%d",
		e.Policy, e.PolicyId, e.FlightNo, e.PayoutAmount, e.Participants)
}

// PolicyTransitionEvent records any policy state change.
type PolicyTransitionEvent struct {
	Policy string      `json:"policy"`
	From   PolicyState `json:"from"`
	To     PolicyState `json:"to"`
	Actor  string      `json:"actor"`
}

func NewPolicyTransitionEvent(e PolicyTransitionEvent) (sdk.Event, error) {
	return newDataEvent(EventTypePolicyTransition, e,
		sdk.NewAttribute("policy", e.Policy),
		sdk.NewAttribute("from", string(e.From)),
		sdk.NewAttribute("to", string(e.To)),
		sdk.NewAttribute("actor", e.Actor),
	)
}

func (e PolicyTransitionEvent) String() string {
	return fmt.Sprintf("Policy %s | %s -> %s | by %s", e.Policy, e.From, e.To, e.Actor)
}

// ShareEscrowedEvent is emitted when a participant accepts its share.
type ShareEscrowedEvent struct {
	Policy        string `json:"policy"`
	Insurer       string `json:"insurer"`
	Index         uint32 `json:"index"`
	Amount        string `json:"amount"`
	AcceptedRatio uint32 `json:"accepted_ratio"`
}

func NewShareEscrowedEvent(e ShareEscrowedEvent) (sdk.Event, error) {
	return newDataEvent(EventTypeShareEscrowed, e,
		sdk.NewAttribute("policy", e.Policy),
		sdk.NewAttribute("insurer", e.Insurer),
		sdk.NewAttribute("amount", e.Amount),
	)
}

// ShareReturnedEvent is emitted when escrow flows back to a participant,
// by refund or as residual after a claim.
type ShareReturnedEvent struct {
	Policy  string `json:"policy"`
	Insurer string `json:"insurer"`
	Index   uint32 `json:"index"`
	Amount  string `json:"amount"`
	Reason  string `json:"reason"`
}

func NewShareReturnedEvent(e ShareReturnedEvent) (sdk.Event, error) {
	return newDataEvent(EventTypeShareReturned, e,
		sdk.NewAttribute("policy", e.Policy),
		sdk.NewAttribute("insurer", e.Insurer),
		sdk.NewAttribute("amount", e.Amount),
		sdk.NewAttribute("reason", e.Reason),
	)
}

// ShareRejectedEvent is emitted when a participant declines its share and
// the underwriting fails.
type ShareRejectedEvent struct {
	Policy             string `json:"policy"`
	Insurer            string `json:"insurer"`
	Index              uint32 `json:"index"`
	UnderwritingStatus string `json:"underwriting_status"`
}

func NewShareRejectedEvent(e ShareRejectedEvent) (sdk.Event, error) {
	return newDataEvent(EventTypeShareRejected, e,
		sdk.NewAttribute("policy", e.Policy),
		sdk.NewAttribute("insurer", e.Insurer),
		sdk.NewAttribute("index", fmt.Sprintf("%d", e.Index)),
	)
}

type ClaimCreatedEvent struct {
	Claim        string `json:"claim"`
	Policy       string `json:"policy"`
	OracleRound  uint64 `json:"oracle_round"`
	DelayMinutes int64  `json:"delay_minutes"`
	Cancelled    bool   `json:"cancelled"`
	Payout       string `json:"payout"`
}

func NewClaimCreatedEvent(e ClaimCreatedEvent) (sdk.Event, error) {
	return newDataEvent(EventTypeClaimCreated, e,
		sdk.NewAttribute("claim", e.Claim),
		sdk.NewAttribute("policy", e.Policy),
		sdk.NewAttribute("oracle_round", fmt.Sprintf("%d", e.OracleRound)),
	)
}

type ClaimSettledEvent struct {
	Claim       string `json:"claim"`
	Policy      string `json:"policy"`
	Beneficiary string `json:"beneficiary"`
	Paid        string `json:"paid"`
}

func NewClaimSettledEvent(e ClaimSettledEvent) (sdk.Event, error) {
	return newDataEvent(EventTypeClaimSettled, e,
		sdk.NewAttribute("claim", e.Claim),
		sdk.NewAttribute("beneficiary", e.Beneficiary),
		sdk.NewAttribute("paid", e.Paid),
	)
}

// MasterTransitionEvent records master status changes and confirmations.
type MasterTransitionEvent struct {
	Master string       `json:"master"`
	From   MasterStatus `json:"from"`
	To     MasterStatus `json:"to"`
	Actor  string       `json:"actor"`
	Action string       `json:"action"`
}

func NewMasterTransitionEvent(e MasterTransitionEvent) (sdk.Event, error) {
	return newDataEvent(EventTypeMasterTransition, e,
		sdk.NewAttribute("master", e.Master),
		sdk.NewAttribute("action", e.Action),
		sdk.NewAttribute("to", string(e.To)),
	)
}

func (e MasterTransitionEvent) String() string {
	return fmt.Sprintf("Master %s | %s | %s -> %s | by %s", e.Master, e.Action, e.From, e.To, e.Actor)
}

type FlightPolicyIssuedEvent struct {
	Flight      string `json:"flight"`
	Master      string `json:"master"`
	ChildId     uint64 `json:"child_id"`
	FlightNo    string `json:"flight_no"`
	DepartureTs int64  `json:"departure_ts"`
	Premium     string `json:"premium"`
}

func NewFlightPolicyIssuedEvent(e FlightPolicyIssuedEvent) (sdk.Event, error) {
	return newDataEvent(EventTypeFlightPolicyIssued, e,
		sdk.NewAttribute("flight", e.Flight),
		sdk.NewAttribute("master", e.Master),
		sdk.NewAttribute("child_id", fmt.Sprintf("%d", e.ChildId)),
	)
}

type FlightResolvedEvent struct {
	Flight       string       `json:"flight"`
	Master       string       `json:"master"`
	ChildId      uint64       `json:"child_id"`
	DelayMinutes int64        `json:"delay_minutes"`
	Cancelled    bool         `json:"cancelled"`
	Payout       string       `json:"payout"`
	Status       FlightStatus `json:"status"`
}

func NewFlightResolvedEvent(e FlightResolvedEvent) (sdk.Event, error) {
	return newDataEvent(EventTypeFlightResolved, e,
		sdk.NewAttribute("flight", e.Flight),
		sdk.NewAttribute("status", string(e.Status)),
		sdk.NewAttribute("payout", e.Payout),
	)
}

// FlightSettledEvent carries the waterfall applied to a child policy.
type FlightSettledEvent struct {
	Flight    string    `json:"flight"`
	Master    string    `json:"master"`
	ChildId   uint64    `json:"child_id"`
	Kind      string    `json:"kind"` // "claim" or "no_claim"
	Waterfall Waterfall `json:"waterfall"`
}

func NewFlightSettledEvent(e FlightSettledEvent) (sdk.Event, error) {
	return newDataEvent(EventTypeFlightSettled, e,
		sdk.NewAttribute("flight", e.Flight),
		sdk.NewAttribute("kind", e.Kind),
		sdk.NewAttribute("total", e.Waterfall.Total.String()),
	)
}
