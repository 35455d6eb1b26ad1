package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// MsgServer is the server API for the module's state-mutating operations.
type MsgServer interface {
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)

	CreatePolicy(context.Context, *MsgCreatePolicy) (*MsgCreatePolicyResponse, error)
	OpenUnderwriting(context.Context, *MsgOpenUnderwriting) (*MsgOpenUnderwritingResponse, error)
	AcceptShare(context.Context, *MsgAcceptShare) (*MsgAcceptShareResponse, error)
	RejectShare(context.Context, *MsgRejectShare) (*MsgRejectShareResponse, error)
	ActivatePolicy(context.Context, *MsgActivatePolicy) (*MsgActivatePolicyResponse, error)
	CheckOracle(context.Context, *MsgCheckOracle) (*MsgCheckOracleResponse, error)
	ApproveClaim(context.Context, *MsgApproveClaim) (*MsgApproveClaimResponse, error)
	SettleClaim(context.Context, *MsgSettleClaim) (*MsgSettleClaimResponse, error)
	ExpirePolicy(context.Context, *MsgExpirePolicy) (*MsgExpirePolicyResponse, error)
	RefundShare(context.Context, *MsgRefundShare) (*MsgRefundShareResponse, error)
	RegisterPolicyholder(context.Context, *MsgRegisterPolicyholder) (*MsgRegisterPolicyholderResponse, error)

	CreateMasterPolicy(context.Context, *MsgCreateMasterPolicy) (*MsgCreateMasterPolicyResponse, error)
	RegisterParticipantWallets(context.Context, *MsgRegisterParticipantWallets) (*MsgRegisterParticipantWalletsResponse, error)
	ConfirmMaster(context.Context, *MsgConfirmMaster) (*MsgConfirmMasterResponse, error)
	ActivateMaster(context.Context, *MsgActivateMaster) (*MsgActivateMasterResponse, error)
	CancelMaster(context.Context, *MsgCancelMaster) (*MsgCancelMasterResponse, error)
	CloseMaster(context.Context, *MsgCloseMaster) (*MsgCloseMasterResponse, error)
	CreateFlightPolicy(context.Context, *MsgCreateFlightPolicy) (*MsgCreateFlightPolicyResponse, error)
	ResolveFlightDelay(context.Context, *MsgResolveFlightDelay) (*MsgResolveFlightDelayResponse, error)
	SettleFlightClaim(context.Context, *MsgSettleFlightClaim) (*MsgSettleFlightClaimResponse, error)
	SettleFlightNoClaim(context.Context, *MsgSettleFlightNoClaim) (*MsgSettleFlightNoClaimResponse, error)
}

// QueryServer is the read-only API of the module.
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Policy(context.Context, *QueryPolicyRequest) (*QueryPolicyResponse, error)
	PoliciesByState(context.Context, *QueryPoliciesByStateRequest) (*QueryPoliciesByStateResponse, error)
	Claim(context.Context, *QueryClaimRequest) (*QueryClaimResponse, error)
	MasterPolicy(context.Context, *QueryMasterPolicyRequest) (*QueryMasterPolicyResponse, error)
	MasterPolicies(context.Context, *QueryMasterPoliciesRequest) (*QueryMasterPoliciesResponse, error)
	FlightPolicy(context.Context, *QueryFlightPolicyRequest) (*QueryFlightPolicyResponse, error)
	FlightPolicies(context.Context, *QueryFlightPoliciesRequest) (*QueryFlightPoliciesResponse, error)
	Waterfall(context.Context, *QueryWaterfallRequest) (*QueryWaterfallResponse, error)
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryPolicyRequest struct {
	Address string `json:"address"`
}

// QueryPolicyResponse bundles a policy with the records it owns.
type QueryPolicyResponse struct {
	Policy       Policy               `json:"policy"`
	Underwriting Underwriting         `json:"underwriting"`
	RiskPool     RiskPool             `json:"risk_pool"`
	Registry     PolicyholderRegistry `json:"registry"`
	Claims       []Claim              `json:"claims"`
	VaultBalance sdkmath.Int          `json:"vault_balance"`
}

type QueryPoliciesByStateRequest struct {
	State PolicyState `json:"state"`
}

type QueryPoliciesByStateResponse struct {
	Policies []Policy `json:"policies"`
}

type QueryClaimRequest struct {
	Policy      string `json:"policy"`
	OracleRound uint64 `json:"oracle_round"`
}

type QueryClaimResponse struct {
	Claim Claim `json:"claim"`
}

type QueryMasterPolicyRequest struct {
	Address string `json:"address"`
}

type QueryMasterPolicyResponse struct {
	Master MasterPolicy `json:"master"`
}

type QueryMasterPoliciesRequest struct {
	Status MasterStatus `json:"status,omitempty"`
}

type QueryMasterPoliciesResponse struct {
	Masters []MasterPolicy `json:"masters"`
}

type QueryFlightPolicyRequest struct {
	Master  string `json:"master"`
	ChildId uint64 `json:"child_id"`
}

type QueryFlightPolicyResponse struct {
	Flight FlightPolicy `json:"flight"`
}

type QueryFlightPoliciesRequest struct {
	Master string       `json:"master"`
	Status FlightStatus `json:"status,omitempty"`
}

type QueryFlightPoliciesResponse struct {
	Flights []FlightPolicy `json:"flights"`
}

// QueryWaterfallRequest previews a split without touching state. When Master
// is set its effective reinsurer bps and participant shares are used.
type QueryWaterfallRequest struct {
	Total        sdkmath.Int `json:"total"`
	Master       string      `json:"master,omitempty"`
	ReinsurerBps uint32      `json:"reinsurer_bps"`
	ShareBps     []uint32    `json:"share_bps"`
}

type QueryWaterfallResponse struct {
	Waterfall Waterfall `json:"waterfall"`
}
