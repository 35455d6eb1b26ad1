package keeper

import (
	"context"

	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	"cosmossdk.io/errors"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

type msgServer struct {
	k Keeper
}

var _ types.MsgServer = msgServer{}

// NewMsgServerImpl returns an implementation of the module MsgServer interface.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{k: keeper}
}

// UpdateParams handles MsgUpdateParams for updating module parameters.
// Only authorized governance account can execute this.
func (ms msgServer) UpdateParams(ctx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if ms.k.authority != msg.Authority {
		return nil, errors.Wrapf(govtypes.ErrInvalidSigner, "invalid authority; expected %s, got %s", ms.k.authority, msg.Authority)
	}

	if err := ms.k.UpdateParams(ctx, msg.Params); err != nil {
		return nil, err
	}

	return &types.MsgUpdateParamsResponse{}, nil
}

func (ms msgServer) CreatePolicy(ctx context.Context, msg *types.MsgCreatePolicy) (*types.MsgCreatePolicyResponse, error) {
	return ms.k.CreatePolicy(ctx, msg)
}

func (ms msgServer) OpenUnderwriting(ctx context.Context, msg *types.MsgOpenUnderwriting) (*types.MsgOpenUnderwritingResponse, error) {
	if err := ms.k.OpenUnderwriting(ctx, msg); err != nil {
		return nil, err
	}
	return &types.MsgOpenUnderwritingResponse{}, nil
}

func (ms msgServer) AcceptShare(ctx context.Context, msg *types.MsgAcceptShare) (*types.MsgAcceptShareResponse, error) {
	funded, err := ms.k.AcceptShare(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &types.MsgAcceptShareResponse{Funded: funded}, nil
}

func (ms msgServer) RejectShare(ctx context.Context, msg *types.MsgRejectShare) (*types.MsgRejectShareResponse, error) {
	if err := ms.k.RejectShare(ctx, msg); err != nil {
		return nil, err
	}
	return &types.MsgRejectShareResponse{}, nil
}

func (ms msgServer) ActivatePolicy(ctx context.Context, msg *types.MsgActivatePolicy) (*types.MsgActivatePolicyResponse, error) {
	if err := ms.k.ActivatePolicy(ctx, msg); err != nil {
		return nil, err
	}
	return &types.MsgActivatePolicyResponse{}, nil
}

func (ms msgServer) CheckOracle(ctx context.Context, msg *types.MsgCheckOracle) (*types.MsgCheckOracleResponse, error) {
	return ms.k.CheckOracle(ctx, msg)
}

func (ms msgServer) ApproveClaim(ctx context.Context, msg *types.MsgApproveClaim) (*types.MsgApproveClaimResponse, error) {
	if err := ms.k.ApproveClaim(ctx, msg); err != nil {
		return nil, err
	}
	return &types.MsgApproveClaimResponse{}, nil
}

func (ms msgServer) SettleClaim(ctx context.Context, msg *types.MsgSettleClaim) (*types.MsgSettleClaimResponse, error) {
	return ms.k.SettleClaim(ctx, msg)
}

func (ms msgServer) ExpirePolicy(ctx context.Context, msg *types.MsgExpirePolicy) (*types.MsgExpirePolicyResponse, error) {
	if err := ms.k.ExpirePolicy(ctx, msg); err != nil {
		return nil, err
	}
	return &types.MsgExpirePolicyResponse{}, nil
}

func (ms msgServer) RefundShare(ctx context.Context, msg *types.MsgRefundShare) (*types.MsgRefundShareResponse, error) {
	refunded, err := ms.k.RefundShare(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &types.MsgRefundShareResponse{Refunded: refunded}, nil
}

func (ms msgServer) RegisterPolicyholder(ctx context.Context, msg *types.MsgRegisterPolicyholder) (*types.MsgRegisterPolicyholderResponse, error) {
	count, err := ms.k.RegisterPolicyholder(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &types.MsgRegisterPolicyholderResponse{Count: count}, nil
}

func (ms msgServer) CreateMasterPolicy(ctx context.Context, msg *types.MsgCreateMasterPolicy) (*types.MsgCreateMasterPolicyResponse, error) {
	return ms.k.CreateMasterPolicy(ctx, msg)
}

func (ms msgServer) RegisterParticipantWallets(ctx context.Context, msg *types.MsgRegisterParticipantWallets) (*types.MsgRegisterParticipantWalletsResponse, error) {
	pool, err := ms.k.RegisterParticipantWallets(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &types.MsgRegisterParticipantWalletsResponse{PoolWallet: pool}, nil
}

func (ms msgServer) ConfirmMaster(ctx context.Context, msg *types.MsgConfirmMaster) (*types.MsgConfirmMasterResponse, error) {
	if err := ms.k.ConfirmMaster(ctx, msg); err != nil {
		return nil, err
	}
	return &types.MsgConfirmMasterResponse{}, nil
}

func (ms msgServer) ActivateMaster(ctx context.Context, msg *types.MsgActivateMaster) (*types.MsgActivateMasterResponse, error) {
	if err := ms.k.ActivateMaster(ctx, msg); err != nil {
		return nil, err
	}
	return &types.MsgActivateMasterResponse{}, nil
}

func (ms msgServer) CancelMaster(ctx context.Context, msg *types.MsgCancelMaster) (*types.MsgCancelMasterResponse, error) {
	if err := ms.k.CancelMaster(ctx, msg); err != nil {
		return nil, err
	}
	return &types.MsgCancelMasterResponse{}, nil
}

func (ms msgServer) CloseMaster(ctx context.Context, msg *types.MsgCloseMaster) (*types.MsgCloseMasterResponse, error) {
	if err := ms.k.CloseMaster(ctx, msg); err != nil {
		return nil, err
	}
	return &types.MsgCloseMasterResponse{}, nil
}

func (ms msgServer) CreateFlightPolicy(ctx context.Context, msg *types.MsgCreateFlightPolicy) (*types.MsgCreateFlightPolicyResponse, error) {
	flight, err := ms.k.CreateFlightPolicy(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateFlightPolicyResponse{Flight: flight}, nil
}

func (ms msgServer) ResolveFlightDelay(ctx context.Context, msg *types.MsgResolveFlightDelay) (*types.MsgResolveFlightDelayResponse, error) {
	return ms.k.ResolveFlightDelay(ctx, msg)
}

func (ms msgServer) SettleFlightClaim(ctx context.Context, msg *types.MsgSettleFlightClaim) (*types.MsgSettleFlightClaimResponse, error) {
	w, err := ms.k.SettleFlightClaim(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &types.MsgSettleFlightClaimResponse{Waterfall: w}, nil
}

func (ms msgServer) SettleFlightNoClaim(ctx context.Context, msg *types.MsgSettleFlightNoClaim) (*types.MsgSettleFlightNoClaimResponse, error) {
	w, err := ms.k.SettleFlightNoClaim(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &types.MsgSettleFlightNoClaimResponse{Waterfall: w}, nil
}
