package keeper

import (
	"context"

	"cosmossdk.io/errors"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// HandleMsg validates msg and routes it to the matching MsgServer method.
func HandleMsg(ctx context.Context, ms types.MsgServer, msg types.Msg) (any, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	switch msg := msg.(type) {
	case *types.MsgUpdateParams:
		return ms.UpdateParams(ctx, msg)
	case *types.MsgCreatePolicy:
		return ms.CreatePolicy(ctx, msg)
	case *types.MsgOpenUnderwriting:
		return ms.OpenUnderwriting(ctx, msg)
	case *types.MsgAcceptShare:
		return ms.AcceptShare(ctx, msg)
	case *types.MsgRejectShare:
		return ms.RejectShare(ctx, msg)
	case *types.MsgActivatePolicy:
		return ms.ActivatePolicy(ctx, msg)
	case *types.MsgCheckOracle:
		return ms.CheckOracle(ctx, msg)
	case *types.MsgApproveClaim:
		return ms.ApproveClaim(ctx, msg)
	case *types.MsgSettleClaim:
		return ms.SettleClaim(ctx, msg)
	case *types.MsgExpirePolicy:
		return ms.ExpirePolicy(ctx, msg)
	case *types.MsgRefundShare:
		return ms.RefundShare(ctx, msg)
	case *types.MsgRegisterPolicyholder:
		return ms.RegisterPolicyholder(ctx, msg)
	case *types.MsgCreateMasterPolicy:
		return ms.CreateMasterPolicy(ctx, msg)
	case *types.MsgRegisterParticipantWallets:
		return ms.RegisterParticipantWallets(ctx, msg)
	case *types.MsgConfirmMaster:
		return ms.ConfirmMaster(ctx, msg)
	case *types.MsgActivateMaster:
		return ms.ActivateMaster(ctx, msg)
	case *types.MsgCancelMaster:
		return ms.CancelMaster(ctx, msg)
	case *types.MsgCloseMaster:
		return ms.CloseMaster(ctx, msg)
	case *types.MsgCreateFlightPolicy:
		return ms.CreateFlightPolicy(ctx, msg)
	case *types.MsgResolveFlightDelay:
		return ms.ResolveFlightDelay(ctx, msg)
	case *types.MsgSettleFlightClaim:
		return ms.SettleFlightClaim(ctx, msg)
	case *types.MsgSettleFlightNoClaim:
		return ms.SettleFlightNoClaim(ctx, msg)
	default:
		return nil, errors.Wrapf(types.ErrInvalidInput, "unrecognized %s message type: %T", types.ModuleName, msg)
	}
}
