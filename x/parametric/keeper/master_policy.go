package keeper

import (
	"context"

	"cosmossdk.io/collections"
	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// CreateMasterPolicy registers a batch contract. The leader is participant 0
// and confirms implicitly; everyone else, and the reinsurer, confirm later.
func (k Keeper) CreateMasterPolicy(ctx context.Context, msg *types.MsgCreateMasterPolicy) (*types.MsgCreateMasterPolicyResponse, error) {
	params, err := k.Params.Get(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get params")
	}
	if uint32(len(msg.Participants)) > params.MaxParticipants {
		return nil, errors.Wrapf(types.ErrInvalidInput, "%d participants, max %d", len(msg.Participants), params.MaxParticipants)
	}

	leader, err := sdk.AccAddressFromBech32(msg.Leader)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidInput, "leader: %s", err)
	}
	masterAddr := types.MasterPolicyAddress(leader, msg.MasterId)
	addr := masterAddr.String()

	if has, err := k.MasterPolicies.Has(ctx, addr); err != nil {
		return nil, err
	} else if has {
		return nil, errors.Wrapf(types.ErrAlreadyExists, "master %d of %s", msg.MasterId, msg.Leader)
	}

	participants := make([]types.MasterParticipant, len(msg.Participants))
	for i, p := range msg.Participants {
		participants[i] = types.MasterParticipant{
			Insurer:   p.Insurer,
			ShareBps:  p.RatioBps,
			Confirmed: i == 0,
		}
	}

	master := types.MasterPolicy{
		Address:                addr,
		MasterId:               msg.MasterId,
		Leader:                 msg.Leader,
		Operator:               msg.Operator,
		Reinsurer:              msg.Reinsurer,
		CoverageStart:          msg.CoverageStart,
		CoverageEnd:            msg.CoverageEnd,
		PremiumPerPolicy:       msg.PremiumPerPolicy,
		PayoutTiers:            msg.PayoutTiers,
		CededRatioBps:          msg.CededRatioBps,
		ReinsCommissionBps:     msg.ReinsCommissionBps,
		ReinsurerEffectiveBps:  types.EffectiveReinsurerBps(msg.CededRatioBps, msg.ReinsCommissionBps),
		Participants:           participants,
		ReinsurerPoolWallet:    types.ReinsurerPoolWalletAddress(masterAddr).String(),
		ReinsurerDepositWallet: msg.ReinsurerDepositWallet,
		LeaderDepositWallet:    types.LeaderDepositWalletAddress(masterAddr).String(),
		Status:                 types.MasterStatusDraft,
		CreatedAt:              blockTime(ctx),
	}

	err = k.atomically(ctx, func(ctx sdk.Context) error {
		return k.setMasterStatus(ctx, &master, types.MasterStatusPendingConfirm, msg.Leader, "create")
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgCreateMasterPolicyResponse{
		Master:                addr,
		LeaderDepositWallet:   master.LeaderDepositWallet,
		ReinsurerPoolWallet:   master.ReinsurerPoolWallet,
		ReinsurerEffectiveBps: master.ReinsurerEffectiveBps,
	}, nil
}

// RegisterParticipantWallets records where a participant receives premium
// and derives the pool wallet its claim share is drawn from.
func (k Keeper) RegisterParticipantWallets(ctx context.Context, msg *types.MsgRegisterParticipantWallets) (string, error) {
	master, err := k.getMaster(ctx, msg.Master)
	if err != nil {
		return "", err
	}
	idx := master.ParticipantIndex(msg.Signer)
	if idx < 0 {
		return "", errors.Wrapf(types.ErrUnauthorized, "%s is not a participant of %s", msg.Signer, msg.Master)
	}
	switch master.Status {
	case types.MasterStatusDraft, types.MasterStatusPendingConfirm:
	default:
		return "", errors.Wrapf(types.ErrInvalidState, "master is %s", master.Status)
	}

	masterAddr, err := sdk.AccAddressFromBech32(msg.Master)
	if err != nil {
		return "", errors.Wrapf(types.ErrInvalidInput, "master: %s", err)
	}
	insurer, err := sdk.AccAddressFromBech32(msg.Signer)
	if err != nil {
		return "", errors.Wrapf(types.ErrInvalidInput, "signer: %s", err)
	}

	p := &master.Participants[idx]
	p.DepositWallet = msg.DepositWallet
	p.PoolWallet = types.MasterPoolWalletAddress(masterAddr, insurer).String()

	err = k.atomically(ctx, func(ctx sdk.Context) error {
		return k.setMasterStatus(ctx, &master, master.Status, msg.Signer, "register_wallets")
	})
	if err != nil {
		return "", err
	}
	return p.PoolWallet, nil
}

// ConfirmMaster records a participant or reinsurer confirmation. Repeating
// a confirmation is a no-op.
func (k Keeper) ConfirmMaster(ctx context.Context, msg *types.MsgConfirmMaster) error {
	master, err := k.getMaster(ctx, msg.Master)
	if err != nil {
		return err
	}

	switch msg.Role {
	case types.ConfirmRoleReinsurer:
		if msg.Signer != master.Reinsurer {
			return errors.Wrapf(types.ErrUnauthorized, "%s is not the reinsurer of %s", msg.Signer, msg.Master)
		}
	case types.ConfirmRoleParticipant:
		if master.ParticipantIndex(msg.Signer) < 0 {
			return errors.Wrapf(types.ErrUnauthorized, "%s is not a participant of %s", msg.Signer, msg.Master)
		}
	default:
		return errors.Wrapf(types.ErrInvalidRole, "%q", msg.Role)
	}

	switch master.Status {
	case types.MasterStatusDraft, types.MasterStatusPendingConfirm:
	default:
		return errors.Wrapf(types.ErrInvalidState, "master is %s", master.Status)
	}

	if msg.Role == types.ConfirmRoleReinsurer {
		if master.ReinsurerConfirmed {
			return nil
		}
		master.ReinsurerConfirmed = true
	} else {
		p := &master.Participants[master.ParticipantIndex(msg.Signer)]
		if !p.HasWallets() {
			return errors.Wrapf(types.ErrInvalidState, "%s must register wallets before confirming", msg.Signer)
		}
		if p.Confirmed {
			return nil
		}
		p.Confirmed = true
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		return k.setMasterStatus(ctx, &master, master.Status, msg.Signer, "confirm_"+string(msg.Role))
	})
}

// ActivateMaster opens the master for flight issuance.
func (k Keeper) ActivateMaster(ctx context.Context, msg *types.MsgActivateMaster) error {
	master, err := k.getMaster(ctx, msg.Master)
	if err != nil {
		return err
	}
	if !master.IsLeaderOrOperator(msg.Signer) {
		return errors.Wrapf(types.ErrUnauthorized, "%s is not the leader of %s", msg.Signer, msg.Master)
	}
	if master.Status != types.MasterStatusPendingConfirm {
		return errors.Wrapf(types.ErrInvalidState, "master is %s, want %s", master.Status, types.MasterStatusPendingConfirm)
	}
	if !master.ReadyToActivate() {
		return errors.Wrap(types.ErrMasterNotConfirmed, "every participant and the reinsurer must confirm with wallets registered")
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		return k.setMasterStatus(ctx, &master, types.MasterStatusActive, msg.Signer, "activate")
	})
}

// CancelMaster abandons a master that never went live.
func (k Keeper) CancelMaster(ctx context.Context, msg *types.MsgCancelMaster) error {
	master, err := k.getMaster(ctx, msg.Master)
	if err != nil {
		return err
	}
	if !master.IsLeaderOrOperator(msg.Signer) {
		return errors.Wrapf(types.ErrUnauthorized, "%s is not the leader of %s", msg.Signer, msg.Master)
	}
	switch master.Status {
	case types.MasterStatusDraft, types.MasterStatusPendingConfirm:
	default:
		return errors.Wrapf(types.ErrInvalidState, "cannot cancel a %s master", master.Status)
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		return k.setMasterStatus(ctx, &master, types.MasterStatusCancelled, msg.Signer, "cancel")
	})
}

// CloseMaster ends an Active master after coverage once every flight under
// it has been settled.
func (k Keeper) CloseMaster(ctx context.Context, msg *types.MsgCloseMaster) error {
	master, err := k.getMaster(ctx, msg.Master)
	if err != nil {
		return err
	}
	if !master.IsLeaderOrOperator(msg.Signer) {
		return errors.Wrapf(types.ErrUnauthorized, "%s is not the leader of %s", msg.Signer, msg.Master)
	}
	if master.Status != types.MasterStatusActive {
		return errors.Wrapf(types.ErrMasterNotActive, "master is %s", master.Status)
	}
	if now := blockTime(ctx); now < master.CoverageEnd {
		return errors.Wrapf(types.ErrTooEarly, "coverage runs until %d, now %d", master.CoverageEnd, now)
	}

	rng := collections.NewPrefixedPairRange[string, uint64](msg.Master)
	open := 0
	err = k.FlightPolicies.Walk(ctx, rng, func(_ collections.Pair[string, uint64], f types.FlightPolicy) (bool, error) {
		if !f.IsTerminal() {
			open++
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if open > 0 {
		return errors.Wrapf(types.ErrInvalidState, "%d flight policies are not settled", open)
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		return k.setMasterStatus(ctx, &master, types.MasterStatusClosed, msg.Signer, "close")
	})
}
