package keeper

import (
	"context"

	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// OpenUnderwriting lets participants start escrowing their shares.
func (k Keeper) OpenUnderwriting(ctx context.Context, msg *types.MsgOpenUnderwriting) error {
	policy, err := k.getPolicy(ctx, msg.Policy)
	if err != nil {
		return err
	}
	if !policy.IsLeaderOrOperator(msg.Leader) {
		return errors.Wrapf(types.ErrUnauthorized, "%s is not the leader of %s", msg.Leader, msg.Policy)
	}
	if policy.State != types.PolicyStateDraft {
		return errors.Wrapf(types.ErrInvalidState, "policy is %s, want %s", policy.State, types.PolicyStateDraft)
	}
	uw, err := k.getUnderwriting(ctx, msg.Policy)
	if err != nil {
		return err
	}
	if uw.Status != types.UnderwritingStatusProposed {
		return errors.Wrapf(types.ErrInvalidState, "underwriting is %s", uw.Status)
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		uw.Status = types.UnderwritingStatusOpen
		if err := k.Underwritings.Set(ctx, msg.Policy, uw); err != nil {
			return err
		}
		return k.setPolicyState(ctx, &policy, types.PolicyStateOpen, msg.Leader)
	})
}

// participantAt resolves index to the signer's share or fails with an
// authorization error.
func participantAt(uw types.Underwriting, index uint32, signer string) (*types.UnderwritingShare, error) {
	if int(index) >= len(uw.Participants) {
		return nil, errors.Wrapf(types.ErrInvalidInput, "participant index %d out of range", index)
	}
	share := &uw.Participants[index]
	if share.Insurer != signer {
		return nil, errors.Wrapf(types.ErrUnauthorized, "participant %d is %s, not %s", index, share.Insurer, signer)
	}
	return share, nil
}

// AcceptShare escrows the participant's exact deposit into the vault. The
// escrow that completes 10000 bps finalizes the underwriting and funds the
// policy.
func (k Keeper) AcceptShare(ctx context.Context, msg *types.MsgAcceptShare) (bool, error) {
	policy, err := k.getPolicy(ctx, msg.Policy)
	if err != nil {
		return false, err
	}
	uw, err := k.getUnderwriting(ctx, msg.Policy)
	if err != nil {
		return false, err
	}
	share, err := participantAt(uw, msg.Index, msg.Signer)
	if err != nil {
		return false, err
	}
	if policy.State != types.PolicyStateOpen || uw.Status != types.UnderwritingStatusOpen {
		return false, errors.Wrapf(types.ErrInvalidState, "policy is %s, underwriting is %s", policy.State, uw.Status)
	}
	if share.Status != types.ShareStatusPending {
		return false, errors.Wrapf(types.ErrInvalidState, "share %d is %s", msg.Index, share.Status)
	}

	required, err := uw.RequiredDeposit(int(msg.Index))
	if err != nil {
		return false, err
	}
	if !msg.DepositAmount.Equal(required) {
		return false, errors.Wrapf(types.ErrEscrowMismatch, "share %d requires %s, got %s", msg.Index, required, msg.DepositAmount)
	}

	pool, err := k.getRiskPool(ctx, msg.Policy)
	if err != nil {
		return false, err
	}

	funded := false
	err = k.atomically(ctx, func(ctx sdk.Context) error {
		if err := k.transfer(ctx, msg.Signer, policy.Vault, required); err != nil {
			return err
		}

		share.Status = types.ShareStatusAccepted
		share.EscrowedAmount = required
		share.AcceptedAt = blockTime(ctx)

		pool.TotalEscrowed = pool.TotalEscrowed.Add(required)
		pool.AvailableBalance = pool.AvailableBalance.Add(required)
		if err := k.RiskPools.Set(ctx, msg.Policy, pool); err != nil {
			return err
		}

		funded = uw.IsFullyFunded()
		if funded {
			uw.Status = types.UnderwritingStatusFinalized
		}
		if err := k.Underwritings.Set(ctx, msg.Policy, uw); err != nil {
			return err
		}

		ev, err := types.NewShareEscrowedEvent(types.ShareEscrowedEvent{
			Policy:        msg.Policy,
			Insurer:       msg.Signer,
			Index:         msg.Index,
			Amount:        required.String(),
			AcceptedRatio: uw.AcceptedRatio(),
		})
		if err := emit(ctx, ev, err); err != nil {
			return err
		}

		if funded {
			return k.setPolicyState(ctx, &policy, types.PolicyStateFunded, msg.Signer)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return funded, nil
}

// RejectShare declines a pending share. Full coverage can no longer be
// reached, so the underwriting fails and escrowed participants may refund.
func (k Keeper) RejectShare(ctx context.Context, msg *types.MsgRejectShare) error {
	policy, err := k.getPolicy(ctx, msg.Policy)
	if err != nil {
		return err
	}
	uw, err := k.getUnderwriting(ctx, msg.Policy)
	if err != nil {
		return err
	}
	share, err := participantAt(uw, msg.Index, msg.Signer)
	if err != nil {
		return err
	}
	if policy.State != types.PolicyStateOpen || uw.Status != types.UnderwritingStatusOpen {
		return errors.Wrapf(types.ErrInvalidState, "policy is %s, underwriting is %s", policy.State, uw.Status)
	}
	if share.Status != types.ShareStatusPending {
		return errors.Wrapf(types.ErrInvalidState, "share %d is %s", msg.Index, share.Status)
	}

	err = k.atomically(ctx, func(ctx sdk.Context) error {
		share.Status = types.ShareStatusRejected
		uw.Status = types.UnderwritingStatusFailed
		if err := k.Underwritings.Set(ctx, msg.Policy, uw); err != nil {
			return err
		}

		ev, err := types.NewShareRejectedEvent(types.ShareRejectedEvent{
			Policy:             msg.Policy,
			Insurer:            msg.Signer,
			Index:              msg.Index,
			UnderwritingStatus: string(uw.Status),
		})
		return emit(ctx, ev, err)
	})
	if err != nil {
		return err
	}
	k.logger.Info("share rejected", "policy", msg.Policy, "insurer", msg.Signer, "index", msg.Index)
	return nil
}

// RefundShare returns a participant's full escrow once the policy expired
// unclaimed or its underwriting failed. Each share refunds at most once.
func (k Keeper) RefundShare(ctx context.Context, msg *types.MsgRefundShare) (sdkmath.Int, error) {
	policy, err := k.getPolicy(ctx, msg.Policy)
	if err != nil {
		return sdkmath.Int{}, err
	}
	uw, err := k.getUnderwriting(ctx, msg.Policy)
	if err != nil {
		return sdkmath.Int{}, err
	}
	share, err := participantAt(uw, msg.Index, msg.Signer)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if policy.State != types.PolicyStateExpired && uw.Status != types.UnderwritingStatusFailed {
		return sdkmath.Int{}, errors.Wrapf(types.ErrInvalidState, "refunds need an expired policy or failed underwriting, policy is %s", policy.State)
	}
	if share.Status == types.ShareStatusRefunded {
		return sdkmath.Int{}, errors.Wrapf(types.ErrAlreadySettled, "share %d already refunded", msg.Index)
	}
	if share.Status != types.ShareStatusAccepted || !share.EscrowedAmount.IsPositive() {
		return sdkmath.Int{}, errors.Wrapf(types.ErrInvalidState, "share %d has nothing escrowed", msg.Index)
	}

	pool, err := k.getRiskPool(ctx, msg.Policy)
	if err != nil {
		return sdkmath.Int{}, err
	}
	escrowed := share.EscrowedAmount
	if pool.AvailableBalance.LT(escrowed) {
		return sdkmath.Int{}, errors.Wrapf(types.ErrPoolInsufficient, "pool holds %s, refund needs %s", pool.AvailableBalance, escrowed)
	}
	amount := escrowed
	if lastOutstandingShare(uw, msg.Index) {
		// the last refund drains the vault, including anything sent to it
		// outside the escrow flow
		vault, err := k.balance(ctx, policy.Vault)
		if err != nil {
			return sdkmath.Int{}, err
		}
		if vault.LT(escrowed) {
			return sdkmath.Int{}, errors.Wrapf(types.ErrPoolInsufficient, "vault holds %s, refund needs %s", vault, escrowed)
		}
		amount = vault
	}

	err = k.atomically(ctx, func(ctx sdk.Context) error {
		if err := k.transfer(ctx, policy.Vault, share.Insurer, amount); err != nil {
			return err
		}
		share.Status = types.ShareStatusRefunded
		share.ReturnedAmount = amount
		if err := k.Underwritings.Set(ctx, msg.Policy, uw); err != nil {
			return err
		}

		pool.AvailableBalance = pool.AvailableBalance.Sub(escrowed)
		if err := k.RiskPools.Set(ctx, msg.Policy, pool); err != nil {
			return err
		}

		ev, err := types.NewShareReturnedEvent(types.ShareReturnedEvent{
			Policy:  msg.Policy,
			Insurer: share.Insurer,
			Index:   msg.Index,
			Amount:  amount.String(),
			Reason:  "refund",
		})
		return emit(ctx, ev, err)
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return amount, nil
}

// lastOutstandingShare reports whether every escrowed share other than index
// has already been refunded.
func lastOutstandingShare(uw types.Underwriting, index uint32) bool {
	for i, p := range uw.Participants {
		if uint32(i) == index {
			continue
		}
		if p.Status == types.ShareStatusAccepted && p.EscrowedAmount.IsPositive() {
			return false
		}
	}
	return true
}
