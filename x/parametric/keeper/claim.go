package keeper

import (
	"context"

	"cosmossdk.io/collections"
	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// CheckOracle evaluates a feed observation against an Active policy. An
// observation that crosses the threshold opens a claim for its round and
// moves the policy to Claimable; anything below it changes nothing.
func (k Keeper) CheckOracle(ctx context.Context, msg *types.MsgCheckOracle) (*types.MsgCheckOracleResponse, error) {
	policy, err := k.getPolicy(ctx, msg.Policy)
	if err != nil {
		return nil, err
	}
	switch policy.State {
	case types.PolicyStateActive:
	case types.PolicyStateClaimable, types.PolicyStateApproved, types.PolicyStateSettled:
		return nil, errors.Wrapf(types.ErrAlreadyResolved, "policy is %s", policy.State)
	default:
		return nil, errors.Wrapf(types.ErrInvalidState, "policy is %s, want %s", policy.State, types.PolicyStateActive)
	}

	params, err := k.Params.Get(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get params")
	}

	obs := msg.Observation
	if obs.Feed != policy.OracleFeed {
		return nil, errors.Wrapf(types.ErrOracleFeedMismatch, "policy reads %s, observation from %s", policy.OracleFeed, obs.Feed)
	}
	if err := types.ValidateDelayFormat(obs.DelayMinutes, params.DelayGranularityMinutes); err != nil {
		return nil, err
	}
	now := blockTime(ctx)
	if err := obs.ValidateFreshness(now, params.OracleMaxStalenessSeconds); err != nil {
		return nil, err
	}
	if has, err := k.Claims.Has(ctx, collections.Join(msg.Policy, obs.Round)); err != nil {
		return nil, err
	} else if has {
		return nil, errors.Wrapf(types.ErrAlreadyExists, "claim for round %d", obs.Round)
	}

	if !obs.CrossesThreshold(policy.DelayThresholdMin) {
		k.logger.Debug("observation below threshold", "policy", msg.Policy, "round", obs.Round, "delay", obs.DelayMinutes)
		return &types.MsgCheckOracleResponse{Payout: sdkmath.ZeroInt()}, nil
	}

	payout := policy.ClaimPayout(obs.DelayMinutes, obs.Cancelled)
	if !payout.IsPositive() {
		return &types.MsgCheckOracleResponse{Payout: sdkmath.ZeroInt()}, nil
	}

	policyAddr, err := sdk.AccAddressFromBech32(msg.Policy)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidInput, "policy: %s", err)
	}
	claim := types.Claim{
		Address:      types.ClaimAddress(policyAddr, obs.Round).String(),
		Policy:       msg.Policy,
		OracleRound:  obs.Round,
		OracleValue:  obs.DelayMinutes,
		Cancelled:    obs.Cancelled,
		PayoutAmount: payout,
		Status:       types.ClaimStatusClaimable,
		VerifiedAt:   now,
	}

	err = k.atomically(ctx, func(ctx sdk.Context) error {
		if err := k.Claims.Set(ctx, collections.Join(msg.Policy, obs.Round), claim); err != nil {
			return err
		}
		ev, err := types.NewClaimCreatedEvent(types.ClaimCreatedEvent{
			Claim:        claim.Address,
			Policy:       msg.Policy,
			OracleRound:  obs.Round,
			DelayMinutes: obs.DelayMinutes,
			Cancelled:    obs.Cancelled,
			Payout:       payout.String(),
		})
		if err := emit(ctx, ev, err); err != nil {
			return err
		}
		return k.setPolicyState(ctx, &policy, types.PolicyStateClaimable, msg.Signer)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgCheckOracleResponse{
		ClaimCreated: true,
		Claim:        claim.Address,
		Payout:       payout,
	}, nil
}

// ApproveClaim confirms a Claimable claim for settlement.
func (k Keeper) ApproveClaim(ctx context.Context, msg *types.MsgApproveClaim) error {
	policy, err := k.getPolicy(ctx, msg.Policy)
	if err != nil {
		return err
	}
	if !policy.IsLeaderOrOperator(msg.Signer) {
		return errors.Wrapf(types.ErrUnauthorized, "%s is not the leader of %s", msg.Signer, msg.Policy)
	}
	claim, err := k.getClaim(ctx, msg.Policy, msg.OracleRound)
	if err != nil {
		return err
	}
	switch claim.Status {
	case types.ClaimStatusClaimable:
	case types.ClaimStatusSettled:
		return errors.Wrapf(types.ErrAlreadySettled, "claim for round %d", msg.OracleRound)
	default:
		return errors.Wrapf(types.ErrInvalidState, "claim is %s", claim.Status)
	}
	if policy.State != types.PolicyStateClaimable {
		return errors.Wrapf(types.ErrInvalidState, "policy is %s, want %s", policy.State, types.PolicyStateClaimable)
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		claim.Status = types.ClaimStatusApproved
		claim.ApprovedBy = msg.Signer
		claim.ApprovedAt = blockTime(ctx)
		if err := k.Claims.Set(ctx, collections.Join(msg.Policy, msg.OracleRound), claim); err != nil {
			return err
		}
		return k.setPolicyState(ctx, &policy, types.PolicyStateApproved, msg.Signer)
	})
}

// SettleClaim pays an Approved claim from the vault to the beneficiary and
// returns the rest of the vault balance to the participants pro rata, so the
// vault ends empty.
func (k Keeper) SettleClaim(ctx context.Context, msg *types.MsgSettleClaim) (*types.MsgSettleClaimResponse, error) {
	policy, err := k.getPolicy(ctx, msg.Policy)
	if err != nil {
		return nil, err
	}
	if !policy.IsLeaderOrOperator(msg.Signer) {
		return nil, errors.Wrapf(types.ErrUnauthorized, "%s is not the leader of %s", msg.Signer, msg.Policy)
	}
	claim, err := k.getClaim(ctx, msg.Policy, msg.OracleRound)
	if err != nil {
		return nil, err
	}
	switch claim.Status {
	case types.ClaimStatusApproved:
	case types.ClaimStatusSettled:
		return nil, errors.Wrapf(types.ErrAlreadySettled, "claim for round %d", msg.OracleRound)
	default:
		return nil, errors.Wrapf(types.ErrInvalidState, "claim is %s, want %s", claim.Status, types.ClaimStatusApproved)
	}
	if policy.State != types.PolicyStateApproved {
		return nil, errors.Wrapf(types.ErrInvalidState, "policy is %s, want %s", policy.State, types.PolicyStateApproved)
	}

	pool, err := k.getRiskPool(ctx, msg.Policy)
	if err != nil {
		return nil, err
	}
	uw, err := k.getUnderwriting(ctx, msg.Policy)
	if err != nil {
		return nil, err
	}
	payout := claim.PayoutAmount
	if pool.AvailableBalance.LT(payout) {
		return nil, errors.Wrapf(types.ErrPoolInsufficient, "pool holds %s, claim needs %s", pool.AvailableBalance, payout)
	}
	// the residual comes from the vault itself, so coins sent straight to
	// the vault address are returned too
	vault, err := k.balance(ctx, policy.Vault)
	if err != nil {
		return nil, err
	}
	if vault.LT(payout) {
		return nil, errors.Wrapf(types.ErrPoolInsufficient, "vault holds %s, claim needs %s", vault, payout)
	}
	residual := vault.Sub(payout)
	returned, err := types.SplitByBps(residual, uw.RatioBps())
	if err != nil {
		return nil, err
	}

	err = k.atomically(ctx, func(ctx sdk.Context) error {
		if err := k.transfer(ctx, policy.Vault, msg.Beneficiary, payout); err != nil {
			return err
		}
		for i := range uw.Participants {
			share := &uw.Participants[i]
			if err := k.transfer(ctx, policy.Vault, share.Insurer, returned[i]); err != nil {
				return err
			}
			share.ReturnedAmount = returned[i]
			if returned[i].IsZero() {
				continue
			}
			ev, err := types.NewShareReturnedEvent(types.ShareReturnedEvent{
				Policy:  msg.Policy,
				Insurer: share.Insurer,
				Index:   uint32(i),
				Amount:  returned[i].String(),
				Reason:  "residual",
			})
			if err := emit(ctx, ev, err); err != nil {
				return err
			}
		}
		if err := k.Underwritings.Set(ctx, msg.Policy, uw); err != nil {
			return err
		}

		pool.PaidOut = pool.PaidOut.Add(payout)
		pool.AvailableBalance = sdkmath.ZeroInt()
		if err := k.RiskPools.Set(ctx, msg.Policy, pool); err != nil {
			return err
		}

		claim.Status = types.ClaimStatusSettled
		claim.Beneficiary = msg.Beneficiary
		claim.SettledAt = blockTime(ctx)
		if err := k.Claims.Set(ctx, collections.Join(msg.Policy, msg.OracleRound), claim); err != nil {
			return err
		}

		ev, err := types.NewClaimSettledEvent(types.ClaimSettledEvent{
			Claim:       claim.Address,
			Policy:      msg.Policy,
			Beneficiary: msg.Beneficiary,
			Paid:        payout.String(),
		})
		if err := emit(ctx, ev, err); err != nil {
			return err
		}
		return k.setPolicyState(ctx, &policy, types.PolicyStateSettled, msg.Signer)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgSettleClaimResponse{Paid: payout, Returned: returned}, nil
}
