package keeper

import (
	"context"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// CreatePolicy opens a Draft policy together with its underwriting, risk
// pool, vault and policyholder registry.
func (k Keeper) CreatePolicy(ctx context.Context, msg *types.MsgCreatePolicy) (*types.MsgCreatePolicyResponse, error) {
	params, err := k.Params.Get(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get params")
	}
	if uint32(len(msg.Participants)) > params.MaxParticipants {
		return nil, errors.Wrapf(types.ErrInvalidInput, "%d participants, max %d", len(msg.Participants), params.MaxParticipants)
	}
	if msg.DelayThresholdMin != params.DelayThresholdMinutes {
		return nil, errors.Wrapf(types.ErrInvalidInput, "delay threshold must be %d minutes, got %d",
			params.DelayThresholdMinutes, msg.DelayThresholdMin)
	}

	leader, err := sdk.AccAddressFromBech32(msg.Leader)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidInput, "leader: %s", err)
	}
	policyAddr := types.PolicyAddress(leader, msg.PolicyId)
	addr := policyAddr.String()

	if has, err := k.Policies.Has(ctx, addr); err != nil {
		return nil, err
	} else if has {
		return nil, errors.Wrapf(types.ErrAlreadyExists, "policy %d of %s", msg.PolicyId, msg.Leader)
	}

	now := blockTime(ctx)
	policy := types.Policy{
		Address:           addr,
		Leader:            msg.Leader,
		Operator:          msg.Operator,
		PolicyId:          msg.PolicyId,
		Route:             msg.Route,
		FlightNo:          msg.FlightNo,
		DepartureDate:     msg.DepartureDate,
		DelayThresholdMin: msg.DelayThresholdMin,
		PayoutAmount:      msg.PayoutAmount,
		PayoutTiers:       msg.PayoutTiers,
		OracleFeed:        msg.OracleFeed,
		ActiveFrom:        msg.ActiveFrom,
		ActiveTo:          msg.ActiveTo,
		State:             types.PolicyStateDraft,
		Underwriting:      types.UnderwritingAddress(policyAddr).String(),
		Pool:              types.PoolAddress(policyAddr).String(),
		Vault:             types.VaultAddress(policyAddr).String(),
		Registry:          types.RegistryAddress(policyAddr).String(),
		CreatedAt:         now,
	}

	err = k.atomically(ctx, func(ctx sdk.Context) error {
		if err := k.Policies.Set(ctx, addr, policy); err != nil {
			return err
		}
		uw := types.NewUnderwriting(policy.Underwriting, addr, msg.Leader, msg.PayoutAmount, msg.Participants, now)
		if err := k.Underwritings.Set(ctx, addr, uw); err != nil {
			return err
		}
		if err := k.RiskPools.Set(ctx, addr, types.NewRiskPool(policy.Pool, addr, policy.Vault)); err != nil {
			return err
		}
		registry := types.PolicyholderRegistry{Address: policy.Registry, Policy: addr}
		if err := k.Registries.Set(ctx, addr, registry); err != nil {
			return err
		}

		ev, err := types.NewPolicyCreatedEvent(types.PolicyCreatedEvent{
			Policy:       addr,
			Leader:       msg.Leader,
			PolicyId:     msg.PolicyId,
			FlightNo:     msg.FlightNo,
			PayoutAmount: msg.PayoutAmount.String(),
			Participants: len(msg.Participants),
		})
		return emit(ctx, ev, err)
	})
	if err != nil {
		return nil, err
	}

	k.logger.Info("policy created", "policy", addr, "leader", msg.Leader, "payout", msg.PayoutAmount)

	return &types.MsgCreatePolicyResponse{
		Policy:       addr,
		Underwriting: policy.Underwriting,
		Pool:         policy.Pool,
		Vault:        policy.Vault,
	}, nil
}

// ActivatePolicy puts a fully funded policy into force once its window opens.
func (k Keeper) ActivatePolicy(ctx context.Context, msg *types.MsgActivatePolicy) error {
	policy, err := k.getPolicy(ctx, msg.Policy)
	if err != nil {
		return err
	}
	if !policy.IsLeaderOrOperator(msg.Leader) {
		return errors.Wrapf(types.ErrUnauthorized, "%s is not the leader of %s", msg.Leader, msg.Policy)
	}
	if policy.State != types.PolicyStateFunded {
		return errors.Wrapf(types.ErrInvalidState, "policy is %s, want %s", policy.State, types.PolicyStateFunded)
	}

	now := blockTime(ctx)
	if now < policy.ActiveFrom {
		return errors.Wrapf(types.ErrTooEarly, "coverage starts at %d, now %d", policy.ActiveFrom, now)
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		return k.setPolicyState(ctx, &policy, types.PolicyStateActive, msg.Leader)
	})
}

// ExpirePolicy closes an Active policy whose window has elapsed without a
// claim. Anyone may trigger it. A Funded policy that missed its window is
// activated first; that is its only way out of Funded.
func (k Keeper) ExpirePolicy(ctx context.Context, msg *types.MsgExpirePolicy) error {
	policy, err := k.getPolicy(ctx, msg.Policy)
	if err != nil {
		return err
	}
	if policy.State != types.PolicyStateActive {
		return errors.Wrapf(types.ErrInvalidState, "policy is %s, want %s", policy.State, types.PolicyStateActive)
	}
	if now := blockTime(ctx); now < policy.ActiveTo {
		return errors.Wrapf(types.ErrTooEarly, "coverage runs until %d, now %d", policy.ActiveTo, now)
	}

	return k.atomically(ctx, func(ctx sdk.Context) error {
		return k.setPolicyState(ctx, &policy, types.PolicyStateExpired, msg.Signer)
	})
}

// RegisterPolicyholder appends an insured party to the policy registry.
func (k Keeper) RegisterPolicyholder(ctx context.Context, msg *types.MsgRegisterPolicyholder) (uint32, error) {
	policy, err := k.getPolicy(ctx, msg.Policy)
	if err != nil {
		return 0, err
	}
	if !policy.IsLeaderOrOperator(msg.Leader) {
		return 0, errors.Wrapf(types.ErrUnauthorized, "%s is not the leader of %s", msg.Leader, msg.Policy)
	}
	switch policy.State {
	case types.PolicyStateSettled, types.PolicyStateExpired:
		return 0, errors.Wrapf(types.ErrInvalidState, "policy is %s", policy.State)
	}

	params, err := k.Params.Get(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to get params")
	}
	registry, err := k.getRegistry(ctx, msg.Policy)
	if err != nil {
		return 0, err
	}
	if uint32(len(registry.Entries)) >= params.MaxPolicyholders {
		return 0, errors.Wrapf(types.ErrInvalidInput, "registry is full at %d entries", params.MaxPolicyholders)
	}
	for _, e := range registry.Entries {
		if e.ExternalRef == msg.Entry.ExternalRef {
			return 0, errors.Wrapf(types.ErrAlreadyExists, "policyholder %s", e.ExternalRef)
		}
	}

	entry := msg.Entry
	entry.PolicyId = policy.PolicyId
	entry.Timestamp = blockTime(ctx)
	registry.Entries = append(registry.Entries, entry)

	if err := k.Registries.Set(ctx, msg.Policy, registry); err != nil {
		return 0, err
	}
	return uint32(len(registry.Entries)), nil
}
