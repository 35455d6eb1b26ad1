package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// blockTime is the ledger clock in unix seconds.
func blockTime(ctx context.Context) int64 {
	return sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
}

// atomically runs fn against a cached context and commits only when fn
// succeeds, so a failed operation leaves no records, transfers or events.
func (k Keeper) atomically(ctx context.Context, fn func(tmpCtx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	tmpCtx, commit := sdkCtx.CacheContext()
	if err := fn(tmpCtx); err != nil {
		return err
	}
	commit()
	return nil
}

// transfer moves amt of the settlement denom. Zero amounts are skipped.
func (k Keeper) transfer(ctx context.Context, from, to string, amt sdkmath.Int) error {
	if amt.IsNil() || amt.IsZero() {
		return nil
	}
	if amt.IsNegative() {
		return errorsmod.Wrapf(types.ErrInvalidPayout, "negative transfer %s", amt)
	}
	fromAddr, err := sdk.AccAddressFromBech32(from)
	if err != nil {
		return errorsmod.Wrapf(types.ErrInvalidInput, "from address: %s", err)
	}
	toAddr, err := sdk.AccAddressFromBech32(to)
	if err != nil {
		return errorsmod.Wrapf(types.ErrInvalidInput, "to address: %s", err)
	}
	params, err := k.Params.Get(ctx)
	if err != nil {
		return errorsmod.Wrap(err, "failed to get params")
	}

	coins := sdk.NewCoins(sdk.NewCoin(params.Denom, amt))
	if err := k.bankKeeper.SendCoins(ctx, fromAddr, toAddr, coins); err != nil {
		if errors.Is(err, sdkerrors.ErrInsufficientFunds) {
			return errorsmod.Wrapf(types.ErrPoolInsufficient, "%s cannot cover %s: %s", from, coins, err)
		}
		return errorsmod.Wrapf(err, "transfer %s from %s to %s", coins, from, to)
	}
	return nil
}

// balance reads the settlement-denom balance of addr.
func (k Keeper) balance(ctx context.Context, addr string) (sdkmath.Int, error) {
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return sdkmath.Int{}, errorsmod.Wrapf(types.ErrInvalidInput, "address: %s", err)
	}
	params, err := k.Params.Get(ctx)
	if err != nil {
		return sdkmath.Int{}, errorsmod.Wrap(err, "failed to get params")
	}
	return k.bankKeeper.GetBalance(ctx, acc, params.Denom).Amount, nil
}

func emit(ctx sdk.Context, event sdk.Event, err error) error {
	if err != nil {
		return err
	}
	ctx.EventManager().EmitEvent(event)
	return nil
}

func notFound[T any](v T, err error, what, key string) (T, error) {
	if err == nil {
		return v, nil
	}
	if errors.Is(err, collections.ErrNotFound) {
		return v, errorsmod.Wrapf(types.ErrNotFound, "%s %s", what, key)
	}
	return v, errorsmod.Wrapf(err, "failed to get %s %s", what, key)
}

func (k Keeper) getPolicy(ctx context.Context, addr string) (types.Policy, error) {
	p, err := k.Policies.Get(ctx, addr)
	return notFound(p, err, "policy", addr)
}

func (k Keeper) getUnderwriting(ctx context.Context, policy string) (types.Underwriting, error) {
	u, err := k.Underwritings.Get(ctx, policy)
	return notFound(u, err, "underwriting of policy", policy)
}

func (k Keeper) getRiskPool(ctx context.Context, policy string) (types.RiskPool, error) {
	p, err := k.RiskPools.Get(ctx, policy)
	return notFound(p, err, "risk pool of policy", policy)
}

func (k Keeper) getRegistry(ctx context.Context, policy string) (types.PolicyholderRegistry, error) {
	r, err := k.Registries.Get(ctx, policy)
	return notFound(r, err, "registry of policy", policy)
}

func (k Keeper) getClaim(ctx context.Context, policy string, round uint64) (types.Claim, error) {
	c, err := k.Claims.Get(ctx, collections.Join(policy, round))
	return notFound(c, err, "claim of policy", policy)
}

func (k Keeper) getMaster(ctx context.Context, addr string) (types.MasterPolicy, error) {
	m, err := k.MasterPolicies.Get(ctx, addr)
	return notFound(m, err, "master policy", addr)
}

func (k Keeper) getFlight(ctx context.Context, master string, childID uint64) (types.FlightPolicy, error) {
	f, err := k.FlightPolicies.Get(ctx, collections.Join(master, childID))
	return notFound(f, err, "flight policy of master", master)
}

// setPolicyState moves a policy and records the transition.
func (k Keeper) setPolicyState(ctx sdk.Context, p *types.Policy, to types.PolicyState, actor string) error {
	from := p.State
	p.State = to
	if err := k.Policies.Set(ctx, p.Address, *p); err != nil {
		return err
	}
	k.logger.Info("policy transition", "policy", p.Address, "from", from, "to", to, "actor", actor)
	ev, err := types.NewPolicyTransitionEvent(types.PolicyTransitionEvent{
		Policy: p.Address,
		From:   from,
		To:     to,
		Actor:  actor,
	})
	return emit(ctx, ev, err)
}

// setMasterStatus stores the master and records the action.
func (k Keeper) setMasterStatus(ctx sdk.Context, m *types.MasterPolicy, to types.MasterStatus, actor, action string) error {
	from := m.Status
	m.Status = to
	if err := k.MasterPolicies.Set(ctx, m.Address, *m); err != nil {
		return err
	}
	k.logger.Info("master policy update", "master", m.Address, "action", action, "from", from, "to", to)
	ev, err := types.NewMasterTransitionEvent(types.MasterTransitionEvent{
		Master: m.Address,
		From:   from,
		To:     to,
		Actor:  actor,
		Action: action,
	})
	return emit(ctx, ev, err)
}
