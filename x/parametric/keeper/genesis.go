package keeper

import (
	"context"

	"cosmossdk.io/collections"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// InitGenesis initializes the module's state from a genesis state.
func (k *Keeper) InitGenesis(ctx context.Context, data *types.GenesisState) error {
	if err := data.Validate(); err != nil {
		return err
	}

	if err := k.Params.Set(ctx, data.Params); err != nil {
		return err
	}
	for _, p := range data.Policies {
		if err := k.Policies.Set(ctx, p.Address, p); err != nil {
			return err
		}
	}
	for _, u := range data.Underwritings {
		if err := k.Underwritings.Set(ctx, u.Policy, u); err != nil {
			return err
		}
	}
	for _, p := range data.RiskPools {
		if err := k.RiskPools.Set(ctx, p.Policy, p); err != nil {
			return err
		}
	}
	for _, c := range data.Claims {
		if err := k.Claims.Set(ctx, collections.Join(c.Policy, c.OracleRound), c); err != nil {
			return err
		}
	}
	for _, r := range data.Registries {
		if err := k.Registries.Set(ctx, r.Policy, r); err != nil {
			return err
		}
	}
	for _, m := range data.MasterPolicies {
		if err := k.MasterPolicies.Set(ctx, m.Address, m); err != nil {
			return err
		}
	}
	for _, f := range data.FlightPolicies {
		if err := k.FlightPolicies.Set(ctx, collections.Join(f.Master, f.ChildId), f); err != nil {
			return err
		}
	}
	return nil
}

func values[K, V any](ctx context.Context, m collections.Map[K, V]) ([]V, error) {
	iter, err := m.Iterate(ctx, nil)
	if err != nil {
		return nil, err
	}
	return iter.Values()
}

// ExportGenesis exports the module's state to a genesis state.
func (k *Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	params, err := k.Params.Get(ctx)
	if err != nil {
		panic(err)
	}

	gs := &types.GenesisState{Params: params}
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	gs.Policies, err = values(ctx, k.Policies)
	must(err)
	gs.Underwritings, err = values(ctx, k.Underwritings)
	must(err)
	gs.RiskPools, err = values(ctx, k.RiskPools)
	must(err)
	gs.Claims, err = values(ctx, k.Claims)
	must(err)
	gs.Registries, err = values(ctx, k.Registries)
	must(err)
	gs.MasterPolicies, err = values(ctx, k.MasterPolicies)
	must(err)
	gs.FlightPolicies, err = values(ctx, k.FlightPolicies)
	must(err)

	return gs
}
