package keeper

import (
	"context"

	"cosmossdk.io/collections"
	"cosmossdk.io/errors"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

var _ types.QueryServer = Querier{}

type Querier struct {
	Keeper
}

func NewQuerier(keeper Keeper) Querier {
	return Querier{Keeper: keeper}
}

func (k Querier) Params(c context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	p, err := k.Keeper.Params.Get(c)
	if err != nil {
		return nil, err
	}

	return &types.QueryParamsResponse{Params: p}, nil
}

// Policy returns a policy with its underwriting, pool, registry, claims and
// the live vault balance.
func (k Querier) Policy(c context.Context, req *types.QueryPolicyRequest) (*types.QueryPolicyResponse, error) {
	policy, err := k.getPolicy(c, req.Address)
	if err != nil {
		return nil, err
	}
	uw, err := k.getUnderwriting(c, req.Address)
	if err != nil {
		return nil, err
	}
	pool, err := k.getRiskPool(c, req.Address)
	if err != nil {
		return nil, err
	}
	registry, err := k.getRegistry(c, req.Address)
	if err != nil {
		return nil, err
	}

	var claims []types.Claim
	rng := collections.NewPrefixedPairRange[string, uint64](req.Address)
	err = k.Claims.Walk(c, rng, func(_ collections.Pair[string, uint64], claim types.Claim) (bool, error) {
		claims = append(claims, claim)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	vault, err := k.balance(c, policy.Vault)
	if err != nil {
		return nil, err
	}

	return &types.QueryPolicyResponse{
		Policy:       policy,
		Underwriting: uw,
		RiskPool:     pool,
		Registry:     registry,
		Claims:       claims,
		VaultBalance: vault,
	}, nil
}

func (k Querier) PoliciesByState(c context.Context, req *types.QueryPoliciesByStateRequest) (*types.QueryPoliciesByStateResponse, error) {
	var out []types.Policy
	err := k.Policies.Walk(c, nil, func(_ string, p types.Policy) (bool, error) {
		if req.State == "" || p.State == req.State {
			out = append(out, p)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.QueryPoliciesByStateResponse{Policies: out}, nil
}

func (k Querier) Claim(c context.Context, req *types.QueryClaimRequest) (*types.QueryClaimResponse, error) {
	claim, err := k.getClaim(c, req.Policy, req.OracleRound)
	if err != nil {
		return nil, err
	}
	return &types.QueryClaimResponse{Claim: claim}, nil
}

func (k Querier) MasterPolicy(c context.Context, req *types.QueryMasterPolicyRequest) (*types.QueryMasterPolicyResponse, error) {
	master, err := k.getMaster(c, req.Address)
	if err != nil {
		return nil, err
	}
	return &types.QueryMasterPolicyResponse{Master: master}, nil
}

func (k Querier) MasterPolicies(c context.Context, req *types.QueryMasterPoliciesRequest) (*types.QueryMasterPoliciesResponse, error) {
	var out []types.MasterPolicy
	err := k.Keeper.MasterPolicies.Walk(c, nil, func(_ string, m types.MasterPolicy) (bool, error) {
		if req.Status == "" || m.Status == req.Status {
			out = append(out, m)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.QueryMasterPoliciesResponse{Masters: out}, nil
}

func (k Querier) FlightPolicy(c context.Context, req *types.QueryFlightPolicyRequest) (*types.QueryFlightPolicyResponse, error) {
	flight, err := k.getFlight(c, req.Master, req.ChildId)
	if err != nil {
		return nil, err
	}
	return &types.QueryFlightPolicyResponse{Flight: flight}, nil
}

func (k Querier) FlightPolicies(c context.Context, req *types.QueryFlightPoliciesRequest) (*types.QueryFlightPoliciesResponse, error) {
	var out []types.FlightPolicy
	rng := collections.NewPrefixedPairRange[string, uint64](req.Master)
	err := k.Keeper.FlightPolicies.Walk(c, rng, func(_ collections.Pair[string, uint64], f types.FlightPolicy) (bool, error) {
		if req.Status == "" || f.Status == req.Status {
			out = append(out, f)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return &types.QueryFlightPoliciesResponse{Flights: out}, nil
}

// Waterfall previews a split. With a master set, its effective reinsurer
// bps and participant shares override the request.
func (k Querier) Waterfall(c context.Context, req *types.QueryWaterfallRequest) (*types.QueryWaterfallResponse, error) {
	if req.Total.IsNil() || req.Total.IsNegative() {
		return nil, errors.Wrap(types.ErrInvalidInput, "total must be non-negative")
	}
	reinsBps, shares := req.ReinsurerBps, req.ShareBps
	if req.Master != "" {
		master, err := k.getMaster(c, req.Master)
		if err != nil {
			return nil, err
		}
		reinsBps, shares = master.ReinsurerEffectiveBps, master.ShareBps()
	}

	w, err := types.ComputeWaterfall(req.Total, reinsBps, shares)
	if err != nil {
		return nil, err
	}
	return &types.QueryWaterfallResponse{Waterfall: w}, nil
}
