package keeper

import (
	"context"

	"cosmossdk.io/collections"
	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// activeMasterFor loads a master and checks the signer may act for it.
func (k Keeper) activeMasterFor(ctx context.Context, masterAddr, signer string) (types.MasterPolicy, error) {
	master, err := k.getMaster(ctx, masterAddr)
	if err != nil {
		return master, err
	}
	if !master.IsLeaderOrOperator(signer) {
		return master, errors.Wrapf(types.ErrUnauthorized, "%s is not the leader of %s", signer, masterAddr)
	}
	if master.Status != types.MasterStatusActive {
		return master, errors.Wrapf(types.ErrMasterNotActive, "master is %s", master.Status)
	}
	return master, nil
}

// CreateFlightPolicy issues a child policy under an Active master. The
// signer pays the master premium into the leader deposit wallet.
func (k Keeper) CreateFlightPolicy(ctx context.Context, msg *types.MsgCreateFlightPolicy) (string, error) {
	master, err := k.activeMasterFor(ctx, msg.Master, msg.Signer)
	if err != nil {
		return "", err
	}
	if msg.DepartureTs < master.CoverageStart || msg.DepartureTs > master.CoverageEnd {
		return "", errors.Wrapf(types.ErrInvalidTimeWindow, "departure %d outside coverage [%d, %d]",
			msg.DepartureTs, master.CoverageStart, master.CoverageEnd)
	}

	key := collections.Join(msg.Master, msg.ChildId)
	if has, err := k.FlightPolicies.Has(ctx, key); err != nil {
		return "", err
	} else if has {
		return "", errors.Wrapf(types.ErrAlreadyExists, "flight policy %d under %s", msg.ChildId, msg.Master)
	}

	masterAddr, err := sdk.AccAddressFromBech32(msg.Master)
	if err != nil {
		return "", errors.Wrapf(types.ErrInvalidInput, "master: %s", err)
	}

	now := blockTime(ctx)
	flight := types.FlightPolicy{
		Address:       types.FlightPolicyAddress(masterAddr, msg.ChildId).String(),
		Master:        msg.Master,
		ChildId:       msg.ChildId,
		Creator:       msg.Signer,
		SubscriberRef: msg.SubscriberRef,
		FlightNo:      msg.FlightNo,
		Route:         msg.Route,
		DepartureTs:   msg.DepartureTs,
		PremiumPaid:   master.PremiumPerPolicy,
		PayoutAmount:  sdkmath.ZeroInt(),
		Status:        types.FlightStatusAwaitingOracle,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = k.atomically(ctx, func(ctx sdk.Context) error {
		if err := k.transfer(ctx, msg.Signer, master.LeaderDepositWallet, master.PremiumPerPolicy); err != nil {
			return err
		}
		if err := k.FlightPolicies.Set(ctx, key, flight); err != nil {
			return err
		}
		ev, err := types.NewFlightPolicyIssuedEvent(types.FlightPolicyIssuedEvent{
			Flight:      flight.Address,
			Master:      msg.Master,
			ChildId:     msg.ChildId,
			FlightNo:    msg.FlightNo,
			DepartureTs: msg.DepartureTs,
			Premium:     master.PremiumPerPolicy.String(),
		})
		return emit(ctx, ev, err)
	})
	if err != nil {
		return "", err
	}

	k.logger.Info("flight policy issued", "flight", flight.Address, "master", msg.Master, "child_id", msg.ChildId)
	return flight.Address, nil
}

// ResolveFlightDelay records the resolver's report and prices it against
// the master tiers. A flight resolves exactly once.
func (k Keeper) ResolveFlightDelay(ctx context.Context, msg *types.MsgResolveFlightDelay) (*types.MsgResolveFlightDelayResponse, error) {
	master, err := k.activeMasterFor(ctx, msg.Master, msg.Signer)
	if err != nil {
		return nil, err
	}
	flight, err := k.getFlight(ctx, msg.Master, msg.ChildId)
	if err != nil {
		return nil, err
	}
	if flight.IsResolved() {
		return nil, errors.Wrapf(types.ErrAlreadyResolved, "flight policy %d is %s", msg.ChildId, flight.Status)
	}

	params, err := k.Params.Get(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get params")
	}
	if err := types.ValidateDelayFormat(msg.DelayMinutes, params.DelayGranularityMinutes); err != nil {
		return nil, err
	}

	payout := master.PayoutTiers.Payout(msg.DelayMinutes, msg.Cancelled)
	flight.DelayMinutes = msg.DelayMinutes
	flight.Cancelled = msg.Cancelled
	flight.PayoutAmount = payout
	flight.UpdatedAt = blockTime(ctx)
	if payout.IsPositive() {
		flight.Status = types.FlightStatusClaimable
	} else {
		flight.Status = types.FlightStatusNoClaim
	}

	err = k.atomically(ctx, func(ctx sdk.Context) error {
		if err := k.FlightPolicies.Set(ctx, collections.Join(msg.Master, msg.ChildId), flight); err != nil {
			return err
		}
		ev, err := types.NewFlightResolvedEvent(types.FlightResolvedEvent{
			Flight:       flight.Address,
			Master:       msg.Master,
			ChildId:      msg.ChildId,
			DelayMinutes: msg.DelayMinutes,
			Cancelled:    msg.Cancelled,
			Payout:       payout.String(),
			Status:       flight.Status,
		})
		return emit(ctx, ev, err)
	})
	if err != nil {
		return nil, err
	}

	return &types.MsgResolveFlightDelayResponse{Status: flight.Status, Payout: payout}, nil
}

// SettleFlightClaim splits the payout through the waterfall and draws each
// party's portion from its pre-funded pool wallet into the leader deposit
// wallet, from which the policyholder is paid.
func (k Keeper) SettleFlightClaim(ctx context.Context, msg *types.MsgSettleFlightClaim) (types.Waterfall, error) {
	master, err := k.activeMasterFor(ctx, msg.Master, msg.Signer)
	if err != nil {
		return types.Waterfall{}, err
	}
	flight, err := k.getFlight(ctx, msg.Master, msg.ChildId)
	if err != nil {
		return types.Waterfall{}, err
	}
	switch flight.Status {
	case types.FlightStatusClaimable:
	case types.FlightStatusPaid:
		return types.Waterfall{}, errors.Wrapf(types.ErrAlreadySettled, "flight policy %d already paid", msg.ChildId)
	default:
		return types.Waterfall{}, errors.Wrapf(types.ErrInvalidState, "flight policy is %s, want %s", flight.Status, types.FlightStatusClaimable)
	}

	w, err := types.ComputeWaterfall(flight.PayoutAmount, master.ReinsurerEffectiveBps, master.ShareBps())
	if err != nil {
		return types.Waterfall{}, err
	}

	err = k.atomically(ctx, func(ctx sdk.Context) error {
		if err := k.transfer(ctx, master.ReinsurerPoolWallet, master.LeaderDepositWallet, w.Reinsurer); err != nil {
			return errors.Wrap(err, "reinsurer pool")
		}
		for i, p := range master.Participants {
			if err := k.transfer(ctx, p.PoolWallet, master.LeaderDepositWallet, w.Shares[i]); err != nil {
				return errors.Wrapf(err, "pool of participant %d", i)
			}
		}
		flight.Status = types.FlightStatusPaid
		flight.UpdatedAt = blockTime(ctx)
		return k.storeSettledFlight(ctx, flight, "claim", w)
	})
	if err != nil {
		return types.Waterfall{}, err
	}
	return w, nil
}

// SettleFlightNoClaim distributes the premium of an unclaimed flight from
// the leader deposit wallet to every party's deposit wallet.
func (k Keeper) SettleFlightNoClaim(ctx context.Context, msg *types.MsgSettleFlightNoClaim) (types.Waterfall, error) {
	master, err := k.activeMasterFor(ctx, msg.Master, msg.Signer)
	if err != nil {
		return types.Waterfall{}, err
	}
	flight, err := k.getFlight(ctx, msg.Master, msg.ChildId)
	if err != nil {
		return types.Waterfall{}, err
	}
	if flight.PremiumDistributed || flight.Status == types.FlightStatusExpired {
		return types.Waterfall{}, errors.Wrapf(types.ErrAlreadySettled, "premium of flight policy %d already distributed", msg.ChildId)
	}
	if flight.Status != types.FlightStatusNoClaim {
		return types.Waterfall{}, errors.Wrapf(types.ErrInvalidState, "flight policy is %s, want %s", flight.Status, types.FlightStatusNoClaim)
	}

	w, err := types.ComputeWaterfall(flight.PremiumPaid, master.ReinsurerEffectiveBps, master.ShareBps())
	if err != nil {
		return types.Waterfall{}, err
	}

	err = k.atomically(ctx, func(ctx sdk.Context) error {
		if err := k.transfer(ctx, master.LeaderDepositWallet, master.ReinsurerDepositWallet, w.Reinsurer); err != nil {
			return errors.Wrap(err, "reinsurer premium")
		}
		for i, p := range master.Participants {
			if err := k.transfer(ctx, master.LeaderDepositWallet, p.DepositWallet, w.Shares[i]); err != nil {
				return errors.Wrapf(err, "premium of participant %d", i)
			}
		}
		flight.PremiumDistributed = true
		flight.Status = types.FlightStatusExpired
		flight.UpdatedAt = blockTime(ctx)
		return k.storeSettledFlight(ctx, flight, "no_claim", w)
	})
	if err != nil {
		return types.Waterfall{}, err
	}
	return w, nil
}

func (k Keeper) storeSettledFlight(ctx sdk.Context, flight types.FlightPolicy, kind string, w types.Waterfall) error {
	if err := k.FlightPolicies.Set(ctx, collections.Join(flight.Master, flight.ChildId), flight); err != nil {
		return err
	}
	k.logger.Info("flight policy settled", "flight", flight.Address, "kind", kind, "total", w.Total, "reinsurer", w.Reinsurer)
	ev, err := types.NewFlightSettledEvent(types.FlightSettledEvent{
		Flight:    flight.Address,
		Master:    flight.Master,
		ChildId:   flight.ChildId,
		Kind:      kind,
		Waterfall: w,
	})
	return emit(ctx, ev, err)
}
