package keeper_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/EventSure/riskmesh-sub000/x/parametric/keeper"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

var testFeed = base58.Encode(bytes.Repeat([]byte{7}, types.FeedKeyLength))

func singleTiers() *types.PayoutTiers {
	return &types.PayoutTiers{
		Tier1: sdkmath.NewInt(400_000),
		Tier2: sdkmath.NewInt(600_000),
		Tier3: sdkmath.NewInt(800_000),
		Tier4: sdkmath.NewInt(1_000_000),
	}
}

// policyFlow drives one single policy through its lifecycle.
type policyFlow struct {
	f        *testFixture
	leader   string
	insurers []string
	create   *types.MsgCreatePolicy
	policy   string
	vault    string
}

func newPolicyFlow(t *testing.T, f *testFixture) *policyFlow {
	return newPolicyFlowWith(t, f, 1_000_000, []uint32{7000, 3000})
}

func newPolicyFlowWith(t *testing.T, f *testFixture, payout int64, bps []uint32) *policyFlow {
	t.Helper()
	p := &policyFlow{f: f, leader: f.addrs[0].String()}

	participants := make([]types.ParticipantShare, len(bps))
	for i, b := range bps {
		insurer := f.addrs[i].String()
		p.insurers = append(p.insurers, insurer)
		participants[i] = types.ParticipantShare{Insurer: insurer, RatioBps: b}
	}

	p.create = &types.MsgCreatePolicy{
		Leader:            p.leader,
		PolicyId:          1,
		Route:             "ICN-NRT",
		FlightNo:          "KE701",
		DepartureDate:     "2026-01-02",
		DelayThresholdMin: 120,
		PayoutAmount:      sdkmath.NewInt(payout),
		OracleFeed:        testFeed,
		ActiveFrom:        f.now() + 3600,
		ActiveTo:          f.now() + 86400,
		Participants:      participants,
	}
	if payout >= singleTiers().Max().Int64() {
		p.create.PayoutTiers = singleTiers()
	}

	require.NoError(t, p.create.ValidateBasic())
	res, err := f.msgServer.CreatePolicy(f.ctx, p.create)
	require.NoError(t, err)
	p.policy, p.vault = res.Policy, res.Vault
	return p
}

func (p *policyFlow) open(t *testing.T) {
	t.Helper()
	_, err := p.f.msgServer.OpenUnderwriting(p.f.ctx, &types.MsgOpenUnderwriting{Leader: p.leader, Policy: p.policy})
	require.NoError(t, err)
}

func (p *policyFlow) required(t *testing.T, index int) sdkmath.Int {
	t.Helper()
	uw, err := p.f.k.Underwritings.Get(p.f.ctx, p.policy)
	require.NoError(t, err)
	amt, err := uw.RequiredDeposit(index)
	require.NoError(t, err)
	return amt
}

func (p *policyFlow) accept(t *testing.T, index int) (*types.MsgAcceptShareResponse, error) {
	t.Helper()
	amt := p.required(t, index)
	p.f.fund(t, p.insurers[index], amt.Int64())
	return p.f.msgServer.AcceptShare(p.f.ctx, &types.MsgAcceptShare{
		Signer:        p.insurers[index],
		Policy:        p.policy,
		Index:         uint32(index),
		DepositAmount: amt,
	})
}

// fundAll opens underwriting and escrows every share.
func (p *policyFlow) fundAll(t *testing.T) {
	t.Helper()
	p.open(t)
	for i := range p.insurers {
		_, err := p.accept(t, i)
		require.NoError(t, err)
	}
}

func (p *policyFlow) activate(t *testing.T) {
	t.Helper()
	p.f.advance(time.Hour)
	_, err := p.f.msgServer.ActivatePolicy(p.f.ctx, &types.MsgActivatePolicy{Leader: p.leader, Policy: p.policy})
	require.NoError(t, err)
}

func (p *policyFlow) observe(round uint64, delay int64, cancelled bool) *types.MsgCheckOracle {
	return &types.MsgCheckOracle{
		Signer: p.f.addrs[7].String(),
		Policy: p.policy,
		Observation: types.DelayObservation{
			Feed:         testFeed,
			Round:        round,
			DelayMinutes: delay,
			Cancelled:    cancelled,
			ObservedAt:   p.f.now(),
		},
	}
}

func (p *policyFlow) state(t *testing.T) types.PolicyState {
	t.Helper()
	policy, err := p.f.k.Policies.Get(p.f.ctx, p.policy)
	require.NoError(t, err)
	return policy.State
}

func TestPolicy_FullLifecycle(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)
	require.Equal(t, types.PolicyStateDraft, p.state(t))

	p.open(t)
	require.Equal(t, types.PolicyStateOpen, p.state(t))

	res, err := p.accept(t, 0)
	require.NoError(t, err)
	require.False(t, res.Funded)
	res, err = p.accept(t, 1)
	require.NoError(t, err)
	require.True(t, res.Funded)

	uw, err := f.k.Underwritings.Get(f.ctx, p.policy)
	require.NoError(t, err)
	require.Equal(t, types.UnderwritingStatusFinalized, uw.Status)
	require.Equal(t, types.PolicyStateFunded, p.state(t))
	requireIntEqual(t, 1_000_000, f.balance(p.vault))

	p.activate(t)
	require.Equal(t, types.PolicyStateActive, p.state(t))

	check, err := f.msgServer.CheckOracle(f.ctx, p.observe(1, 130, false))
	require.NoError(t, err)
	require.True(t, check.ClaimCreated)
	requireIntEqual(t, 400_000, check.Payout)
	require.Equal(t, types.PolicyStateClaimable, p.state(t))

	_, err = f.msgServer.ApproveClaim(f.ctx, &types.MsgApproveClaim{Signer: p.leader, Policy: p.policy, OracleRound: 1})
	require.NoError(t, err)
	require.Equal(t, types.PolicyStateApproved, p.state(t))

	beneficiary := f.addrs[5].String()
	settle, err := f.msgServer.SettleClaim(f.ctx, &types.MsgSettleClaim{
		Signer:      p.leader,
		Policy:      p.policy,
		OracleRound: 1,
		Beneficiary: beneficiary,
	})
	require.NoError(t, err)
	requireIntEqual(t, 400_000, settle.Paid)
	requireIntEqual(t, 420_000, settle.Returned[0])
	requireIntEqual(t, 180_000, settle.Returned[1])

	require.Equal(t, types.PolicyStateSettled, p.state(t))
	requireIntEqual(t, 0, f.balance(p.vault))
	requireIntEqual(t, 400_000, f.balance(beneficiary))
	requireIntEqual(t, 420_000, f.balance(p.insurers[0]))
	requireIntEqual(t, 180_000, f.balance(p.insurers[1]))

	claim, err := f.queryServer.Claim(f.ctx, &types.QueryClaimRequest{Policy: p.policy, OracleRound: 1})
	require.NoError(t, err)
	require.Equal(t, types.ClaimStatusSettled, claim.Claim.Status)
	require.Equal(t, beneficiary, claim.Claim.Beneficiary)

	// settling twice must not pay twice
	_, err = f.msgServer.SettleClaim(f.ctx, &types.MsgSettleClaim{
		Signer:      p.leader,
		Policy:      p.policy,
		OracleRound: 1,
		Beneficiary: beneficiary,
	})
	require.ErrorIs(t, err, types.ErrAlreadySettled)
	requireIntEqual(t, 400_000, f.balance(beneficiary))

	q, err := f.queryServer.Policy(f.ctx, &types.QueryPolicyRequest{Address: p.policy})
	require.NoError(t, err)
	require.Len(t, q.Claims, 1)
	requireIntEqual(t, 0, q.VaultBalance)
	requireIntEqual(t, 400_000, q.RiskPool.PaidOut)
}

func TestPolicy_UntieredClaimPaysFullAmount(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlowWith(t, f, 500_000, []uint32{5000, 5000})
	require.Nil(t, p.create.PayoutTiers)
	p.fundAll(t)
	p.activate(t)

	check, err := f.msgServer.CheckOracle(f.ctx, p.observe(3, 240, false))
	require.NoError(t, err)
	requireIntEqual(t, 500_000, check.Payout)
}

func TestAcceptShare_ExactEscrow(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)

	// shares cannot be escrowed before underwriting opens
	_, err := p.accept(t, 0)
	require.ErrorIs(t, err, types.ErrInvalidState)

	p.open(t)
	required := p.required(t, 0)
	f.fund(t, p.insurers[0], 2*required.Int64())

	for _, amt := range []sdkmath.Int{required.SubRaw(1), required.AddRaw(1)} {
		_, err = f.msgServer.AcceptShare(f.ctx, &types.MsgAcceptShare{
			Signer: p.insurers[0], Policy: p.policy, Index: 0, DepositAmount: amt,
		})
		require.ErrorIs(t, err, types.ErrEscrowMismatch)
	}
	requireIntEqual(t, 0, f.balance(p.vault))

	_, err = f.msgServer.AcceptShare(f.ctx, &types.MsgAcceptShare{
		Signer: p.insurers[1], Policy: p.policy, Index: 0, DepositAmount: required,
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.msgServer.AcceptShare(f.ctx, &types.MsgAcceptShare{
		Signer: p.insurers[0], Policy: p.policy, Index: 5, DepositAmount: required,
	})
	require.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = f.msgServer.AcceptShare(f.ctx, &types.MsgAcceptShare{
		Signer: p.insurers[0], Policy: p.policy, Index: 0, DepositAmount: required,
	})
	require.NoError(t, err)

	_, err = f.msgServer.AcceptShare(f.ctx, &types.MsgAcceptShare{
		Signer: p.insurers[0], Policy: p.policy, Index: 0, DepositAmount: required,
	})
	require.ErrorIs(t, err, types.ErrInvalidState)
	requireIntEqual(t, required.Int64(), f.balance(p.vault))
}

func TestAcceptShare_RemainderGoesToLeader(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlowWith(t, f, 10, []uint32{3334, 3333, 3333})
	p.fundAll(t)

	uw, err := f.k.Underwritings.Get(f.ctx, p.policy)
	require.NoError(t, err)
	requireIntEqual(t, 4, uw.Participants[0].EscrowedAmount)
	requireIntEqual(t, 3, uw.Participants[1].EscrowedAmount)
	requireIntEqual(t, 3, uw.Participants[2].EscrowedAmount)
	require.Equal(t, types.UnderwritingStatusFinalized, uw.Status)
	requireIntEqual(t, 10, f.balance(p.vault))
}

func TestAcceptShare_OrderIndependent(t *testing.T) {
	orders := [][]int{{0, 1, 2}, {2, 1, 0}, {1, 2, 0}}
	for _, order := range orders {
		f := SetupTest(t)
		p := newPolicyFlowWith(t, f, 1_000_001, []uint32{5000, 3000, 2000})
		p.open(t)

		var last *types.MsgAcceptShareResponse
		for _, i := range order {
			res, err := p.accept(t, i)
			require.NoError(t, err)
			last = res
		}
		require.True(t, last.Funded, "order %v", order)
		require.Equal(t, types.PolicyStateFunded, p.state(t))
		requireIntEqual(t, 1_000_001, f.balance(p.vault))
	}
}

func TestActivatePolicy_Guards(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)

	_, err := f.msgServer.ActivatePolicy(f.ctx, &types.MsgActivatePolicy{Leader: p.leader, Policy: p.policy})
	require.ErrorIs(t, err, types.ErrInvalidState)

	p.fundAll(t)
	_, err = f.msgServer.ActivatePolicy(f.ctx, &types.MsgActivatePolicy{Leader: p.insurers[1], Policy: p.policy})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.msgServer.ActivatePolicy(f.ctx, &types.MsgActivatePolicy{Leader: p.leader, Policy: p.policy})
	require.ErrorIs(t, err, types.ErrTooEarly)

	p.activate(t)
}

func TestCheckOracle_Validation(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)
	p.fundAll(t)

	_, err := f.msgServer.CheckOracle(f.ctx, p.observe(1, 130, false))
	require.ErrorIs(t, err, types.ErrInvalidState, "policy not active yet")

	p.activate(t)

	wrongFeed := p.observe(1, 130, false)
	wrongFeed.Observation.Feed = base58.Encode(bytes.Repeat([]byte{8}, types.FeedKeyLength))
	_, err = f.msgServer.CheckOracle(f.ctx, wrongFeed)
	require.ErrorIs(t, err, types.ErrOracleFeedMismatch)

	badGranularity := p.observe(1, 125, false)
	_, err = f.msgServer.CheckOracle(f.ctx, badGranularity)
	require.ErrorIs(t, err, types.ErrOracleFormat)

	stale := p.observe(1, 130, false)
	stale.Observation.ObservedAt = f.now() - 1801
	_, err = f.msgServer.CheckOracle(f.ctx, stale)
	require.ErrorIs(t, err, types.ErrOracleStale)

	future := p.observe(1, 130, false)
	future.Observation.ObservedAt = f.now() + 60
	_, err = f.msgServer.CheckOracle(f.ctx, future)
	require.ErrorIs(t, err, types.ErrOracleStale)

	below, err := f.msgServer.CheckOracle(f.ctx, p.observe(1, 110, false))
	require.NoError(t, err)
	require.False(t, below.ClaimCreated)
	require.Equal(t, types.PolicyStateActive, p.state(t))

	cancelled, err := f.msgServer.CheckOracle(f.ctx, p.observe(2, 0, true))
	require.NoError(t, err)
	require.True(t, cancelled.ClaimCreated)
	requireIntEqual(t, 1_000_000, cancelled.Payout)

	_, err = f.msgServer.CheckOracle(f.ctx, p.observe(3, 380, false))
	require.ErrorIs(t, err, types.ErrAlreadyResolved)
}

func TestClaim_Authorization(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)
	p.fundAll(t)
	p.activate(t)
	_, err := f.msgServer.CheckOracle(f.ctx, p.observe(1, 200, false))
	require.NoError(t, err)

	_, err = f.msgServer.ApproveClaim(f.ctx, &types.MsgApproveClaim{Signer: p.insurers[1], Policy: p.policy, OracleRound: 1})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.msgServer.ApproveClaim(f.ctx, &types.MsgApproveClaim{Signer: p.leader, Policy: p.policy, OracleRound: 9})
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = f.msgServer.SettleClaim(f.ctx, &types.MsgSettleClaim{Signer: p.leader, Policy: p.policy, OracleRound: 1, Beneficiary: p.leader})
	require.ErrorIs(t, err, types.ErrInvalidState, "claim must be approved first")
}

func TestRejectShare_FailsUnderwritingAndRefundsOnce(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)
	p.open(t)

	_, err := p.accept(t, 0)
	require.NoError(t, err)
	requireIntEqual(t, 0, f.balance(p.insurers[0]))

	// refunds are only open once underwriting has failed
	_, err = f.msgServer.RefundShare(f.ctx, &types.MsgRefundShare{Signer: p.insurers[0], Policy: p.policy, Index: 0})
	require.ErrorIs(t, err, types.ErrInvalidState)

	_, err = f.msgServer.RejectShare(f.ctx, &types.MsgRejectShare{Signer: p.insurers[1], Policy: p.policy, Index: 1})
	require.NoError(t, err)

	events := f.ctx.EventManager().Events()
	last := events[len(events)-1]
	require.Equal(t, types.EventTypeShareRejected, last.Type)
	attrs := map[string]string{}
	for _, a := range last.Attributes {
		attrs[a.Key] = a.Value
	}
	require.Equal(t, p.insurers[1], attrs["insurer"])
	require.Equal(t, "1", attrs["index"])

	uw, err := f.k.Underwritings.Get(f.ctx, p.policy)
	require.NoError(t, err)
	require.Equal(t, types.UnderwritingStatusFailed, uw.Status)
	require.Equal(t, types.ShareStatusRejected, uw.Participants[1].Status)

	// a second rejection finds the underwriting already failed
	_, err = f.msgServer.RejectShare(f.ctx, &types.MsgRejectShare{Signer: p.insurers[1], Policy: p.policy, Index: 1})
	require.ErrorIs(t, err, types.ErrInvalidState)
	require.Len(t, f.ctx.EventManager().Events(), len(events))

	_, err = f.msgServer.RefundShare(f.ctx, &types.MsgRefundShare{Signer: p.insurers[1], Policy: p.policy, Index: 0})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	res, err := f.msgServer.RefundShare(f.ctx, &types.MsgRefundShare{Signer: p.insurers[0], Policy: p.policy, Index: 0})
	require.NoError(t, err)
	requireIntEqual(t, 700_000, res.Refunded)
	requireIntEqual(t, 700_000, f.balance(p.insurers[0]))
	requireIntEqual(t, 0, f.balance(p.vault))

	_, err = f.msgServer.RefundShare(f.ctx, &types.MsgRefundShare{Signer: p.insurers[0], Policy: p.policy, Index: 0})
	require.ErrorIs(t, err, types.ErrAlreadySettled)

	// the rejected share never escrowed anything
	_, err = f.msgServer.RefundShare(f.ctx, &types.MsgRefundShare{Signer: p.insurers[1], Policy: p.policy, Index: 1})
	require.ErrorIs(t, err, types.ErrInvalidState)
}

func TestExpirePolicy_RefundsEveryShare(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)
	p.fundAll(t)
	p.activate(t)

	_, err := f.msgServer.ExpirePolicy(f.ctx, &types.MsgExpirePolicy{Signer: f.addrs[7].String(), Policy: p.policy})
	require.ErrorIs(t, err, types.ErrTooEarly)

	f.advance(24 * time.Hour)
	_, err = f.msgServer.ExpirePolicy(f.ctx, &types.MsgExpirePolicy{Signer: f.addrs[7].String(), Policy: p.policy})
	require.NoError(t, err)
	require.Equal(t, types.PolicyStateExpired, p.state(t))

	_, err = f.msgServer.CheckOracle(f.ctx, p.observe(1, 400, false))
	require.ErrorIs(t, err, types.ErrInvalidState)

	for i, want := range []int64{700_000, 300_000} {
		res, err := f.msgServer.RefundShare(f.ctx, &types.MsgRefundShare{Signer: p.insurers[i], Policy: p.policy, Index: uint32(i)})
		require.NoError(t, err)
		requireIntEqual(t, want, res.Refunded)
		requireIntEqual(t, want, f.balance(p.insurers[i]))
	}
	requireIntEqual(t, 0, f.balance(p.vault))
}

func TestExpirePolicy_OnlyFromActive(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)
	p.fundAll(t)
	f.advance(48 * time.Hour)

	expire := &types.MsgExpirePolicy{Signer: f.addrs[7].String(), Policy: p.policy}
	_, err := f.msgServer.ExpirePolicy(f.ctx, expire)
	require.ErrorIs(t, err, types.ErrInvalidState)
	require.Equal(t, types.KindStateGuard, types.KindOf(err))
	require.Equal(t, types.PolicyStateFunded, p.state(t))
	requireIntEqual(t, 1_000_000, f.balance(p.vault))

	// a late policy still leaves Funded through activation
	_, err = f.msgServer.ActivatePolicy(f.ctx, &types.MsgActivatePolicy{Leader: p.leader, Policy: p.policy})
	require.NoError(t, err)
	_, err = f.msgServer.ExpirePolicy(f.ctx, expire)
	require.NoError(t, err)
	require.Equal(t, types.PolicyStateExpired, p.state(t))

	for i := range p.insurers {
		_, err := f.msgServer.RefundShare(f.ctx, &types.MsgRefundShare{Signer: p.insurers[i], Policy: p.policy, Index: uint32(i)})
		require.NoError(t, err)
	}
	requireIntEqual(t, 0, f.balance(p.vault))
}

func TestSettleClaim_ReturnsCoinsSentToVault(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)
	p.fundAll(t)
	p.activate(t)
	f.fund(t, p.vault, 1)

	_, err := f.msgServer.CheckOracle(f.ctx, p.observe(1, 130, false))
	require.NoError(t, err)
	_, err = f.msgServer.ApproveClaim(f.ctx, &types.MsgApproveClaim{Signer: p.leader, Policy: p.policy, OracleRound: 1})
	require.NoError(t, err)

	settle, err := f.msgServer.SettleClaim(f.ctx, &types.MsgSettleClaim{
		Signer:      p.leader,
		Policy:      p.policy,
		OracleRound: 1,
		Beneficiary: f.addrs[5].String(),
	})
	require.NoError(t, err)
	requireIntEqual(t, 400_000, settle.Paid)
	// 600_001 split 70/30, remainder to index 0
	requireIntEqual(t, 420_001, settle.Returned[0])
	requireIntEqual(t, 180_000, settle.Returned[1])
	requireIntEqual(t, 0, f.balance(p.vault))
}

func TestRefundShare_LastRefundEmptiesVault(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)
	p.fundAll(t)
	p.activate(t)
	f.advance(24 * time.Hour)
	_, err := f.msgServer.ExpirePolicy(f.ctx, &types.MsgExpirePolicy{Signer: f.addrs[7].String(), Policy: p.policy})
	require.NoError(t, err)
	f.fund(t, p.vault, 5)

	first, err := f.msgServer.RefundShare(f.ctx, &types.MsgRefundShare{Signer: p.insurers[1], Policy: p.policy, Index: 1})
	require.NoError(t, err)
	requireIntEqual(t, 300_000, first.Refunded)

	last, err := f.msgServer.RefundShare(f.ctx, &types.MsgRefundShare{Signer: p.insurers[0], Policy: p.policy, Index: 0})
	require.NoError(t, err)
	requireIntEqual(t, 700_005, last.Refunded)
	requireIntEqual(t, 0, f.balance(p.vault))

	pool, err := f.k.RiskPools.Get(f.ctx, p.policy)
	require.NoError(t, err)
	requireIntEqual(t, 0, pool.AvailableBalance)
}

func TestRegisterPolicyholder(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)

	entry := types.PolicyholderEntry{
		ExternalRef:    "PNR-0001",
		FlightNo:       "KE701",
		DepartureDate:  "2026-01-02",
		PassengerCount: 2,
		PremiumPaid:    sdkmath.NewInt(20_000),
		CoverageAmount: sdkmath.NewInt(400_000),
	}
	res, err := f.msgServer.RegisterPolicyholder(f.ctx, &types.MsgRegisterPolicyholder{Leader: p.leader, Policy: p.policy, Entry: entry})
	require.NoError(t, err)
	require.Equal(t, uint32(1), res.Count)

	_, err = f.msgServer.RegisterPolicyholder(f.ctx, &types.MsgRegisterPolicyholder{Leader: p.leader, Policy: p.policy, Entry: entry})
	require.ErrorIs(t, err, types.ErrAlreadyExists)

	_, err = f.msgServer.RegisterPolicyholder(f.ctx, &types.MsgRegisterPolicyholder{Leader: p.insurers[1], Policy: p.policy, Entry: entry})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	params := types.DefaultParams()
	params.MaxPolicyholders = 2
	_, err = f.msgServer.UpdateParams(f.ctx, types.NewMsgUpdateParams(sdk.MustAccAddressFromBech32(f.govModAddr), params))
	require.NoError(t, err)

	entry.ExternalRef = "PNR-0002"
	_, err = f.msgServer.RegisterPolicyholder(f.ctx, &types.MsgRegisterPolicyholder{Leader: p.leader, Policy: p.policy, Entry: entry})
	require.NoError(t, err)

	entry.ExternalRef = "PNR-0003"
	_, err = f.msgServer.RegisterPolicyholder(f.ctx, &types.MsgRegisterPolicyholder{Leader: p.leader, Policy: p.policy, Entry: entry})
	require.ErrorIs(t, err, types.ErrInvalidInput)

	q, err := f.queryServer.Policy(f.ctx, &types.QueryPolicyRequest{Address: p.policy})
	require.NoError(t, err)
	require.Len(t, q.Registry.Entries, 2)
	require.Equal(t, uint64(1), q.Registry.Entries[0].PolicyId)
}

func TestCreatePolicy_Guards(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)

	_, err := f.msgServer.CreatePolicy(f.ctx, p.create)
	require.ErrorIs(t, err, types.ErrAlreadyExists)

	other := *p.create
	other.PolicyId = 2
	other.DelayThresholdMin = 180
	_, err = f.msgServer.CreatePolicy(f.ctx, &other)
	require.ErrorIs(t, err, types.ErrInvalidInput)

	byState, err := f.queryServer.PoliciesByState(f.ctx, &types.QueryPoliciesByStateRequest{State: types.PolicyStateDraft})
	require.NoError(t, err)
	require.Len(t, byState.Policies, 1)
}

func TestHandleMsg(t *testing.T) {
	f := SetupTest(t)
	p := newPolicyFlow(t, f)

	msg, err := types.DecodeMsg(types.TypeMsgOpenUnderwriting, []byte(`{"leader":"`+p.leader+`","policy":"`+p.policy+`"}`))
	require.NoError(t, err)
	_, err = keeper.HandleMsg(f.ctx, f.msgServer, msg)
	require.NoError(t, err)
	require.Equal(t, types.PolicyStateOpen, p.state(t))

	_, err = keeper.HandleMsg(f.ctx, f.msgServer, &types.MsgActivatePolicy{Leader: "bogus", Policy: p.policy})
	require.ErrorIs(t, err, types.ErrInvalidInput)
}
