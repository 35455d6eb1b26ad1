package sweeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/EventSure/riskmesh-sub000/app"
	relayerrors "github.com/EventSure/riskmesh-sub000/relayer/errors"
	"github.com/EventSure/riskmesh-sub000/relayer/feed"
	"github.com/EventSure/riskmesh-sub000/relayer/metrics"
	"github.com/EventSure/riskmesh-sub000/relayer/submitter"
	"github.com/EventSure/riskmesh-sub000/testutils"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

func singleAttempt() *relayerrors.RetryConfig {
	cfg := relayerrors.DefaultRetryConfig()
	cfg.MaxAttempts = 1
	return cfg
}

func allOn(operator string) Options {
	return Options{
		Operator:        operator,
		Interval:        time.Hour,
		AutoActivate:    true,
		AutoExpire:      true,
		AutoCheckOracle: true,
		AutoResolve:     true,
	}
}

type SweeperTestSuite struct {
	suite.Suite

	ledger   *app.Ledger
	clock    *app.ManualClock
	accounts []string
	source   *feed.MemorySource
	sweeper  *Sweeper
}

func TestSweeperTestSuite(t *testing.T) {
	suite.Run(t, new(SweeperTestSuite))
}

func (s *SweeperTestSuite) SetupTest() {
	s.ledger, s.clock, s.accounts = testutils.SetupLedgerWithAccounts(s.T())
	s.source = feed.NewMemorySource()
	sub := submitter.New(s.ledger, nil, nil, singleAttempt(), zerolog.Nop())
	s.sweeper = New(s.ledger, sub, s.source, metrics.New(), allOn(s.accounts[0]), zerolog.Nop())
}

// fundedPolicy creates a single-insurer policy and escrows its share.
func (s *SweeperTestSuite) fundedPolicy(id uint64, from, to time.Duration) string {
	now := s.ledger.Now()
	res, err := s.ledger.Execute(&types.MsgCreatePolicy{
		Leader:            s.accounts[0],
		PolicyId:          id,
		Route:             "ICN-NRT",
		FlightNo:          "KE701",
		DepartureDate:     "2026-01-02",
		DelayThresholdMin: types.Tier1DelayMinutes,
		PayoutAmount:      sdkmath.NewInt(1_000),
		OracleFeed:        app.SimulationFeed(),
		ActiveFrom:        now.Add(from).Unix(),
		ActiveTo:          now.Add(to).Unix(),
		Participants:      []types.ParticipantShare{{Insurer: s.accounts[0], RatioBps: 10000}},
	})
	s.Require().NoError(err)
	policy := res.Response.(*types.MsgCreatePolicyResponse).Policy

	_, err = s.ledger.Execute(&types.MsgOpenUnderwriting{Leader: s.accounts[0], Policy: policy})
	s.Require().NoError(err)
	_, err = s.ledger.Execute(&types.MsgAcceptShare{
		Signer: s.accounts[0], Policy: policy, Index: 0, DepositAmount: sdkmath.NewInt(1_000),
	})
	s.Require().NoError(err)
	return policy
}

func (s *SweeperTestSuite) state(policy string) types.PolicyState {
	var st types.PolicyState
	s.Require().NoError(s.ledger.Query(func(ctx context.Context, qs types.QueryServer) error {
		res, err := qs.Policy(ctx, &types.QueryPolicyRequest{Address: policy})
		if err != nil {
			return err
		}
		st = res.Policy.State
		return nil
	}))
	return st
}

func (s *SweeperTestSuite) TestActivatesOnceWindowOpens() {
	policy := s.fundedPolicy(1, time.Minute, time.Hour)

	report, err := s.sweeper.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Require().Equal(Report{}, report)

	s.clock.Advance(2 * time.Minute)
	report, err = s.sweeper.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Require().Equal(1, report.Activated)
	s.Require().Equal(types.PolicyStateActive, s.state(policy))
}

func (s *SweeperTestSuite) TestExpiresPastCoverage() {
	funded := s.fundedPolicy(1, time.Minute, time.Hour)
	active := s.fundedPolicy(2, 0, time.Hour)
	_, err := s.ledger.Execute(&types.MsgActivatePolicy{Leader: s.accounts[0], Policy: active})
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)
	report, err := s.sweeper.RunOnce(context.Background())
	s.Require().NoError(err)
	// the late Funded policy goes through Active on its way out
	s.Require().Equal(1, report.Activated)
	s.Require().Equal(2, report.Expired)
	s.Require().Zero(report.Failed)
	s.Require().Equal(types.PolicyStateExpired, s.state(funded))
	s.Require().Equal(types.PolicyStateExpired, s.state(active))
}

func (s *SweeperTestSuite) TestLeavesLateFundedPolicyWithoutActivation() {
	opts := allOn(s.accounts[0])
	opts.AutoActivate = false
	sub := submitter.New(s.ledger, nil, nil, singleAttempt(), zerolog.Nop())
	sw := New(s.ledger, sub, s.source, nil, opts, zerolog.Nop())

	funded := s.fundedPolicy(1, time.Minute, time.Hour)
	s.clock.Advance(2 * time.Hour)

	report, err := sw.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Require().Equal(Report{}, report)
	s.Require().Equal(types.PolicyStateFunded, s.state(funded))
}

func (s *SweeperTestSuite) TestSubmitsEachRoundOnce() {
	policy := s.fundedPolicy(1, 0, time.Hour)
	_, err := s.sweeper.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Require().Equal(types.PolicyStateActive, s.state(policy))

	ctx := context.Background()
	s.Require().NoError(s.source.Put(ctx, types.DelayObservation{
		Feed: app.SimulationFeed(), Round: 1, DelayMinutes: 30, ObservedAt: s.ledger.Now().Unix(),
	}))
	report, err := s.sweeper.RunOnce(ctx)
	s.Require().NoError(err)
	s.Require().Equal(1, report.Checked)
	s.Require().Equal(types.PolicyStateActive, s.state(policy))

	report, err = s.sweeper.RunOnce(ctx)
	s.Require().NoError(err)
	s.Require().Zero(report.Checked)

	s.Require().NoError(s.source.Put(ctx, types.DelayObservation{
		Feed: app.SimulationFeed(), Round: 2, DelayMinutes: 130, ObservedAt: s.ledger.Now().Unix(),
	}))
	report, err = s.sweeper.RunOnce(ctx)
	s.Require().NoError(err)
	s.Require().Equal(1, report.Checked)
	s.Require().Equal(types.PolicyStateClaimable, s.state(policy))
}

func (s *SweeperTestSuite) TestRejectedOperationIsCounted() {
	s.fundedPolicy(1, 0, time.Hour)
	_, err := s.sweeper.RunOnce(context.Background())
	s.Require().NoError(err)

	// not a multiple of the feed granularity
	s.Require().NoError(s.source.Put(context.Background(), types.DelayObservation{
		Feed: app.SimulationFeed(), Round: 1, DelayMinutes: 125, ObservedAt: s.ledger.Now().Unix(),
	}))
	report, err := s.sweeper.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Require().Equal(1, report.Failed)
	s.Require().Zero(report.Checked)
}

func (s *SweeperTestSuite) TestIgnoresPoliciesItDoesNotLead() {
	s.fundedPolicy(1, 0, time.Hour)
	sub := submitter.New(s.ledger, nil, nil, singleAttempt(), zerolog.Nop())
	other := New(s.ledger, sub, s.source, nil, allOn(s.accounts[5]), zerolog.Nop())

	report, err := other.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Require().Zero(report.Activated)
}

func TestSweeper_DisabledWithoutOperator(t *testing.T) {
	ledger, _ := testutils.SetupLedger(t)
	sub := submitter.New(ledger, nil, nil, singleAttempt(), zerolog.Nop())
	sw := New(ledger, sub, feed.NewMemorySource(), nil, allOn(""), zerolog.Nop())

	report, err := sw.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, Report{}, report)
}

// blockingLedger parks the first query until release is closed.
type blockingLedger struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingLedger) Query(func(ctx context.Context, qs types.QueryServer) error) error {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return nil
}

func (b *blockingLedger) Now() time.Time { return time.Now() }

func TestSweeper_StopWaitsForRunningPass(t *testing.T) {
	bl := &blockingLedger{entered: make(chan struct{}), release: make(chan struct{})}
	opts := Options{Operator: "operator", Interval: 10 * time.Millisecond, AutoActivate: true}
	sw := New(bl, nil, feed.NewMemorySource(), nil, opts, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sw.Start(ctx)

	select {
	case <-bl.entered:
	case <-time.After(time.Second):
		t.Fatal("sweep never started")
	}

	stopped := make(chan struct{})
	go func() {
		sw.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a pass was still reading the ledger")
	case <-time.After(50 * time.Millisecond):
	}

	close(bl.release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the pass finished")
	}

	// a second Stop is a no-op
	sw.Stop()
}

func TestSweeper_StopWithoutStart(t *testing.T) {
	ledger, _ := testutils.SetupLedger(t)
	sw := New(ledger, nil, feed.NewMemorySource(), nil, allOn(""), zerolog.Nop())
	sw.Start(context.Background())
	sw.Stop()
	sw.Stop()
}

func TestSweeper_ResolvesFlights(t *testing.T) {
	sim, err := app.NewSimulation(log.NewNopLogger())
	require.NoError(t, err)
	defer sim.Close()

	m, err := sim.SetupMaster()
	require.NoError(t, err)
	child, departure, err := sim.IssueFlight(m)
	require.NoError(t, err)
	sim.Clock().Advance(time.Minute)
	later, _, err := sim.IssueFlight(m)
	require.NoError(t, err)

	ledger := sim.Ledger()
	source := feed.NewMemorySource()
	sub := submitter.New(ledger, nil, nil, singleAttempt(), zerolog.Nop())
	sw := New(ledger, sub, source, nil, allOn(m.Insurers[0]), zerolog.Nop())

	report, err := sw.RunOnce(context.Background())
	require.NoError(t, err)
	require.Zero(t, report.Resolved)

	sim.Clock().Advance(3 * time.Hour)
	require.NoError(t, source.Put(context.Background(), types.DelayObservation{
		Feed:         types.FlightFeedKey(app.SimFlightNo, departure),
		Round:        1,
		DelayMinutes: 130,
		ObservedAt:   ledger.Now().Unix(),
	}))

	report, err = sw.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Resolved)

	require.NoError(t, ledger.Query(func(ctx context.Context, qs types.QueryServer) error {
		res, err := qs.FlightPolicy(ctx, &types.QueryFlightPolicyRequest{Master: m.Address, ChildId: child})
		if err != nil {
			return err
		}
		require.Equal(t, types.FlightStatusClaimable, res.Flight.Status)
		require.True(t, sdkmath.NewInt(500_000).Equal(res.Flight.PayoutAmount))

		// a different departure reads a different feed
		res, err = qs.FlightPolicy(ctx, &types.QueryFlightPolicyRequest{Master: m.Address, ChildId: later})
		if err != nil {
			return err
		}
		require.Equal(t, types.FlightStatusAwaitingOracle, res.Flight.Status)
		return nil
	}))
}
