package app

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/types/address"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/mr-tron/base58"

	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// SimulationStart is the block time a simulation ledger opens at.
var SimulationStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Balance is a labelled account balance captured by a scenario.
type Balance struct {
	Label   string      `json:"label"`
	Address string      `json:"address"`
	Amount  sdkmath.Int `json:"amount"`
}

// ScenarioReport is what one simulated scenario produced.
type ScenarioReport struct {
	Name      string           `json:"name"`
	Waterfall *types.Waterfall `json:"waterfall,omitempty"`
	Payouts   []TierPayout     `json:"payouts,omitempty"`
	Balances  []Balance        `json:"balances,omitempty"`
}

// TierPayout is the price of one delay report.
type TierPayout struct {
	DelayMinutes int64       `json:"delay_minutes"`
	Cancelled    bool        `json:"cancelled"`
	Payout       sdkmath.Int `json:"payout"`
}

// Simulation drives the reference scenarios against an in-memory ledger.
type Simulation struct {
	ledger *Ledger
	clock  *ManualClock
}

func NewSimulation(logger log.Logger) (*Simulation, error) {
	clock := NewManualClock(SimulationStart)
	ledger, err := NewLedger(Options{Logger: logger, Clock: clock.Now})
	if err != nil {
		return nil, err
	}
	return &Simulation{ledger: ledger, clock: clock}, nil
}

func (s *Simulation) Ledger() *Ledger { return s.ledger }

func (s *Simulation) Clock() *ManualClock { return s.clock }

func (s *Simulation) Close() error { return s.ledger.Close() }

// Actor returns the deterministic address of a named simulation party.
func Actor(name string) string {
	return authtypes.NewModuleAddress("riskmesh-sim/" + name).String()
}

// SimulationFeed is the oracle feed every simulated policy reads.
func SimulationFeed() string {
	return base58.Encode(address.Module("riskmesh-sim", []byte("feed")))
}

func (s *Simulation) exec(msg types.Msg) (any, error) {
	res, err := s.ledger.Execute(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", msg.Type())
	}
	return res.Response, nil
}

func (s *Simulation) balances(labels ...string) ([]Balance, error) {
	out := make([]Balance, 0, len(labels)/2)
	for i := 0; i+1 < len(labels); i += 2 {
		amt, err := s.ledger.Balance(labels[i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, Balance{Label: labels[i], Address: labels[i+1], Amount: amt})
	}
	return out, nil
}

// RunAll runs every scenario in order on the same ledger.
func (s *Simulation) RunAll() ([]ScenarioReport, error) {
	master, err := s.SetupMaster()
	if err != nil {
		return nil, err
	}

	var reports []ScenarioReport
	for _, run := range []func() (ScenarioReport, error){
		func() (ScenarioReport, error) { return s.ClaimWaterfall(master) },
		func() (ScenarioReport, error) { return s.PremiumWaterfall(master) },
		func() (ScenarioReport, error) { return s.DelayTiers(master) },
		s.PolicyLifecycle,
	} {
		report, err := run()
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// SimMaster is the batch contract shared by the master scenarios.
type SimMaster struct {
	Address             string
	LeaderDepositWallet string
	ReinsurerPoolWallet string
	Insurers            []string
	Deposits            []string
	PoolWallets         []string
	ReinsurerDeposit    string

	nextChild uint64
}

// SimFlightNo is the flight every simulated child policy covers.
const SimFlightNo = "OZ102"

var (
	simPremium = sdkmath.NewInt(1_000_000)
	simTiers   = types.PayoutTiers{
		Tier1: sdkmath.NewInt(500_000),
		Tier2: sdkmath.NewInt(750_000),
		Tier3: sdkmath.NewInt(1_000_000),
		Tier4: sdkmath.NewInt(1_500_000),
	}
)

// SetupMaster creates, confirms and activates a master with ceded 50%,
// commission 10% and participants {50%, 30%, 20%}, then pre-funds every
// claim pool.
func (s *Simulation) SetupMaster() (*SimMaster, error) {
	now := s.ledger.Now().Unix()
	m := &SimMaster{
		Insurers:         []string{Actor("leader"), Actor("insurer-b"), Actor("insurer-c")},
		Deposits:         []string{Actor("leader-deposit"), Actor("insurer-b-deposit"), Actor("insurer-c-deposit")},
		ReinsurerDeposit: Actor("reinsurer-deposit"),
		nextChild:        1,
	}
	reinsurer := Actor("reinsurer")

	res, err := s.exec(&types.MsgCreateMasterPolicy{
		Leader:                 m.Insurers[0],
		Reinsurer:              reinsurer,
		ReinsurerDepositWallet: m.ReinsurerDeposit,
		MasterId:               1,
		CoverageStart:          now,
		CoverageEnd:            now + 30*86400,
		PremiumPerPolicy:       simPremium,
		PayoutTiers:            simTiers,
		CededRatioBps:          5000,
		ReinsCommissionBps:     1000,
		Participants: []types.ParticipantShare{
			{Insurer: m.Insurers[0], RatioBps: 5000},
			{Insurer: m.Insurers[1], RatioBps: 3000},
			{Insurer: m.Insurers[2], RatioBps: 2000},
		},
	})
	if err != nil {
		return nil, err
	}
	created := res.(*types.MsgCreateMasterPolicyResponse)
	m.Address = created.Master
	m.LeaderDepositWallet = created.LeaderDepositWallet
	m.ReinsurerPoolWallet = created.ReinsurerPoolWallet

	for i, insurer := range m.Insurers {
		res, err := s.exec(&types.MsgRegisterParticipantWallets{Signer: insurer, Master: m.Address, DepositWallet: m.Deposits[i]})
		if err != nil {
			return nil, err
		}
		m.PoolWallets = append(m.PoolWallets, res.(*types.MsgRegisterParticipantWalletsResponse).PoolWallet)
		if _, err := s.exec(&types.MsgConfirmMaster{Signer: insurer, Master: m.Address, Role: types.ConfirmRoleParticipant}); err != nil {
			return nil, err
		}
	}
	if _, err := s.exec(&types.MsgConfirmMaster{Signer: reinsurer, Master: m.Address, Role: types.ConfirmRoleReinsurer}); err != nil {
		return nil, err
	}
	if _, err := s.exec(&types.MsgActivateMaster{Signer: m.Insurers[0], Master: m.Address}); err != nil {
		return nil, err
	}

	for _, pool := range append([]string{m.ReinsurerPoolWallet}, m.PoolWallets...) {
		if err := s.ledger.Fund(pool, simTiers.Max().MulRaw(10)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// IssueFlight sells one flight policy departing an hour from now and
// returns its child id and departure time.
func (s *Simulation) IssueFlight(m *SimMaster) (uint64, int64, error) {
	child := m.nextChild
	m.nextChild++

	if err := s.ledger.Fund(m.Insurers[0], simPremium); err != nil {
		return 0, 0, err
	}
	departure := s.ledger.Now().Unix() + 3600
	_, err := s.exec(&types.MsgCreateFlightPolicy{
		Signer:        m.Insurers[0],
		Master:        m.Address,
		ChildId:       child,
		SubscriberRef: fmt.Sprintf("subscriber-%d", child),
		FlightNo:      SimFlightNo,
		Route:         "ICN-KIX",
		DepartureTs:   departure,
	})
	if err != nil {
		return 0, 0, err
	}
	return child, departure, nil
}

// issue sells one flight policy and reports its delay.
func (s *Simulation) issue(m *SimMaster, delay int64, cancelled bool) (uint64, *types.MsgResolveFlightDelayResponse, error) {
	child, _, err := s.IssueFlight(m)
	if err != nil {
		return 0, nil, err
	}
	res, err := s.exec(&types.MsgResolveFlightDelay{
		Signer:       m.Insurers[0],
		Master:       m.Address,
		ChildId:      child,
		DelayMinutes: delay,
		Cancelled:    cancelled,
	})
	if err != nil {
		return 0, nil, err
	}
	return child, res.(*types.MsgResolveFlightDelayResponse), nil
}

// ClaimWaterfall settles a 130-minute delay (tier 1, 500000) through the
// claim waterfall.
func (s *Simulation) ClaimWaterfall(m *SimMaster) (ScenarioReport, error) {
	child, _, err := s.issue(m, 130, false)
	if err != nil {
		return ScenarioReport{}, err
	}
	res, err := s.exec(&types.MsgSettleFlightClaim{Signer: m.Insurers[0], Master: m.Address, ChildId: child})
	if err != nil {
		return ScenarioReport{}, err
	}
	w := res.(*types.MsgSettleFlightClaimResponse).Waterfall

	balances, err := s.balances("leader deposit wallet", m.LeaderDepositWallet, "reinsurer pool", m.ReinsurerPoolWallet)
	if err != nil {
		return ScenarioReport{}, err
	}
	return ScenarioReport{Name: "claim waterfall", Waterfall: &w, Balances: balances}, nil
}

// PremiumWaterfall distributes the premium of an on-time flight.
func (s *Simulation) PremiumWaterfall(m *SimMaster) (ScenarioReport, error) {
	child, _, err := s.issue(m, 0, false)
	if err != nil {
		return ScenarioReport{}, err
	}
	res, err := s.exec(&types.MsgSettleFlightNoClaim{Signer: m.Insurers[0], Master: m.Address, ChildId: child})
	if err != nil {
		return ScenarioReport{}, err
	}
	w := res.(*types.MsgSettleFlightNoClaimResponse).Waterfall

	balances, err := s.balances(
		"reinsurer deposit", m.ReinsurerDeposit,
		"leader deposit", m.Deposits[0],
		"insurer-b deposit", m.Deposits[1],
		"insurer-c deposit", m.Deposits[2],
	)
	if err != nil {
		return ScenarioReport{}, err
	}
	return ScenarioReport{Name: "premium waterfall", Waterfall: &w, Balances: balances}, nil
}

// DelayTiers prices the reference delay reports against the master tiers.
func (s *Simulation) DelayTiers(m *SimMaster) (ScenarioReport, error) {
	report := ScenarioReport{Name: "delay tiers"}
	for _, obs := range []struct {
		delay     int64
		cancelled bool
	}{{110, false}, {130, false}, {210, false}, {250, false}, {380, false}, {30, true}} {
		_, res, err := s.issue(m, obs.delay, obs.cancelled)
		if err != nil {
			return report, err
		}
		report.Payouts = append(report.Payouts, TierPayout{DelayMinutes: obs.delay, Cancelled: obs.cancelled, Payout: res.Payout})
	}
	return report, nil
}

// PolicyLifecycle runs a single policy from creation to settlement: a
// {70%, 30%} syndicate escrows 1,000,000, a 130-minute delay pays tier 1
// and the residual returns to the insurers.
func (s *Simulation) PolicyLifecycle() (ScenarioReport, error) {
	leader, follower, beneficiary := Actor("policy-leader"), Actor("policy-follower"), Actor("policyholder")
	now := s.ledger.Now().Unix()

	res, err := s.exec(&types.MsgCreatePolicy{
		Leader:            leader,
		PolicyId:          1,
		Route:             "ICN-NRT",
		FlightNo:          "KE701",
		DepartureDate:     s.ledger.Now().Format("2006-01-02"),
		DelayThresholdMin: types.Tier1DelayMinutes,
		PayoutAmount:      sdkmath.NewInt(1_000_000),
		PayoutTiers: &types.PayoutTiers{
			Tier1: sdkmath.NewInt(400_000),
			Tier2: sdkmath.NewInt(600_000),
			Tier3: sdkmath.NewInt(800_000),
			Tier4: sdkmath.NewInt(1_000_000),
		},
		OracleFeed: SimulationFeed(),
		ActiveFrom: now + 3600,
		ActiveTo:   now + 2*86400,
		Participants: []types.ParticipantShare{
			{Insurer: leader, RatioBps: 7000},
			{Insurer: follower, RatioBps: 3000},
		},
	})
	if err != nil {
		return ScenarioReport{}, err
	}
	created := res.(*types.MsgCreatePolicyResponse)

	if _, err := s.exec(&types.MsgOpenUnderwriting{Leader: leader, Policy: created.Policy}); err != nil {
		return ScenarioReport{}, err
	}
	for i, insurer := range []string{leader, follower} {
		var required sdkmath.Int
		err := s.ledger.Query(func(ctx context.Context, _ types.QueryServer) error {
			uw, err := s.ledger.Keeper.Underwritings.Get(ctx, created.Policy)
			if err != nil {
				return err
			}
			required, err = uw.RequiredDeposit(i)
			return err
		})
		if err != nil {
			return ScenarioReport{}, err
		}
		if err := s.ledger.Fund(insurer, required); err != nil {
			return ScenarioReport{}, err
		}
		if _, err := s.exec(&types.MsgAcceptShare{Signer: insurer, Policy: created.Policy, Index: uint32(i), DepositAmount: required}); err != nil {
			return ScenarioReport{}, err
		}
	}

	s.clock.Advance(time.Hour)
	if _, err := s.exec(&types.MsgActivatePolicy{Leader: leader, Policy: created.Policy}); err != nil {
		return ScenarioReport{}, err
	}

	_, err = s.exec(&types.MsgCheckOracle{
		Signer: leader,
		Policy: created.Policy,
		Observation: types.DelayObservation{
			Feed:         SimulationFeed(),
			Round:        1,
			DelayMinutes: 130,
			ObservedAt:   s.ledger.Now().Unix(),
		},
	})
	if err != nil {
		return ScenarioReport{}, err
	}
	if _, err := s.exec(&types.MsgApproveClaim{Signer: leader, Policy: created.Policy, OracleRound: 1}); err != nil {
		return ScenarioReport{}, err
	}
	if _, err := s.exec(&types.MsgSettleClaim{Signer: leader, Policy: created.Policy, OracleRound: 1, Beneficiary: beneficiary}); err != nil {
		return ScenarioReport{}, err
	}

	balances, err := s.balances(
		"vault", created.Vault,
		"policyholder", beneficiary,
		"leader", leader,
		"follower", follower,
	)
	if err != nil {
		return ScenarioReport{}, err
	}
	return ScenarioReport{Name: "policy lifecycle", Balances: balances}, nil
}
