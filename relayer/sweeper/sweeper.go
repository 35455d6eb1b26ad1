// Package sweeper submits the operations that become due with the passage of
// time or the arrival of oracle data: activation, expiry, oracle checks and
// flight resolution.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/EventSure/riskmesh-sub000/app"
	"github.com/EventSure/riskmesh-sub000/relayer/feed"
	"github.com/EventSure/riskmesh-sub000/relayer/metrics"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// Action labels used in logs and metrics.
const (
	ActionActivate = "activate"
	ActionExpire   = "expire"
	ActionCheck    = "check_oracle"
	ActionResolve  = "resolve_flight"
)

// Ledger is the read side of app.Ledger.
type Ledger interface {
	Query(fn func(ctx context.Context, qs types.QueryServer) error) error
	Now() time.Time
}

// Submitter executes messages against the ledger.
type Submitter interface {
	Submit(ctx context.Context, msg types.Msg) (app.Result, error)
}

type Options struct {
	// Operator signs every sweeper operation. Leader-only work is skipped
	// for policies and masters it does not lead or operate.
	Operator        string
	Interval        time.Duration
	AutoActivate    bool
	AutoExpire      bool
	AutoCheckOracle bool
	AutoResolve     bool
}

// Report counts the operations committed by one pass.
type Report struct {
	Activated int
	Expired   int
	Checked   int
	Resolved  int
	Failed    int
}

type Sweeper struct {
	ledger    Ledger
	submitter Submitter
	source    feed.Source
	metrics   *metrics.Metrics
	opts      Options
	logger    zerolog.Logger

	mu sync.Mutex
	// last observation round submitted per policy
	checked map[string]uint64

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(ledger Ledger, submitter Submitter, source feed.Source, m *metrics.Metrics, opts Options, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		ledger:    ledger,
		submitter: submitter,
		source:    source,
		metrics:   m,
		opts:      opts,
		logger:    logger.With().Str("component", "sweeper").Logger(),
		checked:   make(map[string]uint64),
		stopCh:    make(chan struct{}),
	}
}

// Start runs a pass per interval until ctx is done or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	if s.opts.Operator == "" {
		s.logger.Warn().Msg("no operator address configured, sweeper disabled")
		return
	}
	s.logger.Info().Dur("interval", s.opts.Interval).Str("operator", s.opts.Operator).Msg("starting sweeper")

	ticker := time.NewTicker(s.opts.Interval)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				report, err := s.RunOnce(ctx)
				if err != nil {
					s.logger.Error().Err(err).Msg("sweep failed")
					continue
				}
				s.logReport(report)
			}
		}
	}()
}

// Stop halts the sweeper and waits for an in-flight pass to finish, so the
// ledger can be closed once it returns. Repeated calls are no-ops.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// RunOnce performs one pass. Individual rejected operations are counted in
// the report; only failures to read the ledger abort the pass.
func (s *Sweeper) RunOnce(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report Report
	if s.opts.Operator == "" {
		return report, nil
	}

	if s.opts.AutoActivate || s.opts.AutoExpire {
		if err := s.sweepLifecycle(ctx, &report); err != nil {
			return report, err
		}
	}
	if s.opts.AutoCheckOracle {
		if err := s.sweepOracle(ctx, &report); err != nil {
			return report, err
		}
	}
	if s.opts.AutoResolve {
		if err := s.sweepFlights(ctx, &report); err != nil {
			return report, err
		}
	}

	if s.metrics != nil {
		s.metrics.SweepRuns.Inc()
	}
	return report, nil
}

func (s *Sweeper) policies(state types.PolicyState) ([]types.Policy, error) {
	var out []types.Policy
	err := s.ledger.Query(func(ctx context.Context, qs types.QueryServer) error {
		res, err := qs.PoliciesByState(ctx, &types.QueryPoliciesByStateRequest{State: state})
		if err != nil {
			return err
		}
		out = res.Policies
		return nil
	})
	return out, err
}

// sweepLifecycle activates Funded policies whose window opened, then expires
// Active ones past active_to. A Funded policy that missed its window is
// activated and expired in the same pass.
func (s *Sweeper) sweepLifecycle(ctx context.Context, report *Report) error {
	now := s.ledger.Now().Unix()

	if s.opts.AutoActivate {
		funded, err := s.policies(types.PolicyStateFunded)
		if err != nil {
			return err
		}
		for _, p := range funded {
			if now >= p.ActiveFrom && p.IsLeaderOrOperator(s.opts.Operator) {
				msg := &types.MsgActivatePolicy{Leader: s.opts.Operator, Policy: p.Address}
				s.submit(ctx, ActionActivate, msg, &report.Activated, report)
			}
		}
	}

	if s.opts.AutoExpire {
		active, err := s.policies(types.PolicyStateActive)
		if err != nil {
			return err
		}
		for _, p := range active {
			if now >= p.ActiveTo {
				msg := &types.MsgExpirePolicy{Signer: s.opts.Operator, Policy: p.Address}
				s.submit(ctx, ActionExpire, msg, &report.Expired, report)
			}
		}
	}
	return nil
}

func (s *Sweeper) sweepOracle(ctx context.Context, report *Report) error {
	policies, err := s.policies(types.PolicyStateActive)
	if err != nil {
		return err
	}
	for _, p := range policies {
		obs, ok, err := s.source.Latest(ctx, p.OracleFeed)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if last, seen := s.checked[p.Address]; seen && obs.Round <= last {
			continue
		}
		// each round is offered once whatever the outcome
		s.checked[p.Address] = obs.Round

		msg := &types.MsgCheckOracle{Signer: s.opts.Operator, Policy: p.Address, Observation: obs}
		s.submit(ctx, ActionCheck, msg, &report.Checked, report)
	}
	return nil
}

func (s *Sweeper) sweepFlights(ctx context.Context, report *Report) error {
	var pending []struct {
		master types.MasterPolicy
		flight types.FlightPolicy
	}
	err := s.ledger.Query(func(ctx context.Context, qs types.QueryServer) error {
		masters, err := qs.MasterPolicies(ctx, &types.QueryMasterPoliciesRequest{Status: types.MasterStatusActive})
		if err != nil {
			return err
		}
		for _, m := range masters.Masters {
			if !m.IsLeaderOrOperator(s.opts.Operator) {
				continue
			}
			flights, err := qs.FlightPolicies(ctx, &types.QueryFlightPoliciesRequest{
				Master: m.Address,
				Status: types.FlightStatusAwaitingOracle,
			})
			if err != nil {
				return err
			}
			for _, f := range flights.Flights {
				pending = append(pending, struct {
					master types.MasterPolicy
					flight types.FlightPolicy
				}{m, f})
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range pending {
		obs, ok, err := s.source.Latest(ctx, p.flight.FeedKey())
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		msg := &types.MsgResolveFlightDelay{
			Signer:       s.opts.Operator,
			Master:       p.master.Address,
			ChildId:      p.flight.ChildId,
			DelayMinutes: obs.DelayMinutes,
			Cancelled:    obs.Cancelled,
		}
		s.submit(ctx, ActionResolve, msg, &report.Resolved, report)
	}
	return nil
}

func (s *Sweeper) submit(ctx context.Context, action string, msg types.Msg, counter *int, report *Report) {
	outcome := metrics.OutcomeSuccess
	if _, err := s.submitter.Submit(ctx, msg); err != nil {
		outcome = metrics.OutcomeFailed
		report.Failed++
		s.logger.Warn().Err(err).Str("action", action).Msg("sweep operation rejected")
	} else {
		*counter++
	}
	if s.metrics != nil {
		s.metrics.SweepOperations.WithLabelValues(action, outcome).Inc()
	}
}

func (s *Sweeper) logReport(r Report) {
	if r == (Report{}) {
		return
	}
	s.logger.Info().
		Int("activated", r.Activated).
		Int("expired", r.Expired).
		Int("checked", r.Checked).
		Int("resolved", r.Resolved).
		Int("failed", r.Failed).
		Msg("sweep completed")
}
