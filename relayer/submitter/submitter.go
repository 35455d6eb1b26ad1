// Package submitter hands messages to the ledger with retry and records
// every outcome in the audit trail.
package submitter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/EventSure/riskmesh-sub000/app"
	"github.com/EventSure/riskmesh-sub000/relayer/errors"
	"github.com/EventSure/riskmesh-sub000/relayer/eventstore"
	"github.com/EventSure/riskmesh-sub000/relayer/metrics"
	"github.com/EventSure/riskmesh-sub000/relayer/store"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// Ledger is the part of app.Ledger the submitter drives.
type Ledger interface {
	Execute(msg types.Msg) (app.Result, error)
}

type Submitter struct {
	ledger  Ledger
	events  *eventstore.Store
	metrics *metrics.Metrics
	retry   *errors.RetryConfig
	logger  zerolog.Logger
}

// New creates a Submitter. events and m may be nil to skip the audit
// trail or metrics.
func New(ledger Ledger, events *eventstore.Store, m *metrics.Metrics, retry *errors.RetryConfig, logger zerolog.Logger) *Submitter {
	if retry == nil {
		retry = errors.DefaultRetryConfig()
	}
	return &Submitter{
		ledger:  ledger,
		events:  events,
		metrics: m,
		retry:   retry,
		logger:  logger.With().Str("component", "submitter").Logger(),
	}
}

// Submit executes msg, retrying timing-gated rejections with backoff. The
// returned error wraps the ledger's so errors.Is against the module's
// registered errors keeps working.
func (s *Submitter) Submit(ctx context.Context, msg types.Msg) (app.Result, error) {
	msgType := msg.Type()
	start := time.Now()

	var (
		res      app.Result
		attempts int
	)
	op := &errors.RetryOperation{
		Name:   msgType,
		Config: s.retry,
		Fn: func() error {
			attempts++
			var err error
			res, err = s.ledger.Execute(msg)
			if err != nil {
				return errors.FromLedger(msgType, err)
			}
			return nil
		},
		OnRetry: func(attempt int, err error) {
			if s.metrics != nil {
				s.metrics.Retries.WithLabelValues(msgType).Inc()
			}
			s.logger.Debug().Err(err).Str("msg_type", msgType).Int("attempt", attempt).Msg("retrying submission")
		},
	}
	err := op.Execute(ctx)

	if s.metrics != nil {
		s.metrics.ObserveSubmission(msgType, res.Height, time.Since(start), err)
	}
	s.record(msg, res, attempts, err)

	if err != nil {
		s.logger.Warn().Err(err).Str("msg_type", msgType).Int("attempts", attempts).Msg("submission failed")
		return app.Result{}, err
	}
	s.logger.Info().Str("msg_type", msgType).Int64("height", res.Height).Msg("submission committed")
	return res, nil
}

// record writes the audit trail. The ledger has already decided the
// outcome, so store failures are only logged.
func (s *Submitter) record(msg types.Msg, res app.Result, attempts int, submitErr error) {
	if s.events == nil {
		return
	}

	payload, mErr := json.Marshal(msg)
	if mErr != nil {
		s.logger.Error().Err(mErr).Msg("failed to encode submission payload")
	}
	sub := &store.Submission{
		MsgType:  msg.Type(),
		Payload:  payload,
		Status:   eventstore.StatusSuccess,
		Height:   res.Height,
		Attempts: attempts,
	}
	if signers := msg.GetSigners(); len(signers) > 0 && !signers[0].Empty() {
		sub.Signer = signers[0].String()
	}
	if submitErr != nil {
		sub.Status = eventstore.StatusFailed
		sub.ErrorMsg = submitErr.Error()
	}

	if err := s.events.RecordSubmission(sub); err != nil {
		s.logger.Error().Err(err).Msg("failed to record submission")
	}
	if submitErr == nil {
		if err := s.events.RecordEvents(res.Height, res.Events); err != nil {
			s.logger.Error().Err(err).Int64("height", res.Height).Msg("failed to record events")
		}
	}
}
