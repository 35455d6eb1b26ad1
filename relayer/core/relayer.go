// Package core wires the ledger and the relayer services into one process.
package core

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	sdkmath "cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/EventSure/riskmesh-sub000/app"
	"github.com/EventSure/riskmesh-sub000/relayer/api"
	"github.com/EventSure/riskmesh-sub000/relayer/config"
	"github.com/EventSure/riskmesh-sub000/relayer/db"
	relayerrors "github.com/EventSure/riskmesh-sub000/relayer/errors"
	"github.com/EventSure/riskmesh-sub000/relayer/eventstore"
	"github.com/EventSure/riskmesh-sub000/relayer/feed"
	"github.com/EventSure/riskmesh-sub000/relayer/logger"
	"github.com/EventSure/riskmesh-sub000/relayer/metrics"
	"github.com/EventSure/riskmesh-sub000/relayer/submitter"
	"github.com/EventSure/riskmesh-sub000/relayer/sweeper"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

const ledgerDBName = "ledger"

type Relayer struct {
	cfg *config.Config
	log zerolog.Logger

	ledger    *app.Ledger
	db        *db.DB
	events    *eventstore.Store
	cleaner   *eventstore.Cleaner
	source    feed.Source
	metrics   *metrics.Metrics
	submitter *submitter.Submitter
	sweeper   *sweeper.Sweeper
	server    *api.Server
}

// New opens the ledger and the audit database described by cfg and builds
// every service on top of them. Nothing runs until Start.
func New(cfg *config.Config, log zerolog.Logger) (*Relayer, error) {
	r := &Relayer{cfg: cfg, log: log}

	ledgerDB, err := openLedgerDB(cfg)
	if err != nil {
		return nil, err
	}
	params := types.DefaultParams()
	params.Denom = cfg.Denom
	r.ledger, err = app.NewLedger(app.Options{
		DB:     ledgerDB,
		Logger: logger.Ledger(log),
		Params: &params,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open ledger")
	}

	if cfg.LedgerBackend == config.LedgerBackendMemory {
		r.db, err = db.OpenInMemoryDB(true)
	} else {
		r.db, err = db.OpenFileDB(cfg.DataDir(), cfg.DatabaseFile, true)
	}
	if err != nil {
		_ = r.ledger.Close()
		return nil, relayerrors.NewDatabaseError("open", "failed to open relayer database", err)
	}

	r.events = eventstore.NewStore(r.db.Client(), log)
	r.cleaner = eventstore.NewCleaner(
		r.events,
		time.Duration(cfg.EventCleanupIntervalSeconds)*time.Second,
		time.Duration(cfg.EventRetentionPeriodSeconds)*time.Second,
		log,
	)
	r.source = feed.NewDBSource(r.db.Client(), log)

	if cfg.MetricsEnabled {
		r.metrics = metrics.New()
	}

	retry := relayerrors.DefaultRetryConfig()
	retry.MaxAttempts = cfg.MaxRetries
	retry.InitialDelay = time.Duration(cfg.RetryBackoffSeconds) * time.Second
	r.submitter = submitter.New(r.ledger, r.events, r.metrics, retry, log)

	r.sweeper = sweeper.New(r.ledger, r.submitter, r.source, r.metrics, sweeper.Options{
		Operator:        cfg.OperatorAddress,
		Interval:        time.Duration(cfg.SweepIntervalSeconds) * time.Second,
		AutoActivate:    cfg.AutoActivate,
		AutoExpire:      cfg.AutoExpire,
		AutoCheckOracle: cfg.AutoCheckOracle,
		AutoResolve:     cfg.AutoResolveFlights,
	}, log)

	r.server = api.NewServer(log, cfg.QueryServerPort, r.ledger, r.submitter, r.events, r.source, r.metrics)
	return r, nil
}

func openLedgerDB(cfg *config.Config) (dbm.DB, error) {
	if cfg.LedgerBackend == config.LedgerBackendMemory {
		return dbm.NewMemDB(), nil
	}
	ldb, err := dbm.NewGoLevelDB(ledgerDBName, cfg.DataDir(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open ledger database in %s", cfg.DataDir())
	}
	return ldb, nil
}

func (r *Relayer) Ledger() *app.Ledger { return r.ledger }

// Submit hands msg to the ledger through the retrying submitter.
func (r *Relayer) Submit(ctx context.Context, msg types.Msg) (app.Result, error) {
	return r.submitter.Submit(ctx, msg)
}

// Fund mints settlement tokens into addr. Only meaningful for local networks.
func (r *Relayer) Fund(addr string, amt sdkmath.Int) error {
	return r.ledger.Fund(addr, amt)
}

// Start runs the services and blocks until ctx is done, then shuts down.
func (r *Relayer) Start(ctx context.Context) error {
	r.log.Info().
		Str("backend", string(r.cfg.LedgerBackend)).
		Int64("height", r.ledger.Height()).
		Msg("starting relayer")

	if err := r.server.Start(); err != nil {
		r.close()
		return errors.Wrap(err, "failed to start query server")
	}
	r.cleaner.Start(ctx)
	r.sweeper.Start(ctx)

	r.log.Info().Msg("initialization complete, entering main loop")
	<-ctx.Done()

	r.log.Info().Msg("shutting down relayer")
	// both return only after their loops exit, so nothing touches the
	// ledger or the event store once they are closed below
	r.sweeper.Stop()
	r.cleaner.Stop()
	if err := r.server.Stop(); err != nil {
		r.log.Error().Err(err).Msg("failed to stop query server")
	}
	return r.close()
}

// Close releases the databases without starting anything.
func (r *Relayer) Close() error {
	return r.close()
}

func (r *Relayer) close() error {
	var firstErr error
	if err := r.db.Close(); err != nil {
		firstErr = err
	}
	if err := r.ledger.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
