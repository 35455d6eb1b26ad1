package eventstore

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Cleaner periodically prunes the audit trail past its retention period.
type Cleaner struct {
	store           *Store
	logger          zerolog.Logger
	stopCh          chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
	cleanupInterval time.Duration
	retentionPeriod time.Duration
}

// NewCleaner creates a cleaner for s.
func NewCleaner(s *Store, interval, retention time.Duration, logger zerolog.Logger) *Cleaner {
	return &Cleaner{
		store:           s,
		cleanupInterval: interval,
		retentionPeriod: retention,
		logger:          logger.With().Str("component", "event_cleaner").Logger(),
		stopCh:          make(chan struct{}),
	}
}

// Start runs one cleanup immediately and then one per interval until ctx
// is done or Stop is called.
func (c *Cleaner) Start(ctx context.Context) {
	c.logger.Info().
		Dur("cleanup_interval", c.cleanupInterval).
		Dur("retention_period", c.retentionPeriod).
		Msg("starting event cleaner")

	c.performCleanup()

	ticker := time.NewTicker(c.cleanupInterval)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info().Msg("context cancelled, stopping event cleaner")
				return
			case <-c.stopCh:
				return
			case <-ticker.C:
				c.performCleanup()
			}
		}
	}()
}

// Stop halts the cleaner and waits for a running cleanup to return.
// Repeated calls are no-ops.
func (c *Cleaner) Stop() {
	c.stopOnce.Do(func() {
		c.logger.Info().Msg("stopping event cleaner")
		close(c.stopCh)
	})
	c.wg.Wait()
}

func (c *Cleaner) performCleanup() {
	start := time.Now()
	deleted, err := c.store.DeleteOlderThan(c.retentionPeriod)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to perform event cleanup")
		return
	}
	if deleted > 0 {
		c.logger.Info().
			Int64("total_deleted", deleted).
			Dur("duration", time.Since(start)).
			Msg("event cleanup completed")
	}
}
