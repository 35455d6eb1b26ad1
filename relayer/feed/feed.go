// Package feed holds delay observations reported by external oracles until
// the sweeper submits them to the ledger.
package feed

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EventSure/riskmesh-sub000/relayer/store"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

// ErrDuplicateRound is returned when a feed already holds the round.
var ErrDuplicateRound = errors.New("observation round already recorded")

// Source serves the most recent observation per feed. A feed is either a
// policy's oracle feed reference or a flight feed key.
type Source interface {
	Put(ctx context.Context, obs types.DelayObservation) error
	Latest(ctx context.Context, feed string) (types.DelayObservation, bool, error)
}

func validate(obs types.DelayObservation) error {
	if obs.Feed == "" {
		return errors.New("observation feed is empty")
	}
	if obs.DelayMinutes < 0 {
		return errors.Errorf("negative delay %d", obs.DelayMinutes)
	}
	return nil
}

// MemorySource keeps observations in memory.
type MemorySource struct {
	mu    sync.RWMutex
	feeds map[string][]types.DelayObservation
}

func NewMemorySource() *MemorySource {
	return &MemorySource{feeds: make(map[string][]types.DelayObservation)}
}

func (m *MemorySource) Put(_ context.Context, obs types.DelayObservation) error {
	if err := validate(obs); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rounds := m.feeds[obs.Feed]
	for _, o := range rounds {
		if o.Round == obs.Round {
			return errors.Wrapf(ErrDuplicateRound, "feed %s round %d", obs.Feed, obs.Round)
		}
	}
	rounds = append(rounds, obs)
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Round < rounds[j].Round })
	m.feeds[obs.Feed] = rounds
	return nil
}

func (m *MemorySource) Latest(_ context.Context, feed string) (types.DelayObservation, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rounds := m.feeds[feed]
	if len(rounds) == 0 {
		return types.DelayObservation{}, false, nil
	}
	return rounds[len(rounds)-1], true, nil
}

// DBSource persists observations in the relayer database so they survive
// restarts.
type DBSource struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewDBSource(db *gorm.DB, logger zerolog.Logger) *DBSource {
	return &DBSource{
		db:     db,
		logger: logger.With().Str("component", "feed").Logger(),
	}
}

func (s *DBSource) Put(ctx context.Context, obs types.DelayObservation) error {
	if err := validate(obs); err != nil {
		return err
	}
	row := store.Observation{
		Feed:         obs.Feed,
		Round:        obs.Round,
		DelayMinutes: obs.DelayMinutes,
		Cancelled:    obs.Cancelled,
		ObservedAt:   obs.ObservedAt,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "failed to store observation for %s", obs.Feed)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrDuplicateRound, "feed %s round %d", obs.Feed, obs.Round)
	}
	s.logger.Debug().Str("feed", obs.Feed).Uint64("round", obs.Round).Msg("stored observation")
	return nil
}

func (s *DBSource) Latest(ctx context.Context, feed string) (types.DelayObservation, bool, error) {
	var rows []store.Observation
	err := s.db.WithContext(ctx).
		Where("feed = ?", feed).
		Order("round DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return types.DelayObservation{}, false, errors.Wrapf(err, "failed to query observations for %s", feed)
	}
	if len(rows) == 0 {
		return types.DelayObservation{}, false, nil
	}
	r := rows[0]
	return types.DelayObservation{
		Feed:         r.Feed,
		Round:        r.Round,
		DelayMinutes: r.DelayMinutes,
		Cancelled:    r.Cancelled,
		ObservedAt:   r.ObservedAt,
	}, true, nil
}
