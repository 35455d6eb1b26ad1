package eventstore

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/EventSure/riskmesh-sub000/relayer/store"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// subjectKeys are the event attributes naming the account an event is
// about, most specific first.
var subjectKeys = []string{"flight", "claim", "policy", "master"}

// Filter narrows GetEvents. Zero fields match everything.
type Filter struct {
	Type       string
	Subject    string
	FromHeight int64
	Limit      int
}

// Store provides database access for committed ledger events and the
// submissions that produced them.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewStore creates a new event store.
func NewStore(db *gorm.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "event_store").Logger(),
	}
}

// RecordEvents stores every event of a committed operation in one transaction.
func (s *Store) RecordEvents(height int64, events sdk.Events) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]store.LedgerEvent, 0, len(events))
	for _, ev := range events {
		attrs := make(map[string]string, len(ev.Attributes))
		for _, a := range ev.Attributes {
			attrs[a.Key] = a.Value
		}
		bz, err := json.Marshal(attrs)
		if err != nil {
			return errors.Wrapf(err, "failed to encode attributes of %s", ev.Type)
		}
		rows = append(rows, store.LedgerEvent{
			Height:     height,
			Type:       ev.Type,
			Subject:    subjectOf(attrs),
			Attributes: bz,
		})
	}

	if err := s.db.Create(&rows).Error; err != nil {
		return errors.Wrapf(err, "failed to store events at height %d", height)
	}
	s.logger.Debug().
		Int64("height", height).
		Int("count", len(rows)).
		Msg("stored ledger events")
	return nil
}

func subjectOf(attrs map[string]string) string {
	for _, k := range subjectKeys {
		if v, ok := attrs[k]; ok {
			return v
		}
	}
	return ""
}

// GetEvents returns events matching f, oldest first.
func (s *Store) GetEvents(f Filter) ([]store.LedgerEvent, error) {
	query := s.db.Model(&store.LedgerEvent{})
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Subject != "" {
		query = query.Where("subject = ?", f.Subject)
	}
	if f.FromHeight > 0 {
		query = query.Where("height >= ?", f.FromHeight)
	}
	query = query.Order("height ASC, id ASC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var events []store.LedgerEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query ledger events")
	}
	return events, nil
}

// RecordSubmission stores the outcome of handing one message to the ledger.
func (s *Store) RecordSubmission(sub *store.Submission) error {
	if err := s.db.Create(sub).Error; err != nil {
		return errors.Wrapf(err, "failed to store submission %s", sub.MsgType)
	}
	return nil
}

// GetSubmissions returns the latest submissions with the given status.
// An empty status matches all.
func (s *Store) GetSubmissions(status string, limit int) ([]store.Submission, error) {
	var subs []store.Submission
	query := s.db.Order("created_at DESC, id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&subs).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to query submissions with status %q", status)
	}
	return subs, nil
}

// DeleteOlderThan hard-deletes events and submissions created before now-retention.
func (s *Store) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	var total int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Where("created_at < ?", cutoff).Delete(&store.LedgerEvent{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to delete old ledger events")
		}
		total += res.RowsAffected

		res = tx.Unscoped().Where("created_at < ?", cutoff).Delete(&store.Submission{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "failed to delete old submissions")
		}
		total += res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
