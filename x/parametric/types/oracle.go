package types

import (
	"fmt"

	"cosmossdk.io/errors"
	"github.com/mr-tron/base58"
)

// FeedKeyLength is the decoded size of an oracle feed reference.
const FeedKeyLength = 32

// DelayObservation is one reading of the external delay feed.
type DelayObservation struct {
	Feed         string `json:"feed"`
	Round        uint64 `json:"round"`
	DelayMinutes int64  `json:"delay_minutes"`
	Cancelled    bool   `json:"cancelled"`
	ObservedAt   int64  `json:"observed_at"` // unix seconds
}

func (o DelayObservation) String() string {
	return fmt.Sprintf("feed=%s round=%d delay=%dm cancelled=%t observed_at=%d",
		o.Feed, o.Round, o.DelayMinutes, o.Cancelled, o.ObservedAt)
}

// ValidateDelayFormat rejects negative delays and delays that are not a
// multiple of the feed granularity.
func ValidateDelayFormat(delayMinutes, granularityMinutes int64) error {
	if delayMinutes < 0 {
		return errors.Wrapf(ErrOracleFormat, "negative delay %d", delayMinutes)
	}
	if granularityMinutes > 0 && delayMinutes%granularityMinutes != 0 {
		return errors.Wrapf(ErrOracleFormat, "delay %d is not a multiple of %d minutes", delayMinutes, granularityMinutes)
	}
	return nil
}

// ValidateFreshness rejects observations older than maxStalenessSeconds or
// stamped in the future relative to now.
func (o DelayObservation) ValidateFreshness(now, maxStalenessSeconds int64) error {
	if o.ObservedAt > now {
		return errors.Wrapf(ErrOracleStale, "observation at %d is after block time %d", o.ObservedAt, now)
	}
	if now-o.ObservedAt > maxStalenessSeconds {
		return errors.Wrapf(ErrOracleStale, "observation is %ds old, max %ds", now-o.ObservedAt, maxStalenessSeconds)
	}
	return nil
}

// CrossesThreshold reports whether the observation entitles a claim.
func (o DelayObservation) CrossesThreshold(thresholdMinutes int64) bool {
	return o.Cancelled || o.DelayMinutes >= thresholdMinutes
}

// ValidateFeedRef checks that feed is a base58 encoded 32 byte key.
func ValidateFeedRef(feed string) error {
	if feed == "" {
		return errors.Wrap(ErrInvalidInput, "oracle feed is empty")
	}
	bz, err := base58.Decode(feed)
	if err != nil {
		return errors.Wrapf(ErrInvalidInput, "oracle feed %q is not base58: %s", feed, err)
	}
	if len(bz) != FeedKeyLength {
		return errors.Wrapf(ErrInvalidInput, "oracle feed decodes to %d bytes, want %d", len(bz), FeedKeyLength)
	}
	return nil
}
