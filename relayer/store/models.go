// Package store contains GORM-backed SQLite models used by the relayer.
//
// Database Structure (database file: relayer.db):
//
//	data/
//	└── relayer.db
//	    ├── ledger_events
//	    ├── submissions
//	    └── observations
package store

import (
	"gorm.io/gorm"
)

// LedgerEvent is one typed event emitted by a committed ledger operation.
type LedgerEvent struct {
	gorm.Model
	Height     int64  `gorm:"index;not null"` // Block height the operation committed at
	Type       string `gorm:"index;not null"` // e.g. "policy_state_changed", "flight_settled"
	Subject    string `gorm:"index"`          // Policy, master or flight address the event is about
	Attributes []byte // Raw JSON-encoded event attributes
}

// Submission records every message the relayer handed to the ledger.
type Submission struct {
	gorm.Model
	MsgType  string `gorm:"index;not null"`
	Signer   string `gorm:"index"`
	Payload  []byte // Raw JSON-encoded message
	Status   string `gorm:"index;not null"` // "SUCCESS" or "FAILED"
	Height   int64  // Commit height (0 when failed)
	Attempts int    // Attempts made, including retries
	ErrorMsg string `gorm:"type:text"` // Error message if the ledger refused it
}

// Observation is a delay report fed to the relayer for a feed.
type Observation struct {
	gorm.Model
	Feed         string `gorm:"uniqueIndex:idx_feed_round;not null"` // Oracle feed reference or flight feed key
	Round        uint64 `gorm:"uniqueIndex:idx_feed_round"`
	DelayMinutes int64
	Cancelled    bool
	ObservedAt   int64 // Unix seconds
}
