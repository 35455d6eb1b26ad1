package config

import "path/filepath"

// LedgerBackend selects the database behind the ledger multistore.
type LedgerBackend string

const (
	// LedgerBackendMemory keeps state in memory; it is lost on exit.
	LedgerBackendMemory LedgerBackend = "memdb"

	// LedgerBackendLevelDB persists state under <node_home>/data.
	LedgerBackendLevelDB LedgerBackend = "goleveldb"
)

type Config struct {
	// Log Config
	LogLevel   int    `json:"log_level"`   // e.g., 0 = debug, 1 = info, etc.
	LogFormat  string `json:"log_format"`  // "json" or "console"
	LogSampler bool   `json:"log_sampler"` // if true, samples logs (e.g., 1 in 5)

	// Node Config
	NodeHome string `json:"node_home"` // Node home directory (default: ~/.riskmesh)

	// Ledger Config
	LedgerBackend LedgerBackend `json:"ledger_backend"` // memdb or goleveldb
	Denom         string        `json:"denom"`          // settlement denom seeded at genesis (default: urisk)

	// OperatorAddress is the leader or operator the sweeper signs as. The
	// sweeper skips leader-only work when it is empty.
	OperatorAddress string `json:"operator_address"`

	// Query Server Config
	QueryServerPort int  `json:"query_server_port"` // Port for HTTP server (default: 8080)
	MetricsEnabled  bool `json:"metrics_enabled"`   // expose /metrics

	// Audit trail
	DatabaseFile                string `json:"database_file"`                  // sqlite file name under <node_home>/data
	EventCleanupIntervalSeconds int    `json:"event_cleanup_interval_seconds"` // How often to prune the audit trail (default: 3600)
	EventRetentionPeriodSeconds int    `json:"event_retention_period_seconds"` // How long to keep audit events (default: 604800)

	// Sweeper
	SweepIntervalSeconds int  `json:"sweep_interval_seconds"` // How often to look for due operations (default: 30)
	AutoActivate         bool `json:"auto_activate"`          // activate Funded policies once active_from passes
	AutoExpire           bool `json:"auto_expire"`            // expire policies once active_to passes
	AutoCheckOracle      bool `json:"auto_check_oracle"`      // submit fed observations to Active policies
	AutoResolveFlights   bool `json:"auto_resolve_flights"`   // resolve flights from fed observations

	// Retry
	MaxRetries          int `json:"max_retries"`           // Max attempts for timing-gated operations (default: 3)
	RetryBackoffSeconds int `json:"retry_backoff_seconds"` // Initial backoff (default: 1)
}

// DataDir is where the ledger database and the audit trail live.
func (c Config) DataDir() string {
	return filepath.Join(c.NodeHome, "data")
}
