package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"

	relayerrors "github.com/EventSure/riskmesh-sub000/relayer/errors"
	"github.com/EventSure/riskmesh-sub000/utils/env"
)

const (
	configSubdir   = "config"
	configFileName = "riskmesh_config.json"
)

//go:embed default_config.json
var defaultConfigJSON []byte

func validateConfig(cfg *Config) error {
	// Validate log level
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return relayerrors.NewConfigError("log level must be between 0 and 5")
	}

	// Validate log format
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return relayerrors.NewConfigError("log format must be 'json' or 'console'")
	}

	if cfg.LedgerBackend == "" {
		cfg.LedgerBackend = LedgerBackendLevelDB
	}
	if cfg.LedgerBackend != LedgerBackendMemory && cfg.LedgerBackend != LedgerBackendLevelDB {
		return relayerrors.NewConfigError("ledger backend must be 'memdb' or 'goleveldb'")
	}
	if cfg.Denom == "" {
		cfg.Denom = "urisk"
	}
	if err := sdk.ValidateDenom(cfg.Denom); err != nil {
		return fmt.Errorf("invalid denom: %w", err)
	}

	if cfg.QueryServerPort == 0 {
		cfg.QueryServerPort = 8080
	}
	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = "relayer.db"
	}

	// Set defaults for audit trail cleanup
	if cfg.EventCleanupIntervalSeconds == 0 {
		cfg.EventCleanupIntervalSeconds = 3600
	}
	if cfg.EventRetentionPeriodSeconds == 0 {
		cfg.EventRetentionPeriodSeconds = 604800
	}

	if cfg.SweepIntervalSeconds == 0 {
		cfg.SweepIntervalSeconds = 30
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoffSeconds == 0 {
		cfg.RetryBackoffSeconds = 1
	}
	return nil
}

// Save writes the given config to <basePath>/config/riskmesh_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, configSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, configFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Load reads the config from <basePath>/config/riskmesh_config.json,
// applies environment overrides and validates the result.
func Load(basePath string) (Config, error) {
	configFile := filepath.Join(basePath, configSubdir, configFileName)
	data, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.NodeHome == "" {
		cfg.NodeHome = basePath
	}
	return cfg, nil
}

// LoadDefaultConfig loads the default configuration from embedded JSON
func LoadDefaultConfig() (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnvOverrides overwrites fields from RISKMESH_* variables. Unset
// variables leave the field alone.
func ApplyEnvOverrides(cfg *Config) error {
	var errs []string
	lookup := env.Lookup
	setInt := func(name string, dst *int) {
		if v, ok := lookup(name); ok {
			n, err := cast.ToIntE(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", env.Name(name), err))
				return
			}
			*dst = n
		}
	}
	setBool := func(name string, dst *bool) {
		if v, ok := lookup(name); ok {
			b, err := cast.ToBoolE(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", env.Name(name), err))
				return
			}
			*dst = b
		}
	}
	setString := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	setInt("LOG_LEVEL", &cfg.LogLevel)
	setString("LOG_FORMAT", &cfg.LogFormat)
	setBool("LOG_SAMPLER", &cfg.LogSampler)
	setString("NODE_HOME", &cfg.NodeHome)
	if v, ok := lookup("LEDGER_BACKEND"); ok {
		cfg.LedgerBackend = LedgerBackend(v)
	}
	setString("DENOM", &cfg.Denom)
	setString("OPERATOR_ADDRESS", &cfg.OperatorAddress)
	setInt("QUERY_SERVER_PORT", &cfg.QueryServerPort)
	setBool("METRICS_ENABLED", &cfg.MetricsEnabled)
	setInt("SWEEP_INTERVAL_SECONDS", &cfg.SweepIntervalSeconds)
	setBool("AUTO_ACTIVATE", &cfg.AutoActivate)
	setBool("AUTO_EXPIRE", &cfg.AutoExpire)
	setBool("AUTO_CHECK_ORACLE", &cfg.AutoCheckOracle)
	setBool("AUTO_RESOLVE_FLIGHTS", &cfg.AutoResolveFlights)
	setInt("MAX_RETRIES", &cfg.MaxRetries)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment overrides: %s", strings.Join(errs, "; "))
	}
	return nil
}
