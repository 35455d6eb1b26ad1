package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relayerrors "github.com/EventSure/riskmesh-sub000/relayer/errors"
)

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name        string
		config      *Config
		expectError bool
		errorMsg    string
		validate    func(t *testing.T, cfg *Config)
	}{
		{
			name: "Valid config with all fields",
			config: &Config{
				LogLevel:             2,
				LogFormat:            "json",
				LedgerBackend:        LedgerBackendMemory,
				Denom:                "uusd",
				QueryServerPort:      9000,
				SweepIntervalSeconds: 5,
			},
		},
		{
			name: "Invalid log level (negative)",
			config: &Config{
				LogLevel:  -1,
				LogFormat: "json",
			},
			expectError: true,
			errorMsg:    "log level must be between 0 and 5",
		},
		{
			name: "Invalid log format",
			config: &Config{
				LogLevel:  2,
				LogFormat: "xml",
			},
			expectError: true,
			errorMsg:    "log format must be 'json' or 'console'",
		},
		{
			name: "Invalid ledger backend",
			config: &Config{
				LogFormat:     "json",
				LedgerBackend: "rocksdb",
			},
			expectError: true,
			errorMsg:    "ledger backend must be 'memdb' or 'goleveldb'",
		},
		{
			name: "Invalid denom",
			config: &Config{
				LogFormat: "json",
				Denom:     "1!",
			},
			expectError: true,
			errorMsg:    "invalid denom",
		},
		{
			name: "Config with defaults applied",
			config: &Config{
				LogLevel:  1,
				LogFormat: "console",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, LedgerBackendLevelDB, cfg.LedgerBackend)
				assert.Equal(t, "urisk", cfg.Denom)
				assert.Equal(t, 8080, cfg.QueryServerPort)
				assert.Equal(t, "relayer.db", cfg.DatabaseFile)
				assert.Equal(t, 3600, cfg.EventCleanupIntervalSeconds)
				assert.Equal(t, 604800, cfg.EventRetentionPeriodSeconds)
				assert.Equal(t, 30, cfg.SweepIntervalSeconds)
				assert.Equal(t, 3, cfg.MaxRetries)
				assert.Equal(t, 1, cfg.RetryBackoffSeconds)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateConfig(tc.config)
			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errorMsg)
				return
			}
			require.NoError(t, err)
			if tc.validate != nil {
				tc.validate(t, tc.config)
			}
		})
	}
}

func TestValidateConfig_ReturnsConfigError(t *testing.T) {
	err := validateConfig(&Config{LogLevel: 9, LogFormat: "json"})
	require.Error(t, err)
	assert.True(t, relayerrors.IsRelayerError(err, relayerrors.ErrCodeConfig))
}

func TestLoadDefaultConfig(t *testing.T) {
	cfg, err := LoadDefaultConfig()
	require.NoError(t, err)
	require.NoError(t, validateConfig(cfg))

	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, LedgerBackendLevelDB, cfg.LedgerBackend)
	assert.True(t, cfg.AutoExpire)
	assert.True(t, cfg.MetricsEnabled)
}

func TestSaveAndLoad(t *testing.T) {
	home := t.TempDir()
	cfg, err := LoadDefaultConfig()
	require.NoError(t, err)
	cfg.OperatorAddress = "riskmesh1operator"
	cfg.QueryServerPort = 8181

	require.NoError(t, Save(cfg, home))
	_, err = os.Stat(filepath.Join(home, "config", "riskmesh_config.json"))
	require.NoError(t, err)

	loaded, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, 8181, loaded.QueryServerPort)
	assert.Equal(t, "riskmesh1operator", loaded.OperatorAddress)
	assert.Equal(t, home, loaded.NodeHome)
	assert.Equal(t, filepath.Join(home, "data"), loaded.DataDir())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestSave_RejectsInvalid(t *testing.T) {
	err := Save(&Config{LogFormat: "xml"}, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("RISKMESH_LOG_LEVEL", "0")
	t.Setenv("RISKMESH_LOG_FORMAT", "json")
	t.Setenv("RISKMESH_LEDGER_BACKEND", "memdb")
	t.Setenv("RISKMESH_AUTO_EXPIRE", "false")
	t.Setenv("RISKMESH_QUERY_SERVER_PORT", " 9191 ")

	cfg, err := LoadDefaultConfig()
	require.NoError(t, err)
	require.NoError(t, ApplyEnvOverrides(cfg))

	assert.Equal(t, 0, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, LedgerBackendMemory, cfg.LedgerBackend)
	assert.False(t, cfg.AutoExpire)
	assert.Equal(t, 9191, cfg.QueryServerPort)
}

func TestApplyEnvOverrides_InvalidValues(t *testing.T) {
	t.Setenv("RISKMESH_MAX_RETRIES", "many")
	t.Setenv("RISKMESH_AUTO_ACTIVATE", "perhaps")

	cfg := &Config{}
	err := ApplyEnvOverrides(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RISKMESH_MAX_RETRIES")
	assert.Contains(t, err.Error(), "RISKMESH_AUTO_ACTIVATE")
}
