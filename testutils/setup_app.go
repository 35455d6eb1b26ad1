package testutils

import (
	"testing"

	log "cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/EventSure/riskmesh-sub000/app"
)

type LedgerSetupOptions struct {
	TestConfig TestConfig
	DB         dbm.DB
}

// SetupLedger returns an in-memory ledger driven by a manual clock that
// starts at GenesisTime.
func SetupLedger(t *testing.T) (*app.Ledger, *app.ManualClock) {
	return SetupLedgerWithOptions(t, LedgerSetupOptions{TestConfig: GetDefaultTestConfig()})
}

func SetupLedgerWithOptions(t *testing.T, opts LedgerSetupOptions) (*app.Ledger, *app.ManualClock) {
	t.Helper()
	clock := app.NewManualClock(GenesisTime)

	ledger, err := app.NewLedger(app.Options{
		DB:     opts.DB,
		Logger: log.NewTestLogger(t),
		Clock:  clock.Now,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })

	return ledger, clock
}

// SetupLedgerWithAccounts also creates and funds the default test accounts.
func SetupLedgerWithAccounts(t *testing.T) (*app.Ledger, *app.ManualClock, []string) {
	ledger, clock := SetupLedger(t)
	accounts := SetupTestAccounts(t, ledger, GetDefaultTestConfig())
	return ledger, clock, accounts
}
