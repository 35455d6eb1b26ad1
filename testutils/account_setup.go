package testutils

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	simtestutil "github.com/cosmos/cosmos-sdk/testutil/sims"
	"github.com/stretchr/testify/require"

	"github.com/EventSure/riskmesh-sub000/app"
)

// SetupTestAccounts creates cfg.NumAccounts deterministic accounts, each
// funded with cfg.DefaultCoinAmt of the settlement denom.
func SetupTestAccounts(t *testing.T, ledger *app.Ledger, cfg TestConfig) []string {
	t.Helper()
	accounts := make([]string, 0, cfg.NumAccounts)
	for _, addr := range simtestutil.CreateIncrementalAccounts(cfg.NumAccounts) {
		accounts = append(accounts, createAndFundAccount(t, ledger, addr.String(), cfg.DefaultCoinAmt))
	}
	return accounts
}

func createAndFundAccount(t *testing.T, ledger *app.Ledger, addr string, amount int64) string {
	t.Helper()
	if amount > 0 {
		require.NoError(t, ledger.Fund(addr, sdkmath.NewInt(amount)))
	}
	return addr
}

// RequireBalance asserts the settlement-denom balance of addr.
func RequireBalance(t *testing.T, ledger *app.Ledger, addr string, want int64) {
	t.Helper()
	got, err := ledger.Balance(addr)
	require.NoError(t, err)
	require.True(t, sdkmath.NewInt(want).Equal(got), "balance of %s: want %d got %s", addr, want, got)
}
