package testutils

import "time"

// GenesisTime is the block time every test ledger starts at.
var GenesisTime = time.Unix(1_767_225_600, 0).UTC()

type TestConfig struct {
	NumAccounts    int
	DefaultCoinAmt int64
}

func GetDefaultTestConfig() TestConfig {
	return TestConfig{
		NumAccounts:    8,
		DefaultCoinAmt: 100_000_000,
	}
}
