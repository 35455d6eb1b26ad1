package main

import (
	"fmt"
	"os"

	"github.com/EventSure/riskmesh-sub000/app"
	"github.com/EventSure/riskmesh-sub000/utils/env"
)

func main() {
	// Load environment variables from .env file if available
	env.LoadEnv()

	// Setup custom Bech32 prefixes and other Cosmos SDK config. The ledger
	// reapplies the same values, so the config is left unsealed.
	app.SetSDKConfig()

	// Construct root command
	rootCmd := NewRootCmd()

	// Execute CLI
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.OutOrStderr(), err)
		os.Exit(1)
	}
}
