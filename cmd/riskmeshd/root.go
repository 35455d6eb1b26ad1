package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/EventSure/riskmesh-sub000/utils/env"
)

const (
	flagHome      = "home"
	flagEnvFile   = "env-file"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagOutput    = "output"
)

// DefaultNodeHome is where config and data live unless --home says otherwise.
var DefaultNodeHome = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".riskmesh"
	}
	return filepath.Join(home, ".riskmesh")
}()

func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(strings.TrimSuffix(env.Prefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "riskmeshd",
		Short:         "Parametric flight-delay insurance settlement daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if path, _ := cmd.Flags().GetString(flagEnvFile); path != "" {
				if err := env.LoadEnvWithPath(path); err != nil {
					return err
				}
			}
			return v.BindPFlags(cmd.Flags())
		},
	}
	rootCmd.PersistentFlags().String(flagHome, DefaultNodeHome, "node home directory")
	rootCmd.PersistentFlags().String(flagEnvFile, "", "load RISKMESH_* variables from this .env file")

	InitRootCmd(rootCmd, v) // add subcommands like `start` and `version`

	return rootCmd
}
