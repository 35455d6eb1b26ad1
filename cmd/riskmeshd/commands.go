package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	sdkmath "cosmossdk.io/math"
	sdkversion "github.com/cosmos/cosmos-sdk/version"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/EventSure/riskmesh-sub000/app"
	"github.com/EventSure/riskmesh-sub000/relayer/config"
	"github.com/EventSure/riskmesh-sub000/relayer/core"
	"github.com/EventSure/riskmesh-sub000/relayer/logger"
	"github.com/EventSure/riskmesh-sub000/x/parametric/types"
)

func InitRootCmd(rootCmd *cobra.Command, v *viper.Viper) {
	rootCmd.AddCommand(initCmd(v))
	rootCmd.AddCommand(startCmd(v))
	rootCmd.AddCommand(simulateCmd(v))
	rootCmd.AddCommand(waterfallCmd(v))
	rootCmd.AddCommand(versionCmd())
}

func initCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default relayer config to <home>/config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := v.GetString(flagHome)
			cfg, err := config.LoadDefaultConfig()
			if err != nil {
				return err
			}
			cfg.NodeHome = home
			if op := v.GetString("operator-address"); op != "" {
				cfg.OperatorAddress = op
			}
			if err := config.Save(cfg, home); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", home)
			return nil
		},
	}
	cmd.Flags().String("operator-address", "", "address the sweeper signs as")
	return cmd
}

func startCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the ledger with its query server, sweeper and audit trail",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v.GetString(flagHome))
			if err != nil {
				return errors.Wrap(err, "failed to load config, run `riskmeshd init` first")
			}
			if cmd.Flags().Changed(flagLogLevel) {
				cfg.LogLevel = v.GetInt(flagLogLevel)
			}
			if cmd.Flags().Changed(flagLogFormat) {
				cfg.LogFormat = v.GetString(flagLogFormat)
			}

			log := logger.Init(cfg)
			relayer, err := core.New(&cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return relayer.Start(ctx)
		},
	}
	cmd.Flags().Int(flagLogLevel, 1, "log level (0=debug ... 5=panic)")
	cmd.Flags().String(flagLogFormat, "console", "log format: console or json")
	return cmd
}

func simulateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the reference settlement scenarios on a throwaway ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.NewWithWriter(cmd.ErrOrStderr(), v.GetInt(flagLogLevel), "console", false)
			sim, err := app.NewSimulation(logger.Ledger(log))
			if err != nil {
				return err
			}
			defer sim.Close()

			reports, err := sim.RunAll()
			if err != nil {
				return err
			}
			return printReports(cmd.OutOrStdout(), reports, v.GetString(flagOutput))
		},
	}
	cmd.Flags().Int(flagLogLevel, 3, "log level (0=debug ... 5=panic)")
	cmd.Flags().StringP(flagOutput, "o", "text", "output format: text or json")
	return cmd
}

func printReports(out io.Writer, reports []app.ScenarioReport, format string) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range reports {
		fmt.Fprintf(tw, "== %s\n", r.Name)
		if r.Waterfall != nil {
			fmt.Fprintf(tw, "waterfall\t%s\n", r.Waterfall)
		}
		for _, p := range r.Payouts {
			fmt.Fprintf(tw, "delay %dm\tcancelled=%t\t%s\n", p.DelayMinutes, p.Cancelled, p.Payout)
		}
		for _, b := range r.Balances {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Label, b.Address, b.Amount)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func waterfallCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waterfall [total]",
		Short: "Preview how a settlement amount splits between reinsurer and participants",
		Args:  cobra.ExactArgs(1),
		Example: "riskmeshd waterfall 80000000 --ceded-bps 5000 --commission-bps 1000 --shares 5000,3000,2000",
		RunE: func(cmd *cobra.Command, args []string) error {
			total, ok := sdkmath.NewIntFromString(args[0])
			if !ok {
				return errors.Errorf("invalid total %q", args[0])
			}
			shares, err := parseBps(v.GetString("shares"))
			if err != nil {
				return err
			}
			ceded, err := cast.ToUint32E(v.GetString("ceded-bps"))
			if err != nil {
				return errors.Wrap(err, "invalid ceded-bps")
			}
			commission, err := cast.ToUint32E(v.GetString("commission-bps"))
			if err != nil {
				return errors.Wrap(err, "invalid commission-bps")
			}
			if ceded > types.BasisPointsTotal || commission > types.BasisPointsTotal {
				return errors.Errorf("basis points must not exceed %d", types.BasisPointsTotal)
			}

			w, err := types.ComputeWaterfall(total, types.EffectiveReinsurerBps(ceded, commission), shares)
			if err != nil {
				return err
			}
			if v.GetString(flagOutput) == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(w)
			}
			fmt.Fprintln(cmd.OutOrStdout(), w.String())
			return nil
		},
	}
	cmd.Flags().String("shares", "10000", "comma separated participant shares in basis points")
	cmd.Flags().String("ceded-bps", "0", "share ceded to the reinsurer in basis points")
	cmd.Flags().String("commission-bps", "0", "reinsurance commission in basis points")
	cmd.Flags().StringP(flagOutput, "o", "text", "output format: text or json")
	return cmd
}

func parseBps(s string) ([]uint32, error) {
	parts := strings.Split(s, ",")
	out := make([]uint32, 0, len(parts))
	for _, p := range parts {
		bps, err := cast.ToUint32E(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid share %q", p)
		}
		out = append(out, bps)
	}
	return out, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print riskmeshd version info",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:       %s\n", sdkversion.Name)
			fmt.Fprintf(out, "App Name:   %s\n", app.AppName)
			fmt.Fprintf(out, "Version:    %s\n", sdkversion.Version)
			fmt.Fprintf(out, "Commit:     %s\n", sdkversion.Commit)
			fmt.Fprintf(out, "Build Tags: %s\n", sdkversion.BuildTags)
		},
	}
}
