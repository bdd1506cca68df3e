// Command gap-report prints the missing-summit report once and exits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/summitgap/internal/config"
	"github.com/okian/summitgap/internal/gapreport"
	"github.com/okian/summitgap/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	view     string
	output   string
	user     string
	region   string
	logLevel string
}

func newRootCommand() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "gap-report",
		Short: "Print the summits still missing from a user's completions",
		Long: `gap-report fetches the valid summits of a region and the user's completes
(or summit-to-summit completes) and prints what is still missing.

Configuration is read like the server: defaults, SUMMITGAP_CONFIG YAML,
.env and SUMMITGAP_* environment variables. Flags override all of them.`,
		Example: `  gap-report
  gap-report --view s2s -o yaml
  gap-report --view all --user 46844 --region GM/ES -o json`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.view, "view", "completes", "completes, s2s or all")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "table, json or yaml (default: table on a terminal, json otherwise)")
	cmd.Flags().StringVar(&f.user, "user", "", "activator id (overrides SUMMITGAP_USER_ID)")
	cmd.Flags().StringVar(&f.region, "region", "", "region path such as GM/ES (overrides SUMMITGAP_REGION)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	ctx := cmd.Context()

	// Logs go to stderr so stdout stays machine-readable.
	if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if f.user != "" {
		cfg.UserID = f.user
	}
	if f.region != "" {
		cfg.Region = f.region
	}
	level := cfg.LogLevel
	if f.logLevel != "" {
		level = f.logLevel
	}
	if err := logger.SetLevelString(level); err != nil {
		return err
	}

	format, err := gapreport.ParseFormat(f.output)
	if err != nil {
		return err
	}
	format = gapreport.DetectFormat(format, os.Stdout.Fd())

	return gapreport.Run(ctx, gapreport.Options{
		Config: cfg,
		View:   f.view,
		Format: format,
		Logger: logger.Named("gap-report"),
	}, cmd.OutOrStdout())
}
