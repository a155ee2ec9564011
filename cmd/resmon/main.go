package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/resmon/internal/config"
	"github.com/Dicklesworthstone/resmon/internal/dashboard"
	"github.com/Dicklesworthstone/resmon/internal/errors"
	"github.com/Dicklesworthstone/resmon/internal/logger"
	"github.com/Dicklesworthstone/resmon/internal/sampler"
	"github.com/Dicklesworthstone/resmon/internal/terminal"
)

// VERSION is set during build via ldflags
var VERSION = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resmon",
		Short: "Live terminal dashboard of CPU, memory, disks and processes",
		Long: `resmon takes over the terminal and refreshes a single screen of host
metrics until q, Esc or Ctrl+C is pressed.

Environment:
  RESMON_INTERVAL   refresh interval, 200ms to 400ms (default 250ms)
  RESMON_LOG_FILE   log file path (default /tmp/resmon.log, empty disables)
  RESMON_DEBUG      log every refresh when true`,
		Version:            VERSION,
		Args:               cobra.NoArgs,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd)
		},
	}
	cmd.SetVersionTemplate("resmon {{.Version}}\n")
	return cmd
}

func run(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tty := terminal.New(os.Stdin, os.Stdout, log)
	src := sampler.New(log)
	return dashboard.New(tty, src, cfg.Interval, log).Run(ctx)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
