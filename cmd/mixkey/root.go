package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/udisondev/mixkey/internal/config"
)

// app carries state shared by all subcommands.
type app struct {
	cfgPath string
	verbose bool
	cfg     config.MixKey
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "mixkey",
		Short:         "Recover Westwood MIX header keys and work with MIX archives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cfgPath := ConfigPath
	if p := os.Getenv("MIXKEY_CONFIG"); p != "" {
		cfgPath = p
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", cfgPath, "config file (env MIXKEY_CONFIG)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "V", false, "debug logging")

	root.AddCommand(
		a.deriveCmd(),
		a.lsCmd(),
		a.extractCmd(),
		a.scanCmd(),
		a.packCmd(),
		a.whereCmd(),
	)
	root.CompletionOptions.HiddenDefaultCmd = true
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadMixKey(a.cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	level, err := cfg.Level()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})))

	slog.Debug("config loaded", "path", a.cfgPath, "scan_paths", cfg.ScanPaths, "catalog", cfg.Catalog.Enabled)
	return nil
}
