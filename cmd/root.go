package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"cmdprobe/pkg/config"
	"cmdprobe/pkg/log"
	"cmdprobe/pkg/runner"

	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	logLevel   string
	jsonOutput bool
	logger     log.Logger
	cfg        *config.Config
	// cmdRunner overrides the runner built from the configuration; tests set it.
	cmdRunner runner.CommandRunner
	rootCmd   = &cobra.Command{
		Use:   "cmdprobe",
		Short: "cmdprobe drives command-line programs as black boxes",
		Long: `A test helper that runs shell commands, optionally feeding them scripted
standard input, and checks their combined output and exit status.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cmd.Flags().Changed("config") {
				cfg, err = config.LoadConfig(cfgFile, log.NewNopLogger())
			} else {
				cfg, err = config.LoadOptional(cfgFile, log.NewNopLogger())
			}
			if err != nil {
				return err
			}

			levelStr := logLevel
			if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
				levelStr = cfg.LogLevel
			}
			level, err := log.ParseLevel(levelStr)
			if err != nil {
				return err
			}
			writer := cmd.ErrOrStderr()
			logger = log.NewSlogLogger(level, writer)
			ctx := context.WithValue(cmd.Context(), "logger", logger)
			cmd.SetContext(ctx)
			return nil
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// activeRunner returns the runner commands should use.
func activeRunner(logger log.Logger) runner.CommandRunner {
	if cmdRunner != nil {
		return cmdRunner
	}
	return cfg.NewRunner(logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file (read if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
}
