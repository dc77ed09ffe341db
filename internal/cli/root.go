package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"TrendDeck/internal/app"
	"TrendDeck/internal/config"
	"TrendDeck/internal/logging"
)

var version = "dev"

type globalOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd assembles the trenddeck command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "trenddeck",
		Short: "Build a colour-coded deck of trending articles",
		Long: `TrendDeck fetches trending articles, asks a generative model for a colour
that matches each article's tone, and assembles a fixed deck of 20 cards.

Examples:
  # One run, printed as a table
  trenddeck run

  # Periodic refresh plus the HTTP API
  trenddeck serve --config trenddeck.yaml

  # Show the last stored decks
  trenddeck history --limit 5`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config (defaults to $TRENDDECK_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		runCmd(opts),
		serveCmd(opts),
		historyCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command with signal-aware context.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		rootCmd.PrintErrln("Error:", err)
		return 1
	}
	return 0
}

func (o *globalOptions) loadConfig() config.Config {
	var cfg config.Config
	if o.configPath != "" {
		cfg = config.LoadFile(o.configPath)
	} else {
		cfg = config.Load()
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg
}

func (o *globalOptions) newApplication(cmd *cobra.Command) (*app.Application, error) {
	cfg := o.loadConfig()
	logger := logging.NewWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	return app.New(cmd.Context(), cfg, logger)
}
