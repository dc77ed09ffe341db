package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"TrendDeck/internal/domain"
)

// errRunFailed makes `run` exit non-zero once the failure message is printed.
var errRunFailed = errors.New("pipeline failed")

func runCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once and print the deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := opts.newApplication(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			state := application.RunOnce(cmd.Context())
			renderState(cmd.OutOrStdout(), state, application.Selector())
			if state.Kind == domain.StateFailed {
				return errRunFailed
			}
			return nil
		},
	}
}

func serveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Refresh the deck periodically and expose it over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := opts.newApplication(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Serve(cmd.Context())
		},
	}
}

func historyCmd(opts *globalOptions) *cobra.Command {
	var (
		limit  int
		latest bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored deck runs",
		Long: `List decks stored by previous runs, newest first.

History requires storage.dsn in the config file or TRENDDECK_DB.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := opts.newApplication(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			if latest {
				run, ok, err := application.LatestDeck(cmd.Context())
				if err != nil {
					return fmt.Errorf("load latest deck: %w", err)
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "No stored decks.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Run %s at %s\n\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05Z07:00"))
				renderDeck(cmd.OutOrStdout(), run.Deck, application.Selector())
				return nil
			}

			runs, err := application.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs to list (0 lists all)")
	cmd.Flags().BoolVar(&latest, "latest", false, "print the cards of the most recent run")
	return cmd
}
