package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dschmit00/sports-calendar/internal/config"
	"github.com/dschmit00/sports-calendar/internal/ics"
	"github.com/dschmit00/sports-calendar/internal/pipeline"
	"github.com/dschmit00/sports-calendar/internal/source"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Fetch fixtures once and write the calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}
}

func runGenerate(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	res, err := generate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d events).\n", cfg.Output, res.Written())
	return nil
}

// generate performs one full run. The team list is re-read every time so
// watch mode picks up edits without a restart.
func generate(ctx context.Context, cfg *config.Config) (pipeline.Result, error) {
	teams, err := config.LoadTeams(cfg.Teams)
	if err != nil {
		return pipeline.Result{}, err
	}

	fetcher := source.NewFetcher(source.Config{
		BaseURL: cfg.APIBase,
		APIKey:  cfg.APIKey,
		Timeout: cfg.FetchTimeout,
	})

	return pipeline.Run(ctx, teams, fetcher, pipelineOptions(cfg))
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Location:  cfg.Location(),
		UIDDomain: cfg.UIDDomain,
		Header: ics.Header{
			ProductID: cfg.ProductID,
			Name:      cfg.CalendarName,
		},
		Output: cfg.Output,
	}
}
