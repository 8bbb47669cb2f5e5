package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dschmit00/sports-calendar/internal/config"
	appLog "github.com/dschmit00/sports-calendar/internal/log"
	"github.com/dschmit00/sports-calendar/internal/schedule"
	"github.com/dschmit00/sports-calendar/internal/web"
)

type watchOptions struct {
	cron      string
	listen    string
	noInitial bool
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	wopts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the calendar on a cron schedule",
		Long: `watch regenerates the calendar on a cron schedule until interrupted.
With --listen it also serves the latest calendar at /calendar.ics and the
events of the last run at /api/events.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if wopts.cron != "" {
				cfg.Watch.Cron = wopts.cron
			}
			if wopts.listen != "" {
				cfg.Watch.Listen = wopts.listen
			}
			return runWatch(cmd.Context(), cfg, !wopts.noInitial)
		},
	}

	cmd.Flags().StringVar(&wopts.cron, "cron", "", "Cron schedule (overrides config, default \""+config.DefaultWatchCron+"\")")
	cmd.Flags().StringVar(&wopts.listen, "listen", "", "HTTP listen address, e.g. :8080 (overrides config)")
	cmd.Flags().BoolVar(&wopts.noInitial, "no-initial-run", false, "Wait for the first tick instead of generating at startup")

	return cmd
}

func runWatch(ctx context.Context, cfg *config.Config, runNow bool) error {
	if err := schedule.Validate(cfg.Watch.Cron); err != nil {
		return err
	}

	appLog.Info("watch starting",
		"cron", cfg.Watch.Cron,
		"listen", cfg.Watch.Listen,
		"teams", cfg.Teams,
		"output", cfg.Output,
	)

	var srv *web.Server
	if cfg.Watch.Listen != "" {
		srv = web.NewServer(cfg.Watch)
	}

	job := func(ctx context.Context) error {
		res, err := generate(ctx, cfg)
		if err != nil {
			return err
		}
		if srv != nil {
			srv.Publish(web.Snapshot{
				Document:    res.Document,
				Events:      res.Events,
				GeneratedAt: res.Stamp,
			})
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return schedule.Run(gctx, cfg.Watch.Cron, runNow, job)
	})
	if srv != nil {
		g.Go(func() error {
			return srv.ListenAndServe(gctx)
		})
	}

	start := time.Now()
	err := g.Wait()
	appLog.Info("watch exiting", "uptime", time.Since(start).Round(time.Second).String())
	return err
}
