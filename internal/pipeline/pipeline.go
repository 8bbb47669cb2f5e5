// Package pipeline runs one calendar generation: fetch every team in
// order, normalize and de-duplicate their fixtures, render the document
// and write it.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dschmit00/sports-calendar/internal/atomicfile"
	"github.com/dschmit00/sports-calendar/internal/fixture"
	"github.com/dschmit00/sports-calendar/internal/ics"
	appLog "github.com/dschmit00/sports-calendar/internal/log"
	"github.com/dschmit00/sports-calendar/internal/model"
	"github.com/dschmit00/sports-calendar/internal/source"
)

// Source returns a team's upcoming fixtures in upstream order.
type Source interface {
	FetchTeam(ctx context.Context, teamID model.TeamID) ([]model.RawEvent, error)
}

// Options is the immutable per-run configuration.
type Options struct {
	// Location is the fallback zone for fixture times without an offset.
	Location  *time.Location
	UIDDomain string
	Header    ics.Header
	// Output is the calendar path. If empty, nothing is written.
	Output string
	// Now supplies the DTSTAMP instant. If nil, time.Now.
	Now func() time.Time
}

// Result describes one finished run.
type Result struct {
	Document string
	Events   []model.Event
	Stamp    time.Time

	Duplicates  int
	Skipped     int
	FailedTeams []model.TeamID
}

// Written is the number of VEVENT blocks in the document.
func (r Result) Written() int {
	return len(r.Events)
}

// Collect fetches and normalizes fixtures for teams in order. Fetch and
// per-event failures are logged and counted, never returned. The only
// error is ctx being done.
func Collect(ctx context.Context, teams []model.Team, src Source, opts Options) (Result, error) {
	filter := fixture.NewFilter(fixture.Options{
		Location:  opts.Location,
		UIDDomain: opts.UIDDomain,
	})

	res := Result{Events: []model.Event{}}

	for _, team := range teams {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		appLog.Info("fetching team", "name", team.Label(), "team_id", team.ID)

		raws, err := src.FetchTeam(ctx, team.ID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			status := 0
			if fe, ok := source.AsFetchError(err); ok {
				status = fe.StatusCode
			}
			appLog.Error("fetch failed; skipping team", err, "name", team.Label(), "team_id", team.ID, "status", status)
			res.FailedTeams = append(res.FailedTeams, team.ID)
			continue
		}
		if len(raws) == 0 {
			appLog.Info("no upcoming events", "name", team.Label(), "team_id", team.ID)
			continue
		}

		for _, raw := range raws {
			ev, fresh, err := filter.Accept(raw, team)
			if err != nil {
				eventID := raw.Get(model.FieldEventID, model.FieldID)
				if fixture.IsEventError(err) {
					appLog.Warn("skipping event",
						"name", team.Label(),
						"team_id", team.ID,
						"event_id", eventID,
						"error", err.Error(),
					)
				} else {
					appLog.Error("unexpected error; skipping event", err,
						"name", team.Label(),
						"team_id", team.ID,
						"event_id", eventID,
					)
				}
				res.Skipped++
				continue
			}
			if !fresh {
				appLog.Debug("duplicate event", "team_id", team.ID, "event_id", raw.Get(model.FieldEventID, model.FieldID))
				res.Duplicates++
				continue
			}
			res.Events = append(res.Events, ev)
		}
	}

	appLog.Debug("collected fixtures", "distinct", filter.Seen(), "duplicates", res.Duplicates, "skipped", res.Skipped)
	return res, nil
}

// Run collects fixtures, renders the calendar with a single DTSTAMP and,
// when opts.Output is set, replaces the output file atomically.
func Run(ctx context.Context, teams []model.Team, src Source, opts Options) (Result, error) {
	res, err := Collect(ctx, teams, src, opts)
	if err != nil {
		return res, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	res.Stamp = now().UTC()
	res.Document = ics.Render(opts.Header, res.Events, res.Stamp)

	if _, err := ics.Verify([]byte(res.Document)); err != nil {
		appLog.Warn("generated calendar failed verification", "error", err.Error())
	}

	if opts.Output != "" {
		if err := atomicfile.Write(opts.Output, []byte(res.Document), 0o644); err != nil {
			return res, fmt.Errorf("write calendar %s: %w", opts.Output, err)
		}
	}

	appLog.Info("wrote calendar",
		"path", opts.Output,
		"events", res.Written(),
		"duplicates", res.Duplicates,
		"skipped", res.Skipped,
		"failed_teams", len(res.FailedTeams),
	)

	return res, nil
}

var _ Source = (*source.Fetcher)(nil)
