// Package fixture turns raw sports-data records into calendar events:
// date/time normalization to UTC, UID derivation, run-scoped
// de-duplication and the display fields of each event.
package fixture

import (
	"strings"
	"time"

	"github.com/dschmit00/sports-calendar/internal/model"
)

// Options controls how raw fixtures are normalized.
type Options struct {
	// Location is the fallback zone for date/times without an offset.
	// If nil, UTC is used.
	Location *time.Location
	// UIDDomain is the suffix of every UID. If empty, DefaultUIDDomain.
	UIDDomain string
}

// Filter normalizes fixtures in fetch order and drops repeats.
type Filter struct {
	opts Options
	seen *Seen
}

func NewFilter(opts Options) *Filter {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.UIDDomain == "" {
		opts.UIDDomain = DefaultUIDDomain
	}
	return &Filter{opts: opts, seen: NewSeen()}
}

// Accept returns the normalized event and true for a fixture not seen
// before in this run, false for a repeat. A UID is only recorded once its
// fixture normalized successfully, so a broken first copy does not hide a
// good one from another team.
func (f *Filter) Accept(raw model.RawEvent, team model.Team) (model.Event, bool, error) {
	uid, err := UID(raw, f.opts.UIDDomain)
	if err != nil {
		return model.Event{}, false, err
	}
	if f.seen.Has(uid) {
		return model.Event{}, false, nil
	}

	ev, err := Build(raw, team, uid, f.opts.Location)
	if err != nil {
		return model.Event{}, false, err
	}

	f.seen.Add(uid)
	return ev, true, nil
}

// Seen returns how many distinct fixtures were accepted.
func (f *Filter) Seen() int {
	return f.seen.Len()
}

// Build normalizes a single fixture for team under the given uid.
func Build(raw model.RawEvent, team model.Team, uid string, loc *time.Location) (model.Event, error) {
	start, err := Normalize(raw, loc)
	if err != nil {
		return model.Event{}, err
	}

	return model.Event{
		UID:         uid,
		TeamID:      team.ID,
		Start:       start,
		End:         start.Add(team.Duration()),
		Summary:     Summary(raw, team),
		Location:    raw.Get(model.FieldVenue, model.FieldVenueLocation),
		Description: raw.Get(model.FieldLeague),
	}, nil
}

// Summary is the team's emoji followed by the fixture title, or
// "<home> vs <away>" when the API gives no title.
func Summary(raw model.RawEvent, team model.Team) string {
	title, ok := raw.String(model.FieldEventTitle)
	if !ok {
		title = raw.Get(model.FieldHomeTeam) + " vs " + raw.Get(model.FieldAwayTeam)
	}
	return strings.TrimSpace(team.SportEmoji + " " + title)
}
