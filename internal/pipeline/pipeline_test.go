package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dschmit00/sports-calendar/internal/ics"
	appLog "github.com/dschmit00/sports-calendar/internal/log"
	"github.com/dschmit00/sports-calendar/internal/model"
	"github.com/dschmit00/sports-calendar/internal/source"
)

type fakeSource struct {
	events map[model.TeamID][]model.RawEvent
	errs   map[model.TeamID]error
	calls  []model.TeamID
}

func (f *fakeSource) FetchTeam(_ context.Context, teamID model.TeamID) ([]model.RawEvent, error) {
	f.calls = append(f.calls, teamID)
	if err := f.errs[teamID]; err != nil {
		return nil, err
	}
	return f.events[teamID], nil
}

func fixtureRaw(id, title, date, tm string) model.RawEvent {
	return model.RawEvent{
		model.FieldEventID:    id,
		model.FieldEventTitle: title,
		model.FieldLeague:     "English Premier League",
		model.FieldDate:       date,
		model.FieldTime:       tm,
		model.FieldVenue:      "Emirates Stadium",
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var stampLine = regexp.MustCompile(`(?m)^DTSTAMP:.*$`)

func TestRunFailingTeamContributesNothing(t *testing.T) {
	src := &fakeSource{
		events: map[model.TeamID][]model.RawEvent{
			"B": {
				fixtureRaw("1", "Arsenal vs Chelsea", "2026-03-14", "15:00:00"),
				fixtureRaw("2", "Spurs vs Arsenal", "2026-03-21", "17:30:00"),
			},
		},
		errs: map[model.TeamID]error{
			"A": &source.FetchError{TeamID: "A", StatusCode: 500, Err: errors.New("boom")},
		},
	}
	teams := []model.Team{{ID: "A"}, {ID: "B"}}

	res, err := Run(context.Background(), teams, src, Options{Now: fixedClock(time.Now())})
	require.NoError(t, err)

	assert.Equal(t, []model.TeamID{"A", "B"}, src.calls)
	assert.Equal(t, 2, strings.Count(res.Document, "BEGIN:VEVENT"))
	assert.Equal(t, 2, res.Written())
	assert.Equal(t, []model.TeamID{"A"}, res.FailedTeams)
	for _, ev := range res.Events {
		assert.Equal(t, model.TeamID("B"), ev.TeamID)
	}
}

func TestRunSkipsEventWithoutDate(t *testing.T) {
	noDate := fixtureRaw("2", "Postponed", "", "")
	delete(noDate, model.FieldDate)

	src := &fakeSource{events: map[model.TeamID][]model.RawEvent{
		"A": {
			fixtureRaw("1", "First", "2026-03-14", "15:00:00"),
			noDate,
			fixtureRaw("3", "Third", "2026-03-28", "15:00:00"),
		},
	}}

	res, err := Run(context.Background(), []model.Team{{ID: "A"}}, src, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(res.Document, "BEGIN:VEVENT"))
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "English_Premier_League-1@github.io", res.Events[0].UID)
	assert.Equal(t, "English_Premier_League-3@github.io", res.Events[1].UID)
}

func TestRunSkipsEventWithoutIdentifier(t *testing.T) {
	noID := fixtureRaw("", "Friendly", "2026-03-21", "15:00:00")
	delete(noID, model.FieldEventID)

	src := &fakeSource{events: map[model.TeamID][]model.RawEvent{
		"A": {
			fixtureRaw("1", "First", "2026-03-14", "15:00:00"),
			noID,
			fixtureRaw("3", "Third", "2026-03-28", "15:00:00"),
		},
	}}

	res, err := Run(context.Background(), []model.Team{{ID: "A"}}, src, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(res.Document, "BEGIN:VEVENT"))
	assert.Equal(t, 1, res.Skipped)
	assert.NotContains(t, res.Document, "Friendly")
}

func TestRunSkipsPlaceholderKickoffTimes(t *testing.T) {
	var buf bytes.Buffer
	appLog.SetOutput(&buf)
	t.Cleanup(func() { appLog.SetOutput(os.Stdout) })

	src := &fakeSource{events: map[model.TeamID][]model.RawEvent{
		"133604": {
			fixtureRaw("1", "First", "2026-03-14", "15:00:00"),
			fixtureRaw("2", "Cup tie", "2026-03-18", "TBD"),
			fixtureRaw("3", "Replay", "2026-03-25", "TBA"),
			fixtureRaw("4", "Fourth", "2026-03-28", "15:00:00"),
		},
	}}

	res, err := Run(context.Background(), []model.Team{{ID: "133604", Name: "Arsenal"}}, src, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(res.Document, "BEGIN:VEVENT"))
	assert.Equal(t, 2, res.Skipped)
	assert.NotContains(t, res.Document, "DTSTART:20260318T000000Z")

	out := buf.String()
	assert.Contains(t, out, "[WARN] skipping event name=Arsenal team_id=133604 event_id=2")
	assert.Contains(t, out, "event_id=3")
}

func TestRunEmptyTeamList(t *testing.T) {
	res, err := Run(context.Background(), nil, &fakeSource{}, Options{})
	require.NoError(t, err)

	want := "BEGIN:VCALENDAR\nVERSION:2.0\nPRODID:-//My Sports Calendar//EN\nCALSCALE:GREGORIAN\nEND:VCALENDAR"
	assert.Equal(t, want, res.Document)
	assert.Empty(t, res.Events)

	_, err = ics.Verify([]byte(res.Document))
	assert.NoError(t, err)
}

func TestRunAllTeamsFailed(t *testing.T) {
	src := &fakeSource{errs: map[model.TeamID]error{
		"A": errors.New("timeout"),
		"B": errors.New("timeout"),
	}}

	res, err := Run(context.Background(), []model.Team{{ID: "A"}, {ID: "B"}}, src, Options{})
	require.NoError(t, err)
	assert.NotContains(t, res.Document, "BEGIN:VEVENT")
	assert.True(t, strings.HasSuffix(res.Document, "END:VCALENDAR"))
	assert.Len(t, res.FailedTeams, 2)
}

func TestRunDeduplicatesAcrossTeams(t *testing.T) {
	derby := fixtureRaw("441613", "Arsenal vs Tottenham", "2026-04-04", "12:30:00")
	src := &fakeSource{events: map[model.TeamID][]model.RawEvent{
		"133604": {derby},
		"133616": {derby, fixtureRaw("441700", "Tottenham vs Leeds", "2026-04-11", "15:00:00")},
	}}
	teams := []model.Team{
		{ID: "133604", SportEmoji: "🔴"},
		{ID: "133616", SportEmoji: "⚪"},
	}

	res, err := Run(context.Background(), teams, src, Options{})
	require.NoError(t, err)

	require.Len(t, res.Events, 2)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, "🔴 Arsenal vs Tottenham", res.Events[0].Summary)
	assert.Equal(t, 1, strings.Count(res.Document, "UID:English_Premier_League-441613@github.io"))

	report, err := ics.Verify([]byte(res.Document))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"English_Premier_League-441613@github.io",
		"English_Premier_League-441700@github.io",
	}, reportUIDs(report))
}

func TestRunDurationAndTimezone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	ninety := 90
	src := &fakeSource{events: map[model.TeamID][]model.RawEvent{
		"A": {
			fixtureRaw("1", "Naive", "2026-07-04", "19:05:00"),
			fixtureRaw("2", "Offset", "2026-07-05", "13:10:00+02:00"),
		},
	}}
	teams := []model.Team{{ID: "A", DurationMinutes: &ninety}}

	res, err := Run(context.Background(), teams, src, Options{Location: ny})
	require.NoError(t, err)
	require.Len(t, res.Events, 2)

	assert.Contains(t, res.Document, "DTSTART:20260704T230500Z\nDTEND:20260705T003500Z")
	assert.Contains(t, res.Document, "DTSTART:20260705T111000Z\nDTEND:20260705T124000Z")
	for _, ev := range res.Events {
		assert.Equal(t, 90*time.Minute, ev.End.Sub(ev.Start))
	}
}

func TestRunIsDeterministicApartFromStamp(t *testing.T) {
	src := &fakeSource{events: map[model.TeamID][]model.RawEvent{
		"A": {
			fixtureRaw("1", "First, leg", "2026-03-14", "15:00:00"),
			fixtureRaw("2", "Second; leg", "2026-03-21", "15:00:00"),
		},
	}}
	teams := []model.Team{{ID: "A", SportEmoji: "⚽"}}

	first, err := Run(context.Background(), teams, src, Options{Now: fixedClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))})
	require.NoError(t, err)
	second, err := Run(context.Background(), teams, src, Options{Now: fixedClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))})
	require.NoError(t, err)

	assert.NotEqual(t, first.Document, second.Document)
	assert.Equal(t,
		stampLine.ReplaceAllString(first.Document, "DTSTAMP:"),
		stampLine.ReplaceAllString(second.Document, "DTSTAMP:"),
	)
	assert.Equal(t, 2, strings.Count(first.Document, "DTSTAMP:20260301T090000Z"))
}

func TestRunWritesOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "docs", "all.ics")
	src := &fakeSource{events: map[model.TeamID][]model.RawEvent{
		"A": {fixtureRaw("1", "Final", "2026-05-30", "16:00:00")},
	}}

	res, err := Run(context.Background(), []model.Team{{ID: "A"}}, src, Options{
		Output: out,
		Header: ics.Header{Name: "Fixtures"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, res.Document, string(data))
	assert.Contains(t, string(data), "X-WR-CALNAME:Fixtures")
}

func TestRunWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := Run(context.Background(), nil, &fakeSource{}, Options{Output: filepath.Join(blocker, "all.ics")})
	assert.Error(t, err)
}

func TestCollectStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{}
	_, err := Collect(ctx, []model.Team{{ID: "A"}}, src, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, src.calls)
}

func reportUIDs(r ics.Report) []string {
	return lo.Map(r.Events, func(ev ics.ParsedEvent, _ int) string { return ev.UID })
}
