package fixture

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/dschmit00/sports-calendar/internal/model"
)

// Layouts tried before falling back to the permissive parser. They cover
// what TheSportsDB returns for dateEvent and dateEvent+strTime.
var (
	naiveLayouts = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
	}
	zonedLayouts = []string{
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04Z07:00",
		"2006-01-02T15:04:05Z07:00",
	}
)

// transitionWindow is how far either side of a wall clock time zone
// offsets are sampled when resolving it.
const transitionWindow = 48 * time.Hour

// Normalize converts the fixture's dateEvent and optional strTime into a
// UTC instant. Values without an offset are wall clock time in loc.
func Normalize(raw model.RawEvent, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	date := strings.TrimSpace(raw.Get(model.FieldDate))
	if date == "" {
		return time.Time{}, &MissingDateError{EventID: raw.Get(model.FieldEventID, model.FieldID)}
	}

	text := date
	if tm := strings.TrimSpace(raw.Get(model.FieldTime)); tm != "" {
		text = date + " " + tm
		// Placeholders such as "TBD" would otherwise be read as a zone
		// abbreviation and dropped, leaving midnight.
		if !strings.ContainsAny(tm, "0123456789") {
			return time.Time{}, &UnparseableDateTimeError{Value: text, Err: errors.New("time has no clock value")}
		}
	}

	t, err := ParseDateTime(text, loc)
	if err != nil {
		return time.Time{}, &UnparseableDateTimeError{Value: text, Err: err}
	}
	return t.UTC(), nil
}

// ParseDateTime reads text as a local date-time in loc unless it carries
// its own offset.
func ParseDateTime(text string, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, errors.New("empty value")
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return wallClock(t, loc), nil
		}
	}

	t, err := dateparse.ParseIn(text, loc)
	if err != nil {
		return time.Time{}, err
	}
	if t.Location() == loc {
		return wallClock(t, loc), nil
	}
	return t, nil
}

// wallClock places the clock reading of t in loc. A reading that occurs
// twice when clocks go back resolves to standard time, and one skipped
// when clocks go forward is read with the standard time offset.
func wallClock(t time.Time, loc *time.Location) time.Time {
	naive := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)

	var (
		best     time.Time
		found    bool
		stdOff   int
		hasStd   bool
		fallback = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	)
	for _, sample := range []time.Time{naive.Add(-transitionWindow), naive.Add(transitionWindow)} {
		local := sample.In(loc)
		_, off := local.Zone()
		if !local.IsDST() {
			stdOff, hasStd = off, true
		}

		cand := naive.Add(-time.Duration(off) * time.Second).In(loc)
		if _, candOff := cand.Zone(); candOff != off {
			continue
		}
		if !found || (best.IsDST() && !cand.IsDST()) {
			best, found = cand, true
		}
	}

	switch {
	case found:
		return best
	case hasStd:
		return naive.Add(-time.Duration(stdOff) * time.Second).In(loc)
	default:
		return fallback
	}
}

// ResolveLocation loads an IANA zone name; empty means UTC.
func ResolveLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
