package ics

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
)

// ParsedEvent is a VEVENT as read back from a calendar document.
type ParsedEvent struct {
	UID      string
	Summary  string
	Location string
	Start    time.Time
	End      time.Time
}

// Report summarizes a parsed calendar document.
type Report struct {
	Events []ParsedEvent
}

// Verify parses body with a standards-following parser and checks the
// invariants of a generated calendar: every VEVENT has a UID, a start
// not after its end, and no UID appears twice.
func Verify(body []byte) (Report, error) {
	var report Report
	if len(body) == 0 {
		return report, errors.New("empty ICS body")
	}

	// The parser expects each content line to be terminated.
	if !bytes.HasSuffix(body, []byte("\n")) {
		body = append(append([]byte{}, body...), '\n')
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return report, fmt.Errorf("parse calendar: %w", err)
	}

	seen := make(map[string]bool)
	for i, ve := range cal.Events() {
		ev, perr := parseVEvent(ve)
		if perr != nil {
			return report, fmt.Errorf("vevent %d: %w", i, perr)
		}
		if seen[ev.UID] {
			return report, fmt.Errorf("duplicate UID %s", ev.UID)
		}
		seen[ev.UID] = true
		report.Events = append(report.Events, ev)
	}

	return report, nil
}

func parseVEvent(ve *ical.VEvent) (ParsedEvent, error) {
	var out ParsedEvent

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("%s: DTSTART: %w", out.UID, err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return out, fmt.Errorf("%s: DTEND: %w", out.UID, err)
	}
	if end.Before(start) {
		return out, fmt.Errorf("%s: DTEND before DTSTART", out.UID)
	}

	out.Start = start.UTC()
	out.End = end.UTC()
	return out, nil
}
