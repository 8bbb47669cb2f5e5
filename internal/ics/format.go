package ics

import (
	"strings"
	"time"

	"github.com/dschmit00/sports-calendar/internal/model"
)

// TimeLayout is the UTC basic form used by DTSTAMP, DTSTART and DTEND.
const TimeLayout = "20060102T150405Z"

// FormatTime renders t as YYYYMMDDTHHMMSSZ in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// FormatEvent renders one VEVENT block (without a trailing newline).
// stamp is the DTSTAMP shared by every event of a run.
func FormatEvent(ev model.Event, stamp time.Time) string {
	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + ev.UID,
		"DTSTAMP:" + FormatTime(stamp),
		"DTSTART:" + FormatTime(ev.Start),
		"DTEND:" + FormatTime(ev.End),
		"SUMMARY:" + EscapeText(ev.Summary),
		"LOCATION:" + EscapeText(ev.Location),
		"DESCRIPTION:" + EscapeText(ev.Description),
		"END:VEVENT",
	}
	return strings.Join(lines, lineBreak)
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\n", `\n`,
)

// EscapeText escapes a TEXT property value per RFC 5545 section 3.3.11.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return textEscaper.Replace(s)
}
