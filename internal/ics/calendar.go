// Package ics renders normalized fixtures as an iCalendar document and
// reads generated documents back for verification.
package ics

import (
	"strings"
	"time"

	"github.com/dschmit00/sports-calendar/internal/model"
)

// DefaultProductID is the PRODID written when none is configured.
const DefaultProductID = "-//My Sports Calendar//EN"

const lineBreak = "\n"

// Header describes the VCALENDAR envelope.
type Header struct {
	ProductID string
	// Name is written as X-WR-CALNAME when non-empty.
	Name string
}

// Assemble wraps already rendered VEVENT blocks in a VCALENDAR envelope.
// Zero blocks still yield a valid calendar.
func Assemble(h Header, vevents []string) string {
	prodID := h.ProductID
	if prodID == "" {
		prodID = DefaultProductID
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
	}
	if h.Name != "" {
		lines = append(lines, "X-WR-CALNAME:"+EscapeText(h.Name))
	}
	lines = append(lines, vevents...)
	lines = append(lines, "END:VCALENDAR")

	return strings.Join(lines, lineBreak)
}

// Render formats every event with the same DTSTAMP and assembles the
// document, preserving event order.
func Render(h Header, events []model.Event, stamp time.Time) string {
	blocks := make([]string, 0, len(events))
	for _, ev := range events {
		blocks = append(blocks, FormatEvent(ev, stamp))
	}
	return Assemble(h, blocks)
}
