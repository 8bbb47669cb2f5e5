package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDurationMinutes is used when a team does not override the
// length of its fixtures.
const DefaultDurationMinutes = 120

// TeamID is the upstream identifier of a team. Team lists in the wild
// carry it both as a JSON string and as a bare number.
type TeamID string

func (id *TeamID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = TeamID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("team_id must be a string or number, got %s", data)
	}
	*id = TeamID(n.String())
	return nil
}

func (id *TeamID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("team_id must be a scalar (line %d)", value.Line)
	}
	if value.Tag == "!!null" {
		*id = ""
		return nil
	}
	*id = TeamID(strings.TrimSpace(value.Value))
	return nil
}

// Team is one followed team as configured in the team list.
type Team struct {
	ID TeamID `json:"team_id" yaml:"team_id"`
	// Name is only used in progress output.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// DurationMinutes overrides DefaultDurationMinutes when set.
	DurationMinutes *int `json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty"`
	// SportEmoji is prepended to every fixture title of this team.
	SportEmoji string `json:"sport_emoji,omitempty" yaml:"sport_emoji,omitempty"`
}

// Duration returns the fixture length for this team.
func (t Team) Duration() time.Duration {
	minutes := DefaultDurationMinutes
	if t.DurationMinutes != nil {
		minutes = *t.DurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// Label is the team name for log lines, falling back to the id.
func (t Team) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return string(t.ID)
}

// Upstream field names read from a raw fixture record.
const (
	FieldEventTitle    = "strEvent"
	FieldHomeTeam      = "strHomeTeam"
	FieldAwayTeam      = "strAwayTeam"
	FieldLeague        = "strLeague"
	FieldDate          = "dateEvent"
	FieldTime          = "strTime"
	FieldVenue         = "strVenue"
	FieldVenueLocation = "strVenueLocation"
	FieldEventID       = "idEvent"
	FieldID            = "id"
)

// RawEvent is one fixture as returned by the sports-data API. Only a
// handful of keys are read; the rest is carried along untouched.
type RawEvent map[string]any

// String returns the value for the first key that holds a non-empty
// value. Numbers are rendered in their decoded textual form.
func (r RawEvent) String(keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch tv := v.(type) {
		case string:
			s = tv
		case json.Number:
			s = tv.String()
		case float64:
			s = fmt.Sprintf("%v", tv)
		default:
			s = fmt.Sprint(tv)
		}
		if s == "" {
			continue
		}
		return s, true
	}
	return "", false
}

// Get is String without the presence flag.
func (r RawEvent) Get(keys ...string) string {
	s, _ := r.String(keys...)
	return s
}

// Event is a fixture after date/time and identity normalization.
// Start and End are always in UTC.
type Event struct {
	UID         string
	TeamID      TeamID
	Start       time.Time
	End         time.Time
	Summary     string
	Location    string
	Description string
}
