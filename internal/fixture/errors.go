package fixture

import (
	"errors"
	"fmt"
)

// MissingDateError is returned when a fixture carries no dateEvent.
type MissingDateError struct {
	EventID string
}

func (e *MissingDateError) Error() string {
	if e.EventID != "" {
		return fmt.Sprintf("event %s missing dateEvent", e.EventID)
	}
	return "event missing dateEvent"
}

// UnparseableDateTimeError wraps a date/time text no layout could read.
type UnparseableDateTimeError struct {
	Value string
	Err   error
}

func (e *UnparseableDateTimeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unparseable date/time %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("unparseable date/time %q", e.Value)
}

func (e *UnparseableDateTimeError) Unwrap() error {
	return e.Err
}

// MissingEventIdentifierError is returned when neither idEvent nor id is
// present, so no stable UID can be derived.
type MissingEventIdentifierError struct {
	League string
	Title  string
}

func (e *MissingEventIdentifierError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("event %q (%s) has no identifier", e.Title, e.League)
	}
	return fmt.Sprintf("event in %s has no identifier", e.League)
}

// IsEventError reports whether err is one of the per-event failures that
// should skip a single fixture rather than a whole team.
func IsEventError(err error) bool {
	var (
		missingDate *MissingDateError
		badDate     *UnparseableDateTimeError
		missingID   *MissingEventIdentifierError
	)
	return errors.As(err, &missingDate) || errors.As(err, &badDate) || errors.As(err, &missingID)
}
