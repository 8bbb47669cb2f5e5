package source

import (
	"errors"
	"fmt"

	"github.com/dschmit00/sports-calendar/internal/model"
)

// FetchError captures a network, HTTP status or decoding failure for one
// team's query.
type FetchError struct {
	TeamID     model.TeamID
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch team %s (status=%d): %v", e.TeamID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch team %s: %v", e.TeamID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError attempts to unwrap an error into a FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
