package fixture

import (
	"strings"

	"github.com/dschmit00/sports-calendar/internal/model"
)

// DefaultUIDDomain is appended to every UID unless configured otherwise.
const DefaultUIDDomain = "github.io"

// UID derives the stable identifier {league}-{eventId}@{domain}.
func UID(raw model.RawEvent, domain string) (string, error) {
	if domain == "" {
		domain = DefaultUIDDomain
	}

	league := raw.Get(model.FieldLeague)
	if league == "" {
		league = "league"
	}
	league = strings.ReplaceAll(league, " ", "_")

	id, ok := raw.String(model.FieldEventID, model.FieldID)
	if !ok {
		return "", &MissingEventIdentifierError{
			League: league,
			Title:  raw.Get(model.FieldEventTitle),
		}
	}

	return league + "-" + id + "@" + domain, nil
}

// Seen tracks UIDs already emitted during one run. It is not safe for
// concurrent use; runs process teams sequentially.
type Seen struct {
	uids map[string]struct{}
}

func NewSeen() *Seen {
	return &Seen{uids: make(map[string]struct{})}
}

func (s *Seen) Has(uid string) bool {
	_, ok := s.uids[uid]
	return ok
}

func (s *Seen) Add(uid string) {
	s.uids[uid] = struct{}{}
}

func (s *Seen) Len() int {
	return len(s.uids)
}
