package events

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Store holds the ordered event sequence. Events are kept ascending by
// parsed date; unparseable dates sort after every valid one and equal
// dates keep their insertion order.
//
// A Store is not safe for concurrent use. The finder package owns one
// per session and serializes access.
type Store struct {
	events []Event
}

func NewStore() *Store {
	return &Store{}
}

// Load replaces the whole sequence with a copy of events.
func (s *Store) Load(events []Event) {
	s.events = make([]Event, len(events))
	copy(s.events, events)
	s.sort()
}

// Add appends e and re-sorts. Duplicates are accepted as-is.
func (s *Store) Add(e Event) {
	s.events = append(s.events, e)
	s.sort()
}

func (s *Store) All() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Store) Len() int {
	return len(s.events)
}

// Find returns the first event whose identity equals id.
func (s *Store) Find(id string) (Event, bool) {
	for _, e := range s.events {
		if IdentityOf(e) == id {
			return e, true
		}
	}
	return Event{}, false
}

// Search returns the events whose title, description or category
// contains query, ignoring case. An empty query matches everything.
func (s *Store) Search(query string) []Event {
	if query == "" {
		return s.All()
	}

	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	results := make([]Event, 0)
	for _, e := range s.events {
		if strings.Contains(lower.String(e.Title), needle) ||
			strings.Contains(lower.String(e.Description), needle) ||
			strings.Contains(lower.String(e.Category), needle) {
			results = append(results, e)
		}
	}
	return results
}

func (s *Store) sort() {
	type keyed struct {
		at    time.Time
		valid bool
	}
	keys := make(map[int]keyed, len(s.events))
	idx := make([]int, len(s.events))
	for i, e := range s.events {
		idx[i] = i
		if t, ok := ParseDate(e.Date); ok {
			keys[i] = keyed{at: t, valid: true}
		}
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.valid != kb.valid {
			return ka.valid
		}
		return ka.valid && ka.at.Before(kb.at)
	})

	sorted := make([]Event, len(s.events))
	for i, j := range idx {
		sorted[i] = s.events[j]
	}
	s.events = sorted
}
