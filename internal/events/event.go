package events

import "time"

// Event is a single entry of the event feed. The feed carries no id;
// use IdentityOf to refer to an event.
type Event struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// IdentityOf returns the bookmark key of e: title, date and time joined
// with "|". Events that agree on those three fields share an identity.
func IdentityOf(e Event) string {
	return e.Title + "|" + e.Date + "|" + e.Time
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate parses an event date in any of the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
