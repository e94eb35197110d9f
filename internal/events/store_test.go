package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvents() []Event {
	return []Event{
		{Title: "Spring Career Fair", Date: "2025-03-10", Time: "10:00", Category: "Career", Description: "Meet employers."},
		{Title: "Python Workshop", Date: "2025-01-05", Time: "14:00", Category: "Workshop", Description: "Intro to Python."},
		{Title: "Open Mic Night", Date: "2025-02-14", Time: "19:30", Category: "Arts", Description: "Bring your guitar to the workshop room."},
	}
}

func titles(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func TestIdentityOf(t *testing.T) {
	a := Event{Title: "Hackathon", Date: "2025-04-01", Time: "09:00", Category: "Tech", Description: "24 hours"}
	b := Event{Title: "Hackathon", Date: "2025-04-01", Time: "09:00", Category: "Social", Description: "different"}
	c := Event{Title: "Hackathon", Date: "2025-04-01", Time: "10:00"}

	assert.Equal(t, "Hackathon|2025-04-01|09:00", IdentityOf(a))
	assert.Equal(t, IdentityOf(a), IdentityOf(b), "description and category do not take part in identity")
	assert.NotEqual(t, IdentityOf(a), IdentityOf(c))
	assert.Equal(t, "||", IdentityOf(Event{}))
}

func TestLoadSortsByDate(t *testing.T) {
	s := NewStore()
	s.Load([]Event{
		{Title: "later", Date: "2025-03-10"},
		{Title: "earlier", Date: "2025-01-05"},
	})

	assert.Equal(t, []string{"earlier", "later"}, titles(s.All()))
}

func TestLoadSortsDatesOutsideNanosecondRange(t *testing.T) {
	s := NewStore()
	s.Load([]Event{
		{Title: "far", Date: "2300-01-01"},
		{Title: "near", Date: "2025-01-01"},
		{Title: "ancient", Date: "1600-01-01"},
		{Title: "typo", Date: "0202-03-10"},
	})

	assert.Equal(t, []string{"typo", "ancient", "near", "far"}, titles(s.All()))
}

func TestLoadCopiesInput(t *testing.T) {
	in := sampleEvents()
	s := NewStore()
	s.Load(in)

	in[0].Title = "mutated"
	for _, e := range s.All() {
		assert.NotEqual(t, "mutated", e.Title)
	}
}

func TestInvalidDatesSortLast(t *testing.T) {
	s := NewStore()
	s.Load([]Event{
		{Title: "tbd", Date: "sometime soon"},
		{Title: "march", Date: "2025-03-01"},
		{Title: "empty", Date: ""},
		{Title: "january", Date: "Jan 15, 2025"},
	})

	assert.Equal(t, []string{"january", "march", "tbd", "empty"}, titles(s.All()))
}

func TestAddResorts(t *testing.T) {
	s := NewStore()
	s.Load(sampleEvents())
	s.Add(Event{Title: "New Year Gala", Date: "2025-01-01", Time: "20:00"})

	require.Equal(t, 4, s.Len())
	assert.Equal(t, "New Year Gala", s.All()[0].Title)
}

func TestAddKeepsDuplicates(t *testing.T) {
	s := NewStore()
	s.Load(sampleEvents())
	dup := sampleEvents()[1]
	s.Add(dup)

	count := 0
	for _, e := range s.All() {
		if IdentityOf(e) == IdentityOf(dup) {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestSearchEmptyReturnsAll(t *testing.T) {
	s := NewStore()
	s.Load(sampleEvents())

	assert.Equal(t, s.All(), s.Search(""))
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	s.Load(sampleEvents())

	upper := s.Search("WORKSHOP")
	lower := s.Search("workshop")

	assert.Equal(t, lower, upper)
	// category of one event, description of another
	assert.Equal(t, []string{"Python Workshop", "Open Mic Night"}, titles(lower))
}

func TestSearchMatchesFields(t *testing.T) {
	s := NewStore()
	s.Load(sampleEvents())

	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "title", query: "fair", want: []string{"Spring Career Fair"}},
		{name: "description", query: "employers", want: []string{"Spring Career Fair"}},
		{name: "category", query: "arts", want: []string{"Open Mic Night"}},
		{name: "no match", query: "quidditch", want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, titles(s.Search(tc.query)))
		})
	}
}

func TestSearchDoesNotMutate(t *testing.T) {
	s := NewStore()
	s.Load(sampleEvents())
	before := s.All()

	res := s.Search("workshop")
	res[0].Title = "changed"

	assert.Equal(t, before, s.All())
}

func TestFind(t *testing.T) {
	s := NewStore()
	s.Load(sampleEvents())

	e, ok := s.Find("Python Workshop|2025-01-05|14:00")
	require.True(t, ok)
	assert.Equal(t, "Workshop", e.Category)

	_, ok = s.Find("missing||")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-01-05", "2025-01-05T14:00:00Z", "01/05/2025", "January 5, 2025", "Jan 5, 2025"} {
		got, ok := ParseDate(in)
		require.True(t, ok, in)
		assert.Equal(t, 2025, got.Year(), in)
		assert.Equal(t, 5, got.Day(), in)
	}

	_, ok := ParseDate("next tuesday")
	assert.False(t, ok)
}
