// Package finder owns one event store and one bookmark set and answers
// the queries every view renders from.
//
// Nothing here pushes updates. A view calls a mutator, then re-queries:
// all operations are synchronous, so the next query already reflects the
// change.
package finder

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/user/cef/internal/bookmarks"
	"github.com/user/cef/internal/events"
	"github.com/user/cef/internal/feed"
	"github.com/user/cef/internal/logging"
)

// Entry is one event as a view sees it.
type Entry struct {
	events.Event
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
}

// Finder serializes all access to its store and bookmark set.
type Finder struct {
	mu        sync.Mutex
	loader    feed.Loader
	store     *events.Store
	bookmarks *bookmarks.Set
	logger    zerolog.Logger

	startOnce sync.Once
	started   bool
	feedErr   error
}

// Option configures a Finder.
type Option func(*Finder)

func WithLogger(l zerolog.Logger) Option {
	return func(f *Finder) { f.logger = l }
}

func New(loader feed.Loader, storage bookmarks.Storage, opts ...Option) *Finder {
	f := &Finder{
		loader: loader,
		store:  events.NewStore(),
		logger: *logging.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.bookmarks = bookmarks.New(storage, bookmarks.WithLogger(f.logger))
	return f
}

// Start fetches the feed, loads it into the store and then loads the
// bookmarks, in that order. Only the first call does any work; later
// calls return the first call's feed error.
//
// A failed fetch leaves the store empty. Bookmarks are still loaded so
// the bookmark count stays accurate, and the error is kept for FeedErr.
func (f *Finder) Start(ctx context.Context) error {
	f.startOnce.Do(func() {
		list, err := f.loader.Fetch(ctx)

		f.mu.Lock()
		defer f.mu.Unlock()

		if err != nil {
			f.feedErr = err
			f.store.Load(nil)
			f.logger.Error().Err(err).Msg("error loading events")
		} else {
			f.store.Load(list)
			f.logger.Debug().Int("count", f.store.Len()).Msg("events loaded")
		}
		f.bookmarks.Load()
		f.started = true
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feedErr
}

// Reload replaces the whole event collection from the feed. Bookmarks
// are untouched; entries whose event disappeared become orphans.
func (f *Finder) Reload(ctx context.Context) error {
	list, err := f.loader.Fetch(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.feedErr = err
		f.logger.Error().Err(err).Msg("error reloading events")
		return err
	}
	f.feedErr = nil
	f.store.Load(list)
	f.logger.Debug().Int("count", f.store.Len()).Msg("events reloaded")
	return nil
}

// FeedErr is the error of the last feed fetch, if it failed.
func (f *Finder) FeedErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feedErr
}

func (f *Finder) Started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

// Events returns every event in store order.
func (f *Finder) Events() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries(f.store.All())
}

// Search returns the events matching query; see events.Store.Search.
func (f *Finder) Search(query string) []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries(f.store.Search(query))
}

// Bookmarked returns the bookmarked events in store order. Bookmarks
// naming no current event are skipped.
func (f *Finder) Bookmarked() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Entry, 0, f.bookmarks.Len())
	for _, e := range f.store.All() {
		id := events.IdentityOf(e)
		if f.bookmarks.Contains(id) {
			out = append(out, Entry{Event: e, ID: id, Bookmarked: true})
		}
	}
	return out
}

// Orphans returns bookmarked identities that match no current event.
func (f *Finder) Orphans() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, id := range f.bookmarks.All() {
		if _, ok := f.store.Find(id); !ok {
			out = append(out, id)
		}
	}
	return out
}

// Detail looks up the event with the given identity.
func (f *Finder) Detail(id string) (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.store.Find(id)
	if !ok {
		return Entry{}, false
	}
	return Entry{Event: e, ID: id, Bookmarked: f.bookmarks.Contains(id)}, true
}

func (f *Finder) IsBookmarked(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookmarks.Contains(id)
}

// BookmarkCount counts stored bookmarks, orphans included.
func (f *Finder) BookmarkCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookmarks.Len()
}

// ToggleBookmark flips the bookmark for id and returns the new state.
// Every event sharing the identity follows.
func (f *Finder) ToggleBookmark(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return false, ErrNotStarted
	}
	on, err := f.bookmarks.Toggle(id)
	f.logger.Debug().Str("id", id).Bool("bookmarked", on).Msg("bookmark toggled")
	return on, err
}

// ClearBookmarks removes every bookmark.
func (f *Finder) ClearBookmarks() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return ErrNotStarted
	}
	return f.bookmarks.Clear()
}

// AddEvent validates the add-event form input and appends it to the
// store. It returns the entry as stored; an identity that is already
// bookmarked makes the new entry bookmarked too.
func (f *Finder) AddEvent(e events.Event) (Entry, error) {
	e = normalize(e)
	if err := validate(e); err != nil {
		return Entry{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.started {
		return Entry{}, ErrNotStarted
	}
	f.store.Add(e)
	id := events.IdentityOf(e)
	f.logger.Debug().Str("id", id).Msg("event added")
	return Entry{Event: e, ID: id, Bookmarked: f.bookmarks.Contains(id)}, nil
}

func (f *Finder) entries(list []events.Event) []Entry {
	out := make([]Entry, len(list))
	for i, e := range list {
		id := events.IdentityOf(e)
		out[i] = Entry{Event: e, ID: id, Bookmarked: f.bookmarks.Contains(id)}
	}
	return out
}

func normalize(e events.Event) events.Event {
	e.Title = strings.TrimSpace(e.Title)
	e.Date = strings.TrimSpace(e.Date)
	e.Time = strings.TrimSpace(e.Time)
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)
	return e
}

func validate(e events.Event) error {
	if e.Title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if e.Date == "" {
		return &ValidationError{Field: "date", Message: "is required"}
	}
	if _, ok := events.ParseDate(e.Date); !ok {
		return &ValidationError{Field: "date", Message: "is not a recognised date (try 2025-03-10)"}
	}
	return nil
}
