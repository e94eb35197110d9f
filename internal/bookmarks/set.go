// Package bookmarks keeps the set of bookmarked event identities and
// mirrors it to local storage after every change.
//
// The set holds identity strings only (see events.IdentityOf), never
// events, so it stays valid when the event collection is replaced. A
// bookmark may therefore name an event that no longer exists; views must
// skip those.
package bookmarks

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/user/cef/internal/logging"
)

// StorageKey is the local storage key holding the JSON array of
// bookmarked identities.
const StorageKey = "cefBookmarks"

// Storage is the persistent key/value store backing a Set.
// db.Store satisfies it.
type Storage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
}

// Set is an insertion-ordered set of identity keys. It is not safe for
// concurrent use.
type Set struct {
	storage Storage
	logger  zerolog.Logger

	keys  []string
	index map[string]int
}

// Option configures a Set.
type Option func(*Set)

// WithLogger sets the logger used to report storage problems.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Set) { s.logger = l }
}

func New(storage Storage, opts ...Option) *Set {
	s := &Set{
		storage: storage,
		logger:  *logging.Default(),
		index:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory set with the persisted one. A missing key
// yields an empty set; unreadable or corrupt data is logged and also
// yields an empty set.
func (s *Set) Load() {
	s.reset()

	raw, ok, err := s.storage.GetItem(StorageKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", StorageKey).Msg("could not read bookmarks, starting empty")
		return
	}
	if !ok {
		return
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		s.logger.Warn().Err(err).Str("key", StorageKey).Msg("discarding corrupt bookmarks")
		return
	}
	for _, k := range keys {
		s.add(k)
	}
	s.logger.Debug().Int("count", len(s.keys)).Msg("bookmarks loaded")
}

func (s *Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Toggle flips the membership of id, persists, and returns the new
// membership. The in-memory change stands even if persisting fails.
func (s *Set) Toggle(id string) (bool, error) {
	bookmarked := !s.Contains(id)
	if bookmarked {
		s.add(id)
	} else {
		s.remove(id)
	}
	return bookmarked, s.Persist()
}

// Clear removes every bookmark and persists the empty set.
func (s *Set) Clear() error {
	s.reset()
	return s.Persist()
}

// Persist writes the whole set to storage. Mutators call it; callers
// never need to.
func (s *Set) Persist() error {
	data, err := json.Marshal(s.All())
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	if err := s.storage.SetItem(StorageKey, string(data)); err != nil {
		s.logger.Error().Err(err).Str("key", StorageKey).Msg("failed to persist bookmarks")
		return fmt.Errorf("persist bookmarks: %w", err)
	}
	return nil
}

// All returns a snapshot of the bookmarked identities in the order they
// were added.
func (s *Set) All() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s *Set) Len() int {
	return len(s.keys)
}

func (s *Set) add(id string) {
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = len(s.keys)
	s.keys = append(s.keys, id)
}

func (s *Set) remove(id string) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.keys = append(s.keys[:i], s.keys[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.keys); j++ {
		s.index[s.keys[j]] = j
	}
}

func (s *Set) reset() {
	s.keys = s.keys[:0]
	s.index = make(map[string]int)
}
