package bookmarks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/user/cef/internal/db"
	"github.com/user/cef/internal/logging"
)

// MockStorage records every read and write of the bookmark key.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetItem(key string) (string, bool, error) {
	args := m.Called(key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStorage) SetItem(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func newDBStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

const workshop = "a|2025-01-01|09:00"

func TestToggleTwicePersistsTwice(t *testing.T) {
	storage := new(MockStorage)
	storage.On("GetItem", StorageKey).Return("", false, nil)
	storage.On("SetItem", StorageKey, `["a|2025-01-01|09:00"]`).Return(nil).Once()
	storage.On("SetItem", StorageKey, `[]`).Return(nil).Once()

	s := New(storage, WithLogger(logging.Nop))
	s.Load()
	require.False(t, s.Contains(workshop))

	on, err := s.Toggle(workshop)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, s.Contains(workshop))

	on, err = s.Toggle(workshop)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, s.Contains(workshop))

	storage.AssertExpectations(t)
	storage.AssertNumberOfCalls(t, "SetItem", 2)
}

func TestPersistRoundTrip(t *testing.T) {
	store := newDBStore(t)

	first := New(store, WithLogger(logging.Nop))
	first.Load()
	_, err := first.Toggle(workshop)
	require.NoError(t, err)

	fresh := New(store, WithLogger(logging.Nop))
	fresh.Load()
	assert.True(t, fresh.Contains(workshop))
	assert.Equal(t, []string{workshop}, fresh.All())
}

func TestClearEmptiesStorage(t *testing.T) {
	store := newDBStore(t)

	s := New(store, WithLogger(logging.Nop))
	s.Load()
	s.Toggle(workshop)
	s.Toggle("b|2025-02-01|10:00")
	require.Equal(t, 2, s.Len())

	require.NoError(t, s.Clear())
	assert.Empty(t, s.All())

	reloaded := New(store, WithLogger(logging.Nop))
	reloaded.Load()
	assert.Empty(t, reloaded.All())

	raw, ok, err := store.GetItem(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	s := New(newDBStore(t), WithLogger(logging.Nop))
	s.Load()
	assert.Equal(t, 0, s.Len())
}

func TestLoadCorruptDataIsEmptyAndLogged(t *testing.T) {
	store := newDBStore(t)
	require.NoError(t, store.SetItem(StorageKey, `{"not": "an array"`))

	tl := logging.NewTestLogger(t)
	s := New(store, WithLogger(tl.Logger))
	s.Load()

	assert.Equal(t, 0, s.Len())
	assert.True(t, tl.Contains("discarding corrupt bookmarks"))
}

func TestLoadReadErrorIsEmptyAndLogged(t *testing.T) {
	storage := new(MockStorage)
	storage.On("GetItem", StorageKey).Return("", false, errors.New("disk on fire"))

	tl := logging.NewTestLogger(t)
	s := New(storage, WithLogger(tl.Logger))
	s.Load()

	assert.Equal(t, 0, s.Len())
	assert.True(t, tl.Contains("disk on fire"))
}

func TestLoadReplacesInMemoryState(t *testing.T) {
	store := newDBStore(t)
	require.NoError(t, store.SetItem(StorageKey, `["x||"]`))

	s := New(store, WithLogger(logging.Nop))
	s.Load()
	s.add("stale||")
	s.Load()

	assert.Equal(t, []string{"x||"}, s.All())
}

func TestToggleKeepsStateWhenPersistFails(t *testing.T) {
	storage := new(MockStorage)
	storage.On("SetItem", StorageKey, mock.Anything).Return(errors.New("read-only"))

	s := New(storage, WithLogger(logging.Nop))
	on, err := s.Toggle(workshop)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
	assert.True(t, on)
	assert.True(t, s.Contains(workshop))
}

func TestAllKeepsInsertionOrder(t *testing.T) {
	storage := new(MockStorage)
	storage.On("SetItem", StorageKey, mock.Anything).Return(nil)

	s := New(storage, WithLogger(logging.Nop))
	s.Toggle("c||")
	s.Toggle("a||")
	s.Toggle("b||")
	s.Toggle("a||")

	assert.Equal(t, []string{"c||", "b||"}, s.All())
	assert.True(t, s.Contains("b||"))

	snapshot := s.All()
	snapshot[0] = "mutated"
	assert.Equal(t, []string{"c||", "b||"}, s.All())
}
