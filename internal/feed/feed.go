// Package feed reads the event feed: a JSON array of event objects served
// from a local file or an http(s) URL.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/user/cef/internal/events"
)

// ErrUnavailable is matched by every error returned from Fetch.
var ErrUnavailable = errors.New("event feed unavailable")

// FetchError reports a feed that could not be read or decoded.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("load events from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrUnavailable
}

// Loader returns the raw event list.
type Loader interface {
	Fetch(ctx context.Context) ([]events.Event, error)
}

const maxFeedSize = 10 << 20

// ErrTooLarge is returned for a feed document over maxFeedSize bytes.
var ErrTooLarge = fmt.Errorf("feed exceeds %d MiB", maxFeedSize>>20)

// Source loads the feed from a file path or an http(s) URL.
type Source struct {
	location string
	client   *http.Client
}

func NewSource(location string, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Source{
		location: location,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *Source) Location() string {
	return s.location
}

// Fetch reads and decodes the feed.
func (s *Source) Fetch(ctx context.Context) ([]events.Event, error) {
	if s.location == "" {
		return nil, &FetchError{Source: "<unset>", Err: errors.New("no feed source configured")}
	}

	var body []byte
	var err error
	if isRemote(s.location) {
		body, err = s.fetchRemote(ctx)
	} else {
		body, err = readFile(s.location)
	}
	if err != nil {
		return nil, &FetchError{Source: s.location, Err: err}
	}

	list, err := Decode(body)
	if err != nil {
		return nil, &FetchError{Source: s.location, Err: err}
	}
	return list, nil
}

func (s *Source) fetchRemote(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return readLimited(resp.Body, maxFeedSize)
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f, maxFeedSize)
}

// readLimited reads all of r, failing with ErrTooLarge rather than
// truncating when r holds more than limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}

// Decode parses a feed document. Missing fields decode as empty strings;
// a document that is not an array of objects is an error.
func Decode(data []byte) ([]events.Event, error) {
	var list []events.Event
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if list == nil {
		return nil, errors.New("decode feed: expected a JSON array")
	}
	return list, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Static is a Loader over a fixed list, used when events come from
// somewhere other than a feed.
type Static []events.Event

func (s Static) Fetch(context.Context) ([]events.Event, error) {
	out := make([]events.Event, len(s))
	copy(out, s)
	return out, nil
}
