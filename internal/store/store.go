// Package store is the boundary to the shared settings store. Every record is
// read and written wholesale; there are no partial updates and no versioning,
// so concurrent writers race and the last write wins.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/segmentio/encoding/json"
)

// Top-level record keys.
const (
	KeySettings = "settings"
	KeyServers  = "servers"
	KeyEmotes   = "emotes"
	KeyStats    = "stats"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("store: key not found")

// Store is a whole-record key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Notifier is implemented by stores that can report writes made by other
// processes sharing the same backend.
type Notifier interface {
	Changes(ctx context.Context) <-chan string
}

// GetJSON reads key and decodes it into v.
func GetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and overwrites key with it.
func SetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// GetCollection reads a collection stored either as a JSON array or as a
// keyed object and returns it as an ordered slice.
func GetCollection[T any](ctx context.Context, s Store, key string) ([]T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	items, err := DecodeCollection[T](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

// DecodeCollection normalizes a stored collection into a slice. Sparse
// numeric keys make some stores hand back an object instead of an array; the
// object form is flattened by its values, integer keys ascending first and
// then the remaining keys lexically. That order is not guaranteed to match
// the order the entries were authored in. Null entries, which sparse arrays
// carry for their holes, are dropped in both forms.
func DecodeCollection[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	switch trimmed[0] {
	case '[':
		var entries []*T
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, err
		}
		return compact(entries), nil
	case '{':
		var keyed map[string]*T
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return enumerationLess(keys[i], keys[j]) })
		entries := make([]*T, 0, len(keys))
		for _, k := range keys {
			entries = append(entries, keyed[k])
		}
		return compact(entries), nil
	default:
		return nil, fmt.Errorf("expected array or object, got %q", trimmed[:1])
	}
}

func compact[T any](entries []*T) []T {
	list := make([]T, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			list = append(list, *e)
		}
	}
	return list
}

func enumerationLess(a, b string) bool {
	ai, aErr := strconv.ParseUint(a, 10, 32)
	bi, bErr := strconv.ParseUint(b, 10, 32)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
