// Package memory implements db.Store as a bounded in-process LRU.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kailas-cloud/geosearch/internal/db"
)

// DefaultSize is the entry capacity used when none is configured.
const DefaultSize = 10_000

var _ db.Store = (*Store)(nil)

// Store keeps values in a size-bounded LRU. Entries never expire; the least
// recently used entry is evicted once the store is full.
type Store struct {
	cache  *lru.Cache[string, []byte]
	closed atomic.Bool
}

// NewStore creates a store holding at most size entries.
func NewStore(size int) (*Store, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Store{cache: cache}, nil
}

// Get returns a copy of the value stored at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, &db.Error{Op: db.OpGet, Err: db.ErrClosed}
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return slices.Clone(v), nil
}

// Set stores a copy of value at key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpSet, Err: db.ErrClosed}
	}
	s.cache.Add(key, slices.Clone(value))
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return s.cache.Len()
}

func (s *Store) Ping(context.Context) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	return nil
}

// Close drops every entry; later calls fail with db.ErrClosed.
func (s *Store) Close() error {
	s.closed.Store(true)
	s.cache.Purge()
	return nil
}
