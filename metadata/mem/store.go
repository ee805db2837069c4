// Package mem provides an in-memory metadata index, useful for tests and
// for ephemeral caches that do not need the index to outlive the process.
package mem

import (
	"context"
	"sync"

	"github.com/petar/GoLLRB/llrb"
	"github.com/tunabay/go-infounit"

	"github.com/lmmx/plcache/metadata"
)

// Store keeps records in a map with an LLRB tree ordering them by access
// recency. When the tracked artifact bytes exceed the size limit, the least
// recently accessed records are dropped.
type Store struct {
	mu        sync.Mutex
	recs      map[string]*entry
	byAccess  *llrb.LLRB
	total     infounit.ByteCount
	sizeLimit infounit.ByteCount
	seq       uint64
}

// entry is both the map value and the tree item. seq is a monotonic access
// counter: larger means more recently used.
type entry struct {
	key string
	rec metadata.Record
	seq uint64
}

// Less orders entries from least to most recently accessed.
func (e *entry) Less(than llrb.Item) bool {
	return e.seq < than.(*entry).seq
}

// Option configures a Store.
type Option func(*Store)

// WithSizeLimit sets the eviction threshold. Zero disables eviction.
func WithSizeLimit(limit infounit.ByteCount) Option {
	return func(s *Store) {
		s.sizeLimit = limit
	}
}

// New creates an empty in-memory index.
func New(opts ...Option) *Store {
	s := &Store{
		recs:     make(map[string]*entry),
		byAccess: llrb.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements metadata.Index.
func (s *Store) Get(_ context.Context, key string) (metadata.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.recs[key]
	if !ok {
		return metadata.Record{}, false, nil
	}
	s.touch(e)
	return e.rec, true, nil
}

// Set implements metadata.Index.
func (s *Store) Set(_ context.Context, key string, rec metadata.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.recs[key]; ok {
		s.remove(old)
	}
	s.seq++
	e := &entry{key: key, rec: rec, seq: s.seq}
	s.recs[key] = e
	s.byAccess.InsertNoReplace(e)
	s.total += infounit.ByteCount(rec.Size)
	s.evict()
	return nil
}

// Delete implements metadata.Index.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.recs[key]; ok {
		s.remove(e)
	}
	return nil
}

// Clear implements metadata.Index.
func (s *Store) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = make(map[string]*entry)
	s.byAccess = llrb.New()
	s.total = 0
	return nil
}

// Close implements metadata.Index.
func (s *Store) Close() error { return nil }

// Len returns the number of records currently indexed.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}

// touch moves e to the most-recently-accessed position. Caller holds mu.
func (s *Store) touch(e *entry) {
	s.byAccess.Delete(e)
	s.seq++
	e.seq = s.seq
	s.byAccess.InsertNoReplace(e)
}

// remove drops e from both structures. Caller holds mu.
func (s *Store) remove(e *entry) {
	delete(s.recs, e.key)
	s.byAccess.Delete(e)
	s.total -= infounit.ByteCount(e.rec.Size)
}

// evict drops least-recently-accessed entries until within the limit.
// Caller holds mu.
func (s *Store) evict() {
	if s.sizeLimit == 0 {
		return
	}
	for s.total > s.sizeLimit && s.byAccess.Len() > 0 {
		oldest := s.byAccess.Min().(*entry)
		s.remove(oldest)
	}
}
