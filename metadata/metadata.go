// Package metadata defines the key-value index that maps cache keys to
// stored artifacts.
//
// Stores own their eviction policy: the cache core never assumes a record
// it wrote is still present, and treats a record whose artifact has gone
// missing as a miss. Implementations must be safe for concurrent use.
package metadata

import "context"

// Record is the value stored per cache key.
type Record struct {
	// Path is the absolute path of the stored artifact.
	Path string
	// Lazy records which result shape was stored, so a hit can be
	// reconstructed with the same shape.
	Lazy bool
	// Size is the artifact size in bytes, used for eviction accounting.
	Size int64
}

// Index is a durable, size-bounded mapping from cache key to Record.
type Index interface {
	// Get returns the record for key, reporting whether it exists. A
	// successful Get counts as an access for eviction ordering.
	Get(ctx context.Context, key string) (Record, bool, error)

	// Set stores the record for key, replacing any existing one. Stores
	// may evict other records to stay within their size limit.
	Set(ctx context.Context, key string, rec Record) error

	// Delete removes the record for key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Clear removes every record.
	Clear(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}
