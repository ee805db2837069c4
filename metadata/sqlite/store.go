// Package sqlite provides a SQLite-backed metadata index.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/tunabay/go-infounit"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/lmmx/plcache/metadata"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	key         TEXT PRIMARY KEY,
	path        TEXT NOT NULL,
	lazy        INTEGER NOT NULL,
	size        INTEGER NOT NULL,
	accessed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS records_accessed_at ON records (accessed_at);
`

// DefaultSizeLimit bounds the total artifact bytes tracked by the index
// before least-recently-accessed records are evicted.
const DefaultSizeLimit = infounit.Gigabyte

// Store persists records in a single SQLite database file, evicting the
// least recently accessed records once the tracked artifact bytes exceed
// the configured limit. Evicted records leave their artifacts on disk; the
// cache overwrites those in place on recompute.
type Store struct {
	db        *sql.DB
	sizeLimit infounit.ByteCount
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithSizeLimit sets the eviction threshold. Zero disables eviction.
func WithSizeLimit(limit infounit.ByteCount) Option {
	return func(s *Store) {
		s.sizeLimit = limit
	}
}

// Open opens (creating if needed) the index database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("index path is empty")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}

	s := &Store{
		db:        db,
		sizeLimit: DefaultSizeLimit,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get implements metadata.Index. A hit refreshes the record's access time.
func (s *Store) Get(ctx context.Context, key string) (metadata.Record, bool, error) {
	var (
		rec  metadata.Record
		lazy int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT path, lazy, size FROM records WHERE key = ?`, key,
	).Scan(&rec.Path, &lazy, &rec.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return metadata.Record{}, false, nil
	}
	if err != nil {
		return metadata.Record{}, false, fmt.Errorf("get record: %w", err)
	}
	rec.Lazy = lazy != 0

	if _, err := s.db.ExecContext(ctx,
		`UPDATE records SET accessed_at = ? WHERE key = ?`, s.now().UnixMicro(), key,
	); err != nil {
		return metadata.Record{}, false, fmt.Errorf("touch record: %w", err)
	}
	return rec, true, nil
}

// Set implements metadata.Index.
func (s *Store) Set(ctx context.Context, key string, rec metadata.Record) error {
	lazy := 0
	if rec.Lazy {
		lazy = 1
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO records (key, path, lazy, size, accessed_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET path = excluded.path, lazy = excluded.lazy,
		 size = excluded.size, accessed_at = excluded.accessed_at`,
		key, rec.Path, lazy, rec.Size, s.now().UnixMicro(),
	); err != nil {
		return fmt.Errorf("set record: %w", err)
	}
	return s.evict(ctx)
}

// evict removes least-recently-accessed records until the tracked bytes fit
// the limit again.
func (s *Store) evict(ctx context.Context) error {
	if s.sizeLimit == 0 {
		return nil
	}
	for {
		var total sql.NullInt64
		if err := s.db.QueryRowContext(ctx,
			`SELECT SUM(size) FROM records`,
		).Scan(&total); err != nil {
			return fmt.Errorf("eviction accounting: %w", err)
		}
		if !total.Valid || infounit.ByteCount(total.Int64) <= s.sizeLimit {
			return nil
		}
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM records WHERE key IN
			 (SELECT key FROM records ORDER BY accessed_at ASC LIMIT 1)`,
		)
		if err != nil {
			return fmt.Errorf("evict record: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil || n == 0 {
			return err
		}
	}
}

// Delete implements metadata.Index.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Clear implements metadata.Index.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	return nil
}

// Close implements metadata.Index.
func (s *Store) Close() error {
	return s.db.Close()
}
