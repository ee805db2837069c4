// Package blobstore maps cache keys to durable artifact files. Artifact
// names are a pure function of the cache key, so the store is
// content-addressed and writes are idempotent per key.
package blobstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmmx/plcache/codec"
	"github.com/lmmx/plcache/tabular"
)

const dirPerm = 0o700

// Store writes and reads artifacts under a single flat directory.
type Store struct {
	dir   string
	codec codec.Codec
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string, c codec.Codec) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("blob dir is empty")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &Store{dir: dir, codec: c}, nil
}

// Path returns the artifact path for key: {dir}/{key}.{ext}. Saving the
// same key twice overwrites in place, which is sound because computations
// are assumed deterministic for a fixed key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+"."+s.codec.Ext())
}

// SaveTable writes a materialized table for key and returns the artifact
// path.
func (s *Store) SaveTable(key string, t *tabular.Table) (string, error) {
	path := s.Path(key)
	if err := s.codec.WriteTable(path, t); err != nil {
		return "", err
	}
	return path, nil
}

// SaveScan streams a scan to the artifact for key, consuming the scan, and
// returns the artifact path.
func (s *Store) SaveScan(key string, sc *tabular.Scan) (string, error) {
	path := s.Path(key)
	if err := s.codec.WriteScan(path, sc); err != nil {
		return "", err
	}
	return path, nil
}

// LoadTable reads the artifact at path as a materialized table.
func (s *Store) LoadTable(path string) (*tabular.Table, error) {
	return s.codec.ReadTable(path)
}

// LoadScan opens the artifact at path as a lazy scan.
func (s *Store) LoadScan(path string) (*tabular.Scan, error) {
	return s.codec.ReadScan(path)
}

// Exists reports whether an artifact file is present at path.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Size returns the artifact's size in bytes.
func (s *Store) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// RemoveAll deletes every artifact this store's codec wrote, leaving the
// blob directory itself in place.
func (s *Store) RemoveAll() error {
	suffix := "." + s.codec.Ext()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read blob dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return fmt.Errorf("remove artifact: %w", err)
		}
	}
	return nil
}
