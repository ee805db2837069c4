package plcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lmmx/plcache/codec/ndzst"
	"github.com/lmmx/plcache/internal/blobstore"
	"github.com/lmmx/plcache/internal/fingerprint"
	"github.com/lmmx/plcache/internal/readpath"
	"github.com/lmmx/plcache/internal/symlink"
	"github.com/lmmx/plcache/metadata"
	"github.com/lmmx/plcache/metadata/sqlite"
)

const (
	blobsDirName    = "blobs"
	metadataDirName = "metadata"
	indexFileName   = "index.db"
	dirPerm         = 0o700
)

// Cache memoizes tabular computations on disk. Results are stored once per
// cache key under blobs/, indexed by a metadata store, and projected into a
// human-browsable symlink tree.
//
// A Cache is safe for concurrent use, but the lookup-compute-store sequence
// is not locked: two concurrent calls that miss on the same key both run
// their computation, and the later writer overwrites the earlier one's
// artifact and record. For deterministic computations both results are
// equivalent; computations with side effects must tolerate running more
// than once.
type Cache struct {
	cfg    config
	dir    string
	blobs  *blobstore.Store
	index  metadata.Index
	log    *zap.Logger
	closed atomic.Bool
}

// New creates a cache, resolving and creating its root directory and
// opening the metadata index.
func New(opts ...Option) (*Cache, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.linkName != "" && strings.TrimSpace(cfg.linkName) == "" {
		return nil, ErrEmptyLinkName
	}
	if cfg.codec == nil {
		cfg.codec = ndzst.New()
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}

	dir, err := filepath.Abs(cfg.resolveDir())
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, cfg.symlinksDir), dirPerm); err != nil {
		return nil, fmt.Errorf("create readable dir: %w", err)
	}

	blobs, err := blobstore.New(filepath.Join(dir, blobsDirName), cfg.codec)
	if err != nil {
		return nil, err
	}

	index := cfg.index
	if index == nil {
		metaDir := filepath.Join(dir, metadataDirName)
		if err := os.MkdirAll(metaDir, dirPerm); err != nil {
			return nil, fmt.Errorf("create metadata dir: %w", err)
		}
		index, err = sqlite.Open(filepath.Join(metaDir, indexFileName),
			sqlite.WithSizeLimit(cfg.sizeLimit))
		if err != nil {
			return nil, err
		}
	}

	return &Cache{
		cfg:   cfg,
		dir:   dir,
		blobs: blobs,
		index: index,
		log:   cfg.log,
	}, nil
}

// Dir returns the resolved cache root directory.
func (c *Cache) Dir() string { return c.dir }

// GetOrCompute returns the stored result for the call identified by id and
// args, or runs compute, stores its result, and returns it.
//
// A hit loads the artifact in the shape it was stored with. A record whose
// artifact was deleted out-of-band is purged and treated as a miss. A
// compute error propagates verbatim and nothing is cached. A ShapeNone
// result is passed through unchanged without caching. On a lazy-shape miss
// the scan is streamed to disk and the returned result reads back from the
// stored artifact.
func (c *Cache) GetOrCompute(ctx context.Context, id Identity, args Args, compute ComputeFunc, opts ...CallOption) (Result, error) {
	if c.closed.Load() {
		return Result{}, ErrClosed
	}

	key, err := fingerprint.Key(id, args, c.cfg.identFn)
	if err != nil {
		return Result{}, err
	}

	rec, ok, err := c.index.Get(ctx, key)
	if err != nil {
		return Result{}, err
	}
	if ok {
		if c.blobs.Exists(rec.Path) {
			return c.load(rec)
		}
		// Artifact deleted out-of-band: purge the stale record and fall
		// through as a miss.
		c.log.Debug("purging stale index entry",
			zap.String("key", key), zap.String("path", rec.Path))
		if err := c.index.Delete(ctx, key); err != nil {
			c.log.Debug("stale entry purge failed", zap.String("key", key), zap.Error(err))
		}
	}

	result, err := compute(ctx)
	if err != nil {
		return Result{}, err
	}
	if result.Shape() == ShapeNone {
		return result, nil
	}

	stored, path, err := c.store(key, result)
	if err != nil {
		return Result{}, err
	}

	size, err := c.blobs.Size(path)
	if err != nil {
		c.log.Debug("artifact size unavailable", zap.String("path", path), zap.Error(err))
	}
	if err := c.index.Set(ctx, key, metadata.Record{
		Path: path,
		Lazy: stored.Shape() == ShapeLazy,
		Size: size,
	}); err != nil {
		discard(stored)
		return Result{}, err
	}

	if err := c.project(id, args, stored, key, path, opts); err != nil {
		discard(stored)
		return Result{}, err
	}
	return stored, nil
}

// discard releases resources held by a result the caller will never see.
// Only lazy results hold anything: an open scan over the stored artifact.
func discard(r Result) {
	if r.Shape() == ShapeLazy {
		_ = r.Scan().Close()
	}
}

// load reconstructs a hit in the shape recorded for it.
func (c *Cache) load(rec metadata.Record) (Result, error) {
	if rec.Lazy {
		s, err := c.blobs.LoadScan(rec.Path)
		if err != nil {
			return Result{}, err
		}
		return Lazy(s), nil
	}
	t, err := c.blobs.LoadTable(rec.Path)
	if err != nil {
		return Result{}, err
	}
	return Eager(t), nil
}

// store persists the result and returns the result to hand back to the
// caller. A lazy result is consumed by the streaming save, so the returned
// result is re-backed by a scan over the stored artifact.
func (c *Cache) store(key string, result Result) (Result, string, error) {
	switch result.Shape() {
	case ShapeEager:
		path, err := c.blobs.SaveTable(key, result.Table())
		if err != nil {
			return Result{}, "", err
		}
		return result, path, nil
	case ShapeLazy:
		path, err := c.blobs.SaveScan(key, result.Scan())
		if err != nil {
			return Result{}, "", err
		}
		s, err := c.blobs.LoadScan(path)
		if err != nil {
			return Result{}, "", err
		}
		return Lazy(s), path, nil
	default:
		return Result{}, "", fmt.Errorf("plcache: unsupported result shape %v", result.Shape())
	}
}

// project creates the readable symlink for a stored result. Link-name
// misconfiguration is a hard error; everything else is best-effort.
func (c *Cache) project(id Identity, args Args, result Result, key, artifactPath string, opts []CallOption) error {
	cc := callConfig{
		symlinksDir: c.cfg.symlinksDir,
		split:       c.cfg.split,
		trimArg:     c.cfg.trimArg,
		linkName:    c.cfg.linkName,
		linkNameFn:  c.cfg.linkNameFn,
		entryNameFn: c.cfg.entryNameFn,
	}
	for _, opt := range opts {
		opt(&cc)
	}

	name, err := c.resolveLinkName(cc, id, args, result, key)
	if err != nil {
		return err
	}

	rel := readpath.Build(readpath.Config{
		Root:        cc.symlinksDir,
		Split:       cc.split,
		MaxValueLen: cc.trimArg,
		EntryName:   cc.entryNameFn,
	}, id, args)
	symlink.Project(c.log, filepath.Join(c.dir, rel), name, artifactPath)
	return nil
}

// resolveLinkName picks the symlink filename: a literal name wins over a
// callback, and the codec-derived default is the fallback.
func (c *Cache) resolveLinkName(cc callConfig, id Identity, args Args, result Result, key string) (string, error) {
	if cc.linkName != "" {
		if strings.TrimSpace(cc.linkName) == "" {
			return "", ErrEmptyLinkName
		}
		return cc.linkName, nil
	}
	if cc.linkNameFn != nil {
		name, err := cc.linkNameFn(id, args, result, key)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(name) == "" {
			return "", ErrEmptyLinkName
		}
		return name, nil
	}
	return "output." + c.cfg.codec.Ext(), nil
}

// Clear removes all stored artifacts, the readable symlink tree, and every
// index record. The cache root and its required subdirectories remain in
// place, ready for reuse.
func (c *Cache) Clear(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	readableDir := filepath.Join(c.dir, c.cfg.symlinksDir)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(c.blobs.RemoveAll)
	g.Go(func() error {
		if err := os.RemoveAll(readableDir); err != nil {
			return fmt.Errorf("remove readable tree: %w", err)
		}
		return os.MkdirAll(readableDir, dirPerm)
	})
	g.Go(func() error {
		return c.index.Clear(ctx)
	})
	return g.Wait()
}

// Close closes the metadata index. Further cache operations fail with
// ErrClosed.
func (c *Cache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.index.Close()
}

// Fingerprint returns the cache key the configured canonicalization
// produces for a call, mainly for debugging and tests.
func (c *Cache) Fingerprint(id Identity, args Args) (string, error) {
	return fingerprint.Key(id, args, c.cfg.identFn)
}
