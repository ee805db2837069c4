package plcache

import (
	"os"
	"path/filepath"

	"github.com/tunabay/go-infounit"
	"go.uber.org/zap"

	"github.com/lmmx/plcache/codec"
	"github.com/lmmx/plcache/metadata"
)

const (
	defaultDirName     = "plcache"
	defaultSymlinksDir = "functions"
	defaultTrimArg     = 50

	// DefaultSizeLimit bounds the metadata index before it starts evicting
	// least-recently-used records.
	DefaultSizeLimit = infounit.Gigabyte
)

// config collects the construction-time settings for a Cache.
type config struct {
	dir         string
	useTemp     bool
	hidden      bool
	sizeLimit   infounit.ByteCount
	symlinksDir string
	split       bool
	trimArg     int
	linkName    string
	linkNameFn  LinkNameFunc
	identFn     IdentFunc
	entryNameFn EntryNameFunc
	codec       codec.Codec
	index       metadata.Index
	log         *zap.Logger
}

func defaultConfig() config {
	return config{
		hidden:      true,
		sizeLimit:   DefaultSizeLimit,
		symlinksDir: defaultSymlinksDir,
		split:       true,
		trimArg:     defaultTrimArg,
	}
}

// resolveDir returns the cache root directory for this configuration: the
// explicit dir when set, else a "plcache" (or hidden ".plcache") directory
// under the working directory, or under the system temp directory when
// UseTemp is enabled.
func (c config) resolveDir() string {
	if c.dir != "" {
		return c.dir
	}
	name := defaultDirName
	if c.hidden {
		name = "." + name
	}
	if c.useTemp {
		return filepath.Join(os.TempDir(), name)
	}
	return name
}

// Option configures a Cache.
type Option func(*config)

// WithDir sets the cache root directory explicitly, overriding the default
// resolution.
func WithDir(dir string) Option {
	return func(c *config) {
		c.dir = dir
	}
}

// WithTempDir places the default cache root under the system temp directory
// instead of the working directory. Ignored when WithDir is set.
func WithTempDir(use bool) Option {
	return func(c *config) {
		c.useTemp = use
	}
}

// WithHidden controls whether the default cache root is dot-prefixed.
// Defaults to true. Ignored when WithDir is set.
func WithHidden(hidden bool) Option {
	return func(c *config) {
		c.hidden = hidden
	}
}

// WithSizeLimit sets the metadata index size limit. Zero disables eviction.
func WithSizeLimit(limit infounit.ByteCount) Option {
	return func(c *config) {
		c.sizeLimit = limit
	}
}

// WithSymlinksDir names the readable top-level directory. Defaults to
// "functions".
func WithSymlinksDir(name string) Option {
	return func(c *config) {
		c.symlinksDir = name
	}
}

// WithSplit controls readable-path nesting: when true (the default),
// namespace and name become separate directories; when false they collapse
// into a single "namespace.name" segment.
func WithSplit(split bool) Option {
	return func(c *config) {
		c.split = split
	}
}

// WithTrimArg sets the maximum raw length of each argument value in
// readable directory names. Truncation can alias distinct argument sets to
// one readable path; the first-created symlink then stays in place.
func WithTrimArg(n int) Option {
	return func(c *config) {
		c.trimArg = n
	}
}

// WithLinkName sets a fixed filename for readable symlinks. The default is
// "output" plus the codec extension.
func WithLinkName(name string) Option {
	return func(c *config) {
		c.linkName = name
	}
}

// WithLinkNameFunc computes symlink filenames per stored result.
func WithLinkNameFunc(fn LinkNameFunc) Option {
	return func(c *config) {
		c.linkNameFn = fn
	}
}

// WithIdentFunc overrides the canonical string used for fingerprinting.
func WithIdentFunc(fn IdentFunc) Option {
	return func(c *config) {
		c.identFn = fn
	}
}

// WithEntryNameFunc overrides the terminal readable-path segment. The
// override is not part of the fingerprint; it should be unique per distinct
// argument set to avoid aliasing symlinks.
func WithEntryNameFunc(fn EntryNameFunc) Option {
	return func(c *config) {
		c.entryNameFn = fn
	}
}

// WithCodec replaces the default zstd NDJSON blob codec.
func WithCodec(cd codec.Codec) Option {
	return func(c *config) {
		c.codec = cd
	}
}

// WithIndex injects a metadata index, replacing the default SQLite store.
// The cache takes ownership and closes it on Close.
func WithIndex(idx metadata.Index) Option {
	return func(c *config) {
		c.index = idx
	}
}

// WithLogger attaches a logger for debug-level observability of swallowed
// symlink failures and self-healing purges. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}
