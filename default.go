package plcache

import (
	"context"
	"path/filepath"
	"sync"
)

// The process-wide default cache. Constructed on first use, replaced when a
// later Default call resolves to a different root directory, and otherwise
// reused. It exists purely as an opt-in convenience: library code should
// take a *Cache as an explicit dependency instead.
var (
	defaultMu    sync.Mutex
	defaultCache *Cache
)

// Default returns the process-wide cache, constructing it on first use with
// the given options. An existing instance is reused unless the options name
// an explicit root directory different from the instance's; in that case
// the current instance is closed and a replacement constructed. Options
// other than the directory are only applied when an instance is actually
// constructed.
func Default(opts ...Option) (*Cache, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultCache != nil {
		if cfg.dir == "" {
			return defaultCache, nil
		}
		want, err := filepath.Abs(cfg.dir)
		if err != nil {
			return nil, err
		}
		if defaultCache.dir == want {
			return defaultCache, nil
		}
	}
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if defaultCache != nil {
		_ = defaultCache.Close()
	}
	defaultCache = c
	return c, nil
}

// ResetDefault closes and discards the process-wide cache, if any. The next
// Default call constructs a fresh instance.
func ResetDefault() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCache == nil {
		return nil
	}
	err := defaultCache.Close()
	defaultCache = nil
	return err
}

// GetOrCompute runs the lookup-or-compute-and-store operation on the
// process-wide default cache.
func GetOrCompute(ctx context.Context, id Identity, args Args, compute ComputeFunc, opts ...CallOption) (Result, error) {
	c, err := Default()
	if err != nil {
		return Result{}, err
	}
	return c.GetOrCompute(ctx, id, args, compute, opts...)
}
