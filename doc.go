// Package plcache is a disk-backed memoization layer for functions that
// produce tabular datasets. A call is identified by its [Identity] and
// bound [Args], fingerprinted into a fixed-length cache key, and its result
// stored once as a content-addressed artifact. Alongside the artifact
// store, a human-browsable tree of symbolic links is maintained so cached
// results can be found by function and arguments rather than by hash.
//
// # Layout
//
// A cache root contains:
//
//	{cache_dir}/
//	  metadata/                 index database (key → artifact, shape)
//	  blobs/{cache_key}.{ext}   content-addressed artifacts
//	  functions/                readable symlink tree
//	    {namespace}/{name}/{k=v_...}/output.{ext}
//
// # Quick start
//
//	c, err := plcache.New(plcache.WithDir("./cache"))
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	id := plcache.Identity{Namespace: "reports", Name: "monthly"}
//	args := plcache.Args{{Name: "month", Value: "2026-08"}}
//	res, err := c.GetOrCompute(ctx, id, args, func(ctx context.Context) (plcache.Result, error) {
//	    return plcache.Eager(buildReport()), nil
//	})
//
// Results come in two shapes: an eagerly materialized [tabular.Table] and a
// lazily evaluated [tabular.Scan], which is streamed to storage without
// being held in memory. Any other value can be wrapped with [Opaque]; it is
// passed through uncached.
//
// Symlink projection is best-effort: on filesystems without symlink support
// the cache stays fully functional, only the readable tree is missing.
package plcache
