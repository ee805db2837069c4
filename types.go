package plcache

import (
	"context"

	"github.com/lmmx/plcache/internal/callid"
	"github.com/lmmx/plcache/internal/fingerprint"
	"github.com/lmmx/plcache/internal/readpath"
)

// Re-export call identity types from internal/callid for the public API.
type (
	// Identity names a memoized callable: namespace plus qualified name.
	Identity = callid.Identity

	// Arg is one named argument value.
	Arg = callid.Arg

	// Args is the ordered list of bound arguments for a call. Positional
	// arguments must be bound to their declared names in declaration
	// order, with defaults applied, before the call is fingerprinted.
	Args = callid.Args
)

// IdentFunc overrides the canonical string that is digested into a cache
// key. The digest step always applies to the returned string. Beware that
// an ident function collapsing distinct argument sets makes those calls
// share one cache entry.
type IdentFunc = fingerprint.IdentFunc

// EntryNameFunc overrides the terminal readable-path segment for a call.
type EntryNameFunc = readpath.EntryNameFunc

// LinkNameFunc computes the symlink filename for a freshly stored result.
// The returned string must be non-blank or the call fails with
// ErrEmptyLinkName.
type LinkNameFunc func(id Identity, args Args, result Result, cacheKey string) (string, error)

// ComputeFunc produces the result for a cache miss. It runs to completion
// on the calling goroutine; a returned error propagates verbatim and is
// never cached.
type ComputeFunc func(ctx context.Context) (Result, error)
