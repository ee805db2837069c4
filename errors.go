package plcache

import "errors"

// Sentinel errors for the plcache package.
var (
	// ErrEmptyLinkName is returned when a configured link name, or the
	// value produced by a LinkNameFunc, is empty or whitespace-only. This
	// indicates a programming error in caller-supplied configuration and
	// surfaces synchronously at the point of use.
	ErrEmptyLinkName = errors.New("plcache: empty link name")

	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("plcache: cache is closed")
)
