// Package readpath derives the human-browsable directory path for a cached
// call. The path is a pure function of identity, arguments, and
// configuration; it never depends on the cache key.
package readpath

import (
	"path/filepath"
	"strings"

	"github.com/lmmx/plcache/internal/callid"
)

// noArgs is the terminal segment used when a call has no bound arguments.
const noArgs = "no_args"

// pairSep joins "key=value" pairs in the default entry name.
const pairSep = "_"

// EntryNameFunc overrides the final path segment for a call. Implementations
// should return a value unique per distinct argument set, or later calls will
// alias to the first-created symlink.
type EntryNameFunc func(id callid.Identity, args callid.Args) string

// Config controls path construction. Fields are orthogonal.
type Config struct {
	// Root is the name of the top-level readable directory.
	Root string
	// Split nests the path as root/namespace/name when true, and collapses
	// to root/"namespace.name" when false.
	Split bool
	// MaxValueLen truncates each argument's raw string form to this many
	// characters before percent-encoding. Zero or negative disables
	// truncation. Truncation can alias distinct argument sets to one
	// readable path; the symlink projector's first-writer-wins policy then
	// keeps the original link.
	MaxValueLen int
	// EntryName, when non-nil, computes the terminal segment.
	EntryName EntryNameFunc
}

// Build returns the readable directory path for the call, relative to the
// cache root. Calling it twice with identical inputs returns the identical
// string.
func Build(cfg Config, id callid.Identity, args callid.Args) string {
	var base string
	if cfg.Split {
		base = filepath.Join(cfg.Root, encodeSegment(id.Namespace), encodeSegment(id.Name))
	} else {
		base = filepath.Join(cfg.Root, encodeSegment(id.Qualified()))
	}

	entry := ""
	if cfg.EntryName != nil {
		entry = cfg.EntryName(id, args)
	}
	if entry == "" {
		entry = EntryName(args, cfg.MaxValueLen)
	}
	return filepath.Join(base, entry)
}

// EntryName is the default terminal segment: "key=value" pairs in argument
// order joined with an underscore, each value truncated then
// percent-encoded, or the no_args sentinel for an empty argument list.
func EntryName(args callid.Args, maxValueLen int) string {
	if len(args) == 0 {
		return noArgs
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		raw := truncate(callid.FormatValue(arg.Value), maxValueLen)
		parts = append(parts, arg.Name+"="+encodeValue(raw))
	}
	return strings.Join(parts, pairSep)
}

// truncate keeps the first max characters of s. Counting runes rather than
// bytes keeps multi-byte values intact; a byte slice could cut a rune in
// half and leave an undecodable entry segment.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// segmentSafe reports whether c may appear unescaped in a namespace or
// qualified-name path segment.
func segmentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

// valueSafe is segmentSafe minus the pair separator and '=': encoded values
// must not be able to forge extra "key=value" pairs inside an entry name.
func valueSafe(c byte) bool {
	if c == '_' || c == '=' {
		return false
	}
	return segmentSafe(c)
}

const upperhex = "0123456789ABCDEF"

func encode(s string, safe func(byte) bool) string {
	hexCount := 0
	for i := 0; i < len(s); i++ {
		if !safe(s[i]) {
			hexCount++
		}
	}
	if hexCount == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2*hexCount)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if safe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}
	return b.String()
}

func encodeSegment(s string) string { return encode(s, segmentSafe) }

func encodeValue(s string) string { return encode(s, valueSafe) }
