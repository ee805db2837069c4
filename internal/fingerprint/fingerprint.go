// Package fingerprint turns a call identity and its bound arguments into a
// stable, fixed-length cache key.
package fingerprint

import (
	"github.com/opencontainers/go-digest"

	"github.com/lmmx/plcache/internal/callid"
)

// version is embedded in every canonical string so that a change to the
// canonicalization rule invalidates all previously stored keys at once.
const version = "v1"

// IdentFunc overrides the canonical string that gets digested. The digest
// step is always applied over the returned string. Errors propagate to the
// caller unchanged.
type IdentFunc func(id callid.Identity, args callid.Args) (string, error)

// Canonical returns the default canonical form of a call:
// "v1:{namespace}.{name}({args})".
func Canonical(id callid.Identity, args callid.Args) string {
	return version + ":" + id.Qualified() + "(" + args.Canonical() + ")"
}

// Key digests the call into a 64-character lowercase hex SHA-256 string.
// When ident is non-nil it supplies the string to digest in place of
// Canonical.
func Key(id callid.Identity, args callid.Args, ident IdentFunc) (string, error) {
	var s string
	if ident != nil {
		custom, err := ident(id, args)
		if err != nil {
			return "", err
		}
		s = custom
	} else {
		s = Canonical(id, args)
	}
	return digest.FromString(s).Encoded(), nil
}
