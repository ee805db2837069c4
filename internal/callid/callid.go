// Package callid defines the identity of a memoized call: who the callable
// is and which arguments it was invoked with.
package callid

import (
	"fmt"
	"strings"
)

// Identity names a callable: a logical namespace (module or owner path) and
// the qualified name within it. Both are fixed at registration time.
type Identity struct {
	Namespace string
	Name      string
}

// Qualified returns the dotted "namespace.name" form.
func (id Identity) Qualified() string {
	return id.Namespace + "." + id.Name
}

// Arg is a single named argument value.
type Arg struct {
	Name  string
	Value any
}

// Args is an ordered list of bound arguments. Callers must bind positional
// arguments to their declared names in declaration order and apply defaults
// before constructing Args: two calls that differ only in omitting a
// default-valued argument must carry identical Args.
//
// Values are rendered with fmt's %v verb, which is deterministic for
// primitives, slices, and maps (map keys print sorted). Other types must
// provide a stable String method or fingerprints will drift.
type Args []Arg

// Canonical returns the deterministic textual form of the argument list,
// "k=v, k=v". An empty list renders as "".
func (a Args) Canonical() string {
	if len(a) == 0 {
		return ""
	}
	var b strings.Builder
	for i, arg := range a {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Name)
		b.WriteByte('=')
		b.WriteString(FormatValue(arg.Value))
	}
	return b.String()
}

// FormatValue renders an argument value to its canonical string form.
func FormatValue(v any) string {
	return fmt.Sprintf("%v", v)
}
