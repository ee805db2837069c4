package plcache

import "github.com/lmmx/plcache/tabular"

// Shape identifies which tabular form a Result carries.
type Shape uint8

const (
	// ShapeNone marks a result the cache cannot store. It is returned to
	// the caller unmodified and nothing is persisted.
	ShapeNone Shape = iota
	// ShapeEager is a fully materialized table.
	ShapeEager
	// ShapeLazy is a deferred scan; storing it streams rows to disk
	// without materializing them.
	ShapeLazy
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeEager:
		return "eager"
	case ShapeLazy:
		return "lazy"
	default:
		return "none"
	}
}

// Result is the tagged value a computation produces: a materialized table,
// a lazy scan, or an opaque pass-through value the cache will not store.
type Result struct {
	shape  Shape
	table  *tabular.Table
	scan   *tabular.Scan
	opaque any
}

// Eager wraps a materialized table.
func Eager(t *tabular.Table) Result {
	return Result{shape: ShapeEager, table: t}
}

// Lazy wraps a deferred scan. On a miss the scan is streamed to storage and
// the returned Result is re-backed by a scan over the stored artifact.
func Lazy(s *tabular.Scan) Result {
	return Result{shape: ShapeLazy, scan: s}
}

// Opaque wraps a value of any other type. Opaque results bypass the cache
// entirely: they are handed back unchanged and never stored.
func Opaque(v any) Result {
	return Result{shape: ShapeNone, opaque: v}
}

// Shape returns the result's shape tag.
func (r Result) Shape() Shape { return r.shape }

// Table returns the materialized table, or nil unless Shape is ShapeEager.
func (r Result) Table() *tabular.Table { return r.table }

// Scan returns the lazy scan, or nil unless Shape is ShapeLazy.
func (r Result) Scan() *tabular.Scan { return r.scan }

// Value returns the opaque pass-through value, or nil unless Shape is
// ShapeNone.
func (r Result) Value() any { return r.opaque }
