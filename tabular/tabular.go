// Package tabular defines the two tabular value shapes the cache stores:
// an eagerly materialized Table and a lazily evaluated Scan.
package tabular

import (
	"errors"
	"io"
)

// Row holds one record's cells, aligned with the table's column order.
// Cells round-trip through the blob codec as JSON values: numbers come back
// as float64, and nested structures as []any / map[string]any.
type Row []any

// Table is a fully materialized tabular result.
type Table struct {
	Columns []string
	Rows    []Row
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// Scan returns a lazy view over the materialized rows. Closing the view does
// not affect the table.
func (t *Table) Scan() *Scan {
	i := 0
	return NewScan(t.Columns, func() (Row, error) {
		if i >= len(t.Rows) {
			return nil, io.EOF
		}
		row := t.Rows[i]
		i++
		return row, nil
	})
}

// Scan is a deferred tabular computation: rows are pulled on demand and the
// source is only consumed as far as the caller reads. A Scan is single-use.
type Scan struct {
	columns []string
	next    func() (Row, error)
	closer  func() error
	done    bool
}

// NewScan builds a Scan over columns whose next function yields rows until
// it returns io.EOF.
func NewScan(columns []string, next func() (Row, error)) *Scan {
	return &Scan{columns: columns, next: next}
}

// OnClose registers a cleanup function invoked by Close. It returns the scan
// for chaining.
func (s *Scan) OnClose(fn func() error) *Scan {
	s.closer = fn
	return s
}

// Columns returns the column names.
func (s *Scan) Columns() []string { return s.columns }

// Next returns the next row, or io.EOF once the scan is exhausted. Reaching
// the end releases the underlying resources, so a caller that drains the
// scan need not also Close it.
func (s *Scan) Next() (Row, error) {
	if s.done {
		return nil, io.EOF
	}
	row, err := s.next()
	if err != nil {
		if cerr := s.Close(); cerr != nil && errors.Is(err, io.EOF) {
			return nil, cerr
		}
		if !errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, io.EOF
	}
	return row, nil
}

// Close releases the scan's underlying resources. It is safe to call after
// exhaustion and at most the registered cleanup runs once.
func (s *Scan) Close() error {
	s.done = true
	if s.closer == nil {
		return nil
	}
	fn := s.closer
	s.closer = nil
	return fn()
}

// Collect forces the scan, returning all remaining rows as a Table. The
// scan is closed afterwards.
func (s *Scan) Collect() (*Table, error) {
	defer s.Close() //nolint:errcheck // close after drain is best-effort
	t := &Table{Columns: s.columns}
	for {
		row, err := s.Next()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, row)
	}
}
