// Package codec defines the blob codec collaborator: how tabular values are
// written to and read back from artifact files.
package codec

import "github.com/lmmx/plcache/tabular"

// Codec serializes the two tabular shapes to files.
//
// WriteScan must stream rows directly to storage without materializing the
// full result in memory. ReadScan must defer reading: the returned scan
// pulls rows from the artifact on demand and owns the open file until
// closed.
type Codec interface {
	// Ext is the artifact filename extension, without a leading dot.
	Ext() string

	// WriteTable writes a materialized table to path.
	WriteTable(path string, t *tabular.Table) error

	// WriteScan streams a scan to path, consuming it.
	WriteScan(path string, s *tabular.Scan) error

	// ReadTable loads the artifact at path as a materialized table.
	ReadTable(path string) (*tabular.Table, error)

	// ReadScan opens the artifact at path as a lazy scan.
	ReadScan(path string) (*tabular.Scan, error)
}
