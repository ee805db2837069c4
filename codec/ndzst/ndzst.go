// Package ndzst implements the default blob codec: zstd-compressed
// newline-delimited JSON. The first line is the column header, every
// following line is one row's cells. The format is written and read as a
// stream, so lazy results never need to fit in memory.
package ndzst

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/lmmx/plcache/tabular"
)

// Ext is the artifact extension for this codec.
const Ext = "ndjson.zst"

// Codec reads and writes zstd-compressed NDJSON artifacts.
type Codec struct{}

// New returns the codec.
func New() *Codec { return &Codec{} }

// Ext implements codec.Codec.
func (*Codec) Ext() string { return Ext }

// WriteTable writes a materialized table to path.
func (c *Codec) WriteTable(path string, t *tabular.Table) error {
	i := 0
	return c.write(path, t.Columns, func() (tabular.Row, error) {
		if i >= len(t.Rows) {
			return nil, io.EOF
		}
		row := t.Rows[i]
		i++
		return row, nil
	})
}

// WriteScan streams a scan to path row by row, consuming it.
func (c *Codec) WriteScan(path string, s *tabular.Scan) error {
	defer s.Close() //nolint:errcheck // source cleanup after drain
	return c.write(path, s.Columns(), s.Next)
}

// write streams the header and rows to a temp file in the destination
// directory, then renames it into place so readers never observe a partial
// artifact.
func (c *Codec) write(path string, columns []string, next func() (tabular.Row, error)) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "blob-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	enc, err := zstd.NewWriter(tmp, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	bw := bufio.NewWriter(enc)

	if err = writeLine(bw, columns); err != nil {
		return err
	}
	for {
		row, nerr := next()
		if errors.Is(nerr, io.EOF) {
			break
		}
		if nerr != nil {
			return nerr
		}
		if err = writeLine(bw, row); err != nil {
			return err
		}
	}

	if err = bw.Flush(); err != nil {
		return fmt.Errorf("flush artifact: %w", err)
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("close zstd encoder: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("commit artifact: %w", err)
	}
	return nil
}

func writeLine(w *bufio.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode line: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// ReadTable loads the artifact at path into memory.
func (c *Codec) ReadTable(path string) (*tabular.Table, error) {
	s, err := c.ReadScan(path)
	if err != nil {
		return nil, err
	}
	return s.Collect()
}

// ReadScan opens the artifact at path as a lazy scan. The scan holds the
// file and decoder open until it is closed or read to exhaustion.
func (c *Codec) ReadScan(path string) (*tabular.Scan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	br := bufio.NewReader(dec)

	columns, err := readHeader(br)
	if err != nil {
		dec.Close()
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	next := func() (tabular.Row, error) {
		line, err := readLine(br)
		if err != nil {
			return nil, err
		}
		var row tabular.Row
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		return row, nil
	}
	return tabular.NewScan(columns, next).OnClose(func() error {
		dec.Close()
		return f.Close()
	}), nil
}

func readHeader(br *bufio.Reader) ([]string, error) {
	line, err := readLine(br)
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing column header")
	}
	if err != nil {
		return nil, err
	}
	var columns []string
	if err := json.Unmarshal(line, &columns); err != nil {
		return nil, fmt.Errorf("decode column header: %w", err)
	}
	return columns, nil
}

// readLine returns the next newline-terminated line, or io.EOF at the end
// of the artifact. A final unterminated line is still returned.
func readLine(br *bufio.Reader) ([]byte, error) {
	line, err := br.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(line) == 0 {
		return nil, io.EOF
	}
	if line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	if len(line) == 0 {
		return nil, io.EOF
	}
	return line, nil
}
