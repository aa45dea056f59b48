// Package storage handles record persistence in JSONL and SQLite formats.
// JSONL is the source of truth; the SQLite index is rebuilt from it.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"iter"
	"os"

	"github.com/matsen/pubex/internal/publication"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// JSONLWriter appends records to a JSONL file, one compact object per line.
type JSONLWriter struct {
	f   *os.File
	buf *bufio.Writer
	enc *json.Encoder
	n   int
}

// OpenJSONL opens path for appending, creating it if needed.
func OpenJSONL(path string) (*JSONLWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening records file for append: %w", err)
	}
	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{f: f, buf: buf, enc: enc}, nil
}

// Write appends one record.
func (w *JSONLWriter) Write(rec *publication.Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("writing record %d: %w", w.n+1, err)
	}
	w.n++
	return nil
}

// Count returns the number of records written so far.
func (w *JSONLWriter) Count() int {
	return w.n
}

// Close flushes buffered records and closes the file.
func (w *JSONLWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("flushing records file: %w", err)
	}
	return w.f.Close()
}

// AppendRecords streams records to the end of a JSONL file.
func AppendRecords(path string, records iter.Seq[*publication.Record]) (int, error) {
	w, err := OpenJSONL(path)
	if err != nil {
		return 0, err
	}

	for rec := range records {
		if err := w.Write(rec); err != nil {
			w.Close()
			return w.Count(), err
		}
	}

	return w.Count(), w.Close()
}

// ReadRecords streams the records of a JSONL file. A missing file yields
// nothing. Empty lines are skipped; the first error is yielded and ends the
// sequence.
func ReadRecords(path string) iter.Seq2[*publication.Record, error] {
	return func(yield func(*publication.Record, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				yield(nil, fmt.Errorf("opening records file: %w", err))
			}
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		buf := make([]byte, MaxJSONLLineCapacity)
		scanner.Buffer(buf, MaxJSONLLineCapacity)

		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			rec := publication.NewRecord()
			if err := json.Unmarshal(line, rec); err != nil {
				yield(nil, fmt.Errorf("parsing line %d: %w", lineNum, err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("reading records file: %w", err))
		}
	}
}

// ReadAll collects every record of a JSONL file.
func ReadAll(path string) ([]*publication.Record, error) {
	var recs []*publication.Record
	for rec, err := range ReadRecords(path) {
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
