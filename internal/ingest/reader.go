// Package ingest reads marketplace CSV exports into header-keyed rows.
//
// Source files are scraped exports from heterogeneous marketplaces and are
// routinely dirty: jagged column counts, unescaped delimiters inside
// titles, stray quotes. The reader optimizes for maximum yield: rows are
// reconciled rather than dropped, and file-level failures isolate to that
// file instead of aborting the run.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RawRow maps a lower-cased, trimmed header name to its string value for
// one CSV data line.
type RawRow map[string]string

// Reader reads CSV exports from a single data directory. The directory is
// resolved once by the caller; the reader never re-derives it.
type Reader struct {
	dir string
	log *slog.Logger
}

// NewReader creates a Reader over the given directory.
func NewReader(dir string, log *slog.Logger) *Reader {
	if log == nil {
		log = slog.Default()
	}
	return &Reader{dir: dir, log: log}
}

// Dir returns the configured data directory.
func (r *Reader) Dir() string {
	return r.dir
}

// Files lists the .csv files in the data directory, sorted by name for
// deterministic build order. A missing directory yields an empty list.
func (r *Reader) Files() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.log.Warn("data directory does not exist, serving empty catalog", "dir", r.dir)
			return nil, nil
		}
		return nil, fmt.Errorf("listing data directory %s: %w", r.dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile parses one CSV export into rows. A missing file yields zero rows
// and no error; a decode failure mid-file keeps the rows parsed so far.
func (r *Reader) ReadFile(name string) ([]RawRow, error) {
	path := filepath.Join(r.dir, name)

	f, err := os.Open(path) //nolint:gosec // path is dataDir + directory listing entry
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.log.Warn("file not found, skipping", "file", path)
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return r.parse(name, f), nil
}

func (r *Reader) parse(name string, src io.Reader) []RawRow {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1 // jagged rows are reconciled, not rejected
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var headers []string
	var rows []RawRow

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Isolate the failure to this file: keep what parsed so far.
			r.log.Error("csv parse failed, keeping partial rows",
				"file", name,
				"rows", len(rows),
				"error", err,
			)
			break
		}

		if headers == nil {
			headers = make([]string, len(record))
			for i, h := range record {
				headers[i] = strings.ToLower(strings.TrimSpace(h))
			}
			continue
		}

		if row := reconcile(headers, record); len(row) > 0 {
			rows = append(rows, row)
		}
	}

	return rows
}

// reconcile aligns a record against the header row. Records with excess
// fields had unescaped delimiters in the first column (usually the title):
// the leading fields are merged back into the first header's value so the
// trailing columns keep their alignment. Short records pad with "".
func reconcile(headers, record []string) RawRow {
	if len(headers) == 0 {
		return nil
	}

	row := make(RawRow, len(headers))

	if extra := len(record) - len(headers); extra > 0 {
		row[headers[0]] = strings.TrimSpace(strings.Join(record[:extra+1], ", "))
		for i := 1; i < len(headers); i++ {
			row[headers[i]] = strings.TrimSpace(record[i+extra])
		}
		return row
	}

	for i, h := range headers {
		if i < len(record) {
			row[h] = strings.TrimSpace(record[i])
		} else {
			row[h] = ""
		}
	}
	return row
}

// Get returns the first non-empty value among the given keys.
func (r RawRow) Get(keys ...string) string {
	for _, k := range keys {
		if v := r[k]; v != "" {
			return v
		}
	}
	return ""
}
