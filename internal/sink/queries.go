// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package sink

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/davetashner/scouteval/internal/query"
)

// Column names of the generated-query table.
const (
	ColID    = "id"
	ColQuery = "query"
	ColTuple = "dimension_tuple_json"
	ColKeep  = "is_realistic_and_kept"
	ColNotes = "notes_for_filtering"
)

const (
	keepTrue  = "1"
	keepFalse = "0"

	// The first minHeaderCols entries of QueryColumns must be present on read.
	minHeaderCols = 3
)

// QueryColumns is the header written for generated queries.
var QueryColumns = []string{ColID, ColQuery, ColTuple, ColKeep, ColNotes}

// QueriesTable flattens queries into one row each, with the tuple serialized
// as compact JSON.
func QueriesTable(queries []query.GeneratedQuery) (Table, error) {
	t := Table{Header: QueryColumns, Rows: make([][]string, 0, len(queries))}
	for _, q := range queries {
		tupleJSON, err := query.MarshalTuple(q.Tuple)
		if err != nil {
			return Table{}, fmt.Errorf("query %s: %w", q.ID, err)
		}
		keep := keepFalse
		if q.Keep {
			keep = keepTrue
		}
		t.Rows = append(t.Rows, []string{q.ID, q.Text, tupleJSON, keep, q.Notes})
	}
	return t, nil
}

// WriteQueries writes queries to path in the named format (empty name picks
// the format from the extension). An empty query list is a logged no-op and
// leaves any existing file untouched.
func WriteQueries(path, format string, queries []query.GeneratedQuery) error {
	if len(queries) == 0 {
		slog.Info("no queries to save", "path", path)
		return nil
	}
	t, err := QueriesTable(queries)
	if err != nil {
		return err
	}
	if err := WriteTable(path, format, t); err != nil {
		return err
	}
	slog.Info("saved queries", "count", len(queries), "path", path)
	return nil
}

// WriteTable renders t with the chosen formatter and writes it to path,
// replacing the file.
func WriteTable(path, format string, t Table) error {
	f, err := FormatForPath(format, path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := f.Format(t, &buf); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadTable loads a csv or xlsx file, chosen by extension.
func ReadTable(path string) (Table, error) {
	var rows [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = readXLSX(path)
	} else {
		var f *os.File
		f, err = os.Open(path) //nolint:gosec // user-provided path
		if err != nil {
			return Table{}, err
		}
		defer f.Close() //nolint:errcheck // read-only
		rows, err = readCSV(f)
	}
	if err != nil {
		return Table{}, err
	}
	if len(rows) == 0 {
		return Table{}, errors.New("table has no header row")
	}
	return Table{Header: rows[0], Rows: rows[1:]}, nil
}

// ReadQueries loads a generated-query table. The id, query and
// dimension_tuple_json columns are required; the keep flag defaults to true
// and notes to empty when their columns are absent.
func ReadQueries(path string) ([]query.GeneratedQuery, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return ParseQueries(t)
}

// ParseQueries converts a table with the generated-query columns back into
// queries.
func ParseQueries(t Table) ([]query.GeneratedQuery, error) {
	idx := make(map[string]int, len(t.Header))
	for i, col := range t.Header {
		idx[strings.TrimSpace(col)] = i
	}
	var missing []string
	for _, col := range QueryColumns[:minHeaderCols] {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	out := make([]query.GeneratedQuery, 0, len(t.Rows))
	for n, row := range t.Rows {
		tuple, err := query.ParseTuple(cell(row, ColTuple))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		q := query.New(cell(row, ColID), cell(row, ColQuery), tuple)
		if raw := strings.TrimSpace(cell(row, ColKeep)); raw != "" {
			keep, err := parseKeep(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: %s: %w", n+2, ColKeep, err)
			}
			q.Keep = keep
		}
		q.Notes = cell(row, ColNotes)
		out = append(out, q)
	}
	return out, nil
}

func parseKeep(raw string) (bool, error) {
	if raw == keepTrue {
		return true, nil
	}
	if raw == keepFalse {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
