// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package sink

import (
	"encoding/csv"
	"fmt"
	"io"
)

func init() {
	RegisterFormatter(&CSVFormatter{})
}

// CSVFormatter writes RFC 4180 CSV with a header row.
type CSVFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*CSVFormatter)(nil)

func (f *CSVFormatter) Name() string      { return "csv" }
func (f *CSVFormatter) Extension() string { return ".csv" }

// Format writes the header and every row.
func (f *CSVFormatter) Format(t Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return rows, nil
}
