// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package sink

import (
	"encoding/json"
	"fmt"
	"io"
)

func init() {
	RegisterFormatter(&JSONLFormatter{})
}

// JSONLFormatter writes one JSON object per row, keyed by column name.
type JSONLFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*JSONLFormatter)(nil)

func (f *JSONLFormatter) Name() string      { return "jsonl" }
func (f *JSONLFormatter) Extension() string { return ".jsonl" }

// Format writes each row as a JSON line. Keys follow encoding/json's sorted
// map order.
func (f *JSONLFormatter) Format(t Table, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, row := range t.Rows {
		rec := make(map[string]string, len(t.Header))
		for j, col := range t.Header {
			if j < len(row) {
				rec[col] = row[j]
			}
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("jsonl: row %d: %w", i+1, err)
		}
	}
	return nil
}
