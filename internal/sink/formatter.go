// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

// Package sink writes and reads the tabular artifacts produced by the
// generator and the open-coding labeler.
package sink

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Table is a header plus string rows. Every row has len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Formatter writes a Table in a specific file format.
type Formatter interface {
	// Name returns the format name (e.g., "csv", "jsonl", "xlsx").
	Name() string

	// Extension returns the file extension including the dot.
	Extension() string

	// Format writes t to w.
	Format(t Table, w io.Writer) error
}

var (
	fmtMu       sync.RWMutex
	fmtRegistry = make(map[string]Formatter)
)

// RegisterFormatter adds a formatter to the global registry.
func RegisterFormatter(f Formatter) {
	fmtMu.Lock()
	defer fmtMu.Unlock()
	fmtRegistry[f.Name()] = f
}

// GetFormatter returns the formatter with the given name, or an error if not found.
func GetFormatter(name string) (Formatter, error) {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	f, ok := fmtRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %q (available: %s)", name, formatNames())
	}
	return f, nil
}

// FormatForPath picks a formatter from an explicit name, falling back to the
// file extension of path and then to csv.
func FormatForPath(name, path string) (Formatter, error) {
	if name != "" {
		return GetFormatter(name)
	}
	ext := strings.ToLower(filepath.Ext(path))
	fmtMu.RLock()
	for _, f := range fmtRegistry {
		if f.Extension() == ext {
			fmtMu.RUnlock()
			return f, nil
		}
	}
	fmtMu.RUnlock()
	return GetFormatter("csv")
}

// FormatNames returns the registered format names, sorted.
func FormatNames() []string {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	names := make([]string, 0, len(fmtRegistry))
	for name := range fmtRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatNames must be called with fmtMu held.
func formatNames() string {
	names := make([]string, 0, len(fmtRegistry))
	for name := range fmtRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
