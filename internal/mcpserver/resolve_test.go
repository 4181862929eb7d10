// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutputPath(t *testing.T) {
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr string
	}{
		{"relative file", "queries.csv", filepath.Join(base, "queries.csv"), ""},
		{"nested", "runs/a/q.xlsx", filepath.Join(base, "runs", "a", "q.xlsx"), ""},
		{"cleaned", "runs/../q.csv", filepath.Join(base, "q.csv"), ""},
		{"absolute inside", filepath.Join(base, "x.csv"), filepath.Join(base, "x.csv"), ""},
		{"empty", "", "", "empty output path"},
		{"parent traversal", "../../../etc/passwd", "", "escapes"},
		{"absolute outside", "/etc/passwd", "", "escapes"},
		{"base itself", ".", "", "escapes"},
		{"null byte", "q\x00.csv", "", "null byte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOutputPath(base, tt.path)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOutputPath_SymlinkedBase(t *testing.T) {
	realDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	link := filepath.Join(t.TempDir(), "linked")
	require.NoError(t, os.Symlink(realDir, link))

	got, err := ResolveOutputPath(link, "q.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realDir, "q.csv"), got)
}
