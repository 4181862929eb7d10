// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the scouting assistant and query generator as tools over stdio.
package mcpserver

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolveOutputPath resolves an output file path requested by an MCP client.
// Relative paths are taken from baseDir. The result must stay inside baseDir
// after symlinks in baseDir itself are resolved.
func ResolveOutputPath(baseDir, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty output path")
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("output path %q contains a null byte", path)
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve base directory %q: %w", baseDir, err)
	}
	if real, err := filepath.EvalSymlinks(base); err == nil {
		base = real
	}

	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("output path %q escapes %s", path, base)
	}
	return target, nil
}
