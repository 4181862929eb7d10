// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Empty(t, cfg.Model)
	assert.Zero(t, cfg.Generate)
	assert.Empty(t, Path(dir))
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	content := `
model: anthropic/claude-3-5-sonnet-latest
generate:
  batches: 3
  tuples_per_batch: 4
  workers: 2
  format: xlsx
  retry_delay: 250ms
opencoding:
  where: country == "Spain"
  include_dropped: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-5-sonnet-latest", cfg.Model)
	assert.Equal(t, 3, cfg.Generate.Batches)
	assert.Equal(t, 4, cfg.Generate.TuplesPerBatch)
	assert.Equal(t, 2, cfg.Generate.Workers)
	assert.Equal(t, "xlsx", cfg.Generate.Format)
	assert.Equal(t, `country == "Spain"`, cfg.OpenCoding.Where)
	assert.True(t, cfg.OpenCoding.IncludeDropped)
	assert.Equal(t, filepath.Join(dir, FileName), Path(dir))
}

func TestLoad_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	content := `
model = "anthropic/claude-3-haiku-20240307"

[generate]
batches = 2
queries_per_tuple = 7

[opencoding]
workers = 9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku-20240307", cfg.Model)
	assert.Equal(t, 2, cfg.Generate.Batches)
	assert.Equal(t, 7, cfg.Generate.QueriesPerTuple)
	assert.Equal(t, 9, cfg.OpenCoding.Workers)
	assert.Equal(t, filepath.Join(dir, TOMLFileName), Path(dir))
}

func TestLoad_YAMLPreferredOverTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("model: from-yaml\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte(`model = "from-toml"`), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", cfg.Model)
}

func TestLoad_TOMLUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	content := "model = \"m\"\n\n[generate]\nbatchez = 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte(content), 0o600))

	cfg, err := Load(dir)
	require.Error(t, err)
	assert.Nil(t, cfg)

	var uk *UnknownKeysError
	require.ErrorAs(t, err, &uk)
	assert.Equal(t, []string{"generate.batchez"}, uk.Keys)
	assert.Contains(t, err.Error(), "generate.batchez")
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{{invalid yaml"), 0o600))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte("model = "), 0o600))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(""), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.Model)
}

func TestWrite_RoundTrip(t *testing.T) {
	cfg := &Config{
		Model:    "m",
		Generate: GenerateConfig{Batches: 2, Format: "jsonl"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cfg))
	assert.Contains(t, buf.String(), "generate:\n  batches: 2\n")
	assert.NotContains(t, buf.String(), "opencoding")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), buf.Bytes(), 0o600))
	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestRetryDelayDuration(t *testing.T) {
	cfg := &Config{}
	_, ok, err := cfg.RetryDelayDuration()
	require.NoError(t, err)
	assert.False(t, ok)

	cfg.Generate.RetryDelay = "1500ms"
	d, ok, err := cfg.RetryDelayDuration()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1.5s", d.String())

	cfg.Generate.RetryDelay = "soon"
	_, _, err = cfg.RetryDelayDuration()
	assert.ErrorContains(t, err, "retry_delay")
}
