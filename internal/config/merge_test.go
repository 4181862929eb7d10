package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_RepoWins(t *testing.T) {
	global := &Config{
		Model:      "global",
		Generate:   GenerateConfig{Batches: 9, Workers: 8, Format: "xlsx"},
		OpenCoding: OpenCodingConfig{Workers: 3, IncludeDropped: true},
	}
	repo := &Config{
		Generate:   GenerateConfig{Batches: 2, Output: "out.csv"},
		OpenCoding: OpenCodingConfig{Where: "keep"},
	}

	got := Merge(global, repo)
	assert.Equal(t, "global", got.Model)
	assert.Equal(t, 2, got.Generate.Batches)
	assert.Equal(t, 8, got.Generate.Workers)
	assert.Equal(t, "xlsx", got.Generate.Format)
	assert.Equal(t, "out.csv", got.Generate.Output)
	assert.Equal(t, 3, got.OpenCoding.Workers)
	assert.Equal(t, "keep", got.OpenCoding.Where)
	assert.True(t, got.OpenCoding.IncludeDropped)

	// Inputs are not modified.
	assert.Equal(t, 9, global.Generate.Batches)
}

func TestMerge_Empty(t *testing.T) {
	assert.Equal(t, &Config{}, Merge(&Config{}, &Config{}))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{ModelEnvVar: "from-env"}
	cfg := &Config{Model: "from-file"}
	ApplyEnv(cfg, func(k string) string { return env[k] })
	assert.Equal(t, "from-env", cfg.Model)

	cfg = &Config{Model: "from-file"}
	ApplyEnv(cfg, func(string) string { return "" })
	assert.Equal(t, "from-file", cfg.Model)
}

func TestResolvedModel(t *testing.T) {
	assert.Equal(t, DefaultModel, (&Config{}).ResolvedModel())
	assert.Equal(t, "x", (&Config{Model: "x"}).ResolvedModel())
}
