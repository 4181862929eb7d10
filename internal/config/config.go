// Package config handles .scouteval.yaml and .scouteval.toml configuration files.
package config

import (
	"fmt"
	"time"
)

// Config represents the contents of a scouteval config file.
type Config struct {
	Model      string           `yaml:"model,omitempty" toml:"model,omitempty"`
	Generate   GenerateConfig   `yaml:"generate,omitempty" toml:"generate,omitempty"`
	OpenCoding OpenCodingConfig `yaml:"opencoding,omitempty" toml:"opencoding,omitempty"`
}

// GenerateConfig holds settings for the synthetic query pipeline.
// Zero values fall through to the pipeline defaults.
type GenerateConfig struct {
	Batches         int    `yaml:"batches,omitempty" toml:"batches,omitempty"`
	TuplesPerBatch  int    `yaml:"tuples_per_batch,omitempty" toml:"tuples_per_batch,omitempty"`
	QueriesPerTuple int    `yaml:"queries_per_tuple,omitempty" toml:"queries_per_tuple,omitempty"`
	Workers         int    `yaml:"workers,omitempty" toml:"workers,omitempty"`
	Output          string `yaml:"output,omitempty" toml:"output,omitempty"`
	Format          string `yaml:"format,omitempty" toml:"format,omitempty"`
	RetryDelay      string `yaml:"retry_delay,omitempty" toml:"retry_delay,omitempty"`
}

// OpenCodingConfig holds settings for the open coding labeler.
type OpenCodingConfig struct {
	Input          string `yaml:"input,omitempty" toml:"input,omitempty"`
	Output         string `yaml:"output,omitempty" toml:"output,omitempty"`
	Format         string `yaml:"format,omitempty" toml:"format,omitempty"`
	Workers        int    `yaml:"workers,omitempty" toml:"workers,omitempty"`
	Where          string `yaml:"where,omitempty" toml:"where,omitempty"`
	IncludeDropped bool   `yaml:"include_dropped,omitempty" toml:"include_dropped,omitempty"`
}

const (
	// FileName is the YAML config file name looked up in the working directory.
	FileName = ".scouteval.yaml"

	// TOMLFileName is the alternative TOML config file name. YAML wins when both exist.
	TOMLFileName = ".scouteval.toml"

	// ModelEnvVar overrides the configured model name.
	ModelEnvVar = "MODEL_NAME"

	// DefaultModel is used when neither config, environment, nor flags name a model.
	DefaultModel = "anthropic/claude-3-haiku-20240307"

	// DefaultGenerateOutput is where generated queries go by default.
	DefaultGenerateOutput = "synthetic_queries_for_analysis.csv"

	// DefaultOpenCodingOutput is where open coding results go by default.
	DefaultOpenCodingOutput = "open_coding_results.csv"
)

// RetryDelayDuration parses Generate.RetryDelay. An empty value returns
// ok=false so the caller keeps its own default.
func (c *Config) RetryDelayDuration() (d time.Duration, ok bool, err error) {
	if c.Generate.RetryDelay == "" {
		return 0, false, nil
	}
	d, err = time.ParseDuration(c.Generate.RetryDelay)
	if err != nil {
		return 0, false, fmt.Errorf("retry_delay: %w", err)
	}
	return d, true, nil
}
