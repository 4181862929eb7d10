package config

import (
	"fmt"
	"strings"

	"github.com/davetashner/scouteval/internal/opencoding"
	"github.com/davetashner/scouteval/internal/sink"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	nonNegative := func(key string, v int) {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s: must be non-negative, got %d", key, v))
		}
	}

	g := cfg.Generate
	nonNegative("generate.batches", g.Batches)
	nonNegative("generate.tuples_per_batch", g.TuplesPerBatch)
	nonNegative("generate.queries_per_tuple", g.QueriesPerTuple)
	nonNegative("generate.workers", g.Workers)
	if g.Format != "" {
		if _, err := sink.GetFormatter(g.Format); err != nil {
			errs = append(errs, fmt.Sprintf("generate.format: %v", err))
		}
	}
	if d, _, err := cfg.RetryDelayDuration(); err != nil {
		errs = append(errs, fmt.Sprintf("generate.%v", err))
	} else if d < 0 {
		errs = append(errs, fmt.Sprintf("generate.retry_delay: must be non-negative, got %s", d))
	}

	o := cfg.OpenCoding
	nonNegative("opencoding.workers", o.Workers)
	if o.Format != "" {
		if _, err := sink.GetFormatter(o.Format); err != nil {
			errs = append(errs, fmt.Sprintf("opencoding.format: %v", err))
		}
	}
	if o.Where != "" {
		if _, err := opencoding.NewFilter(o.Where); err != nil {
			errs = append(errs, fmt.Sprintf("opencoding.where: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
