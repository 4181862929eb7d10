package config

// Merge overlays repo config on global config. Non-zero repo values win.
func Merge(global, repo *Config) *Config {
	result := *global

	result.Model = pickString(repo.Model, result.Model)

	g, rg := &result.Generate, repo.Generate
	g.Batches = pickInt(rg.Batches, g.Batches)
	g.TuplesPerBatch = pickInt(rg.TuplesPerBatch, g.TuplesPerBatch)
	g.QueriesPerTuple = pickInt(rg.QueriesPerTuple, g.QueriesPerTuple)
	g.Workers = pickInt(rg.Workers, g.Workers)
	g.Output = pickString(rg.Output, g.Output)
	g.Format = pickString(rg.Format, g.Format)
	g.RetryDelay = pickString(rg.RetryDelay, g.RetryDelay)

	o, ro := &result.OpenCoding, repo.OpenCoding
	o.Input = pickString(ro.Input, o.Input)
	o.Output = pickString(ro.Output, o.Output)
	o.Format = pickString(ro.Format, o.Format)
	o.Workers = pickInt(ro.Workers, o.Workers)
	o.Where = pickString(ro.Where, o.Where)
	o.IncludeDropped = o.IncludeDropped || ro.IncludeDropped

	return &result
}

// ApplyEnv applies environment overrides in place. getenv is usually os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if m := getenv(ModelEnvVar); m != "" {
		cfg.Model = m
	}
}

// ResolvedModel returns the configured model or DefaultModel.
func (c *Config) ResolvedModel() string {
	return pickString(c.Model, DefaultModel)
}

func pickString(override, base string) string {
	if override != "" {
		return override
	}
	return base
}

func pickInt(override, base int) int {
	if override != 0 {
		return override
	}
	return base
}
