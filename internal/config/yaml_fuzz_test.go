package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func FuzzConfigParse(f *testing.F) {
	f.Add([]byte("model: m\ngenerate:\n  batches: 5\n"))
	f.Add([]byte(""))
	f.Add([]byte("---"))
	f.Add([]byte("opencoding:\n  include_dropped: true\n"))
	f.Add([]byte("{invalid"))

	f.Fuzz(func(t *testing.T, data []byte) {
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return
		}
		yaml.Marshal(&cfg) //nolint:errcheck,gosec // fuzz: testing crash-freedom
	})
}
