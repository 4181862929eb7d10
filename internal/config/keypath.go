package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// GetValue retrieves a value from a Config by dot-notation key path, for
// example "generate.workers". Unset leaves report an error.
func GetValue(cfg *Config, keyPath string) (any, error) {
	if err := ValidateKeyPath(keyPath); err != nil {
		return nil, err
	}
	m, err := configToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return navigateMap(m, keyPath)
}

// FlattenMap recursively flattens a nested map to dot-notation keys.
func FlattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			for sk, sv := range FlattenMap(sub, key) {
				result[sk] = sv
			}
		} else {
			result[key] = v
		}
	}
	return result
}

// Flatten returns every set value of cfg keyed by dot-notation path.
func Flatten(cfg *Config) (map[string]any, error) {
	m, err := configToMap(cfg)
	if err != nil {
		return nil, err
	}
	return FlattenMap(m, ""), nil
}

// ValidateKeyPath checks that a dot-notation key path names a Config field.
// The valid key set comes from the yaml struct tags.
func ValidateKeyPath(keyPath string) error {
	if keyPath == "" {
		return fmt.Errorf("empty key path")
	}

	t := reflect.TypeOf(Config{})
	parts := strings.Split(keyPath, ".")
	for i, part := range parts {
		if t.Kind() != reflect.Struct {
			return fmt.Errorf("key %q is a scalar; cannot use sub-keys", strings.Join(parts[:i], "."))
		}
		keys := yamlKeys(t)
		field, ok := keys[part]
		if !ok {
			return fmt.Errorf("unknown key %q; valid keys: %s", strings.Join(parts[:i+1], "."), sortedKeys(keys))
		}
		t = field
	}
	return nil
}

// configToMap marshals a Config to a map via YAML round-trip.
func configToMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// navigateMap traverses a nested map using a dot-notation key path.
func navigateMap(m map[string]any, keyPath string) (any, error) {
	var current any = m
	for _, part := range strings.Split(keyPath, ".") {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("key %q: parent is not a map", part)
		}
		val, exists := cm[part]
		if !exists {
			return nil, fmt.Errorf("key %q not set", keyPath)
		}
		current = val
	}
	return current, nil
}

// yamlKeys maps yaml tag names of a struct type to their field types.
func yamlKeys(t reflect.Type) map[string]reflect.Type {
	keys := make(map[string]reflect.Type)
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		if name := strings.Split(tag, ",")[0]; name != "" {
			keys[name] = f.Type
		}
	}
	return keys
}

func sortedKeys(m map[string]reflect.Type) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
