package config

import (
	_ "embed"
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
	"helm.sh/helm/v3/pkg/strvals"
)

// defaultValues is the total default configuration. Every path the renderer
// understands has an entry here.
//
//go:embed values.yaml
var defaultValues []byte

// Default returns the configuration with no overrides applied. The result
// is not validated; deployment.name is intentionally empty.
func Default() (*Config, error) {
	raw, err := defaultMap()
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// Load resolves the effective configuration: defaults, then each values
// file in order, then --set overrides, merged with override-wins-at-leaf
// semantics (arrays are replaced wholesale). Every override document is
// checked against the schema before merging, and the merged result is
// validated.
func Load(files []string, set []string) (*Config, error) {
	merged, err := defaultMap()
	if err != nil {
		return nil, err
	}

	for _, path := range files {
		// #nosec G304
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read values file: %w", err)
		}
		overlay := make(map[string]any)
		if err := yaml.Unmarshal(data, &overlay); err != nil {
			return nil, fmt.Errorf("failed to parse values file %s: %w", path, err)
		}
		if err := validateOverrides(overlay); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := mergeOverlay(merged, overlay); err != nil {
			return nil, fmt.Errorf("failed to merge values file %s: %w", path, err)
		}
	}

	if len(set) > 0 {
		overlay := make(map[string]any)
		for _, kv := range set {
			if err := strvals.ParseInto(kv, overlay); err != nil {
				return nil, fmt.Errorf("failed to parse --set %q: %w", kv, err)
			}
		}
		if err := validateOverrides(overlay); err != nil {
			return nil, err
		}
		if err := mergeOverlay(merged, overlay); err != nil {
			return nil, fmt.Errorf("failed to merge --set overrides: %w", err)
		}
	}

	cfg, err := decode(merged)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFile resolves the configuration from a single values file.
func LoadFile(path string) (*Config, error) {
	return Load([]string{path}, nil)
}

func defaultMap() (map[string]any, error) {
	raw := make(map[string]any)
	if err := yaml.Unmarshal(defaultValues, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	return raw, nil
}

// mergeOverlay merges overlay over base in place. Keys present in the
// overlay win, including explicit false and empty strings; keys absent
// from the overlay are untouched.
func mergeOverlay(base, overlay map[string]any) error {
	return mergo.Merge(&base, overlay, mergo.WithOverride)
}

func decode(raw map[string]any) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &cfg,
		// --set values arrive as int64/bool/string; values files as yaml
		// scalars. Weak typing converts both into the schema types.
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}
