package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultSupported lists the API versions a run covers when a config gives
// a min/max bound instead of an explicit list. 20 was never a public level.
var DefaultSupported = []int{16, 17, 18, 19, 21, 22, 23, 24, 25, 26, 27, 28}

// Config is a multi-version run configuration.
//
//	name: network
//	min_version: 21
//	manifests: ./manifests
type Config struct {
	// Name labels the run in reports and the store.
	Name string `yaml:"name"`

	// Description is free text shown by the CLI.
	Description string `yaml:"description,omitempty"`

	// Versions is an explicit iteration order. Exclusive with the bounds.
	Versions []int `yaml:"versions,omitempty"`

	// MinVersion and MaxVersion bound the Supported list, inclusive.
	MinVersion *int `yaml:"min_version,omitempty"`
	MaxVersion *int `yaml:"max_version,omitempty"`

	// Supported overrides DefaultSupported.
	Supported []int `yaml:"supported,omitempty"`

	// Manifests is a directory of CUE binding manifests. Relative paths
	// resolve against the config file's directory.
	Manifests string `yaml:"manifests,omitempty"`
}

// LoadConfig reads and validates a config YAML file.
// Unknown fields are rejected so a typo like "min_versoin" fails loudly.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}

	if cfg.Manifests != "" && !filepath.IsAbs(cfg.Manifests) {
		cfg.Manifests = filepath.Join(filepath.Dir(path), cfg.Manifests)
	}
	return cfg, nil
}

// ParseConfig parses and validates config YAML.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks required fields and mutually exclusive options.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(c.Versions) > 0 && (c.MinVersion != nil || c.MaxVersion != nil) {
		return fmt.Errorf("versions and min_version/max_version are mutually exclusive")
	}

	seen := make(map[int]bool, len(c.Versions))
	for i, v := range c.Versions {
		if v <= 0 {
			return fmt.Errorf("versions[%d]: %d is not a positive API version", i, v)
		}
		if seen[v] {
			return fmt.Errorf("versions[%d]: %d listed twice", i, v)
		}
		seen[v] = true
	}

	if c.MinVersion != nil && c.MaxVersion != nil && *c.MinVersion > *c.MaxVersion {
		return fmt.Errorf("min_version %d is greater than max_version %d", *c.MinVersion, *c.MaxVersion)
	}
	return nil
}

// Sequence returns the versions to run, in order.
func (c *Config) Sequence() ([]int, error) {
	if len(c.Versions) > 0 {
		return slices.Clone(c.Versions), nil
	}

	supported := c.Supported
	if len(supported) == 0 {
		supported = DefaultSupported
	}
	supported = slices.Clone(supported)
	slices.Sort(supported)
	supported = slices.Compact(supported)

	var out []int
	for _, v := range supported {
		if c.MinVersion != nil && v < *c.MinVersion {
			continue
		}
		if c.MaxVersion != nil && v > *c.MaxVersion {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no supported version in range", c.Name)
	}
	return out, nil
}
