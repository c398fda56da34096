package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when BLOG_CONFIG is unset.
const DefaultPath = "config.yaml"

// Path resolves the config file location from the environment.
func Path() string {
	if p := strings.TrimSpace(os.Getenv("BLOG_CONFIG")); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the YAML file at path. When the file cannot be opened it still
// returns a defaulted config next to the error, so callers may run without one.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		var cfg Config
		cfg.Defaults()
		return &cfg, err
	}
	defer f.Close()
	cfg, err := FromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func FromReader(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
