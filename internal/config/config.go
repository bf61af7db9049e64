// Package config loads sgrep's YAML configuration file: which
// extensions to scan, which paths to ignore, named patterns kept in a
// library, and cache settings. Modeled on the teacher's lint.Config /
// fixer_v2's RulesConfig, both loaded with gopkg.in/yaml.v3.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// NamedPattern is a pattern string saved under a short name so it can
// be invoked as `sgrep --use foo` instead of retyping it.
type NamedPattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Note    string `yaml:"note,omitempty"`
}

// CacheConfig controls the per-file result cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	MaxAgeS int    `yaml:"max_age_seconds"`
}

// Config is the root of sgrep's YAML configuration file.
type Config struct {
	Extensions []string       `yaml:"extensions"`
	IgnorePath []string       `yaml:"ignore_paths"`
	Patterns   []NamedPattern `yaml:"patterns"`
	Cache      CacheConfig    `yaml:"cache"`
}

// Default returns the configuration sgrep uses when no config file is
// given or found.
func Default() Config {
	return Config{
		Extensions: []string{".go", ".gno", ".ts", ".js", ".py"},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".sgrep-cache",
			MaxAgeS: 24 * 60 * 60,
		},
	}
}

// Load reads and parses the YAML config file at path. A missing file
// is not an error; Load returns Default() in that case.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Lookup finds a named pattern by name.
func (c Config) Lookup(name string) (string, bool) {
	for _, p := range c.Patterns {
		if p.Name == name {
			return p.Pattern, true
		}
	}
	return "", false
}
