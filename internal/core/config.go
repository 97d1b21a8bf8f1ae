package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toby1984/license-check/internal/types"
)

// ConfigFile is the default per-project configuration file name.
const ConfigFile = ".license-check.yml"

// DefaultConfig returns the configuration used when no config file exists:
// every policy check disabled, default recursion bound, Maven Central.
func DefaultConfig() types.Config {
	depth := types.DefaultMaxSearchDepth
	return types.Config{
		MaxSearchDepth: &depth,
		Repositories:   []string{types.DefaultRepository},
		Parallelism:    1,
	}
}

// LoadConfig reads and parses a configuration file. A missing file yields
// DefaultConfig; a file that exists but is malformed or logically invalid
// is an error.
func LoadConfig(path string) (types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return types.Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg types.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	// Normalize: fill defaults for unset fields. An explicit
	// max_search_depth of 0 is kept: it means "never consult a parent".
	if cfg.MaxSearchDepth == nil {
		depth := types.DefaultMaxSearchDepth
		cfg.MaxSearchDepth = &depth
	}
	if len(cfg.Repositories) == 0 {
		cfg.Repositories = []string{types.DefaultRepository}
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}

	return cfg, nil
}

// validateConfig checks a configuration for logical errors. A license code
// MUST NOT appear on both the blacklist and the whitelist.
func validateConfig(cfg *types.Config) error {
	onBlacklist := make(map[string]string, len(cfg.Blacklist))
	for _, code := range cfg.Blacklist {
		onBlacklist[strings.ToLower(code)] = code
	}
	for _, code := range cfg.Whitelist {
		if _, ok := onBlacklist[strings.ToLower(code)]; ok {
			return fmt.Errorf("license code %q appears on both blacklist and whitelist", code)
		}
	}
	return nil
}
