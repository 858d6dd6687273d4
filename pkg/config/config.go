// Package config loads the dotrig application configuration.
//
// Configuration lives in config.toml inside the dotrig config directory
// (XDG compliant, overridable via DOTRIG_CONFIG_DIR). A missing file is not
// an error: defaults apply. Environment variables override file values.
package config

import (
	"os"
	"strconv"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/paths"
	"github.com/pelletier/go-toml/v2"
)

// EnvWorkers overrides the worker count for independent element execution
const EnvWorkers = "DOTRIG_WORKERS"

// DefaultWorkers is the bounded-concurrency limit for independent elements
const DefaultWorkers = 4

// Config holds user-tunable settings
type Config struct {
	// Workers bounds how many independent elements run in parallel
	Workers int `toml:"workers"`

	// ElementsDir is the directory containing element descriptors
	ElementsDir string `toml:"elements-dir"`

	// StorageDir overrides where tools place cloned/installed material
	StorageDir string `toml:"storage-dir"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Workers: DefaultWorkers,
	}
}

// Load reads the configuration file at path, applies defaults for absent
// values and environment overrides on top. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config file %s", path)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", path)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Workers < 1 {
		return nil, errors.Newf(errors.ErrConfigParse, "workers must be at least 1, got %d", cfg.Workers)
	}

	return cfg, nil
}

// LoadDefault loads configuration from the standard location
func LoadDefault(p *paths.Paths) (*Config, error) {
	return Load(p.ConfigFilePath())
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv(paths.EnvElementsDir); v != "" {
		cfg.ElementsDir = v
	}
	if v := os.Getenv(paths.EnvStorageDir); v != "" {
		cfg.StorageDir = v
	}
}
