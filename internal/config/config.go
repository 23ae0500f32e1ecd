// Package config loads predsql settings.
//
// Sources are layered, later ones winning:
//  1. built-in defaults
//  2. the config file (--config, or predsql.yaml / predsql.yml in the
//     working directory)
//  3. PREDSQL_ environment variables (PREDSQL_MODELS_DIR -> models_dir)
//  4. command-line flags that were explicitly set
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/roach88/predsql/internal/dialect"
)

// Default configuration values.
const (
	DefaultDialect   = "sqlite"
	DefaultModelsDir = "models"
	DefaultFormat    = "text"
	EnvPrefix        = "PREDSQL_"
)

// ConfigFileNames are searched in order when no file is given.
var ConfigFileNames = []string{"predsql.yaml", "predsql.yml"}

// Config holds the resolved settings.
type Config struct {
	Dialect   string `koanf:"dialect"`
	ModelsDir string `koanf:"models_dir"`
	Database  string `koanf:"database"` // SQLite path used by "query"
	Format    string `koanf:"format"`
	Verbose   bool   `koanf:"verbose"`

	// File is the config file that was loaded, "" when none.
	File string `koanf:"-"`
}

// Load resolves the configuration. cfgFile may be empty; flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"dialect":    DefaultDialect,
		"models_dir": DefaultModelsDir,
		"format":     DefaultFormat,
		"verbose":    false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	path, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (only those explicitly set)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := dialect.Lookup(c.Dialect); err != nil {
		return fmt.Errorf("invalid dialect: %w", err)
	}
	if c.Format != "text" && c.Format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", c.Format)
	}
	return nil
}

// findConfigFile returns the explicit file, or the first default name
// present in the working directory.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}
