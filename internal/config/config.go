// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for fossa-export with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and automatic discovery of
// configuration in standard locations, which is useful for on-premise FOSSA
// deployments that need a custom API endpoint on every run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .fossa-export.yaml (current directory)
//   - .fossa-export.yml (current directory)
//   - ~/.fossa-export/config.yaml
//   - ~/.fossa-export/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".fossa-export.yaml",
			".fossa-export.yml",
			filepath.Join(os.Getenv("HOME"), ".fossa-export", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".fossa-export", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("FOSSA_API_ENDPOINT"); endpoint != "" {
		cfg.API.Endpoint = endpoint
	}

	if category := os.Getenv("FOSSA_EXPORT_CATEGORY"); category != "" {
		cfg.Defaults.Category = category
	}
	if count := os.Getenv("FOSSA_EXPORT_COUNT"); count != "" {
		if parsed, err := parsePositiveInt(count); err == nil {
			cfg.Defaults.Count = parsed
		}
	}
	if format := os.Getenv("FOSSA_EXPORT_FORMAT"); format != "" {
		cfg.Defaults.Format = strings.ToLower(format)
	}
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// Validate checks if the configuration contains valid values. This should
// be called after flag overrides are merged in, so invalid settings are
// caught before the first API request.
func (c *Config) Validate() error {
	if c.Defaults.Count <= 0 {
		return fmt.Errorf("page size must be positive, got: %d", c.Defaults.Count)
	}
	switch c.Defaults.Format {
	case "json", "csv", "ndjson":
	default:
		return fmt.Errorf("invalid output format %q. Choose \"json\", \"csv\" or \"ndjson\"", c.Defaults.Format)
	}
	if c.API.Endpoint == "" {
		return fmt.Errorf("API endpoint cannot be empty")
	}
	return nil
}
