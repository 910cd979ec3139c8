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

package config

// Config represents the complete configuration for fossa-export.
// It consolidates settings from YAML files, environment variables, and
// command-line flags into a single structure.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// APIConfig contains FOSSA-specific settings. A custom endpoint allows
// exporting from on-premise FOSSA deployments.
type APIConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// DefaultsConfig contains the default export parameters applied when the
// corresponding flags are not given.
type DefaultsConfig struct {
	Category string `yaml:"category"`
	Count    int    `yaml:"count"`
	Format   string `yaml:"format"`
}

// Built-in defaults matching the documented CLI behavior.
const (
	DefaultCategory = "licensing"
	DefaultCount    = 1000
	DefaultFormat   = "json"
)

// DefaultConfig returns the built-in configuration used when no config
// file or environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint: "https://app.fossa.com/api/v2/issues/exceptions",
		},
		Defaults: DefaultsConfig{
			Category: DefaultCategory,
			Count:    DefaultCount,
			Format:   DefaultFormat,
		},
	}
}
