// Package config loads the compat-tester configuration: the Maven invocation
// settings and the set of plugins to validate against the core under test.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Maven     MavenConfig `yaml:"maven"`
	Plugins   []Plugin    `yaml:"plugins"`
	Workspace string      `yaml:"workspace,omitempty"` // checkout/build working area
	// LocalCheckout points at an in-progress local source tree used instead of
	// a fetched release. Applies to every plugin listed for this run.
	LocalCheckout string        `yaml:"local_checkout,omitempty"`
	Metrics       MetricsConfig `yaml:"metrics,omitempty"`
}

// MavenConfig carries the external Maven runner settings, passed through to
// every build-tool invocation unchanged.
type MavenConfig struct {
	Executable string   `yaml:"executable,omitempty"` // defaults to "mvn" from PATH
	Settings   string   `yaml:"settings,omitempty"`   // -s settings file, optional
	Args       []string `yaml:"args,omitempty"`       // extra arguments appended to every run
}

// Plugin describes one plugin under test.
type Plugin struct {
	Name string `yaml:"name"`
	// Dir is the plugin project root. May be empty when the checkout stage is
	// expected to populate it under the workspace.
	Dir string `yaml:"dir,omitempty"`
	// ParentFolder names the enclosing multi-module folder, when the plugin is
	// part of a multi-module repository. Empty for standalone plugins.
	ParentFolder string `yaml:"parent_folder,omitempty"`
	// URL is the git location of the plugin (or its parent repository) used by
	// the checkout stage when no local checkout override is in effect.
	URL    string `yaml:"url,omitempty"`
	Branch string `yaml:"branch,omitempty"`
}

// MetricsConfig toggles the Prometheus recorder.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Listen  string `yaml:"listen,omitempty"` // host:port for the /metrics endpoint
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just log it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Maven.Executable == "" {
		config.Maven.Executable = "mvn"
	}
	if config.Workspace == "" {
		config.Workspace = "./work"
	}
	if config.Metrics.Enabled && config.Metrics.Listen == "" {
		config.Metrics.Listen = ":9090"
	}
}

// Validate checks the configuration for consistency before any chain runs.
func (c *Config) Validate() error {
	if len(c.Plugins) == 0 {
		return fmt.Errorf("no plugins configured")
	}
	seen := make(map[string]bool, len(c.Plugins))
	for i, p := range c.Plugins {
		if p.Name == "" {
			return fmt.Errorf("plugin %d: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("plugin %s listed twice", p.Name)
		}
		seen[p.Name] = true
		if p.Dir == "" && p.URL == "" && c.LocalCheckout == "" {
			return fmt.Errorf("plugin %s: needs a dir, a url, or a local checkout", p.Name)
		}
	}
	if c.LocalCheckout != "" {
		if _, err := os.Stat(c.LocalCheckout); err != nil {
			return fmt.Errorf("local checkout %s not accessible: %w", c.LocalCheckout, err)
		}
	}
	return nil
}

// PluginDir resolves the working directory for a plugin: its configured dir
// when set, otherwise a folder under the workspace (nested below the parent
// folder for multi-module layouts).
func (c *Config) PluginDir(p Plugin) string {
	if p.Dir != "" {
		return p.Dir
	}
	if p.ParentFolder != "" {
		return filepath.Join(c.Workspace, p.ParentFolder, p.Name)
	}
	return filepath.Join(c.Workspace, p.Name)
}

// loadEnvFile loads environment variables from .env file
func loadEnvFile() error {
	envPaths := []string{".env", ".env.local"}

	for _, envPath := range envPaths {
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			return nil
		}
	}

	return fmt.Errorf("no .env file found")
}
