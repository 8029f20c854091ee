package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvSiteRoot = "VOYAGER_SITE_ROOT"
	EnvDBDSN    = "VOYAGER_DB_DSN"
)

// XDGConfigDir returns voyager's XDG config directory, e.g.
// ~/.config/voyager on Linux.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// FindConfigFile returns the config file to load. An explicit path must
// exist. Otherwise ./.voyager.yaml is preferred over the XDG config file.
// Returns "" when there is no file to load.
func FindConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
			}
			return "", fmt.Errorf("failed to stat config file: %w", err)
		}
		return explicit, nil
	}

	candidates := []string{
		LocalConfigName,
		filepath.Join(XDGConfigDir(), DefaultConfigName),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// LoadFile reads a YAML config file over the defaults. Settings missing from
// the file keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load finds and reads the config file (see FindConfigFile), applies
// environment overrides and validates the result. With no file the defaults
// are used.
func Load(explicit string) (*Config, error) {
	path, err := FindConfigFile(explicit)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Site.Root = getEnv(EnvSiteRoot, c.Site.Root)
	c.Storage.DSN = getEnv(EnvDBDSN, c.Storage.DSN)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
