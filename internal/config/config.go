// Package config loads and saves the client configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type Config struct {
	// ServerURL is the API base URL including the path prefix,
	// e.g. http://localhost:3001/api.
	ServerURL   string `yaml:"server_url"`
	Theme       string `yaml:"theme"`
	Language    string `yaml:"language"`
	SessionPath string `yaml:"session_path"`
	LogPath     string `yaml:"log_path"`
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ServerURL, validation.Required),
		validation.Field(&c.Theme, validation.Required, validation.In(ThemeLight, ThemeDark)),
		validation.Field(&c.SessionPath, validation.Required),
	)
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "notekeeper")
}

func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yml")
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func Default() *Config {
	return &Config{
		ServerURL:   "http://localhost:3001/api",
		Theme:       ThemeLight,
		Language:    "en",
		SessionPath: filepath.Join(configDir(), "session"),
		LogPath:     filepath.Join(configDir(), "notekeeper.log"),
	}
}

// Load reads the config at path on top of the defaults. Environment
// variables in the file are expanded, a leading ~ in paths resolves to the
// home directory. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.SessionPath = expandHome(cfg.SessionPath)
	cfg.LogPath = expandHome(cfg.LogPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
