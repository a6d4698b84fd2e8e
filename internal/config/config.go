// Package config handles preferences and session persistence for healthguru.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
)

// Theme preference values. Exactly one is active at a time.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DefaultBaseURL is where the Healthguru service listens unless overridden.
const DefaultBaseURL = "http://localhost:5000"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	EnableEmoji      bool `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool `json:"table_wrap"`         // Enable word wrap in table cells
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the root of the Healthguru service.
	BaseURL string `json:"base_url"`
	// Theme is the persisted light/dark preference. Read once at load,
	// mutated on toggle.
	Theme string `json:"theme"`
	// CopyToClipboard copies the last response to the clipboard after a
	// one-shot query.
	CopyToClipboard bool `json:"copy_to_clipboard"`
	// Verbose enables diagnostic logging to the log file.
	Verbose  bool           `json:"verbose"`
	Markdown MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Theme:           ThemeDark,
		CopyToClipboard: false,
		Verbose:         false,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// ValidTheme reports whether s is an accepted theme value.
func ValidTheme(s string) bool {
	return s == ThemeLight || s == ThemeDark
}

// ToggleTheme returns the opposite theme. Applying it twice restores the
// original value.
func ToggleTheme(theme string) string {
	if theme == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".healthguru"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the web session cookie
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk and applies environment
// overrides. A missing file yields the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if !ValidTheme(cfg.Theme) {
		cfg.Theme = ThemeDark
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv layers .env and process environment values over cfg.
// Environment always wins over the file.
func applyEnv(cfg *Config) {
	// .env in the working directory, if present. Errors are ignored; the
	// file is optional.
	_ = gotenv.Load()

	if v := os.Getenv("HEALTHGURU_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("HEALTHGURU_THEME"); ValidTheme(v) {
		cfg.Theme = v
	}
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
