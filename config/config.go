// Package config provides configuration loading for lineui using TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Prompt settings
type Prompt struct {
	Text string `toml:"text"`
}

// Selection settings for the choice prompt
type Selection struct {
	Options []string `toml:"options"`
	Trigger string   `toml:"trigger"` // Line that opens the choice prompt
}

// Queue settings for committed lines
type Queue struct {
	HighWaterMark int `toml:"highWaterMark"`
}

// Journal settings
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Empty means journal.db in the config directory
}

// Config is the main configuration struct
type Config struct {
	Prompt    Prompt    `toml:"prompt"`
	Selection Selection `toml:"selection"`
	Queue     Queue     `toml:"queue"`
	Journal   Journal   `toml:"journal"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Prompt: Prompt{
			Text: "> ",
		},
		Selection: Selection{
			Options: []string{"Yes", "No", "Maybe"},
			Trigger: "choose",
		},
		Queue: Queue{
			HighWaterMark: 16,
		},
		Journal: Journal{
			Enabled: false,
			Path:    "",
		},
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lineui"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// JournalPath returns the journal database path, resolving the default.
func (c *Config) JournalPath() (string, error) {
	if c.Journal.Path != "" {
		return c.Journal.Path, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.db"), nil
}

// Load loads configuration, layering user config on top of defaults.
// Returns the default config if no user config exists.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return Default(), nil // Return defaults if we can't determine path
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path, layered on top of defaults.
// A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	userCfg, err := loadFromTOML(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	return merge(cfg, userCfg), nil
}

// loadFromTOML loads a TOML config file and returns the config.
func loadFromTOML(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return &cfg, nil
}

// merge layers user config on top of defaults.
// Only non-zero values from user config override defaults.
func merge(defaults, user *Config) *Config {
	result := *defaults
	result.Selection.Options = append([]string(nil), defaults.Selection.Options...)

	// Prompt
	if user.Prompt.Text != "" {
		result.Prompt.Text = user.Prompt.Text
	}

	// Selection
	if len(user.Selection.Options) > 0 {
		result.Selection.Options = append([]string(nil), user.Selection.Options...)
	}
	if user.Selection.Trigger != "" {
		result.Selection.Trigger = user.Selection.Trigger
	}

	// Queue
	if user.Queue.HighWaterMark > 0 {
		result.Queue.HighWaterMark = user.Queue.HighWaterMark
	}

	// Journal
	// Note: false can't be told apart from unset, so only enabling overrides
	if user.Journal.Enabled {
		result.Journal.Enabled = true
	}
	if user.Journal.Path != "" {
		result.Journal.Path = user.Journal.Path
	}

	return &result
}

// DefaultTOML returns the default configuration as a TOML string.
// Used for --init-config to generate a user config file.
func DefaultTOML() string {
	return `# lineui configuration
# Save to ~/.config/lineui/config.toml and customize
# Only include settings you want to change from defaults

# Prompt settings
[prompt]
text = "> "

# Choice prompt settings
[selection]
options = ["Yes", "No", "Maybe"]
trigger = "choose"            # Typing this line opens the choice prompt

# Committed line queue
[queue]
highWaterMark = 16            # Unread lines before input is reported as paused

# Commit journal
[journal]
enabled = false               # Record committed lines and choices in SQLite
path = ""                     # Empty = ~/.config/lineui/journal.db
`
}
