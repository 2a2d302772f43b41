// Package config provides configuration management for the journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"tradebook/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Journal     JournalConfig `mapstructure:"journal"`
	UI          UIConfig      `mapstructure:"ui"`
	Advisor     AdvisorConfig `mapstructure:"advisor"`
	Log         LogConfig     `mapstructure:"log"`
	Credentials Credentials   `mapstructure:"-"` // Loaded separately

	dir string
}

// JournalConfig holds the journal defaults.
type JournalConfig struct {
	// Starting capital used until the user sets one; the equity curve
	// grows from this number.
	InitialCapital float64 `mapstructure:"initial_capital"`
	DatabaseFile   string  `mapstructure:"database_file"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// AdvisorConfig holds AI advisor configuration.
type AdvisorConfig struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradebook"
	}
	return filepath.Join(home, ".config", "tradebook")
}

// Load loads configuration from the specified directory. If configDir is
// empty the default directory is used. Missing files are created as
// templates and the built-in defaults apply, so a first run works with no
// setup at all.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{dir: configDir}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// Defaults
	v.SetDefault("journal.initial_capital", 10000.0)
	v.SetDefault("journal.database_file", "")
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02/01/2006")
	v.SetDefault("advisor.model", "gpt-4o")
	v.SetDefault("advisor.temperature", 0.3)
	v.SetDefault("advisor.max_tokens", 1500)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		if err := createTemplateConfig(configDir); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		return createTemplateCredentials(configDir)
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("TRADEBOOK_DB"); v != "" {
		cfg.Journal.DatabaseFile = v
	}
	if v := os.Getenv("TRADEBOOK_MODEL"); v != "" {
		cfg.Advisor.Model = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Journal.InitialCapital < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "initial_capital must be non-negative")
	}
	if c.Advisor.Temperature < 0 || c.Advisor.Temperature > 2 {
		return errors.Wrap(errors.ErrConfigInvalid, "advisor temperature must be between 0 and 2")
	}
	if c.Advisor.MaxTokens <= 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "advisor max_tokens must be positive")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Wrapf(errors.ErrConfigInvalid, "unknown log level %q", c.Log.Level)
	}
	return nil
}

// Dir returns the directory the configuration was loaded from.
func (c *Config) Dir() string {
	return c.dir
}

// DatabasePath returns the journal database location, defaulting to
// journal.db inside the config directory.
func (c *Config) DatabasePath() string {
	if c.Journal.DatabaseFile != "" {
		return c.Journal.DatabaseFile
	}
	return filepath.Join(c.dir, "journal.db")
}

// LogFilePath returns the log file location, defaulting to
// logs/tradebook.log inside the config directory.
func (c *Config) LogFilePath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.dir, "logs", "tradebook.log")
}

// HasOpenAIKey reports whether the AI advisor can be used.
func (c *Config) HasOpenAIKey() bool {
	return c.Credentials.OpenAI.APIKey != ""
}
