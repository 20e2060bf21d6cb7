package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is prepended to upper-cased config keys for environment
// overrides, e.g. TODOLIST_API_BASE_URL.
const envPrefix = "TODOLIST"

// APIConfig configures the connection to the todo backend.
type APIConfig struct {
	// BaseURL is the backend origin including the /api prefix.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single request round trip.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// IdentityHeader names the header that carries the user id.
	IdentityHeader string `mapstructure:"identity_header" yaml:"identity_header"`
}

// StorageConfig selects where the session record is persisted.
type StorageConfig struct {
	// Backend is "sqlite" or "keyring".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the sqlite database file (sqlite backend) or the fallback
	// credentials directory (keyring backend).
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme           string `mapstructure:"theme" yaml:"theme"`
	PollIntervalSec int    `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// LoggingConfig controls the log file written while the TUI owns the terminal.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// Storage backends.
const (
	StorageSQLite  = "sqlite"
	StorageKeyring = "keyring"
)

// DefaultConfigDir returns ~/.config/todolist, or "." when the home
// directory cannot be determined.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todolist")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todolist/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := DefaultConfigDir()
	return &AppConfig{
		API: APIConfig{
			BaseURL:        "http://localhost:5000/api",
			TimeoutSec:     10,
			IdentityHeader: "X-User-ID",
		},
		Storage: StorageConfig{
			Backend: StorageSQLite,
			Path:    filepath.Join(dir, "todolist.db"),
		},
		Display: DisplayConfig{
			Theme:           "default",
			PollIntervalSec: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(dir, "todolist.log"),
		},
	}
}

// setDefaults registers every key so that environment overrides resolve
// even when the file does not mention them.
func setDefaults(v *viper.Viper, cfg *AppConfig) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout_sec", cfg.API.TimeoutSec)
	v.SetDefault("api.identity_header", cfg.API.IdentityHeader)
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("display.theme", cfg.Display.Theme)
	v.SetDefault("display.poll_interval_sec", cfg.Display.PollIntervalSec)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults (plus environment overrides) are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := defaultAppConfig()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values that cannot be defaulted silently.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url must not be empty")
	}
	if c.API.TimeoutSec <= 0 {
		return fmt.Errorf("api.timeout_sec must be positive, got %d", c.API.TimeoutSec)
	}
	switch c.Storage.Backend {
	case StorageSQLite, StorageKeyring:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q",
			StorageSQLite, StorageKeyring, c.Storage.Backend)
	}
	if c.Display.PollIntervalSec <= 0 {
		c.Display.PollIntervalSec = 60
	}
	if c.API.IdentityHeader == "" {
		c.API.IdentityHeader = "X-User-ID"
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("storage", cfg.Storage)
	v.Set("display", cfg.Display)
	v.Set("logging", cfg.Logging)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
