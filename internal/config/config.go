// Package config handles configuration for nuchat.
//
// Values are resolved in order: built-in defaults, the JSON config file,
// a .env file in the working directory, then NUCHAT_* environment variables.
// Command-line flags are applied on top by the commands package.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/diogo/nuchat/internal/models"
)

// Provider names
const (
	ProviderRemote = "remote"
	ProviderLocal  = "local"
)

// MarkdownConfig configures terminal markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" env:"NUCHAT_MARKDOWN_STYLE"` // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`
	PreserveNewLines bool   `json:"preserve_newlines"`
	TableWrap        bool   `json:"table_wrap"`
	InlineTableLinks bool   `json:"inline_table_links"`
}

// Config represents the user configuration
type Config struct {
	BaseURL      string `json:"base_url" env:"NUCHAT_BASE_URL"`
	DefaultModel string `json:"default_model" env:"NUCHAT_MODEL"`
	Provider     string `json:"provider" env:"NUCHAT_PROVIDER"` // "remote" or "local"

	// RequestTimeout is the per-request deadline for the remote provider, in seconds.
	RequestTimeout int `json:"request_timeout" env:"NUCHAT_REQUEST_TIMEOUT"`
	// StatusTimeout is how long a status banner stays visible, in seconds.
	StatusTimeout int `json:"status_timeout" env:"NUCHAT_STATUS_TIMEOUT"`
	// TypingDelayMin and TypingDelayMax bound the simulated latency, in milliseconds.
	TypingDelayMin int `json:"typing_delay_min" env:"NUCHAT_TYPING_DELAY_MIN"`
	TypingDelayMax int `json:"typing_delay_max" env:"NUCHAT_TYPING_DELAY_MAX"`

	Verbose         bool           `json:"verbose" env:"NUCHAT_VERBOSE"`
	CopyToClipboard bool           `json:"copy_to_clipboard" env:"NUCHAT_COPY_TO_CLIPBOARD"`
	LogFile         string         `json:"log_file,omitempty" env:"NUCHAT_LOG_FILE"`
	TUITheme        string         `json:"tui_theme,omitempty" env:"NUCHAT_TUI_THEME"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:        models.DefaultBaseURL,
		DefaultModel:   models.DefaultModel,
		Provider:       ProviderRemote,
		RequestTimeout: int(models.DefaultRequestTimeout / time.Second),
		StatusTimeout:  int(models.DefaultStatusTimeout / time.Second),
		TypingDelayMin: int(models.DefaultTypingDelayMin / time.Millisecond),
		TypingDelayMax: int(models.DefaultTypingDelayMax / time.Millisecond),
		TUITheme:       "tokyonight",
		Markdown:       DefaultMarkdownConfig(),
	}
}

// RequestTimeoutDuration returns the request timeout as a duration
func (c Config) RequestTimeoutDuration() time.Duration {
	if c.RequestTimeout <= 0 {
		return models.DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// StatusTimeoutDuration returns the status banner timeout as a duration
func (c Config) StatusTimeoutDuration() time.Duration {
	if c.StatusTimeout <= 0 {
		return models.DefaultStatusTimeout
	}
	return time.Duration(c.StatusTimeout) * time.Second
}

// TypingDelay returns the simulated latency range. An inverted range is swapped.
func (c Config) TypingDelay() (time.Duration, time.Duration) {
	lo := time.Duration(c.TypingDelayMin) * time.Millisecond
	hi := time.Duration(c.TypingDelayMax) * time.Millisecond
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi < 0 {
		hi = 0
	}
	return lo, hi
}

// IsLocal reports whether the simulated provider is selected
func (c Config) IsLocal() bool {
	return strings.EqualFold(c.Provider, ProviderLocal)
}

// Validate checks values that cannot be defaulted silently
func (c Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case ProviderRemote, ProviderLocal:
	default:
		return fmt.Errorf("unknown provider %q (want %q or %q)", c.Provider, ProviderRemote, ProviderLocal)
	}
	if !c.IsLocal() && strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base_url must not be empty for the remote provider")
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".nuchat"), nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from the default location and the environment
func LoadConfig() (Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom loads the configuration from path and then applies
// .env and NUCHAT_* environment overrides. A missing file is not an error.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	// GLAMOUR_STYLE takes precedence for the markdown style
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		cfg.Markdown.Style = style
	}

	return cfg, nil
}

// EnvOverrides returns the NUCHAT_* variables that are currently set and
// therefore override the config file.
func EnvOverrides() []string {
	params, err := env.GetFieldParams(&Config{})
	if err != nil {
		return nil
	}
	var keys []string
	for _, p := range params {
		if _, ok := os.LookupEnv(p.Key); ok {
			keys = append(keys, p.Key)
		}
	}
	return keys
}

// SaveConfigTo writes cfg to path, creating the directory if needed
func SaveConfigTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
