// Package config loads the service configuration from a TOML file with
// environment overrides for secrets.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// GoogleConfig holds the OAuth client used for token refresh and calendar
// access.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
}

// OpenAIConfig holds the extraction collaborator's credentials.
type OpenAIConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// Config is the top-level application configuration. Secrets may live in the
// file or come from the environment; environment values win.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `toml:"listen"`

	// Timezone is the IANA operating timezone all extracted times are
	// interpreted in.
	Timezone string `toml:"timezone"`

	// AuthPassword is the shared request secret checked against the
	// Authorization header.
	AuthPassword string `toml:"auth_password"`

	// CalendarID selects the target calendar; empty means primary.
	CalendarID string `toml:"calendar_id"`

	// Language is the speech recognition language code.
	Language string `toml:"language"`

	// FFmpegPath overrides the ffmpeg binary location.
	FFmpegPath string `toml:"ffmpeg_path"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`

	Google GoogleConfig `toml:"google"`
	OpenAI OpenAIConfig `toml:"openai"`

	// Path is where the config was loaded from. Not serialized.
	Path string `toml:"-"`
}

// Default returns the in-memory default configuration.
func Default() *Config {
	return &Config{
		Listen:       "127.0.0.1:5000",
		Timezone:     "America/New_York",
		AuthPassword: "defaultpass",
		CalendarID:   "primary",
		Language:     "en-US",
		FFmpegPath:   "ffmpeg",
		OpenAI:       OpenAIConfig{Model: "gpt-4o"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".voicecal", "config.toml"), nil
}

// Load reads the config at path, creating it with defaults on first run.
// An empty path means DefaultPath. Environment overrides are applied after
// the file is read.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()
	cfg.Path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := writeDefault(path, cfg); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// writeDefault creates the config file with 0600 permissions, since it may
// later hold secrets.
func writeDefault(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// applyEnv overlays environment variables onto the loaded config.
func (c *Config) applyEnv() {
	overlay(&c.Listen, "VOICECAL_LISTEN")
	overlay(&c.AuthPassword, "VOICECAL_AUTH_PASSWORD")
	overlay(&c.Google.ClientID, "GOOGLE_CLIENT_ID")
	overlay(&c.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	overlay(&c.Google.RefreshToken, "GOOGLE_REFRESH_TOKEN")
	overlay(&c.OpenAI.APIKey, "OPENAI_API_KEY")
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Location resolves the operating timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate reports the settings that must be present before the service can
// reach its collaborators.
func (c *Config) Validate() error {
	var missing []string
	if c.Google.ClientID == "" {
		missing = append(missing, "google.client_id")
	}
	if c.Google.ClientSecret == "" {
		missing = append(missing, "google.client_secret")
	}
	if c.Google.RefreshToken == "" {
		missing = append(missing, "google.refresh_token")
	}
	if c.OpenAI.APIKey == "" {
		missing = append(missing, "openai.api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
