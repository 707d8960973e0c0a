// Package config loads wowpkg configuration from the config file,
// environment variables and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultServiceURL is where a locally running resolution daemon
// listens.
const DefaultServiceURL = "http://127.0.0.1:4716"

// Profile holds per-profile settings.
type Profile struct {
	// GameDir is the game installation the profile manages add-ons
	// for. The add-ons folder lives under Interface/AddOns.
	GameDir string `mapstructure:"game_dir"`
}

// AddonsDir returns the folder the profile's add-ons are installed to.
func (p Profile) AddonsDir() string {
	if p.GameDir == "" {
		return ""
	}
	return filepath.Join(p.GameDir, "Interface", "AddOns")
}

// Config is the loaded application configuration.
type Config struct {
	// ServiceURL is the base URL of the resolution daemon.
	ServiceURL string `mapstructure:"service_url"`

	// Profile is the profile commands operate on by default.
	Profile string `mapstructure:"profile"`

	// Profiles maps profile names to their settings.
	Profiles map[string]Profile `mapstructure:"profiles"`

	// CacheDir overrides the default cache location.
	CacheDir string `mapstructure:"cache_dir"`
}

// Load reads configuration from (in order of precedence) WOWPKG_*
// environment variables, the config file and built-in defaults. A
// missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("service_url", DefaultServiceURL)
	v.SetDefault("profile", "default")

	v.SetEnvPrefix("WOWPKG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}
	return &cfg, nil
}

// ProfileConfig returns the named profile's settings; unknown names
// get zero-value settings rather than an error, since a profile can
// exist purely daemon-side.
func (c *Config) ProfileConfig(name string) Profile {
	return c.Profiles[name]
}

// ProfileCacheDir returns the cache directory scoped to one profile.
func (c *Config) ProfileCacheDir(name string) string {
	return filepath.Join(c.CacheDir, "profiles", name)
}

func configDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wowpkg")
}

func defaultCacheDir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "wowpkg")
}
