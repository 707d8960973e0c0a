package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServiceURL, cfg.ServiceURL)
	assert.Equal(t, "default", cfg.Profile)
	assert.NotEmpty(t, cfg.CacheDir)
}

func TestLoadReadsConfigFile(t *testing.T) {
	confHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", confHome)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir := filepath.Join(confHome, "wowpkg")
	require.NoError(t, os.MkdirAll(dir, 0755))
	payload := `
service_url: http://daemon.local:9000
profile: classic
profiles:
  classic:
    game_dir: /games/wow-classic
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(payload), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://daemon.local:9000", cfg.ServiceURL)
	assert.Equal(t, "classic", cfg.Profile)

	p := cfg.ProfileConfig("classic")
	assert.Equal(t, "/games/wow-classic", p.GameDir)
	assert.Equal(t, filepath.Join("/games/wow-classic", "Interface", "AddOns"), p.AddonsDir())
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("WOWPKG_SERVICE_URL", "http://override:1234")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://override:1234", cfg.ServiceURL)
}

func TestProfileCacheDirIsScoped(t *testing.T) {
	cfg := &Config{CacheDir: "/tmp/wowpkg-cache"}
	assert.Equal(t, filepath.Join("/tmp/wowpkg-cache", "profiles", "classic"),
		cfg.ProfileCacheDir("classic"))
}
