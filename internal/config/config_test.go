package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localedit/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "./locales", cfg.LocalesRoot)
	require.Equal(t, ":8080", cfg.Address)
	require.Equal(t, 50*time.Millisecond, cfg.WatchDebounce)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.True(t, cfg.WatchEnabled)
	require.True(t, cfg.EvictOnDelete)
	require.Equal(t, "info", cfg.Logger.Level)
	require.Equal(t, "json", cfg.Logger.Format)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOCALES_ROOT", "/srv/locales")
	t.Setenv("ADDRESS", "127.0.0.1:9000")
	t.Setenv("WATCH_DEBOUNCE", "0s")
	t.Setenv("WATCH_ENABLED", "false")
	t.Setenv("EVICT_ON_DELETE", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "/srv/locales", cfg.LocalesRoot)
	require.Equal(t, "127.0.0.1:9000", cfg.Address)
	require.Zero(t, cfg.WatchDebounce)
	require.False(t, cfg.WatchEnabled)
	require.False(t, cfg.EvictOnDelete)
	require.Equal(t, "debug", cfg.Logger.Level)
	require.Equal(t, "text", cfg.Logger.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("WATCH_DEBOUNCE", "soon")
		_, err := config.Load()
		require.Error(t, err)
	})

	t.Run("negative debounce", func(t *testing.T) {
		t.Setenv("WATCH_DEBOUNCE", "-1s")
		_, err := config.Load()
		require.Error(t, err)
	})

	t.Run("empty root after override", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)
		cfg.LocalesRoot = ""
		require.Error(t, cfg.Validate())
	})
}
