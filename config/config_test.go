package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graceworks/concord/core"
)

// clearEnv blanks every CONCORD_* variable for the duration of the test so
// results do not depend on the invoking shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVarNames {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ASV", cfg.PrimaryTranslation)
	assert.Equal(t, 384, cfg.EmbeddingDimension)
	assert.Equal(t, "./data/corpus.db", cfg.DBPath)
	assert.Equal(t, "./data/translations", cfg.TranslationsDir)
	assert.Equal(t, "./data/translations/manifest.local.json", cfg.ManifestPath)
	assert.Equal(t, "bibles", cfg.StorePrefix)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.StoreEndpoint)
	assert.False(t, cfg.ForceUpload)
	assert.Zero(t, cfg.SyncWorkers)
	assert.False(t, cfg.RemoteEnabled())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envPrimaryTranslation, "nlt")
	t.Setenv(envEmbeddingDimension, "128")
	t.Setenv(envDBPath, "/var/lib/concord/corpus")
	t.Setenv(envStoreEndpoint, "https://store.example.com")
	t.Setenv(envStoreToken, "secret")
	t.Setenv(envForceUpload, "true")
	t.Setenv(envSyncWorkers, "8")
	t.Setenv(envLogLevel, "DEBUG")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "NLT", cfg.PrimaryTranslation, "codes are normalized to uppercase")
	assert.Equal(t, 128, cfg.EmbeddingDimension)
	assert.Equal(t, "/var/lib/concord/corpus", cfg.DBPath)
	assert.Equal(t, "https://store.example.com", cfg.StoreEndpoint)
	assert.True(t, cfg.ForceUpload)
	assert.Equal(t, 8, cfg.SyncWorkers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.RemoteEnabled())
}

func TestLoad_Rejections(t *testing.T) {
	t.Run("non-integer dimension", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envEmbeddingDimension, "many")
		_, err := Load("")
		require.Error(t, err)
		assert.ErrorContains(t, err, envEmbeddingDimension)
		assert.ErrorContains(t, err, "not an integer")
	})

	t.Run("non-positive dimension", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envEmbeddingDimension, "0")
		_, err := Load("")
		require.Error(t, err)
		assert.ErrorContains(t, err, envEmbeddingDimension)
	})

	t.Run("invalid primary translation code", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envPrimaryTranslation, "NOT OK")
		_, err := Load("")
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidTranslation)
	})

	t.Run("endpoint must be a URL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envStoreEndpoint, "not a url")
		t.Setenv(envStoreToken, "secret")
		_, err := Load("")
		require.Error(t, err)
		assert.ErrorContains(t, err, envStoreEndpoint)
	})

	t.Run("token requires endpoint", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envStoreToken, "secret")
		_, err := Load("")
		require.Error(t, err)
		assert.ErrorContains(t, err, envStoreEndpoint)
	})

	t.Run("invalid log level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envLogLevel, "loud")
		_, err := Load("")
		require.Error(t, err)
		assert.ErrorContains(t, err, envLogLevel)
	})

	t.Run("invalid force flag", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envForceUpload, "yep")
		_, err := Load("")
		require.Error(t, err)
		assert.ErrorContains(t, err, envForceUpload)
		assert.ErrorContains(t, err, "not a boolean")
	})

	t.Run("negative worker count", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(envSyncWorkers, "-2")
		_, err := Load("")
		require.Error(t, err)
		assert.ErrorContains(t, err, envSyncWorkers)
	})
}

func TestLoad_EnvFile(t *testing.T) {
	t.Run("reads variables from the file", func(t *testing.T) {
		clearEnv(t)
		// godotenv never overrides variables that are already set, so the
		// file variable must be absent from the test environment.
		require.NoError(t, os.Unsetenv(envListenAddr))

		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte(envListenAddr+"=:9090\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.ListenAddr)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
		require.Error(t, err)
		assert.ErrorContains(t, err, "absent.env")
	})
}

func TestConfig_SlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range cases {
		cfg := &Config{LogLevel: name}
		assert.Equal(t, want, cfg.SlogLevel())
	}
}
