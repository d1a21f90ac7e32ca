// Copyright 2026 Graceworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads runtime configuration from the environment.
//
// Every setting has a CONCORD_* variable and a default that works for local
// development. An optional .env file is read first (without overriding
// variables already set), then the environment, then the result is
// validated. Configuration errors are fatal at startup and name the
// offending variable.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/graceworks/concord/core"
)

// Environment variable names.
const (
	envPrimaryTranslation = "CONCORD_PRIMARY_TRANSLATION"
	envEmbeddingDimension = "CONCORD_EMBEDDING_DIMENSION"
	envDBPath             = "CONCORD_DB_PATH"
	envTranslationsDir    = "CONCORD_TRANSLATIONS_DIR"
	envManifestPath       = "CONCORD_MANIFEST_PATH"
	envStoreEndpoint      = "CONCORD_STORE_ENDPOINT"
	envStorePrefix        = "CONCORD_STORE_PREFIX"
	envStoreToken         = "CONCORD_STORE_TOKEN"
	envForceUpload        = "CONCORD_FORCE_UPLOAD"
	envSyncWorkers        = "CONCORD_SYNC_WORKERS"
	envListenAddr         = "CONCORD_LISTEN_ADDR"
	envAPIKey             = "CONCORD_API_KEY"
	envLogLevel           = "CONCORD_LOG_LEVEL"
)

// Config holds every runtime setting.
type Config struct {
	// PrimaryTranslation is the translation code the corpus is built from.
	PrimaryTranslation string `validate:"required"`

	// EmbeddingDimension is the vector dimension used when building the
	// corpus. Searches use the dimension persisted in the store.
	EmbeddingDimension int `validate:"gt=0"`

	// DBPath is the BadgerDB directory holding the corpus.
	DBPath string `validate:"required"`

	// TranslationsDir holds the {CODE}_bible.json documents.
	TranslationsDir string `validate:"required"`

	// ManifestPath is the local sync manifest cache file.
	ManifestPath string `validate:"required"`

	// StoreEndpoint is the remote object store base URL. Empty disables
	// everything remote: sync refuses to run and resolution is local-only.
	StoreEndpoint string `validate:"omitempty,url,required_with=StoreToken"`

	// StorePrefix is the key prefix under which objects are stored.
	StorePrefix string

	// StoreToken is the bearer credential for the object store.
	StoreToken string `validate:"required_with=StoreEndpoint"`

	// ForceUpload makes sync re-upload every document.
	ForceUpload bool

	// SyncWorkers bounds sync concurrency. Zero picks a default.
	SyncWorkers int `validate:"gte=0"`

	// ListenAddr is the HTTP API listen address.
	ListenAddr string `validate:"required"`

	// APIKey protects the HTTP API when set.
	APIKey string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `validate:"oneof=debug info warn error"`
}

// envVarNames maps struct fields to their environment variables so
// validation failures can name what to fix.
var envVarNames = map[string]string{
	"PrimaryTranslation": envPrimaryTranslation,
	"EmbeddingDimension": envEmbeddingDimension,
	"DBPath":             envDBPath,
	"TranslationsDir":    envTranslationsDir,
	"ManifestPath":       envManifestPath,
	"StoreEndpoint":      envStoreEndpoint,
	"StorePrefix":        envStorePrefix,
	"StoreToken":         envStoreToken,
	"ForceUpload":        envForceUpload,
	"SyncWorkers":        envSyncWorkers,
	"ListenAddr":         envListenAddr,
	"APIKey":             envAPIKey,
	"LogLevel":           envLogLevel,
}

// DefaultConfig returns the configuration used when no environment
// variables are set.
func DefaultConfig() *Config {
	return &Config{
		PrimaryTranslation: "ASV",
		EmbeddingDimension: 384,
		DBPath:             "./data/corpus.db",
		TranslationsDir:    "./data/translations",
		ManifestPath:       "./data/translations/manifest.local.json",
		StorePrefix:        "bibles",
		ListenAddr:         ":8080",
		LogLevel:           "info",
	}
}

// Load builds the configuration from the environment. A non-empty envFile
// is loaded first and must exist; otherwise a .env in the working directory
// is tried as a convenience. Variables already set in the environment win
// over file contents.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: loading env file %s: %w", envFile, err)
		}
	} else {
		// Optional; missing is fine.
		_ = godotenv.Load()
	}

	cfg := DefaultConfig()
	cfg.PrimaryTranslation = envString(envPrimaryTranslation, cfg.PrimaryTranslation)
	cfg.DBPath = envString(envDBPath, cfg.DBPath)
	cfg.TranslationsDir = envString(envTranslationsDir, cfg.TranslationsDir)
	cfg.ManifestPath = envString(envManifestPath, cfg.ManifestPath)
	cfg.StoreEndpoint = envString(envStoreEndpoint, cfg.StoreEndpoint)
	cfg.StorePrefix = envString(envStorePrefix, cfg.StorePrefix)
	cfg.StoreToken = envString(envStoreToken, cfg.StoreToken)
	cfg.ListenAddr = envString(envListenAddr, cfg.ListenAddr)
	cfg.APIKey = envString(envAPIKey, cfg.APIKey)
	cfg.LogLevel = strings.ToLower(envString(envLogLevel, cfg.LogLevel))

	var err error
	if cfg.EmbeddingDimension, err = envInt(envEmbeddingDimension, cfg.EmbeddingDimension); err != nil {
		return nil, err
	}
	if cfg.SyncWorkers, err = envInt(envSyncWorkers, cfg.SyncWorkers); err != nil {
		return nil, err
	}
	if cfg.ForceUpload, err = envBool(envForceUpload, cfg.ForceUpload); err != nil {
		return nil, err
	}

	cfg.PrimaryTranslation = core.NormalizeTranslationCode(cfg.PrimaryTranslation)
	if err := core.ValidateTranslationCode(cfg.PrimaryTranslation); err != nil {
		return nil, fmt.Errorf("config: %s: %w", envPrimaryTranslation, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RemoteEnabled reports whether a remote object store is configured.
func (c *Config) RemoteEnabled() bool {
	return c.StoreEndpoint != "" && c.StoreToken != ""
}

// SlogLevel converts the configured level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		e := verrs[0]
		name := envVarNames[e.Field()]
		if name == "" {
			name = e.Field()
		}
		return fmt.Errorf("config: %s failed %q validation (value %q)", name, e.Tag(), fmt.Sprint(e.Value()))
	}
	return fmt.Errorf("config: %w", err)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %q is not an integer", key, v)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %q is not a boolean", key, v)
	}
	return b, nil
}
