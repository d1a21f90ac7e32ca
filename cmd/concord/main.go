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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/graceworks/concord"
	"github.com/graceworks/concord/api"
	"github.com/graceworks/concord/config"
	"github.com/graceworks/concord/ingestion"
	"github.com/graceworks/concord/mirror"
	"github.com/graceworks/concord/objectstore"
	"github.com/graceworks/concord/translation"
)

// shutdownGrace bounds how long serve waits for in-flight requests on exit.
const shutdownGrace = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "concord",
		Usage: "Semantic verse search and corpus synchronization",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load configuration from this env file before the environment",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build the persisted search corpus from a translation document",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "translation",
						Usage: "Translation code to build from (default: configured primary)",
					},
					&cli.IntFlag{
						Name:  "dimension",
						Usage: "Embedding dimension (default: configured dimension)",
					},
				},
			},
			{
				Name:   "sync",
				Usage:  "Mirror translation documents to the remote object store",
				Action: syncCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-upload every document, bypassing hash short-circuits",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent uploads (0 uses the configured default)",
					},
					&cli.StringSliceFlag{
						Name:  "translations",
						Usage: "Sync only these translation codes",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the search HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (default: configured address)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildCommand(c *cli.Context) error {
	ctx := c.Context

	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}

	code := c.String("translation")
	if code == "" {
		code = cfg.PrimaryTranslation
	}
	dim := c.Int("dimension")
	if dim == 0 {
		dim = cfg.EmbeddingDimension
	}

	engine, err := concord.NewEngine(cfg.DBPath, concord.WithTranslationsDir(cfg.TranslationsDir))
	if err != nil {
		return fmt.Errorf("opening corpus store: %w", err)
	}
	defer engine.Close()

	builder, err := engine.NewBuilder(dim, nil, ingestion.WithProgressWriter(os.Stderr))
	if err != nil {
		return err
	}

	count, err := builder.Build(ctx, code)
	if err != nil {
		return fmt.Errorf("corpus build failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.DBPath)
	fmt.Fprintf(os.Stderr, "Stored %d passages for %s\n", count, code)
	return nil
}

func syncCommand(c *cli.Context) error {
	ctx := c.Context

	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	if !cfg.RemoteEnabled() {
		return fmt.Errorf("sync requires %s and %s to be set", "CONCORD_STORE_ENDPOINT", "CONCORD_STORE_TOKEN")
	}

	store, err := objectstore.NewClient(objectstore.Config{
		Endpoint: cfg.StoreEndpoint,
		Prefix:   cfg.StorePrefix,
		Token:    cfg.StoreToken,
	})
	if err != nil {
		return err
	}

	mirrorConfig := mirror.DefaultConfig()
	mirrorConfig.ManifestPath = cfg.ManifestPath
	mirrorConfig.Force = cfg.ForceUpload || c.Bool("force")
	mirrorConfig.Translations = c.StringSlice("translations")
	if cfg.SyncWorkers > 0 {
		mirrorConfig.Workers = cfg.SyncWorkers
	}
	if c.Int("workers") > 0 {
		mirrorConfig.Workers = c.Int("workers")
	}

	source := translation.NewLocalSource(cfg.TranslationsDir)
	manager, err := mirror.NewManager(store, source, mirrorConfig, mirror.WithProgressWriter(os.Stderr))
	if err != nil {
		return err
	}

	summary, err := manager.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("sync finished with %d failed translations", summary.Failed)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}

	addr := c.String("addr")
	if addr == "" {
		addr = cfg.ListenAddr
	}

	engineOpts := []concord.EngineOption{
		concord.WithTranslationsDir(cfg.TranslationsDir),
	}
	if cfg.RemoteEnabled() {
		engineOpts = append(engineOpts, concord.WithObjectStore(objectstore.Config{
			Endpoint: cfg.StoreEndpoint,
			Prefix:   cfg.StorePrefix,
			Token:    cfg.StoreToken,
		}))
	}

	engine, err := concord.NewEngine(cfg.DBPath, engineOpts...)
	if err != nil {
		return fmt.Errorf("opening corpus store: %w", err)
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return err
	}

	server, err := api.NewServer(searcher, engine.Source(), cfg.PrimaryTranslation, api.WithAPIKey(cfg.APIKey))
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(addr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
