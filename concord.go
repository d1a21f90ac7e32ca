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


package concord

import (
	"errors"
	"log/slog"

	"github.com/graceworks/concord/embedding"
	"github.com/graceworks/concord/ingestion"
	"github.com/graceworks/concord/mirror"
	"github.com/graceworks/concord/objectstore"
	"github.com/graceworks/concord/search"
	"github.com/graceworks/concord/storage"
	"github.com/graceworks/concord/storage/badger"
	"github.com/graceworks/concord/translation"
)

// ErrRemoteStoreNotConfigured indicates an operation needs the remote object
// store but the engine was created without one.
var ErrRemoteStoreNotConfigured = errors.New("remote object store not configured")

// Engine owns the corpus store, the translation sources, and the optional
// remote object store client, and hands out the components built on them.
// One engine serves one corpus; caches live on the components it creates,
// never in package state.
type Engine struct {
	backend  *badger.Backend
	verses   storage.VerseRepository
	source   *translation.LocalSource
	resolver *translation.Resolver
	store    *objectstore.Client
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	inMemory        bool
	translationsDir string
	storeConfig     *objectstore.Config
	logger          *slog.Logger
}

// WithInMemory keeps the corpus store in memory instead of on disk.
// Used by tests and throwaway invocations.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithTranslationsDir sets the directory holding the {CODE}_bible.json
// documents. Default is ./data/translations.
func WithTranslationsDir(dir string) EngineOption {
	return func(o *engineOptions) {
		if dir != "" {
			o.translationsDir = dir
		}
	}
}

// WithObjectStore enables the remote object store. Cross-translation
// resolution then prefers remote documents, and NewMirror becomes available.
func WithObjectStore(cfg objectstore.Config) EngineOption {
	return func(o *engineOptions) {
		o.storeConfig = &cfg
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewEngine opens the corpus store at dbPath and wires the shared components.
func NewEngine(dbPath string, opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{
		translationsDir: "./data/translations",
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(dbPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	verses := badger.NewVerseRepository(backend)
	source := translation.NewLocalSource(options.translationsDir)

	// Create object store client when configured
	var store *objectstore.Client
	if options.storeConfig != nil {
		store, err = objectstore.NewClient(*options.storeConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	// The resolver takes the remote store as an interface; hand it nil
	// rather than a nil *Client so its presence check stays meaningful.
	var remote translation.RemoteStore
	if store != nil {
		remote = store
	}
	resolver, err := translation.NewResolver(source, remote, translation.WithLogger(options.logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:  backend,
		verses:   verses,
		source:   source,
		resolver: resolver,
		store:    store,
		logger:   options.logger,
	}, nil
}

// Close releases the engine's resources. The backend goes last so components
// closing above it can still flush.
func (e *Engine) Close() error {
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// VerseRepository returns the persisted corpus repository.
func (e *Engine) VerseRepository() storage.VerseRepository {
	return e.verses
}

// Source returns the local translation document source.
func (e *Engine) Source() *translation.LocalSource {
	return e.source
}

// Resolver returns the shared translation resolver and its document cache.
func (e *Engine) Resolver() *translation.Resolver {
	return e.resolver
}

// ObjectStore returns the remote store client, or nil when none is configured.
func (e *Engine) ObjectStore() *objectstore.Client {
	return e.store
}

// NewSearcher creates a searcher over the engine's corpus and resolver.
func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(e.verses, e.resolver, opts...)
}

// NewBuilder creates a corpus builder embedding at the given dimension.
func (e *Engine) NewBuilder(dim int, config *ingestion.Config, opts ...ingestion.Option) (*ingestion.Builder, error) {
	embedder, err := embedding.NewHashingEmbedder(dim)
	if err != nil {
		return nil, err
	}
	return ingestion.NewBuilder(e.verses, e.source, embedder, config, opts...)
}

// NewMirror creates a sync manager mirroring local documents to the remote
// store. Requires the engine to have been created with WithObjectStore.
func (e *Engine) NewMirror(config *mirror.Config, opts ...mirror.Option) (*mirror.Manager, error) {
	if e.store == nil {
		return nil, ErrRemoteStoreNotConfigured
	}
	return mirror.NewManager(e.store, e.source, config, opts...)
}
