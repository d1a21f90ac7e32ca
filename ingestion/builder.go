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


package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/graceworks/concord/core"
	"github.com/graceworks/concord/embedding"
	"github.com/graceworks/concord/storage"
	"github.com/graceworks/concord/translation"
)

// Config holds configuration for a corpus build.
type Config struct {
	// BatchSize is the number of passages embedded per batch.
	BatchSize int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize: 256,
	}
}

// Builder builds the persisted corpus for one translation.
type Builder struct {
	verses   storage.VerseRepository
	source   *translation.LocalSource
	embedder embedding.Embedder
	config   *Config
	logger   *slog.Logger
	progress io.Writer
}

// Option configures a Builder.
type Option func(*Builder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithProgressWriter sets where progress output is written (typically
// os.Stderr). Default is io.Discard.
func WithProgressWriter(w io.Writer) Option {
	return func(b *Builder) error {
		if w == nil {
			w = io.Discard
		}
		b.progress = w
		return nil
	}
}

// NewBuilder creates a corpus builder.
func NewBuilder(verses storage.VerseRepository, source *translation.LocalSource, embedder embedding.Embedder, config *Config, opts ...Option) (*Builder, error) {
	if verses == nil {
		return nil, ErrVerseRepositoryRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize < 1 {
		config.BatchSize = 1
	}

	b := &Builder{
		verses:   verses,
		source:   source,
		embedder: embedder,
		config:   config,
		logger:   slog.Default(),
		progress: io.Discard,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Build loads the translation document for the given code, embeds every
// passage, and replaces the stored corpus. Returns the number of passages
// stored.
func (b *Builder) Build(ctx context.Context, code string) (int, error) {
	code = core.NormalizeTranslationCode(code)
	if err := core.ValidateTranslationCode(code); err != nil {
		return 0, err
	}

	doc, err := b.source.Load(code)
	if err != nil {
		return 0, err
	}

	passages, err := flatten(doc)
	if err != nil {
		return 0, fmt.Errorf("translation %s: %w", code, err)
	}
	if len(passages) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrDocumentEmpty, code)
	}

	dim := b.embedder.Dimension()
	fmt.Fprintf(b.progress, "Building %s corpus: %d passages (dimension: %d, batch size: %d)\n",
		code, len(passages), dim, b.config.BatchSize)
	b.logger.Info("building corpus", "translation", code, "passages", len(passages), "dimension", dim)

	start := time.Now()
	entries := make([]core.CorpusEntry, 0, len(passages))
	for offset := 0; offset < len(passages); offset += b.config.BatchSize {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		end := offset + b.config.BatchSize
		if end > len(passages) {
			end = len(passages)
		}
		batch := passages[offset:end]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.text
		}

		vectors, err := b.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embedding passages %d-%d: %w", offset, end-1, err)
		}
		if len(vectors) != len(batch) {
			return 0, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(vectors))
		}

		for i, p := range batch {
			entries = append(entries, core.CorpusEntry{
				Ref:    p.ref,
				Text:   p.text,
				Vector: vectors[i],
			})
		}
		b.logger.Debug("embedded batch", "from", offset, "to", end-1)
	}

	corpus := &core.Corpus{
		Translation: code,
		Dimension:   dim,
		Entries:     entries,
	}
	if err := b.verses.SaveCorpus(ctx, corpus); err != nil {
		return 0, fmt.Errorf("saving %s corpus: %w", code, err)
	}

	elapsed := time.Since(start)
	fmt.Fprintf(b.progress, "Corpus build complete. Stored %d passages in %v\n",
		len(entries), elapsed.Round(time.Millisecond))
	b.logger.Info("corpus build complete", "translation", code, "passages", len(entries), "elapsed", elapsed)

	return len(entries), nil
}
