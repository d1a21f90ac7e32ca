package translation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/graceworks/concord/core"
	"github.com/graceworks/concord/objectstore"
)

// RemoteStore is the subset of the object-store client the resolver uses to
// fetch translation documents.
type RemoteStore interface {
	TranslationKey(code string) string
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Resolver serves verse texts in arbitrary translations, loading and caching
// whole documents on demand.
type Resolver struct {
	local  *LocalSource
	remote RemoteStore
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]Document
	group singleflight.Group
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewResolver creates a resolver over the local source. remote may be nil
// when no store credential is configured; documents then come from local
// files only.
func NewResolver(local *LocalSource, remote RemoteStore, opts ...ResolverOption) (*Resolver, error) {
	if local == nil {
		return nil, ErrLocalSourceRequired
	}

	r := &Resolver{
		local:  local,
		remote: remote,
		logger: slog.Default(),
		cache:  make(map[string]Document),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Resolve returns the text of ref in the given translation. Codes are
// case-insensitive. A verse absent from a loadable document yields
// core.ErrPassageUnavailable; document load failures propagate unchanged.
func (r *Resolver) Resolve(ctx context.Context, ref core.VerseRef, code string) (string, error) {
	code = core.NormalizeTranslationCode(code)
	if err := core.ValidateTranslationCode(code); err != nil {
		return "", err
	}

	doc, err := r.document(ctx, code)
	if err != nil {
		return "", err
	}

	text, err := doc.TextAt(ref)
	if err != nil {
		return "", fmt.Errorf("translation %s: %w", code, err)
	}
	return text, nil
}

// document returns the cached document for code, loading it on first use.
// Concurrent first calls share one load; failed loads are not cached, so a
// transient outage does not poison the cache.
func (r *Resolver) document(ctx context.Context, code string) (Document, error) {
	r.mu.RLock()
	doc, ok := r.cache[code]
	r.mu.RUnlock()
	if ok {
		return doc, nil
	}

	v, err, _ := r.group.Do(code, func() (any, error) {
		r.mu.RLock()
		cached, ok := r.cache[code]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		loaded, err := r.load(ctx, code)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[code] = loaded
		r.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Document), nil
}

// load fetches one document, preferring the remote store when configured.
// A remote miss falls back to the local file; remote transport failures
// propagate so a flaky store stays visible instead of silently degrading
// to local data.
func (r *Resolver) load(ctx context.Context, code string) (Document, error) {
	if r.remote == nil {
		return r.local.Load(code)
	}

	key := r.remote.TranslationKey(code)
	data, err := r.remote.Fetch(ctx, key)
	switch {
	case err == nil:
		r.logger.Debug("loaded translation from remote store", "translation", code, "key", key)
		return DecodeDocument(data, key)
	case objectstore.IsNotFound(err):
		r.logger.Debug("translation not in remote store, using local file", "translation", code)
		return r.local.Load(code)
	default:
		return nil, fmt.Errorf("loading translation %s from remote store: %w", code, err)
	}
}
