package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/graceworks/concord/core"
	"github.com/graceworks/concord/embedding"
	"github.com/graceworks/concord/storage"
)

// corpusLoadKey is the singleflight key guarding the first corpus load.
const corpusLoadKey = "corpus"

// PassageResolver resolves a verse reference into a target translation's text.
// The translation package provides the production implementation.
type PassageResolver interface {
	Resolve(ctx context.Context, ref core.VerseRef, code string) (string, error)
}

// Searcher provides similarity search over the persisted verse corpus.
type Searcher struct {
	verses   storage.VerseRepository
	resolver PassageResolver
	logger   *slog.Logger

	mu     sync.RWMutex
	corpus *core.Corpus
	group  singleflight.Group
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(verses storage.VerseRepository, resolver PassageResolver, opts ...Option) (*Searcher, error) {
	if verses == nil {
		return nil, ErrVerseRepositoryRequired
	}
	if resolver == nil {
		return nil, ErrResolverRequired
	}

	s := &Searcher{
		verses:   verses,
		resolver: resolver,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches the corpus for verses similar to the query term,
// returning texts in the corpus's own translation.
// Returns up to limit results, ranked by similarity score.
func (s *Searcher) FindSimilar(ctx context.Context, term string, limit int) ([]core.ScoredVerse, error) {
	return s.FindSimilarWithMonitor(ctx, term, "", limit, nil)
}

// FindSimilarIn searches the corpus and returns each hit's text in the given
// translation. Codes are case-insensitive; the empty code means the corpus's
// own translation. Resolution failures propagate rather than degrade to the
// corpus text.
func (s *Searcher) FindSimilarIn(ctx context.Context, term, code string, limit int) ([]core.ScoredVerse, error) {
	return s.FindSimilarWithMonitor(ctx, term, code, limit, nil)
}

// FindSimilarWithMonitor searches with monitoring. The monitor receives
// callbacks at each stage of the search process.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, term, code string, limit int, monitor SearchMonitor) ([]core.ScoredVerse, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(term)

	// A blank term cannot match anything; not an error.
	if strings.TrimSpace(term) == "" {
		results := []core.ScoredVerse{}
		monitor.Finish(results)
		return results, nil
	}

	if limit <= 0 {
		results := []core.ScoredVerse{}
		monitor.Finish(results)
		return results, nil
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	corpus, err := s.loadCorpus(ctx)
	if err != nil {
		s.logger.Error("error loading corpus", "err", err)
		return nil, err
	}
	monitor.AfterCorpusLoad(corpus.Translation, len(corpus.Entries))

	target := corpus.Translation
	if code != "" {
		target = core.NormalizeTranslationCode(code)
		if err := core.ValidateTranslationCode(target); err != nil {
			return nil, err
		}
	}

	query := embedding.Vectorize(term, corpus.Dimension)
	monitor.AfterVectorize(corpus.Dimension)

	// Every token was stripped by normalization; a zero query cannot
	// usefully match anything.
	if isZeroVector(query) {
		results := []core.ScoredVerse{}
		monitor.Finish(results)
		return results, nil
	}

	hits := TopK(corpus, query, limit)
	monitor.AfterRanking(hits)

	if target != corpus.Translation {
		for i := range hits {
			text, err := s.resolver.Resolve(ctx, hits[i].Ref, target)
			if err != nil {
				s.logger.Error("error resolving passage text",
					"ref", hits[i].Ref.String(), "translation", target, "err", err)
				return nil, err
			}
			hits[i].Text = text
			hits[i].Translation = target
		}
	}

	monitor.Finish(hits)
	return hits, nil
}

// loadCorpus returns the in-memory corpus, reading it from the repository on
// first use. Concurrent first calls share one load; a failed load is not
// cached, so the next call retries.
func (s *Searcher) loadCorpus(ctx context.Context) (*core.Corpus, error) {
	s.mu.RLock()
	corpus := s.corpus
	s.mu.RUnlock()
	if corpus != nil {
		return corpus, nil
	}

	v, err, _ := s.group.Do(corpusLoadKey, func() (any, error) {
		s.mu.RLock()
		cached := s.corpus
		s.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		loaded, err := s.verses.LoadCorpus(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.corpus = loaded
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.Corpus), nil
}

func isZeroVector(v []float32) bool {
	for _, c := range v {
		if c != 0 {
			return false
		}
	}
	return true
}
