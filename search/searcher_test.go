package search

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graceworks/concord/core"
	"github.com/graceworks/concord/embedding"
	"github.com/graceworks/concord/storage"
	"github.com/graceworks/concord/storage/badger"
)

const testDimension = 64

// fakeResolver serves translation texts from a fixed map keyed by
// "CODE|Book Chapter:Verse". A configured error is returned for every call.
type fakeResolver struct {
	texts map[string]string
	err   error
	calls int
}

func (f *fakeResolver) Resolve(_ context.Context, ref core.VerseRef, code string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	text, ok := f.texts[code+"|"+ref.String()]
	if !ok {
		return "", core.ErrPassageUnavailable
	}
	return text, nil
}

func seedCorpus(t *testing.T, repo storage.VerseRepository) {
	t.Helper()

	texts := map[core.VerseRef]string{
		{Book: "John", Chapter: 3, Verse: 16}:   "For God so loved the world, that he gave his only begotten Son, that whosoever believeth on him should not perish, but have eternal life.",
		{Book: "John", Chapter: 3, Verse: 17}:   "For God sent not the Son into the world to judge the world; but that the world should be saved through him.",
		{Book: "Romans", Chapter: 8, Verse: 28}: "And we know that to them that love God all things work together for good, even to them that are called according to his purpose.",
	}

	entries := make([]core.CorpusEntry, 0, len(texts))
	for ref, text := range texts {
		entries = append(entries, core.CorpusEntry{
			Ref:    ref,
			Text:   text,
			Vector: embedding.Vectorize(text, testDimension),
		})
	}

	err := repo.SaveCorpus(context.Background(), &core.Corpus{
		Translation: "ASV",
		Dimension:   testDimension,
		Entries:     entries,
	})
	require.NoError(t, err)
}

func newTestSearcher(t *testing.T, resolver PassageResolver, seed bool) (*Searcher, storage.VerseRepository) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	if seed {
		seedCorpus(t, repo)
	}

	searcher, err := NewSearcher(repo, resolver)
	require.NoError(t, err)
	return searcher, repo
}

func TestNewSearcher(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	resolver := &fakeResolver{}

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(repo, resolver)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(repo, resolver, WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(repo, resolver, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil verse repository", func(t *testing.T) {
		_, err := NewSearcher(nil, resolver)
		assert.Equal(t, ErrVerseRepositoryRequired, err)
	})

	t.Run("nil resolver", func(t *testing.T) {
		_, err := NewSearcher(repo, nil)
		assert.Equal(t, ErrResolverRequired, err)
	})
}

func TestFindSimilar_BlankTerm(t *testing.T) {
	// The store is deliberately left unbuilt: a blank term must return
	// before any corpus I/O happens.
	searcher, _ := newTestSearcher(t, &fakeResolver{}, false)
	ctx := context.Background()

	for _, term := range []string{"", "   ", "\t\n"} {
		results, err := searcher.FindSimilar(ctx, term, 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	}
}

func TestFindSimilar_NonPositiveLimit(t *testing.T) {
	searcher, _ := newTestSearcher(t, &fakeResolver{}, true)
	ctx := context.Background()

	results, err := searcher.FindSimilar(ctx, "love", 0)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = searcher.FindSimilar(ctx, "love", -5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_StoreNotBuilt(t *testing.T) {
	searcher, _ := newTestSearcher(t, &fakeResolver{}, false)

	_, err := searcher.FindSimilar(context.Background(), "love", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStoreNotBuilt)
}

func TestFindSimilar_RanksByScore(t *testing.T) {
	searcher, _ := newTestSearcher(t, &fakeResolver{}, true)

	results, err := searcher.FindSimilar(context.Background(), "love", 2)
	require.NoError(t, err)
	require.Len(t, results, 2, "limit below corpus size must return exactly limit results")

	for i := 0; i < len(results)-1; i++ {
		assert.GreaterOrEqual(t, results[i].Score, results[i+1].Score)
	}
	for _, r := range results {
		assert.Equal(t, "ASV", r.Translation)
		assert.NotEmpty(t, r.Text)
	}
}

func TestFindSimilar_LimitAboveCorpusSize(t *testing.T) {
	searcher, _ := newTestSearcher(t, &fakeResolver{}, true)

	results, err := searcher.FindSimilar(context.Background(), "love", 200)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestFindSimilar_ZeroQueryVector(t *testing.T) {
	searcher, _ := newTestSearcher(t, &fakeResolver{}, true)

	// Every character is stripped by normalization, so the query vector
	// is all zeros.
	results, err := searcher.FindSimilar(context.Background(), "!!! ???", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// countingRepository counts LoadCorpus calls to observe memoization.
type countingRepository struct {
	storage.VerseRepository
	loads int
}

func (c *countingRepository) LoadCorpus(ctx context.Context) (*core.Corpus, error) {
	c.loads++
	return c.VerseRepository.LoadCorpus(ctx)
}

func TestFindSimilar_CorpusLoadedOnce(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	seedCorpus(t, repo)

	counting := &countingRepository{VerseRepository: repo}
	searcher, err := NewSearcher(counting, &fakeResolver{})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := searcher.FindSimilar(ctx, "love", 2)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, counting.loads)
}

func TestFindSimilar_FailedLoadRetries(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	counting := &countingRepository{VerseRepository: repo}
	searcher, err := NewSearcher(counting, &fakeResolver{})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = searcher.FindSimilar(ctx, "love", 2)
	require.ErrorIs(t, err, core.ErrStoreNotBuilt)

	// Build the store after the failed first load; the failure must not
	// have been cached.
	seedCorpus(t, repo)

	results, err := searcher.FindSimilar(ctx, "love", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, 2, counting.loads)
}

func TestFindSimilarIn_ResolvesTargetTranslation(t *testing.T) {
	resolver := &fakeResolver{texts: map[string]string{
		"WEB|John 3:16":   "For God so loved the world, that he gave his one and only Son, that whoever believes in him should not perish, but have eternal life.",
		"WEB|John 3:17":   "For God didn't send his Son into the world to judge the world, but that the world should be saved through him.",
		"WEB|Romans 8:28": "We know that all things work together for good for those who love God, to those who are called according to his purpose.",
	}}
	searcher, _ := newTestSearcher(t, resolver, true)

	// Lowercase code exercises normalization.
	results, err := searcher.FindSimilarIn(context.Background(), "love", "web", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		assert.Equal(t, "WEB", r.Translation)
		assert.Equal(t, resolver.texts["WEB|"+r.Ref.String()], r.Text)
	}
	assert.Equal(t, 3, resolver.calls)
}

func TestFindSimilarIn_PrimaryCodeSkipsResolver(t *testing.T) {
	resolver := &fakeResolver{}
	searcher, _ := newTestSearcher(t, resolver, true)

	results, err := searcher.FindSimilarIn(context.Background(), "love", "asv", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Zero(t, resolver.calls)
	for _, r := range results {
		assert.Equal(t, "ASV", r.Translation)
	}
}

func TestFindSimilarIn_ResolutionFailurePropagates(t *testing.T) {
	resolver := &fakeResolver{err: core.ErrTranslationUnavailable}
	searcher, _ := newTestSearcher(t, resolver, true)

	_, err := searcher.FindSimilarIn(context.Background(), "love", "WEB", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTranslationUnavailable)
}

func TestFindSimilarIn_InvalidCode(t *testing.T) {
	searcher, _ := newTestSearcher(t, &fakeResolver{}, true)

	_, err := searcher.FindSimilarIn(context.Background(), "love", "not a code!", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidTranslation)
}

// testMonitor is a simple test implementation of SearchMonitor
type testMonitor struct {
	startCalled   bool
	loadedCode    string
	loadedVerses  int
	vectorizedDim int
	rankedHits    int
	finishCalled  bool
	finishedCount int
}

func (m *testMonitor) Start(_ string) { m.startCalled = true }

func (m *testMonitor) AfterCorpusLoad(translation string, verseCount int) {
	m.loadedCode = translation
	m.loadedVerses = verseCount
}

func (m *testMonitor) AfterVectorize(dimension int) { m.vectorizedDim = dimension }

func (m *testMonitor) AfterRanking(hits []core.ScoredVerse) { m.rankedHits = len(hits) }

func (m *testMonitor) Finish(results []core.ScoredVerse) {
	m.finishCalled = true
	m.finishedCount = len(results)
}

func TestFindSimilarWithMonitor(t *testing.T) {
	searcher, _ := newTestSearcher(t, &fakeResolver{}, true)

	monitor := &testMonitor{}
	results, err := searcher.FindSimilarWithMonitor(context.Background(), "love", "", 2, monitor)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, monitor.startCalled)
	assert.Equal(t, "ASV", monitor.loadedCode)
	assert.Equal(t, 3, monitor.loadedVerses)
	assert.Equal(t, testDimension, monitor.vectorizedDim)
	assert.Equal(t, 2, monitor.rankedHits)
	assert.True(t, monitor.finishCalled)
	assert.Equal(t, 2, monitor.finishedCount)
}

func TestFindSimilarWithMonitor_BlankTermStillFinishes(t *testing.T) {
	searcher, _ := newTestSearcher(t, &fakeResolver{}, false)

	monitor := &testMonitor{}
	results, err := searcher.FindSimilarWithMonitor(context.Background(), "  ", "", 5, monitor)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.True(t, monitor.startCalled)
	assert.True(t, monitor.finishCalled)
}
