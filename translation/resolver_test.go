package translation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graceworks/concord/core"
	"github.com/graceworks/concord/objectstore"
)

// fakeRemote serves documents from a map keyed by object key, mimicking the
// store client's key layout. A configured error wins over the map.
type fakeRemote struct {
	docs    map[string][]byte
	err     error
	fetches int
}

func (f *fakeRemote) TranslationKey(code string) string {
	return "bibles/" + code + "/" + code + "_bible.json"
}

func (f *fakeRemote) Fetch(_ context.Context, key string) ([]byte, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.docs[key]
	if !ok {
		return nil, objectstore.ErrNotFound
	}
	return data, nil
}

var john316 = core.VerseRef{Book: "John", Chapter: 3, Verse: 16}

func TestNewResolver(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		resolver, err := NewResolver(NewLocalSource(t.TempDir()), nil)
		require.NoError(t, err)
		assert.NotNil(t, resolver)
	})

	t.Run("nil local source", func(t *testing.T) {
		_, err := NewResolver(nil, nil)
		assert.Equal(t, ErrLocalSourceRequired, err)
	})
}

func TestResolver_Resolve_LocalOnly(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "WEB", webDocJSON)

	resolver, err := NewResolver(NewLocalSource(dir), nil)
	require.NoError(t, err)

	// Lowercase code exercises normalization.
	text, err := resolver.Resolve(context.Background(), john316, "web")
	require.NoError(t, err)
	assert.Contains(t, text, "one and only Son")
}

func TestResolver_Resolve_PrefersRemote(t *testing.T) {
	// The local directory is empty: success proves the remote copy was used.
	remote := &fakeRemote{docs: map[string][]byte{
		"bibles/WEB/WEB_bible.json": []byte(webDocJSON),
	}}

	resolver, err := NewResolver(NewLocalSource(t.TempDir()), remote)
	require.NoError(t, err)

	text, err := resolver.Resolve(context.Background(), john316, "WEB")
	require.NoError(t, err)
	assert.Contains(t, text, "one and only Son")
	assert.Equal(t, 1, remote.fetches)
}

func TestResolver_Resolve_RemoteMissFallsBackToLocal(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "WEB", webDocJSON)
	remote := &fakeRemote{} // knows no documents

	resolver, err := NewResolver(NewLocalSource(dir), remote)
	require.NoError(t, err)

	text, err := resolver.Resolve(context.Background(), john316, "WEB")
	require.NoError(t, err)
	assert.Contains(t, text, "one and only Son")
	assert.Equal(t, 1, remote.fetches)
}

func TestResolver_Resolve_RemoteTransportErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "WEB", webDocJSON)
	remote := &fakeRemote{err: &objectstore.APIError{StatusCode: 502, Message: "bad gateway"}}

	resolver, err := NewResolver(NewLocalSource(dir), remote)
	require.NoError(t, err)

	// The local file exists, but a transport failure must not silently
	// degrade to it.
	_, err = resolver.Resolve(context.Background(), john316, "WEB")
	require.Error(t, err)

	var apiErr *objectstore.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestResolver_Resolve_UnavailableEverywhere(t *testing.T) {
	resolver, err := NewResolver(NewLocalSource(t.TempDir()), &fakeRemote{})
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), john316, "NLT")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTranslationUnavailable)
}

func TestResolver_Resolve_PassageMissing(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "WEB", webDocJSON)

	resolver, err := NewResolver(NewLocalSource(dir), nil)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), core.VerseRef{Book: "Jude", Chapter: 1, Verse: 3}, "WEB")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPassageUnavailable)
	assert.Contains(t, err.Error(), "WEB")
	assert.Contains(t, err.Error(), "Jude 1:3")
}

func TestResolver_Resolve_InvalidCode(t *testing.T) {
	resolver, err := NewResolver(NewLocalSource(t.TempDir()), nil)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), john316, "not a code!")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidTranslation)
}

func TestResolver_CachesSuccessfulLoads(t *testing.T) {
	remote := &fakeRemote{docs: map[string][]byte{
		"bibles/WEB/WEB_bible.json": []byte(webDocJSON),
	}}

	resolver, err := NewResolver(NewLocalSource(t.TempDir()), remote)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := resolver.Resolve(ctx, john316, "WEB")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, remote.fetches)
}

func TestResolver_DoesNotCacheFailures(t *testing.T) {
	remote := &fakeRemote{err: &objectstore.APIError{StatusCode: 500, Message: "store down"}}

	resolver, err := NewResolver(NewLocalSource(t.TempDir()), remote)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = resolver.Resolve(ctx, john316, "WEB")
	require.Error(t, err)

	// The outage clears; the next request must retry instead of replaying
	// the cached failure.
	remote.err = nil
	remote.docs = map[string][]byte{
		"bibles/WEB/WEB_bible.json": []byte(webDocJSON),
	}

	text, err := resolver.Resolve(ctx, john316, "WEB")
	require.NoError(t, err)
	assert.Contains(t, text, "one and only Son")
	assert.Equal(t, 2, remote.fetches)
}

func TestResolver_CacheIsPerCode(t *testing.T) {
	asvDoc := `{"John": {"3": {"16": "For God so loved the world, that he gave his only begotten Son, that whosoever believeth on him should not perish, but have eternal life."}}}`
	remote := &fakeRemote{docs: map[string][]byte{
		"bibles/WEB/WEB_bible.json": []byte(webDocJSON),
		"bibles/ASV/ASV_bible.json": []byte(asvDoc),
	}}

	resolver, err := NewResolver(NewLocalSource(t.TempDir()), remote)
	require.NoError(t, err)

	ctx := context.Background()
	webText, err := resolver.Resolve(ctx, john316, "WEB")
	require.NoError(t, err)
	asvText, err := resolver.Resolve(ctx, john316, "ASV")
	require.NoError(t, err)

	assert.Contains(t, webText, "one and only Son")
	assert.Contains(t, asvText, "only begotten Son")
	assert.Equal(t, 2, remote.fetches)
}
