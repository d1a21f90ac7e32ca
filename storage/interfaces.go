package storage

import (
	"context"

	"github.com/graceworks/concord/core"
)

// VerseRepository provides operations for the persisted search corpus.
// Implementations must be thread-safe and support concurrent access.
//
// The store holds exactly one corpus at a time: the verses of the primary
// translation plus the metadata needed to interpret them (translation code
// and embedding dimension). It is written by the offline build step and
// read-only at serving time.
type VerseRepository interface {
	// SaveCorpus replaces the stored corpus with the given one.
	// Existing verse rows are dropped first, so a rebuild never leaves
	// stale rows behind. Entry vectors are encoded to their persisted
	// byte form; the corpus must carry a valid translation code, a
	// positive dimension, and at least one entry.
	SaveCorpus(ctx context.Context, corpus *core.Corpus) error

	// LoadCorpus reads the full corpus into memory, decoding every stored
	// embedding into a fresh vector.
	// Returns core.ErrStoreNotBuilt if the store has never been built,
	// core.ErrInvalidDimension if the dimension metadata is missing or
	// not positive, and core.ErrCorpusEmpty if no verse rows exist.
	LoadCorpus(ctx context.Context) (*core.Corpus, error)

	// GetVerse retrieves a single verse record by reference from the
	// stored translation. Returns ErrNotFound if the passage is absent.
	GetVerse(ctx context.Context, ref core.VerseRef) (*core.VerseRecord, error)

	// CountVerses returns the number of verse rows in the stored corpus.
	// Returns core.ErrStoreNotBuilt if the store has never been built.
	CountVerses(ctx context.Context) (int, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
