package ingestion

import "errors"

var (
	// ErrVerseRepositoryRequired is returned when a verse repository is not provided.
	ErrVerseRepositoryRequired = errors.New("verse repository required")

	// ErrSourceRequired is returned when a local translation source is not provided.
	ErrSourceRequired = errors.New("local translation source required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrDocumentEmpty is returned when a translation document flattens to
	// zero passages.
	ErrDocumentEmpty = errors.New("translation document contains no passages")
)
