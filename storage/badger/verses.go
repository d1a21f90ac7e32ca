package badger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/graceworks/concord/core"
	"github.com/graceworks/concord/storage"
)

// saveBatchSize bounds rows per write transaction; BadgerDB caps the size of
// a single transaction and a full corpus exceeds it.
const saveBatchSize = 500

// VerseRepository implements storage.VerseRepository for BadgerDB.
type VerseRepository struct {
	backend *Backend
}

var _ storage.VerseRepository = (*VerseRepository)(nil)

// NewVerseRepository creates a new VerseRepository.
func NewVerseRepository(backend *Backend) *VerseRepository {
	return &VerseRepository{backend: backend}
}

// WithTransaction delegates to the backend.
func (r *VerseRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveCorpus replaces the stored corpus with the given one.
func (r *VerseRepository) SaveCorpus(ctx context.Context, corpus *core.Corpus) error {
	if corpus == nil || len(corpus.Entries) == 0 {
		return fmt.Errorf("save corpus: %w", core.ErrCorpusEmpty)
	}
	code := core.NormalizeTranslationCode(corpus.Translation)
	if err := core.ValidateTranslationCode(code); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}
	if err := core.ValidateDimension(corpus.Dimension); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}
	// Validate everything before touching the store; a rejected build must
	// not destroy the previous corpus.
	for i := range corpus.Entries {
		entry := &corpus.Entries[i]
		if err := core.ValidateVerseRef(entry.Ref); err != nil {
			return fmt.Errorf("save corpus: %w", err)
		}
		if len(entry.Vector) != corpus.Dimension {
			return fmt.Errorf("save corpus: %w: passage %s vector has %d components, want %d",
				core.ErrInvalidDimension, entry.Ref, len(entry.Vector), corpus.Dimension)
		}
	}

	// Drop every existing verse row first so a rebuild, including one that
	// changes the translation code, never leaves stale passages behind.
	if err := r.backend.DropPrefix(makeAllVersesPrefix()); err != nil {
		return fmt.Errorf("drop stale verse rows: %w", err)
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(metaTranslationKey, []byte(code)); err != nil {
			return err
		}
		if err := tx.Set(metaDimensionKey, []byte(strconv.Itoa(corpus.Dimension))); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return fmt.Errorf("write corpus metadata: %w", err)
	}

	for start := 0; start < len(corpus.Entries); start += saveBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + saveBatchSize
		if end > len(corpus.Entries) {
			end = len(corpus.Entries)
		}
		batch := corpus.Entries[start:end]

		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for i := range batch {
				entry := &batch[i]
				record := &core.VerseRecord{
					Book:      entry.Ref.Book,
					Chapter:   entry.Ref.Chapter,
					Verse:     entry.Ref.Verse,
					Text:      entry.Text,
					Embedding: storage.EncodeVector(entry.Vector),
				}
				key := makeVerseRecordKey(code, entry.Ref.ID())
				if err := tx.Set(key, storage.MarshalVerseRecord(record)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return fmt.Errorf("write verse rows: %w", err)
		}
	}

	return nil
}

// LoadCorpus reads the full corpus into memory, decoding every embedding.
func (r *VerseRepository) LoadCorpus(ctx context.Context) (*core.Corpus, error) {
	code, dim, err := r.readMeta()
	if err != nil {
		return nil, err
	}

	corpus := &core.Corpus{Translation: code, Dimension: dim}
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeVersePrefix(code)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var record *core.VerseRecord
			err := item.Value(func(val []byte) error {
				var uerr error
				record, uerr = storage.UnmarshalVerseRecord(val)
				return uerr
			})
			if err != nil {
				return fmt.Errorf("verse row %q: %w", item.Key(), err)
			}

			vector, err := storage.DecodeVector(record.Embedding, dim)
			if err != nil {
				return fmt.Errorf("passage %s: %w", record.Ref(), err)
			}

			corpus.Entries = append(corpus.Entries, core.CorpusEntry{
				Ref:    record.Ref(),
				Text:   record.Text,
				Vector: vector,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	if len(corpus.Entries) == 0 {
		return nil, fmt.Errorf("%w: translation %s has no verse rows", core.ErrCorpusEmpty, code)
	}

	return corpus, nil
}

// GetVerse retrieves a single verse record by reference.
func (r *VerseRepository) GetVerse(ctx context.Context, ref core.VerseRef) (*core.VerseRecord, error) {
	code, _, err := r.readMeta()
	if err != nil {
		return nil, err
	}

	var record *core.VerseRecord
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVerseRecordKey(code, ref.ID()))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s in %s", storage.ErrNotFound, ref, code)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var uerr error
			record, uerr = storage.UnmarshalVerseRecord(val)
			return uerr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CountVerses returns the number of verse rows in the stored corpus.
func (r *VerseRepository) CountVerses(ctx context.Context) (int, error) {
	code, _, err := r.readMeta()
	if err != nil {
		return 0, err
	}

	count := 0
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeVersePrefix(code)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// readMeta reads and validates the corpus metadata table.
func (r *VerseRepository) readMeta() (code string, dim int, err error) {
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(metaTranslationKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: no corpus metadata; run the build step first", core.ErrStoreNotBuilt)
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			code = string(val)
			return nil
		}); err != nil {
			return err
		}

		item, err = tx.Get(metaDimensionKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: dimension metadata missing for translation %s", core.ErrInvalidDimension, code)
		}
		if err != nil {
			return err
		}
		var raw string
		if err := item.Value(func(val []byte) error {
			raw = string(val)
			return nil
		}); err != nil {
			return err
		}

		dim, err = strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: dimension metadata %q is not a number", core.ErrInvalidDimension, raw)
		}
		return core.ValidateDimension(dim)
	}, false)
	return code, dim, err
}
