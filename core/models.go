package core

import (
	"encoding/binary"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that identical
// passage references always map to the same storage key.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// VerseRef identifies a single passage in translation-independent
// coordinates: book name, chapter number, verse number.
type VerseRef struct {
	Book    string
	Chapter int
	Verse   int
}

// String returns the conventional human-readable form, e.g. "John 3:16".
func (r VerseRef) String() string {
	return r.Book + " " + strconv.Itoa(r.Chapter) + ":" + strconv.Itoa(r.Verse)
}

// Tuple returns a string representation of the reference as "(Book,Chapter,Verse)".
// This is used for generating deterministic IDs.
func (r VerseRef) Tuple() string {
	return "(" + r.Book + "," + strconv.Itoa(r.Chapter) + "," + strconv.Itoa(r.Verse) + ")"
}

// ID returns the content-derived identifier for this reference.
func (r VerseRef) ID() ID {
	return IDFromContent(r.Tuple())
}

// VerseRecord is the persisted form of a passage: its reference, the text in
// the corpus translation, and the embedding as raw little-endian float32 bytes.
// The embedding stays opaque here; decoding it requires the corpus dimension.
type VerseRecord struct {
	Book      string
	Chapter   int
	Verse     int
	Text      string
	Embedding []byte
}

// Ref returns the passage reference for this record.
func (v *VerseRecord) Ref() VerseRef {
	return VerseRef{Book: v.Book, Chapter: v.Chapter, Verse: v.Verse}
}

// CorpusEntry is one passage held in memory: reference, text in the corpus
// translation, and the decoded embedding vector.
type CorpusEntry struct {
	Ref    VerseRef
	Text   string
	Vector []float32
}

// Corpus is the fully loaded search corpus. It is immutable after load;
// entries keep the order in which the store yielded them.
type Corpus struct {
	Translation string
	Dimension   int
	Entries     []CorpusEntry
}

// ScoredVerse is a single search hit: the passage, the text in the requested
// translation, and the similarity score against the query vector.
type ScoredVerse struct {
	Ref         VerseRef
	Translation string
	Text        string
	Score       float32
}
