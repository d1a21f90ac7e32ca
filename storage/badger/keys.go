package badger

import (
	"encoding/binary"

	"github.com/graceworks/concord/core"
)

// Key prefixes for different data types
const (
	verseRecordPrefix = "verrec"
	corpusMetaPrefix  = "cormeta"
)

// Corpus metadata keys
var (
	metaTranslationKey = []byte(corpusMetaPrefix + ":translation")
	metaDimensionKey   = []byte(corpusMetaPrefix + ":embedding_dimension")
)

// makeVerseRecordKey generates a composite key for a verse record.
// Format: prefix:code:id
func makeVerseRecordKey(code string, id core.ID) []byte {
	prefix := verseRecordPrefix + ":" + code + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	buf := make([]byte, prefixSize+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeVersePrefix generates the iteration prefix for all rows of one translation.
func makeVersePrefix(code string) []byte {
	return []byte(verseRecordPrefix + ":" + code + ":")
}

// makeAllVersesPrefix generates the prefix covering verse rows of every
// translation, used when a rebuild drops the old corpus.
func makeAllVersesPrefix() []byte {
	return []byte(verseRecordPrefix + ":")
}
