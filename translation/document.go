package translation

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/graceworks/concord/core"
)

// Document is one whole translation, shaped book → chapter → verse → text.
// Chapter and verse keys are decimal strings, exactly as the source JSON
// stores them.
type Document map[string]map[string]map[string]string

// DecodeDocument parses a translation document. The source (file path or
// object key) is named in the error so a bad file can be found without
// debug flags.
func DecodeDocument(data []byte, source string) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDocument, source, err)
	}
	return doc, nil
}

// TextAt returns the verse text at ref. Any missing level of the document
// yields core.ErrPassageUnavailable wrapped with the reference.
func (d Document) TextAt(ref core.VerseRef) (string, error) {
	chapters, ok := d[ref.Book]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrPassageUnavailable, ref.String())
	}
	verses, ok := chapters[strconv.Itoa(ref.Chapter)]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrPassageUnavailable, ref.String())
	}
	text, ok := verses[strconv.Itoa(ref.Verse)]
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrPassageUnavailable, ref.String())
	}
	return text, nil
}
