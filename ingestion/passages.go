package ingestion

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/graceworks/concord/core"
	"github.com/graceworks/concord/translation"
)

// passage is one flattened verse awaiting embedding.
type passage struct {
	ref  core.VerseRef
	text string
}

// flatten walks a document into a deterministic passage order: books
// lexically, chapters and verses numerically. Rebuilding from the same
// document always yields the same corpus order. Chapter and verse keys must
// be canonical positive decimals; anything else is a malformed document.
func flatten(doc translation.Document) ([]passage, error) {
	books := make([]string, 0, len(doc))
	for book := range doc {
		books = append(books, book)
	}
	slices.Sort(books)

	var passages []passage
	for _, book := range books {
		chapters := doc[book]
		chapterNums := make([]int, 0, len(chapters))
		for key := range chapters {
			n, err := strconv.Atoi(key)
			if err != nil || n < 1 || strconv.Itoa(n) != key {
				return nil, fmt.Errorf("%w: book %s has chapter key %q", translation.ErrMalformedDocument, book, key)
			}
			chapterNums = append(chapterNums, n)
		}
		slices.Sort(chapterNums)

		for _, chapter := range chapterNums {
			verses := chapters[strconv.Itoa(chapter)]
			verseNums := make([]int, 0, len(verses))
			for key := range verses {
				n, err := strconv.Atoi(key)
				if err != nil || n < 1 || strconv.Itoa(n) != key {
					return nil, fmt.Errorf("%w: %s %d has verse key %q", translation.ErrMalformedDocument, book, chapter, key)
				}
				verseNums = append(verseNums, n)
			}
			slices.Sort(verseNums)

			for _, verse := range verseNums {
				passages = append(passages, passage{
					ref:  core.VerseRef{Book: book, Chapter: chapter, Verse: verse},
					text: verses[strconv.Itoa(verse)],
				})
			}
		}
	}
	return passages, nil
}
