package search

import (
	"math"
	"slices"

	"github.com/graceworks/concord/core"
)

// MaxLimit is the largest number of results a single search can return.
// Callers clamp requested limits into [0, MaxLimit] before ranking.
const MaxLimit = 50

// TopK selects the k highest-scoring corpus entries for the query vector.
// Scores are dot products; both the query and the stored embeddings are
// unit-normalized, so this is cosine similarity. Non-finite scores are
// skipped. k <= 0 returns an empty slice.
//
// Results are ordered by descending score. Equal scores keep the order in
// which the working set held them, which follows corpus scan order; with
// hashed bag-of-words embeddings near-ties are common, so callers must not
// rely on any finer ordering.
func TopK(corpus *core.Corpus, query []float32, k int) []core.ScoredVerse {
	if corpus == nil || k <= 0 {
		return []core.ScoredVerse{}
	}

	capHint := k
	if len(corpus.Entries) < capHint {
		capHint = len(corpus.Entries)
	}
	best := make([]core.ScoredVerse, 0, capHint)

	for i := range corpus.Entries {
		entry := &corpus.Entries[i]
		score := dotProduct(query, entry.Vector)
		if math.IsNaN(float64(score)) || math.IsInf(float64(score), 0) {
			continue
		}

		if len(best) < k {
			best = append(best, scoredVerse(corpus.Translation, entry, score))
			continue
		}

		// Working set is full: replace the current minimum when strictly
		// beaten. A linear scan is cheapest for the small k this serves.
		minIdx := 0
		for j := 1; j < len(best); j++ {
			if best[j].Score < best[minIdx].Score {
				minIdx = j
			}
		}
		if score > best[minIdx].Score {
			best[minIdx] = scoredVerse(corpus.Translation, entry, score)
		}
	}

	slices.SortStableFunc(best, func(a, b core.ScoredVerse) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	return best
}

func scoredVerse(translation string, entry *core.CorpusEntry, score float32) core.ScoredVerse {
	return core.ScoredVerse{
		Ref:         entry.Ref,
		Translation: translation,
		Text:        entry.Text,
		Score:       score,
	}
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
