package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/graceworks/concord/core"
)

// DefaultDimension is the vector length used when no dimension is configured.
const DefaultDimension = 384

// Vectorize computes the hashing-trick embedding of text at the given
// dimension. The dimension must be positive; callers hold validated values
// (config-checked at build time, store-checked at load time).
//
// Same text and dimension always produce bit-identical output.
func Vectorize(text string, dim int) []float32 {
	vec := make([]float32, dim)
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return vec
	}
	for _, tok := range tokens {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%uint32(dim)]++
	}
	return normalize(vec)
}

// tokenize lowercases text, replaces every character outside [a-z0-9 ']
// with a space, and splits on whitespace. Apostrophes survive so that
// contractions ("didn't") stay single tokens.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '\'':
			return r
		default:
			return ' '
		}
	}, lowered)
	return strings.Fields(cleaned)
}

// normalize scales v to unit length in place and returns it.
// A zero vector is returned unchanged; it cannot be normalized.
func normalize(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return v
	}
	magnitude := float32(math.Sqrt(sumSquares))
	for i := range v {
		v[i] /= magnitude
	}
	return v
}

// HashingEmbedder is the production Embedder: deterministic hashing-trick
// vectors at a fixed dimension. The zero cost of embedding means there is
// no batching advantage; EmbedTexts exists to satisfy the pipeline seam.
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder creates an Embedder producing vectors of length dim.
// Returns core.ErrInvalidDimension if dim is not positive.
func NewHashingEmbedder(dim int) (Embedder, error) {
	if err := core.ValidateDimension(dim); err != nil {
		return nil, err
	}
	return &HashingEmbedder{dim: dim}, nil
}

// EmbedText generates the embedding for a single text.
func (e *HashingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return Vectorize(text, e.dim), nil
}

// EmbedTexts generates embeddings for multiple texts in input order.
func (e *HashingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = Vectorize(text, e.dim)
	}
	return vectors, nil
}

// Dimension returns the configured vector length.
func (e *HashingEmbedder) Dimension() int {
	return e.dim
}
