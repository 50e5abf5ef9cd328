// Package embed provides the embedding contract shared by the merger,
// reference filter, context matcher and domain classifier, along with
// the vector math they use.
package embed

import (
	"context"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cognicore/glossary/pkg/glossary/internalerr"
)

// DefaultChunkSize is the number of rows computed per similarity chunk.
const DefaultChunkSize = 256

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Unit embeds texts and L2-normalizes the result. Failures wrap
// internalerr.ErrEmbedding.
func Unit(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := e.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrEmbedding, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", internalerr.ErrEmbedding, len(vecs), len(texts))
	}
	out := make([][]float32, len(vecs))
	for i, v := range vecs {
		out[i] = Normalize(v)
	}
	return out, nil
}

// Normalize returns a unit-length copy of v. Zero vectors stay zero.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// Dot is the inner product of two vectors of equal length.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// Cosine computes the cosine similarity between two vectors.
func Cosine(a, b []float32) float64 {
	return Dot(Normalize(a), Normalize(b))
}

// Similarity computes the rows×cols cosine matrix of unit vectors,
// filling chunkSize rows at a time.
func Similarity(rows, cols [][]float32, chunkSize int) [][]float64 {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	sims := make([][]float64, 0, len(rows))
	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := make([][]float64, end-start)
		for i, r := range rows[start:end] {
			row := make([]float64, len(cols))
			for j, c := range cols {
				row[j] = Dot(r, c)
			}
			chunk[i] = row
		}
		sims = append(sims, chunk...)
	}
	return sims
}

// Best returns the index and value of the largest entry, or -1 for an
// empty row.
func Best(row []float64) (int, float64) {
	best, score := -1, math.Inf(-1)
	for j, v := range row {
		if v > score {
			best, score = j, v
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, score
}

// Cached memoizes vectors per text so a term embedded by several stages
// of one run is only sent to the backend once.
type Cached struct {
	next  Embedder
	cache *lru.Cache[string, []float32]
}

// NewCached wraps next with an LRU cache of the given size.
func NewCached(next Embedder, size int) (*Cached, error) {
	if size <= 0 {
		size = 4096
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

// Embed implements Embedder.
func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, t := range texts {
		if v, ok := c.cache.Get(t); ok {
			out[i] = v
			continue
		}
		missing = append(missing, t)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}
	vecs, err := c.next.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(missing))
	}
	for k, v := range vecs {
		c.cache.Add(missing[k], v)
		out[missingIdx[k]] = v
	}
	return out, nil
}

// Len reports the number of cached vectors.
func (c *Cached) Len() int {
	return c.cache.Len()
}
