package embed

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// Hashing is an offline embedder that hashes lowercase word tokens and
// character trigrams into a fixed number of buckets. Texts sharing words
// get high similarity; it carries no learned semantics.
type Hashing struct {
	Dims int
}

// NewHashing returns a hashing embedder with the given dimensionality.
func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = 256
	}
	return &Hashing{Dims: dims}
}

// Embed implements Embedder.
func (h *Hashing) Embed(_ context.Context, texts []string) ([][]float32, error) {
	dims := h.Dims
	if dims <= 0 {
		dims = 256
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, dims)
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		for _, w := range words {
			vec[bucket(w, dims)] += 1
			padded := "#" + w + "#"
			runes := []rune(padded)
			for k := 0; k+3 <= len(runes); k++ {
				vec[bucket(string(runes[k:k+3]), dims)] += 0.25
			}
		}
		out[i] = vec
	}
	return out, nil
}

func bucket(s string, dims int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % uint32(dims))
}
