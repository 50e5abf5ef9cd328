// Package embedtest provides deterministic embedders for tests.
package embedtest

import (
	"context"
	"errors"
	"sync"

	"github.com/cognicore/glossary/pkg/glossary/embed"
)

// ErrUnavailable is returned by Failing.
var ErrUnavailable = errors.New("embedding backend unavailable")

// Table returns fixed vectors for known texts and falls back to a
// hashing embedder for everything else.
type Table struct {
	Vectors  map[string][]float32
	Fallback embed.Embedder

	mu    sync.Mutex
	calls int
	texts int
}

// Embed implements embed.Embedder.
func (t *Table) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	t.mu.Lock()
	t.calls++
	t.texts += len(texts)
	t.mu.Unlock()

	fallback := t.Fallback
	if fallback == nil {
		fallback = embed.NewHashing(64)
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := t.Vectors[text]; ok {
			out[i] = v
			continue
		}
		vecs, err := fallback.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		out[i] = vecs[0]
	}
	return out, nil
}

// Calls reports how many Embed calls were made.
func (t *Table) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Texts reports how many texts were embedded in total.
func (t *Table) Texts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.texts
}

// Failing always returns ErrUnavailable.
type Failing struct{}

// Embed implements embed.Embedder.
func (Failing) Embed(context.Context, []string) ([][]float32, error) {
	return nil, ErrUnavailable
}
