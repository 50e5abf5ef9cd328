// Package contexts attaches supporting paragraphs to scored candidates.
package contexts

import (
	"context"
	"fmt"
	"sort"

	"github.com/cognicore/glossary/pkg/glossary/embed"
	"github.com/cognicore/glossary/pkg/glossary/ingest"
	"github.com/cognicore/glossary/pkg/glossary/term"
)

// Defaults for context retrieval
const (
	DefaultTopK      = 3
	DefaultThreshold = 0.5
)

// Matcher retrieves the top paragraphs for each candidate
type Matcher struct {
	embedder  embed.Embedder
	topK      int
	threshold float64
	chunkSize int
}

// New creates a context matcher. Zero values fall back to the defaults.
func New(embedder embed.Embedder, topK int, threshold float64, chunkSize int) *Matcher {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{embedder: embedder, topK: topK, threshold: threshold, chunkSize: chunkSize}
}

// Match returns the candidates with at least one context, ordered by
// final score. Candidates whose best paragraphs all fall below the
// threshold are dropped.
func (m *Matcher) Match(ctx context.Context, candidates []term.Scored, paragraphs []ingest.Paragraph) ([]term.Candidate, error) {
	if len(candidates) == 0 || len(paragraphs) == 0 {
		return nil, nil
	}

	texts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		texts[i] = p.Text()
	}
	paraVecs, err := embed.Unit(ctx, m.embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("embed paragraphs: %w", err)
	}
	terms := make([]string, len(candidates))
	for i, c := range candidates {
		terms[i] = c.Term
	}
	termVecs, err := embed.Unit(ctx, m.embedder, terms)
	if err != nil {
		return nil, fmt.Errorf("embed terms: %w", err)
	}

	var out []term.Candidate
	for i, row := range embed.Similarity(termVecs, paraVecs, m.chunkSize) {
		var found []term.Context
		for _, j := range topIndexes(row, m.topK) {
			if row[j] < m.threshold {
				break
			}
			found = append(found, term.Context{
				OriginalSentence:   paragraphs[j].Original,
				LemmatizedSentence: paragraphs[j].Lemmatized,
				ContextScore:       row[j],
			})
		}
		if len(found) == 0 {
			continue
		}
		out = append(out, term.Candidate{Scored: candidates[i], Contexts: found})
	}
	term.SortByFinalScore(out)
	return out, nil
}

// topIndexes returns the indexes of the k largest values, largest first.
func topIndexes(row []float64, k int) []int {
	idx := make([]int, len(row))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return row[idx[a]] > row[idx[b]]
	})
	if k < len(idx) {
		idx = idx[:k]
	}
	return idx
}
