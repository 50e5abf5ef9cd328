// Package refilter removes candidates already covered by the reference
// vocabulary, first by exact normalized match and then by embedding
// similarity.
package refilter

import (
	"context"
	"fmt"
	"sort"

	"github.com/cognicore/glossary/pkg/glossary/embed"
	"github.com/cognicore/glossary/pkg/glossary/textnorm"
)

// DefaultThreshold is the reference similarity at which a candidate is
// treated as a duplicate.
const DefaultThreshold = 0.65

// Match is a candidate that survived the semantic pass
type Match struct {
	Term             string
	Similarity       float64
	MatchedReference string
}

// ExactFilter drops candidates whose normalized form is in reference.
func ExactFilter(candidates, reference []string) []string {
	known := make(map[string]struct{}, len(reference))
	for _, r := range reference {
		known[textnorm.NormalizeTerm(r)] = struct{}{}
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := known[textnorm.NormalizeTerm(c)]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Filter runs the semantic duplicate pass
type Filter struct {
	embedder  embed.Embedder
	threshold float64
	chunkSize int
}

// New creates a semantic filter. threshold <= 0 uses DefaultThreshold.
func New(embedder embed.Embedder, threshold float64, chunkSize int) *Filter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Filter{embedder: embedder, threshold: threshold, chunkSize: chunkSize}
}

// Semantic keeps candidates whose best reference similarity is below the
// threshold. The result is sorted by ascending similarity.
func (f *Filter) Semantic(ctx context.Context, candidates, reference []string) ([]Match, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(reference) == 0 {
		out := make([]Match, len(candidates))
		for i, c := range candidates {
			out[i] = Match{Term: c}
		}
		return out, nil
	}

	candVecs, err := embed.Unit(ctx, f.embedder, candidates)
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	refVecs, err := embed.Unit(ctx, f.embedder, reference)
	if err != nil {
		return nil, fmt.Errorf("embed reference: %w", err)
	}

	var out []Match
	for i, row := range embed.Similarity(candVecs, refVecs, f.chunkSize) {
		j, score := embed.Best(row)
		if score >= f.threshold {
			continue
		}
		out = append(out, Match{Term: candidates[i], Similarity: score, MatchedReference: reference[j]})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Similarity < out[b].Similarity
	})
	return out, nil
}
