// Package merge reconciles linguistic and statistical candidates.
package merge

import (
	"context"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cognicore/glossary/pkg/glossary/embed"
	"github.com/cognicore/glossary/pkg/glossary/textnorm"
	"github.com/cognicore/glossary/pkg/glossary/tfidf"
)

// Options tunes the merge
type Options struct {
	Threshold     float64 // similarity at which the statistical phrasing wins
	AlwaysInclude int     // top statistical phrases kept unconditionally
	ChunkSize     int
	Prefilter     bool
}

// DefaultOptions returns the standard merge settings
func DefaultOptions() Options {
	return Options{
		Threshold:     0.75,
		AlwaysInclude: 10,
		ChunkSize:     embed.DefaultChunkSize,
		Prefilter:     true,
	}
}

// Merger unifies both generators into one candidate set
type Merger struct {
	embedder embed.Embedder
	opts     Options
}

// New creates a merger
func New(embedder embed.Embedder, opts Options) *Merger {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = embed.DefaultChunkSize
	}
	return &Merger{embedder: embedder, opts: opts}
}

// Merge returns the deduplicated candidate set in first-insertion order.
func (m *Merger) Merge(ctx context.Context, linguistic [][]string, stats tfidf.Scores) ([]string, error) {
	statTerms := stats.Terms()

	var flat []string
	for _, para := range linguistic {
		flat = append(flat, para...)
	}
	var ling []string
	for _, phrase := range textnorm.Unique(flat) {
		if textnorm.IsValidTerm(phrase) {
			ling = append(ling, phrase)
		}
	}
	if m.opts.Prefilter {
		ling = m.prefilter(ling, statTerms)
	}
	if len(ling) == 0 {
		return textnorm.Unique(stats.Top(m.opts.AlwaysInclude).Terms()), nil
	}

	out := newOrdered()
	if len(statTerms) == 0 {
		for _, phrase := range ling {
			out.add(phrase)
		}
		return out.items, nil
	}

	statVecs, err := embed.Unit(ctx, m.embedder, statTerms)
	if err != nil {
		return nil, fmt.Errorf("embed statistical phrases: %w", err)
	}
	lingVecs, err := embed.Unit(ctx, m.embedder, ling)
	if err != nil {
		return nil, fmt.Errorf("embed linguistic phrases: %w", err)
	}

	sims := embed.Similarity(lingVecs, statVecs, m.opts.ChunkSize)
	for i, row := range sims {
		j, score := embed.Best(row)
		if j >= 0 && score >= m.opts.Threshold {
			out.add(statTerms[j])
			continue
		}
		out.add(ling[i])
	}
	for _, phrase := range stats.Top(m.opts.AlwaysInclude).Terms() {
		out.add(phrase)
	}
	return out.items, nil
}

// prefilter keeps multi-word phrases and phrases sharing a token with a
// statistical phrase.
func (m *Merger) prefilter(ling, statTerms []string) []string {
	statTokens := mapset.NewThreadUnsafeSet[string]()
	for _, s := range statTerms {
		statTokens.Append(strings.Fields(textnorm.NormalizeTerm(s))...)
	}
	var kept []string
	for _, phrase := range ling {
		tokens := strings.Fields(textnorm.NormalizeTerm(phrase))
		if len(tokens) > 1 || sharesToken(statTokens, tokens) {
			kept = append(kept, phrase)
		}
	}
	return kept
}

func sharesToken(set mapset.Set[string], tokens []string) bool {
	for _, tok := range tokens {
		if set.Contains(tok) {
			return true
		}
	}
	return false
}

type ordered struct {
	seen  mapset.Set[string]
	items []string
}

func newOrdered() *ordered {
	return &ordered{seen: mapset.NewThreadUnsafeSet[string]()}
}

func (o *ordered) add(term string) {
	if o.seen.Add(textnorm.NormalizeTerm(term)) {
		o.items = append(o.items, term)
	}
}
