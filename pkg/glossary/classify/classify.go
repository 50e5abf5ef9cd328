// Package classify assigns each candidate its closest business domain.
package classify

import (
	"context"
	"fmt"

	"github.com/cognicore/glossary/pkg/glossary/embed"
	"github.com/cognicore/glossary/pkg/glossary/store"
	"github.com/cognicore/glossary/pkg/glossary/term"
)

// DefaultThreshold is the minimum similarity for a domain assignment.
const DefaultThreshold = 0.6

// Classifier matches terms against domain anchor texts
type Classifier struct {
	embedder  embed.Embedder
	threshold float64
	chunkSize int
}

// New creates a classifier. threshold <= 0 uses DefaultThreshold.
func New(embedder embed.Embedder, threshold float64, chunkSize int) *Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Classifier{embedder: embedder, threshold: threshold, chunkSize: chunkSize}
}

// Classify returns the candidates in input order with Domain set. The
// best score is always reported; id and name stay nil below the
// threshold. Without domains every candidate passes through untouched.
func (c *Classifier) Classify(ctx context.Context, candidates []term.Candidate, domains []store.Domain) ([]term.Candidate, error) {
	out := make([]term.Candidate, len(candidates))
	copy(out, candidates)
	if len(candidates) == 0 || len(domains) == 0 {
		return out, nil
	}

	anchors := make([]string, len(domains))
	for i, d := range domains {
		anchors[i] = d.AnchorText()
	}
	domainVecs, err := embed.Unit(ctx, c.embedder, anchors)
	if err != nil {
		return nil, fmt.Errorf("embed domains: %w", err)
	}
	terms := make([]string, len(candidates))
	for i, cand := range candidates {
		terms[i] = cand.Term
	}
	termVecs, err := embed.Unit(ctx, c.embedder, terms)
	if err != nil {
		return nil, fmt.Errorf("embed terms: %w", err)
	}

	for i, row := range embed.Similarity(termVecs, domainVecs, c.chunkSize) {
		j, score := embed.Best(row)
		match := term.DomainMatch{DomainScore: score}
		if score >= c.threshold {
			id := domains[j].ID
			name := domains[j].Name
			match.DomainID = &id
			match.DomainName = &name
		}
		out[i].Domain = match
	}
	return out, nil
}
