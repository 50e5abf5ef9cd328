// Package term defines the candidate records that flow between pipeline
// stages and the fixed-weight scoring used to select them.
package term

import "sort"

// Default selection values
const (
	StatWeight     = 0.5
	SemanticWeight = 0.5
	MinFinalScore  = 0.15
	NoContext      = "no context"
)

// Raw is a phrase proposed by one of the generators
type Raw struct {
	Text string
}

// Scored is a candidate that survived reference filtering
type Scored struct {
	Term             string
	StatScore        float64
	SemanticScore    float64
	FinalScore       float64
	MatchedReference string
}

// Context is a paragraph offered as evidence for a term
type Context struct {
	OriginalSentence   string  `json:"original_sentence"`
	LemmatizedSentence string  `json:"lemmatized_sentence"`
	ContextScore       float64 `json:"context_score"`
}

// DomainMatch is the outcome of domain classification.
// A nil DomainID means no domain met the acceptance threshold.
type DomainMatch struct {
	DomainID    *int64
	DomainName  *string
	DomainScore float64
}

// Candidate is a scored term with evidence and a domain.
type Candidate struct {
	Scored
	Contexts []Context
	Domain   DomainMatch
}

// Enriched is the final record for a candidate. Definition is nil and
// Error is set when enrichment failed.
type Enriched struct {
	Candidate
	Definition     *string
	BusinessDomain *string
	Synonyms       []string
	TermContext    *string
	Error          *string
	Attempts       int
}

// Failed reports whether enrichment produced no definition.
func (e Enriched) Failed() bool {
	return e.Definition == nil
}

// DomainHint returns the classified domain name, or "Unknown".
func (c Candidate) DomainHint() string {
	if c.Domain.DomainName != nil && *c.Domain.DomainName != "" {
		return *c.Domain.DomainName
	}
	return "Unknown"
}

// Sentences returns up to max non-empty original sentences in rank order.
func (c Candidate) Sentences(max int) []string {
	var out []string
	for _, ctx := range c.Contexts {
		if ctx.OriginalSentence == "" {
			continue
		}
		out = append(out, ctx.OriginalSentence)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// Score combines the statistical and semantic scores.
func Score(stat, semantic float64) float64 {
	return StatWeight*stat + SemanticWeight*semantic
}

// Semantic converts a best reference similarity into a semantic score,
// clamped to [0,1]. An empty reference gives similarity 0 and so a
// candidate carried only by its statistical score.
func Semantic(similarity float64) float64 {
	switch {
	case similarity < 0:
		return 0
	case similarity > 1:
		return 1
	}
	return similarity
}

// Select keeps candidates whose final score is strictly above threshold.
func Select(scored []Scored, threshold float64) []Scored {
	out := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if s.FinalScore > threshold {
			out = append(out, s)
		}
	}
	return out
}

// SortByFinalScore orders candidates by final score, highest first,
// breaking ties by term.
func SortByFinalScore(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].FinalScore != cands[j].FinalScore {
			return cands[i].FinalScore > cands[j].FinalScore
		}
		return cands[i].Term < cands[j].Term
	})
}

// StringPtr is a small helper for optional string fields.
func StringPtr(s string) *string {
	return &s
}
