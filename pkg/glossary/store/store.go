package store

import (
	"context"
	"strings"
	"time"

	"github.com/cognicore/glossary/pkg/glossary/term"
	"github.com/cognicore/glossary/pkg/glossary/textnorm"
)

// Vocabulary is the reference side of the store, read once per run
type Vocabulary interface {
	TermNames(ctx context.Context) ([]string, error)
	Domains(ctx context.Context) ([]Domain, error)
}

// Writer persists new glossary entries
type Writer interface {
	// SaveNewTerms inserts entries that have a definition and whose
	// normalized term is not stored yet. It returns the number saved.
	SaveNewTerms(ctx context.Context, terms []NewTerm) (int, error)
}

// Store is the main interface for persisting and querying glossary data
type Store interface {
	Vocabulary
	Writer

	UpsertDomain(ctx context.Context, d Domain) (int64, error)
	PendingTerms(ctx context.Context) ([]GlossaryTerm, error)
	TermsByDomain(ctx context.Context, domain string) ([]GlossaryTerm, error)
	Approve(ctx context.Context, id int64, approvedBy string) error

	Close() error
}

// Domain is a business domain used for classification
type Domain struct {
	ID             int64
	Name           string
	NormalizedName string
	Category       string
	Synonyms       []string
	Description    string
	Source         string
}

// AnchorText is the text embedded to represent the domain.
func (d Domain) AnchorText() string {
	if s := strings.TrimSpace(d.Description); s != "" {
		return s
	}
	return d.Name
}

// Normalized returns the domain with NormalizedName filled in.
func (d Domain) Normalized() Domain {
	d.Name = strings.TrimSpace(d.Name)
	if d.NormalizedName == "" {
		d.NormalizedName = textnorm.NormalizeTerm(d.Name)
	}
	return d
}

// NewTerm is a glossary entry produced by a run
type NewTerm struct {
	Term            string
	Definition      string
	BusinessDomain  string
	Synonyms        []string
	TermContext     string
	Contexts        []term.Context
	ConfidenceScore *float64
	DocumentName    string
	SourceSystem    string
	RunID           string
}

// GlossaryTerm is a stored glossary entry
type GlossaryTerm struct {
	NewTerm
	ID          int64
	Version     int
	IsActive    bool
	ApprovedBy  string
	CreatedAt   time.Time
	LastUpdated time.Time
}

// FromEnriched converts enrichment output into rows. Failed records keep
// their empty definition so SaveNewTerms skips them.
func FromEnriched(records []term.Enriched, document, runID string) []NewTerm {
	out := make([]NewTerm, 0, len(records))
	for _, r := range records {
		nt := NewTerm{
			Term:         r.Term,
			Synonyms:     r.Synonyms,
			Contexts:     r.Contexts,
			DocumentName: document,
			SourceSystem: "glossary",
			RunID:        runID,
		}
		if r.Definition != nil {
			nt.Definition = *r.Definition
		}
		if r.BusinessDomain != nil {
			nt.BusinessDomain = *r.BusinessDomain
		}
		if r.TermContext != nil {
			nt.TermContext = *r.TermContext
		}
		score := r.FinalScore
		nt.ConfidenceScore = &score
		out = append(out, nt)
	}
	return out
}

// JoinSynonyms is the stored form of a synonym list.
func JoinSynonyms(syns []string) string {
	clean := make([]string, 0, len(syns))
	for _, s := range syns {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	return strings.Join(clean, ", ")
}

// SplitSynonyms parses the stored form of a synonym list.
func SplitSynonyms(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
