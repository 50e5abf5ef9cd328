package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cognicore/glossary/pkg/glossary/internalerr"
	"github.com/cognicore/glossary/pkg/glossary/store"
	"github.com/cognicore/glossary/pkg/glossary/term"
	"github.com/cognicore/glossary/pkg/glossary/textnorm"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	nextTerm int64
	nextDom  int64
	terms    []store.GlossaryTerm
	domains  []store.Domain

	// FailTerm makes SaveNewTerms reject rows with this normalized term,
	// mirroring a per-row database failure.
	FailTerm string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{nextTerm: 1, nextDom: 1}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// TermNames implements store.Vocabulary.
func (s *Store) TermNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.terms))
	for i, t := range s.terms {
		out[i] = t.Term
	}
	return out, nil
}

// Domains implements store.Vocabulary.
func (s *Store) Domains(ctx context.Context) ([]store.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Domain, len(s.domains))
	for i, d := range s.domains {
		out[i] = copyDomain(d)
	}
	return out, nil
}

// UpsertDomain inserts or updates a domain keyed by normalized name.
func (s *Store) UpsertDomain(ctx context.Context, d store.Domain) (int64, error) {
	d = d.Normalized()
	if d.Name == "" {
		return 0, fmt.Errorf("%w: domain name is required", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.domains {
		if existing.NormalizedName == d.NormalizedName {
			d.ID = existing.ID
			s.domains[i] = copyDomain(d)
			return d.ID, nil
		}
	}
	d.ID = s.nextDom
	s.nextDom++
	s.domains = append(s.domains, copyDomain(d))
	return d.ID, nil
}

// SaveNewTerms implements store.Writer. The batch is applied atomically.
func (s *Store) SaveNewTerms(ctx context.Context, terms []store.NewTerm) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]struct{}, len(s.terms))
	for _, t := range s.terms {
		existing[textnorm.NormalizeTerm(t.Term)] = struct{}{}
	}

	now := time.Now().UTC()
	saved := 0
	for _, t := range terms {
		key := textnorm.NormalizeTerm(t.Term)
		if strings.TrimSpace(t.Definition) == "" || key == "" {
			continue
		}
		if _, dup := existing[key]; dup {
			continue
		}
		if s.FailTerm != "" && key == textnorm.NormalizeTerm(s.FailTerm) {
			continue
		}
		existing[key] = struct{}{}
		s.terms = append(s.terms, store.GlossaryTerm{
			NewTerm:     copyNewTerm(t),
			ID:          s.nextTerm,
			Version:     1,
			CreatedAt:   now,
			LastUpdated: now,
		})
		s.nextTerm++
		saved++
	}
	return saved, nil
}

// PendingTerms implements store.Store.
func (s *Store) PendingTerms(ctx context.Context) ([]store.GlossaryTerm, error) {
	return s.filter(func(t store.GlossaryTerm) bool { return !t.IsActive }), nil
}

// TermsByDomain implements store.Store.
func (s *Store) TermsByDomain(ctx context.Context, domain string) ([]store.GlossaryTerm, error) {
	return s.filter(func(t store.GlossaryTerm) bool {
		return strings.EqualFold(t.BusinessDomain, domain)
	}), nil
}

// Approve implements store.Store.
func (s *Store) Approve(ctx context.Context, id int64, approvedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.terms {
		if s.terms[i].ID == id {
			s.terms[i].IsActive = true
			s.terms[i].ApprovedBy = approvedBy
			s.terms[i].LastUpdated = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("glossary term %d: %w", id, internalerr.ErrNotFound)
}

func (s *Store) filter(keep func(store.GlossaryTerm) bool) []store.GlossaryTerm {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.GlossaryTerm
	for _, t := range s.terms {
		if keep(t) {
			t.NewTerm = copyNewTerm(t.NewTerm)
			out = append(out, t)
		}
	}
	return out
}

func copyDomain(d store.Domain) store.Domain {
	d.Synonyms = append([]string(nil), d.Synonyms...)
	return d
}

func copyNewTerm(t store.NewTerm) store.NewTerm {
	t.Synonyms = append([]string(nil), t.Synonyms...)
	t.Contexts = append([]term.Context(nil), t.Contexts...)
	if t.ConfidenceScore != nil {
		v := *t.ConfidenceScore
		t.ConfidenceScore = &v
	}
	return t
}
