package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/cognicore/glossary/pkg/glossary/internalerr"
	"github.com/cognicore/glossary/pkg/glossary/store"
	"github.com/cognicore/glossary/pkg/glossary/term"
	"github.com/cognicore/glossary/pkg/glossary/textnorm"
)

// MaxTermLength bounds the stored term text.
const MaxTermLength = 150

// sqliteStore implements the Store interface using SQLite. Every method
// takes its connection from the pool for the duration of the call only.
type sqliteStore struct {
	db  *sql.DB
	log logrus.FieldLogger
	now func() time.Time
}

// Option configures the SQLite store
type Option func(*sqliteStore)

// WithLogger sets the logger used for per-row persistence failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *sqliteStore) { s.log = l }
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	s := &sqliteStore{db: db, log: logrus.StandardLogger(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS business_glossary (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	term TEXT NOT NULL CHECK(length(term) <= 150),
	normalized_term TEXT NOT NULL,
	term_definition TEXT,
	term_context TEXT,
	contexts TEXT,
	business_domain TEXT,
	synonyms TEXT,
	document_name TEXT,
	source_system TEXT,
	department_owner TEXT,
	confidence_score REAL,
	run_id TEXT,
	version INTEGER NOT NULL DEFAULT 1,
	is_active INTEGER NOT NULL DEFAULT 0,
	approved_by TEXT,
	created_at TEXT NOT NULL,
	last_updated TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_glossary_normalized ON business_glossary(normalized_term);
CREATE INDEX IF NOT EXISTS idx_glossary_domain ON business_glossary(business_domain);

CREATE TABLE IF NOT EXISTS business_domain (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	business_value TEXT NOT NULL,
	normalized_value TEXT NOT NULL UNIQUE,
	category TEXT,
	synonyms TEXT,
	description TEXT,
	source TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// TermNames returns every stored term, active or not.
func (s *sqliteStore) TermNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT term FROM business_glossary ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Domains returns all business domains ordered by id.
func (s *sqliteStore) Domains(ctx context.Context) ([]store.Domain, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, business_value, normalized_value, category, synonyms, description, source
FROM business_domain
ORDER BY id;
`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []store.Domain
	for rows.Next() {
		var d store.Domain
		var category, synonyms, description, source sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &d.NormalizedName, &category, &synonyms, &description, &source); err != nil {
			return nil, err
		}
		d.Category = category.String
		d.Synonyms = store.SplitSynonyms(synonyms.String)
		d.Description = description.String
		d.Source = source.String
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpsertDomain inserts or updates a domain keyed by its normalized name
func (s *sqliteStore) UpsertDomain(ctx context.Context, d store.Domain) (int64, error) {
	d = d.Normalized()
	if d.Name == "" {
		return 0, fmt.Errorf("%w: domain name is required", internalerr.ErrInvalidInput)
	}
	ts := s.now().UTC().Format(time.RFC3339)

	const stmt = `
INSERT INTO business_domain (business_value, normalized_value, category, synonyms, description, source, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(normalized_value) DO UPDATE SET
	business_value=excluded.business_value,
	category=excluded.category,
	synonyms=excluded.synonyms,
	description=excluded.description,
	source=excluded.source,
	updated_at=excluded.updated_at
RETURNING id;
`
	var id int64
	err := s.db.QueryRowContext(ctx, stmt,
		d.Name, d.NormalizedName, d.Category, store.JoinSynonyms(d.Synonyms), d.Description, d.Source, ts, ts,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SaveNewTerms writes the batch in one transaction with a savepoint per
// row. A failing row is rolled back alone and logged; a failed commit
// rolls back the whole batch.
func (s *sqliteStore) SaveNewTerms(ctx context.Context, terms []store.NewTerm) (int, error) {
	if len(terms) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	existing, err := normalizedTerms(ctx, tx)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO business_glossary (
	term, normalized_term, term_definition, term_context, contexts, business_domain,
	synonyms, document_name, source_system, confidence_score, run_id,
	version, is_active, created_at, last_updated
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, 0, ?, ?);
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	ts := s.now().UTC().Format(time.RFC3339)
	saved := 0
	for i, t := range terms {
		key := textnorm.NormalizeTerm(t.Term)
		if strings.TrimSpace(t.Definition) == "" || key == "" {
			continue
		}
		if _, dup := existing[key]; dup {
			continue
		}

		if err := s.insertRow(ctx, tx, stmt, i, key, ts, t); err != nil {
			s.log.WithFields(logrus.Fields{"term": t.Term, "error": err}).Warn("skipping glossary row")
			continue
		}
		existing[key] = struct{}{}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit glossary batch: %w", err)
	}
	return saved, nil
}

func (s *sqliteStore) insertRow(ctx context.Context, tx *sql.Tx, stmt *sql.Stmt, i int, key, ts string, t store.NewTerm) error {
	sp := fmt.Sprintf("row_%d", i)
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
		return err
	}

	contexts, err := json.Marshal(t.Contexts)
	if err == nil {
		_, err = stmt.ExecContext(ctx,
			t.Term, key, t.Definition, nullable(t.TermContext), string(contexts), nullable(t.BusinessDomain),
			store.JoinSynonyms(t.Synonyms), nullable(t.DocumentName), nullable(t.SourceSystem),
			t.ConfidenceScore, nullable(t.RunID), ts, ts,
		)
	}
	if err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+sp); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		_, _ = tx.ExecContext(ctx, "RELEASE SAVEPOINT "+sp)
		return err
	}
	_, err = tx.ExecContext(ctx, "RELEASE SAVEPOINT "+sp)
	return err
}

func normalizedTerms(ctx context.Context, tx *sql.Tx) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, `SELECT normalized_term FROM business_glossary`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		seen[key] = struct{}{}
	}
	return seen, rows.Err()
}

// PendingTerms returns inactive entries awaiting review
func (s *sqliteStore) PendingTerms(ctx context.Context) ([]store.GlossaryTerm, error) {
	return s.queryTerms(ctx, `WHERE is_active = 0 ORDER BY id`)
}

// TermsByDomain returns entries tagged with the given business domain
func (s *sqliteStore) TermsByDomain(ctx context.Context, domain string) ([]store.GlossaryTerm, error) {
	return s.queryTerms(ctx, `WHERE business_domain = ? COLLATE NOCASE ORDER BY id`, domain)
}

// Approve activates an entry and records the reviewer
func (s *sqliteStore) Approve(ctx context.Context, id int64, approvedBy string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE business_glossary
SET is_active = 1, approved_by = ?, last_updated = ?
WHERE id = ?;
`, approvedBy, s.now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("glossary term %d: %w", id, internalerr.ErrNotFound)
	}
	return nil
}

func (s *sqliteStore) queryTerms(ctx context.Context, where string, args ...interface{}) ([]store.GlossaryTerm, error) {
	query := `
SELECT id, term, term_definition, term_context, contexts, business_domain, synonyms,
	document_name, source_system, confidence_score, run_id, version, is_active,
	approved_by, created_at, last_updated
FROM business_glossary ` + where

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []store.GlossaryTerm
	for rows.Next() {
		var (
			g                                          store.GlossaryTerm
			definition, termCtx, contexts, domain      sql.NullString
			synonyms, document, source, runID, approve sql.NullString
			score                                      sql.NullFloat64
			active                                     int
			created, updated                           string
		)
		if err := rows.Scan(&g.ID, &g.Term, &definition, &termCtx, &contexts, &domain, &synonyms,
			&document, &source, &score, &runID, &g.Version, &active, &approve, &created, &updated); err != nil {
			return nil, err
		}
		g.Definition = definition.String
		g.TermContext = termCtx.String
		g.BusinessDomain = domain.String
		g.Synonyms = store.SplitSynonyms(synonyms.String)
		g.DocumentName = document.String
		g.SourceSystem = source.String
		g.RunID = runID.String
		g.IsActive = active != 0
		g.ApprovedBy = approve.String
		if score.Valid {
			v := score.Float64
			g.ConfidenceScore = &v
		}
		if contexts.Valid && contexts.String != "" {
			var ctxs []term.Context
			if err := json.Unmarshal([]byte(contexts.String), &ctxs); err == nil {
				g.Contexts = ctxs
			}
		}
		g.CreatedAt, _ = time.Parse(time.RFC3339, created)
		g.LastUpdated, _ = time.Parse(time.RFC3339, updated)
		out = append(out, g)
	}
	return out, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
