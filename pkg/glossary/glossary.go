// Package glossary runs the business glossary extraction pipeline over a
// document: candidate generation, reference filtering, scoring, context
// matching, domain classification, enrichment and persistence.
package glossary

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/glossary/pkg/glossary/classify"
	"github.com/cognicore/glossary/pkg/glossary/config"
	"github.com/cognicore/glossary/pkg/glossary/contexts"
	"github.com/cognicore/glossary/pkg/glossary/embed"
	"github.com/cognicore/glossary/pkg/glossary/enrich"
	"github.com/cognicore/glossary/pkg/glossary/ingest"
	"github.com/cognicore/glossary/pkg/glossary/internalerr"
	"github.com/cognicore/glossary/pkg/glossary/linguistic"
	"github.com/cognicore/glossary/pkg/glossary/merge"
	"github.com/cognicore/glossary/pkg/glossary/metrics"
	"github.com/cognicore/glossary/pkg/glossary/refilter"
	"github.com/cognicore/glossary/pkg/glossary/stoplist"
	"github.com/cognicore/glossary/pkg/glossary/store"
	"github.com/cognicore/glossary/pkg/glossary/term"
	"github.com/cognicore/glossary/pkg/glossary/textnorm"
	"github.com/cognicore/glossary/pkg/glossary/tfidf"
)

// Source yields the English text of a document
type Source interface {
	Text(ctx context.Context, path string) (string, error)
}

// Options configures a Glossary instance
type Options struct {
	Store     store.Store
	Source    Source
	Embedder  embed.Embedder
	Annotator ingest.Annotator
	Completer enrich.Completer
	Config    *config.Config
	Logger    *logrus.Logger
	Metrics   *metrics.Metrics

	// Stops filters n-gram statistics. StandardStops filters the
	// linguistic extractor and the paragraph normalizer and must not
	// carry the domain exclusions.
	Stops         *stoplist.Manager
	StandardStops *stoplist.Manager

	// EnrichOptions are passed through to the enrichment orchestrator.
	EnrichOptions []enrich.Option
}

// Glossary is the extraction engine facade
type Glossary struct {
	store      store.Store
	source     Source
	cfg        *config.Config
	log        *logrus.Logger
	metrics    *metrics.Metrics
	normalizer *ingest.Normalizer
	ling       *linguistic.Extractor
	stats      *tfidf.Extractor
	merger     *merge.Merger
	refilter   *refilter.Filter
	matcher    *contexts.Matcher
	classifier *classify.Classifier
	enricher   *enrich.Orchestrator

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates a Glossary instance with the given dependencies
func New(opts Options) (*Glossary, error) {
	switch {
	case opts.Store == nil:
		return nil, fmt.Errorf("%w: store is required", internalerr.ErrInvalidConfig)
	case opts.Embedder == nil:
		return nil, fmt.Errorf("%w: embedder is required", internalerr.ErrInvalidConfig)
	case opts.Annotator == nil:
		return nil, fmt.Errorf("%w: annotator is required", internalerr.ErrInvalidConfig)
	case opts.Completer == nil:
		return nil, fmt.Errorf("%w: completer is required", internalerr.ErrInvalidConfig)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	stops := opts.Stops
	if stops == nil {
		stops = stoplist.Default(cfg.Extraction.Stopwords...)
	}
	standard := opts.StandardStops
	if standard == nil {
		standard = stoplist.Standard(cfg.Extraction.Stopwords...)
	}

	chunk := cfg.Embedding.ChunkSize
	enrichOpts := append([]enrich.Option{enrich.WithLogger(log), enrich.WithMetrics(opts.Metrics)}, opts.EnrichOptions...)

	return &Glossary{
		store:      opts.Store,
		source:     opts.Source,
		cfg:        cfg,
		log:        log,
		metrics:    opts.Metrics,
		normalizer: ingest.NewNormalizer(opts.Annotator, standard),
		ling:       linguistic.NewExtractor(opts.Annotator, standard, cfg.Extraction.MaxModifiers),
		stats:      tfidf.NewExtractor(stops, cfg.Extraction.TopN),
		merger: merge.New(opts.Embedder, merge.Options{
			Threshold:     cfg.Extraction.MergeThreshold,
			AlwaysInclude: cfg.Extraction.AlwaysInclude,
			ChunkSize:     chunk,
			Prefilter:     cfg.Extraction.Prefilter,
		}),
		refilter:   refilter.New(opts.Embedder, cfg.Selection.ReferenceThreshold, chunk),
		matcher:    contexts.New(opts.Embedder, cfg.Contexts.TopK, cfg.Contexts.Threshold, chunk),
		classifier: classify.New(opts.Embedder, cfg.Classification.Threshold, chunk),
		enricher: enrich.New(opts.Completer, enrich.Options{
			MaxTerms:    cfg.Enrichment.MaxTerms,
			Concurrency: cfg.Enrichment.Concurrency,
			Pacing:      cfg.Enrichment.Pacing,
			MaxAttempts: cfg.Enrichment.MaxAttempts,
			BackoffBase: cfg.Enrichment.BackoffBase,
			MaxJitter:   cfg.Enrichment.MaxJitter,
			Timeout:     cfg.Enrichment.Timeout,
		}, enrichOpts...),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close cleanly shuts down the Glossary instance
func (g *Glossary) Close() error {
	return g.store.Close()
}

// Report summarizes one run
type Report struct {
	RunID       string
	Document    string
	Skipped     string // non-empty when the input could not be used
	Paragraphs  int
	Linguistic  int
	Statistical int
	Merged      int
	AfterExact  int
	Novel       int
	Selected    int
	WithContext int
	Classified  int
	Enriched    int
	Failed      int
	Saved       int
	Duration    time.Duration
	Terms       []term.Enriched
}

// Run processes the document at path. Unusable input ends the run with a
// Skipped report and a nil error; annotation, embedding and store
// failures are returned.
func (g *Glossary) Run(ctx context.Context, path string) (Report, error) {
	rep := Report{RunID: g.newRunID(), Document: filepath.Base(path)}
	log := g.log.WithFields(logrus.Fields{"run_id": rep.RunID, "document": rep.Document})
	if g.source == nil {
		return rep, fmt.Errorf("%w: no document source configured", internalerr.ErrInvalidConfig)
	}

	started := time.Now()
	text, err := g.source.Text(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return rep, ctxErr
		}
		log.WithError(err).Warn("skipping unusable document")
		rep.Skipped = err.Error()
		g.metrics.Skipped(skipReason(err))
		return rep, nil
	}
	g.metrics.ObserveStage("read", started, 1)

	if err := g.process(ctx, log, text, &rep); err != nil {
		return rep, err
	}
	rep.Duration = time.Since(started)
	log.WithFields(logrus.Fields{
		"selected": rep.Selected,
		"enriched": rep.Enriched,
		"failed":   rep.Failed,
		"saved":    rep.Saved,
		"duration": rep.Duration.Round(time.Millisecond),
	}).Info("glossary run complete")
	return rep, nil
}

// ProcessText runs the pipeline over already extracted text.
func (g *Glossary) ProcessText(ctx context.Context, document, text string) (Report, error) {
	rep := Report{RunID: g.newRunID(), Document: document}
	log := g.log.WithFields(logrus.Fields{"run_id": rep.RunID, "document": document})
	started := time.Now()
	err := g.process(ctx, log, text, &rep)
	rep.Duration = time.Since(started)
	return rep, err
}

func (g *Glossary) process(ctx context.Context, log *logrus.Entry, text string, rep *Report) error {
	paragraphs := textnorm.SplitParagraphs(text)
	rep.Paragraphs = len(paragraphs)
	if len(paragraphs) == 0 {
		rep.Skipped = "document has no paragraphs"
		g.metrics.Skipped("empty")
		log.Warn("skipping empty document")
		return nil
	}

	t := time.Now()
	normalized, err := g.normalizer.Normalize(ctx, paragraphs)
	if err != nil {
		return fmt.Errorf("normalize paragraphs: %w", err)
	}
	g.metrics.ObserveStage("normalize", t, len(normalized))

	t = time.Now()
	lingPhrases, err := g.ling.Extract(ctx, paragraphs)
	if err != nil {
		return fmt.Errorf("linguistic extraction: %w", err)
	}
	for _, p := range lingPhrases {
		rep.Linguistic += len(p)
	}
	g.metrics.ObserveStage("linguistic", t, rep.Linguistic)

	t = time.Now()
	stats := g.stats.Extract(text)
	rep.Statistical = len(stats)
	g.metrics.ObserveStage("statistical", t, rep.Statistical)

	t = time.Now()
	merged, err := g.merger.Merge(ctx, lingPhrases, stats)
	if err != nil {
		return fmt.Errorf("merge candidates: %w", err)
	}
	rep.Merged = len(merged)
	g.metrics.ObserveStage("merge", t, rep.Merged)
	log.WithField("top", head(merged, 10)).Debug("merged candidates")

	reference, err := g.store.TermNames(ctx)
	if err != nil {
		return fmt.Errorf("read reference vocabulary: %w", err)
	}

	t = time.Now()
	exact := refilter.ExactFilter(merged, reference)
	rep.AfterExact = len(exact)
	matches, err := g.refilter.Semantic(ctx, exact, reference)
	if err != nil {
		return fmt.Errorf("reference filter: %w", err)
	}
	rep.Novel = len(matches)
	g.metrics.ObserveStage("refilter", t, rep.Novel)

	selected := term.Select(score(matches, stats), g.cfg.Selection.MinFinalScore)
	rep.Selected = len(selected)
	if len(selected) == 0 {
		log.Info("no candidates above the selection threshold")
		return nil
	}

	t = time.Now()
	withContext, err := g.matcher.Match(ctx, selected, normalized)
	if err != nil {
		return fmt.Errorf("match contexts: %w", err)
	}
	rep.WithContext = len(withContext)
	g.metrics.ObserveStage("contexts", t, rep.WithContext)
	if len(withContext) == 0 {
		log.Info("no candidate has supporting context")
		return nil
	}

	domains, err := g.store.Domains(ctx)
	if err != nil {
		return fmt.Errorf("read business domains: %w", err)
	}
	if len(domains) == 0 {
		log.Info("no business domains configured, skipping classification")
	}
	t = time.Now()
	classified, err := g.classifier.Classify(ctx, withContext, domains)
	if err != nil {
		return fmt.Errorf("classify domains: %w", err)
	}
	for _, c := range classified {
		if c.Domain.DomainID != nil {
			rep.Classified++
		}
	}
	g.metrics.ObserveStage("classify", t, rep.Classified)

	t = time.Now()
	enriched := g.enricher.Enrich(ctx, classified)
	for _, e := range enriched {
		if e.Failed() {
			rep.Failed++
		} else {
			rep.Enriched++
		}
	}
	rep.Terms = enriched
	g.metrics.ObserveStage("enrich", t, rep.Enriched)

	saved, err := g.store.SaveNewTerms(ctx, store.FromEnriched(enriched, rep.Document, rep.RunID))
	if err != nil {
		return fmt.Errorf("save glossary terms: %w", err)
	}
	rep.Saved = saved
	g.metrics.Saved(saved)
	return nil
}

// SeedDomains upserts business domains and returns how many were written.
func (g *Glossary) SeedDomains(ctx context.Context, domains []store.Domain) (int, error) {
	n := 0
	for _, d := range domains {
		if _, err := g.store.UpsertDomain(ctx, d); err != nil {
			return n, fmt.Errorf("upsert domain %q: %w", d.Name, err)
		}
		n++
	}
	return n, nil
}

// score turns reference matches into scored candidates. The statistical
// score is the phrase's TF-IDF weight, zero for linguistic-only phrases;
// the semantic score is the best reference similarity.
func score(matches []refilter.Match, stats tfidf.Scores) []term.Scored {
	weights := make(map[string]float64, len(stats))
	for _, p := range stats {
		weights[textnorm.NormalizeTerm(p.Text)] = p.Weight
	}
	out := make([]term.Scored, len(matches))
	for i, m := range matches {
		stat := weights[textnorm.NormalizeTerm(m.Term)]
		semantic := term.Semantic(m.Similarity)
		out[i] = term.Scored{
			Term:             m.Term,
			StatScore:        stat,
			SemanticScore:    semantic,
			FinalScore:       term.Score(stat, semantic),
			MatchedReference: m.MatchedReference,
		}
	}
	return out
}

func (g *Glossary) newRunID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, internalerr.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, internalerr.ErrInvalidInput):
		return "invalid_input"
	default:
		return "unreadable"
	}
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
