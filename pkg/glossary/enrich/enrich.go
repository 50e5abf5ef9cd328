// Package enrich obtains definitions for candidates from an external
// completion service under a fixed concurrency gate with pacing and
// bounded retries.
package enrich

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/cognicore/glossary/pkg/glossary/metrics"
	"github.com/cognicore/glossary/pkg/glossary/term"
)

// Completer is the enrichment service contract
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options controls batching, pacing and retries
type Options struct {
	MaxTerms         int // 0 means no cap
	Concurrency      int
	Pacing           time.Duration
	MaxAttempts      int
	BackoffBase      time.Duration
	MaxJitter        time.Duration
	Timeout          time.Duration // 0 means bounded only by the caller
	ContextSentences int
}

// DefaultOptions returns production settings.
func DefaultOptions() Options {
	return Options{
		MaxTerms:         10,
		Concurrency:      5,
		Pacing:           20 * time.Second,
		MaxAttempts:      3,
		BackoffBase:      15 * time.Second,
		MaxJitter:        time.Second,
		ContextSentences: 3,
	}
}

// Orchestrator runs enrichment for a batch of candidates
type Orchestrator struct {
	completer Completer
	opts      Options
	log       logrus.FieldLogger
	metrics   *metrics.Metrics
	sleep     func(context.Context, time.Duration) error
	jitter    func(time.Duration) time.Duration
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithMetrics records attempts and gate occupancy.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithSleeper replaces the context-aware sleep used for pacing and backoff.
func WithSleeper(fn func(context.Context, time.Duration) error) Option {
	return func(o *Orchestrator) { o.sleep = fn }
}

// WithJitter replaces the uniform jitter source.
func WithJitter(fn func(max time.Duration) time.Duration) Option {
	return func(o *Orchestrator) { o.jitter = fn }
}

// New creates an orchestrator. Non-positive Concurrency and MaxAttempts
// fall back to the defaults.
func New(c Completer, opts Options, options ...Option) *Orchestrator {
	def := DefaultOptions()
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.ContextSentences <= 0 {
		opts.ContextSentences = def.ContextSentences
	}
	o := &Orchestrator{
		completer: c,
		opts:      opts,
		log:       logrus.StandardLogger(),
		sleep:     Sleep,
		jitter:    uniformJitter,
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// Enrich returns one record per admitted candidate, in input order.
// Failures are recorded inline and never abort sibling tasks.
func (o *Orchestrator) Enrich(ctx context.Context, candidates []term.Candidate) []term.Enriched {
	batch := candidates
	if o.opts.MaxTerms > 0 && len(batch) > o.opts.MaxTerms {
		o.log.WithFields(logrus.Fields{
			"cap":     o.opts.MaxTerms,
			"dropped": len(batch) - o.opts.MaxTerms,
		}).Info("enrichment batch capped")
		batch = batch[:o.opts.MaxTerms]
	}
	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}

	out := make([]term.Enriched, len(batch))
	gate := semaphore.NewWeighted(int64(o.opts.Concurrency))
	var g errgroup.Group

	for i, cand := range batch {
		if len(cand.Sentences(1)) == 0 {
			out[i] = failed(cand, 0, term.NoContext)
			continue
		}
		i, cand := i, cand
		g.Go(func() error {
			out[i] = o.enrichOne(ctx, gate, cand)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (o *Orchestrator) enrichOne(ctx context.Context, gate *semaphore.Weighted, cand term.Candidate) term.Enriched {
	if err := gate.Acquire(ctx, 1); err != nil {
		return failed(cand, 0, err.Error())
	}
	defer gate.Release(1)
	o.metrics.InFlight(1)
	defer o.metrics.InFlight(-1)

	log := o.log.WithField("term", cand.Term)
	if err := o.sleep(ctx, o.opts.Pacing); err != nil {
		return failed(cand, 0, err.Error())
	}

	prompt := BuildPrompt(cand, o.opts.ContextSentences)
	hint := cand.DomainHint()
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= o.opts.MaxAttempts; attempt++ {
		attempts = attempt
		res, err := o.call(ctx, prompt, hint)
		if err == nil {
			o.metrics.Attempt("success")
			return succeeded(cand, attempt, res)
		}
		o.metrics.Attempt("failure")
		lastErr = err
		log.WithFields(logrus.Fields{"attempt": attempt, "error": err}).Debug("enrichment attempt failed")

		if attempt == o.opts.MaxAttempts || ctx.Err() != nil {
			break
		}
		if err := o.sleep(ctx, o.Backoff(attempt)); err != nil {
			lastErr = errors.Join(lastErr, err)
			break
		}
	}
	log.WithFields(logrus.Fields{"attempts": attempts, "error": lastErr}).Warn("enrichment failed")
	return failed(cand, attempts, lastErr.Error())
}

func (o *Orchestrator) call(ctx context.Context, prompt, hint string) (Result, error) {
	raw, err := o.completer.Complete(ctx, prompt)
	if err != nil {
		return Result{}, err
	}
	return Parse(raw, hint)
}

// Backoff is the wait after the given failed attempt:
// BackoffBase * 2^(attempt-1) plus jitter in [0, MaxJitter).
func (o *Orchestrator) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := o.opts.BackoffBase << (attempt - 1)
	if o.opts.MaxJitter > 0 {
		d += o.jitter(o.opts.MaxJitter)
	}
	return d
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func uniformJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}

func succeeded(c term.Candidate, attempts int, r Result) term.Enriched {
	e := term.Enriched{
		Candidate:      c,
		Definition:     term.StringPtr(r.Definition),
		BusinessDomain: term.StringPtr(r.BusinessDomain),
		Synonyms:       r.Synonyms,
		Attempts:       attempts,
	}
	if r.TermContext != "" {
		e.TermContext = term.StringPtr(r.TermContext)
	}
	return e
}

func failed(c term.Candidate, attempts int, reason string) term.Enriched {
	return term.Enriched{
		Candidate: c,
		Synonyms:  []string{},
		Error:     term.StringPtr(reason),
		Attempts:  attempts,
	}
}
