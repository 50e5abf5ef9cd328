package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/glossary/internal/document"
	"github.com/cognicore/glossary/internal/llm"
	"github.com/cognicore/glossary/pkg/glossary"
	"github.com/cognicore/glossary/pkg/glossary/config"
	"github.com/cognicore/glossary/pkg/glossary/embed"
	"github.com/cognicore/glossary/pkg/glossary/ingest"
	"github.com/cognicore/glossary/pkg/glossary/metrics"
	"github.com/cognicore/glossary/pkg/glossary/store"
	"github.com/cognicore/glossary/pkg/glossary/store/memstore"
	"github.com/cognicore/glossary/pkg/glossary/store/sqlite"
)

// newLogger builds a logrus logger from the logging section.
func newLogger(cfg config.Logging, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

func openStore(ctx context.Context, cfg config.Database, log *logrus.Logger) (store.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memstore.New(), nil
	default:
		return sqlite.OpenSQLite(ctx, cfg.Path, sqlite.WithLogger(log))
	}
}

func newEmbedder(cfg config.Embedding) (embed.Embedder, error) {
	var base embed.Embedder
	switch cfg.Provider {
	case "hashing":
		base = embed.NewHashing(cfg.Dimensions)
	default:
		base = &llm.Client{
			BaseURL:        cfg.BaseURL,
			APIKey:         cfg.APIKey(),
			EmbeddingModel: cfg.Model,
			Dimensions:     cfg.Dimensions,
		}
	}
	return embed.NewCached(base, cfg.CacheSize)
}

func newCompletionClient(cfg config.Completion) *llm.Client {
	c := &llm.Client{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey(),
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
	}
	if cfg.Timeout > 0 {
		c.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return c
}

// engine bundles what a command needs
type engine struct {
	glossary *glossary.Glossary
	store    store.Store
	domains  []store.Domain
	log      *logrus.Logger
	registry *prometheus.Registry
}

func (e *engine) Close() error {
	return e.glossary.Close()
}

// buildEngine loads the configuration files and wires every component.
func buildEngine(ctx context.Context, configPath, stoplistPath, domainsPath string) (*engine, error) {
	loader := config.Loader{
		ConfigPath:   configPath,
		StoplistPath: stoplistPath,
		DomainsPath:  domainsPath,
	}
	comps, err := loader.Load()
	if err != nil {
		return nil, err
	}
	cfg := comps.Config

	log, err := newLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	st, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	embedder, err := newEmbedder(cfg.Embedding)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("build embedder: %w", err)
	}
	completer := newCompletionClient(cfg.Completion)

	srcOpts := document.Options{
		RepeatThreshold: cfg.Document.RepeatThreshold,
		MinLineLength:   cfg.Document.MinLineLength,
		Logger:          log,
	}
	if cfg.Document.Translate {
		srcOpts.Translator = completer
	}

	registry := prometheus.NewRegistry()
	g, err := glossary.New(glossary.Options{
		Store:         st,
		Source:        document.NewSource(srcOpts),
		Embedder:      embedder,
		Annotator:     ingest.NewProseAnnotator(),
		Completer:     completer,
		Stops:         comps.Stops,
		StandardStops: comps.Standard,
		Config:        cfg,
		Logger:        log,
		Metrics:       metrics.New(registry),
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &engine{glossary: g, store: st, domains: comps.Domains, log: log, registry: registry}, nil
}
