package config

import (
	"fmt"

	"github.com/cognicore/glossary/pkg/glossary/stoplist"
	"github.com/cognicore/glossary/pkg/glossary/store"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	ConfigPath   string
	StoplistPath string
	DomainsPath  string
}

// Components holds all loaded configuration components
type Components struct {
	Config   *Config
	Stops    *stoplist.Manager // statistical stoplist
	Standard *stoplist.Manager // POS stages
	Domains  []store.Domain
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	cfg, err := Load(l.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	comp := &Components{Config: cfg}

	extra := append([]string(nil), cfg.Extraction.Stopwords...)
	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		extra = append(extra, sl.Terms...)
	}
	comp.Stops = stoplist.Default(extra...)
	comp.Standard = stoplist.Standard(extra...)

	if l.DomainsPath != "" {
		seeds, err := LoadDomains(l.DomainsPath)
		if err != nil {
			return nil, fmt.Errorf("load domains: %w", err)
		}
		comp.Domains = SeedDomains(seeds)
	}
	return comp, nil
}

// SeedDomains converts seed entries into store domains.
func SeedDomains(seeds []DomainSeed) []store.Domain {
	out := make([]store.Domain, len(seeds))
	for i, s := range seeds {
		out[i] = store.Domain{
			Name:        s.Name,
			Category:    s.Category,
			Synonyms:    s.Synonyms,
			Description: s.Description,
			Source:      s.Source,
		}.Normalized()
	}
	return out
}
