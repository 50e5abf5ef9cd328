// Package ingesttest provides deterministic annotators for tests.
package ingesttest

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/cognicore/glossary/pkg/glossary/ingest"
)

// ErrBroken is returned by Failing.
var ErrBroken = errors.New("annotation model unavailable")

// Lexicon tags words by dictionary lookup (case-insensitive). Unknown
// words get Default, punctuation gets ".".
type Lexicon struct {
	Tags    map[string]string
	Default string
}

// Annotate implements ingest.Annotator.
func (l Lexicon) Annotate(_ context.Context, text string) ([]ingest.Token, error) {
	def := l.Default
	if def == "" {
		def = "NN"
	}
	var out []ingest.Token
	for _, raw := range strings.Fields(text) {
		word := strings.TrimFunc(raw, func(r rune) bool {
			return unicode.IsPunct(r) && r != '-'
		})
		if word != "" {
			tag, ok := l.Tags[strings.ToLower(word)]
			if !ok {
				tag = def
			}
			out = append(out, ingest.Token{Text: word, Tag: tag})
		}
		if word != raw {
			out = append(out, ingest.Token{Text: ".", Tag: "."})
		}
	}
	return out, nil
}

// Failing always returns ErrBroken.
type Failing struct{}

// Annotate implements ingest.Annotator.
func (Failing) Annotate(context.Context, string) ([]ingest.Token, error) {
	return nil, ErrBroken
}
