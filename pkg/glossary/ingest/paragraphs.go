package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"

	"github.com/cognicore/glossary/pkg/glossary/internalerr"
	"github.com/cognicore/glossary/pkg/glossary/stoplist"
)

// Paragraph is a source paragraph with its normalized content words
type Paragraph struct {
	Original   string
	Lemmatized string
	Tokens     []string
}

// Text is the string embedded for context matching.
func (p Paragraph) Text() string {
	return strings.TrimSpace(p.Original + " " + p.Lemmatized)
}

// Normalizer reduces paragraphs to the stems of their content words
type Normalizer struct {
	annotator Annotator
	stops     *stoplist.Manager
}

// NewNormalizer creates a paragraph normalizer
func NewNormalizer(annotator Annotator, stops *stoplist.Manager) *Normalizer {
	return &Normalizer{annotator: annotator, stops: stops}
}

// Normalize keeps noun, adjective and verb tokens that are alphabetic and
// not stopwords, stemmed and lowercased. Paragraphs with nothing left are
// skipped.
func (n *Normalizer) Normalize(ctx context.Context, paragraphs []string) ([]Paragraph, error) {
	var out []Paragraph
	for i, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		toks, err := n.annotator.Annotate(ctx, para)
		if err != nil {
			return nil, fmt.Errorf("normalize paragraph %d: %w", i, WrapAnnotation(err))
		}
		var lemmas []string
		for _, tok := range toks {
			if !(tok.IsNoun() || tok.IsAdjective() || tok.IsVerb()) {
				continue
			}
			word := strings.ToLower(tok.Text)
			if !isAlpha(word) || n.stops.IsStop(word) {
				continue
			}
			lemmas = append(lemmas, stem(word))
		}
		if len(lemmas) == 0 {
			continue
		}
		out = append(out, Paragraph{
			Original:   para,
			Lemmatized: strings.Join(lemmas, " "),
			Tokens:     lemmas,
		})
	}
	return out, nil
}

func stem(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// WrapAnnotation marks err as an annotation failure unless it already is.
func WrapAnnotation(err error) error {
	if errors.Is(err, internalerr.ErrAnnotation) {
		return err
	}
	return fmt.Errorf("%w: %w", internalerr.ErrAnnotation, err)
}
