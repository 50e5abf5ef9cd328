package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/cognicore/glossary/pkg/glossary/internalerr"
)

// Token is one annotated word with its Penn Treebank tag
type Token struct {
	Text string
	Tag  string
}

// IsNoun reports NN, NNS, NNP and NNPS tags.
func (t Token) IsNoun() bool { return strings.HasPrefix(t.Tag, "NN") }

// IsAdjective reports JJ, JJR and JJS tags.
func (t Token) IsAdjective() bool { return strings.HasPrefix(t.Tag, "JJ") }

// IsVerb reports VB* tags.
func (t Token) IsVerb() bool { return strings.HasPrefix(t.Tag, "VB") }

// Annotator assigns part-of-speech tags to the tokens of a text
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]Token, error)
}

// ProseAnnotator tags text with the prose perceptron tagger.
type ProseAnnotator struct{}

// NewProseAnnotator creates a tagger-only prose annotator
func NewProseAnnotator() *ProseAnnotator {
	return &ProseAnnotator{}
}

// Annotate implements Annotator.
func (p *ProseAnnotator) Annotate(ctx context.Context, text string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrAnnotation, err)
	}
	toks := doc.Tokens()
	out := make([]Token, len(toks))
	for i, tok := range toks {
		out[i] = Token{Text: tok.Text, Tag: tok.Tag}
	}
	return out, nil
}
