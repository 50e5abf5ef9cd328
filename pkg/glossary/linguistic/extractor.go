// Package linguistic proposes noun-phrase candidates from part-of-speech
// annotations.
package linguistic

import (
	"context"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cognicore/glossary/pkg/glossary/ingest"
	"github.com/cognicore/glossary/pkg/glossary/stoplist"
)

// DefaultMaxModifiers bounds how many left modifiers attach to a head noun.
const DefaultMaxModifiers = 3

// Extractor collects adjective/compound + noun phrases per paragraph
type Extractor struct {
	annotator    ingest.Annotator
	stops        *stoplist.Manager
	maxModifiers int
}

// NewExtractor creates a linguistic extractor
func NewExtractor(annotator ingest.Annotator, stops *stoplist.Manager, maxModifiers int) *Extractor {
	if maxModifiers <= 0 {
		maxModifiers = DefaultMaxModifiers
	}
	if stops == nil {
		stops = stoplist.Standard()
	}
	return &Extractor{annotator: annotator, stops: stops, maxModifiers: maxModifiers}
}

// Extract returns one phrase list per paragraph, in paragraph order.
// Within a paragraph phrases are unique, in first-occurrence order.
func (e *Extractor) Extract(ctx context.Context, paragraphs []string) ([][]string, error) {
	out := make([][]string, 0, len(paragraphs))
	for i, para := range paragraphs {
		toks, err := e.annotator.Annotate(ctx, para)
		if err != nil {
			return nil, fmt.Errorf("annotate paragraph %d: %w", i, ingest.WrapAnnotation(err))
		}
		out = append(out, e.phrases(toks))
	}
	return out, nil
}

// phrases walks left from every non-stopword noun collecting the
// contiguous adjective and noun modifiers in front of it. Stopword
// modifiers are skipped without ending the run.
func (e *Extractor) phrases(toks []ingest.Token) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var ordered []string

	for i, head := range toks {
		if !head.IsNoun() || e.stops.IsStop(head.Text) {
			continue
		}
		var mods []string
		for j := i - 1; j >= 0 && len(mods) < e.maxModifiers; j-- {
			tok := toks[j]
			if !tok.IsAdjective() && !tok.IsNoun() {
				break
			}
			if e.stops.IsStop(tok.Text) {
				continue
			}
			mods = append(mods, strings.ToLower(tok.Text))
		}
		if len(mods) == 0 {
			continue
		}
		parts := make([]string, 0, len(mods)+1)
		for k := len(mods) - 1; k >= 0; k-- {
			parts = append(parts, mods[k])
		}
		parts = append(parts, strings.ToLower(head.Text))
		phrase := strings.TrimSpace(strings.Join(parts, " "))
		if len(phrase) <= 3 {
			continue
		}
		if seen.Add(phrase) {
			ordered = append(ordered, phrase)
		}
	}
	return ordered
}
