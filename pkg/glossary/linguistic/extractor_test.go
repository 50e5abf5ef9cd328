package linguistic

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/glossary/pkg/glossary/ingest"
	"github.com/cognicore/glossary/pkg/glossary/ingest/ingesttest"
	"github.com/cognicore/glossary/pkg/glossary/internalerr"
	"github.com/cognicore/glossary/pkg/glossary/stoplist"
)

var tags = map[string]string{
	"the": "DT", "a": "DT", "is": "VBZ", "by": "IN", "submits": "VBZ",
	"customer": "NN", "data": "NNS", "record": "NN", "loan": "NN",
	"application": "NN", "approval": "NN", "officer": "NN",
	"new": "JJ", "other": "JJ", "senior": "JJ", "it": "PRP",
}

func TestExtractCompounds(t *testing.T) {
	ex := NewExtractor(ingesttest.Lexicon{Tags: tags}, stoplist.NewManager(stoplist.English), 3)

	got, err := ex.Extract(context.Background(), []string{
		"The customer submits a new loan application.",
		"A senior approval officer reviews it.",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got))
	}
	want0 := []string{"new loan", "new loan application"}
	if !reflect.DeepEqual(got[0], want0) {
		t.Errorf("paragraph 0: got %v, want %v", got[0], want0)
	}
	want1 := []string{"senior approval", "senior approval officer"}
	if !reflect.DeepEqual(got[1], want1) {
		t.Errorf("paragraph 1: got %v, want %v", got[1], want1)
	}
}

func TestExtractKeepsDomainVocabulary(t *testing.T) {
	ex := NewExtractor(ingesttest.Lexicon{Tags: tags}, stoplist.Standard(), 3)

	got, err := ex.Extract(context.Background(), []string{
		"The customer submits a new loan application.",
		"The customer data record is updated.",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := [][]string{
		{"new loan", "new loan application"},
		{"customer data", "customer data record"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExtractSkipsStopwordModifiersAndSingles(t *testing.T) {
	ex := NewExtractor(ingesttest.Lexicon{Tags: tags}, stoplist.NewManager(stoplist.English), 3)

	got, err := ex.Extract(context.Background(), []string{"other loan. loan. other loan."})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// "other" is a stopword modifier and "loan" alone is a single token.
	if len(got[0]) != 0 {
		t.Errorf("expected no phrases, got %v", got[0])
	}
}

func TestExtractDeduplicatesWithinParagraph(t *testing.T) {
	lex := map[string]string{"then": "RB", "and": "CC"}
	for k, v := range tags {
		lex[k] = v
	}
	ex := NewExtractor(ingesttest.Lexicon{Tags: lex}, stoplist.NewManager(), 1)

	got, err := ex.Extract(context.Background(), []string{"loan approval then loan approval and customer record"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []string{"loan approval", "customer record"}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("got %v, want %v", got[0], want)
	}
}

func TestExtractAnnotationError(t *testing.T) {
	ex := NewExtractor(ingesttest.Failing{}, nil, 0)
	_, err := ex.Extract(context.Background(), []string{"x"})
	if !errors.Is(err, internalerr.ErrAnnotation) || !errors.Is(err, ingesttest.ErrBroken) {
		t.Fatalf("expected annotation error, got %v", err)
	}
}

func TestExtractWithProse(t *testing.T) {
	ex := NewExtractor(ingest.NewProseAnnotator(), stoplist.Standard(), 3)
	got, err := ex.Extract(context.Background(), []string{"Customers submit a loan application."})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	found := false
	for _, p := range got[0] {
		if p == "loan application" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'loan application' in %v", got[0])
	}
}
