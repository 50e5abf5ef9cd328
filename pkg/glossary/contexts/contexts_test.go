package contexts

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/glossary/pkg/glossary/embed/embedtest"
	"github.com/cognicore/glossary/pkg/glossary/ingest"
	"github.com/cognicore/glossary/pkg/glossary/internalerr"
	"github.com/cognicore/glossary/pkg/glossary/term"
)

func para(text string) ingest.Paragraph {
	return ingest.Paragraph{Original: text}
}

func TestMatchTopKAboveThreshold(t *testing.T) {
	emb := &embedtest.Table{Vectors: map[string][]float32{
		"loan approval": {1, 0, 0},
		"credit limit":  {0, 1, 0},
		"orphan term":   {0, 0, 1},
		"p1":            {1, 0.1, 0},
		"p2":            {0.9, 0.3, 0},
		"p3":            {0.8, 0.5, 0},
		"p4":            {0.7, 0.6, 0},
		"p5":            {0, 1, 0},
	}}
	m := New(emb, 3, 0.5, 2)

	cands := []term.Scored{
		{Term: "credit limit", FinalScore: 0.3},
		{Term: "loan approval", FinalScore: 0.6},
		{Term: "orphan term", FinalScore: 0.9},
	}
	paras := []ingest.Paragraph{para("p1"), para("p2"), para("p3"), para("p4"), para("p5")}

	got, err := m.Match(context.Background(), cands, paras)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("orphan term should be dropped, got %d candidates", len(got))
	}
	if got[0].Term != "loan approval" || got[1].Term != "credit limit" {
		t.Fatalf("expected final-score order, got %s, %s", got[0].Term, got[1].Term)
	}

	loan := got[0].Contexts
	if len(loan) != 3 {
		t.Fatalf("expected top 3 contexts, got %d", len(loan))
	}
	if loan[0].OriginalSentence != "p1" || loan[1].OriginalSentence != "p2" || loan[2].OriginalSentence != "p3" {
		t.Errorf("contexts not in retrieval order: %+v", loan)
	}
	for _, c := range got {
		for _, ctx := range c.Contexts {
			if ctx.ContextScore < 0.5 {
				t.Errorf("%s has context below threshold: %v", c.Term, ctx.ContextScore)
			}
		}
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	emb := &embedtest.Table{}
	m := New(emb, 0, 0, 0)
	if got, err := m.Match(context.Background(), nil, []ingest.Paragraph{para("x")}); err != nil || len(got) != 0 {
		t.Errorf("empty candidates: got %v, %v", got, err)
	}
	if got, err := m.Match(context.Background(), []term.Scored{{Term: "x"}}, nil); err != nil || len(got) != 0 {
		t.Errorf("empty paragraphs: got %v, %v", got, err)
	}
	if emb.Calls() != 0 {
		t.Error("empty inputs should not embed")
	}
}

func TestMatchEmbeddingFailure(t *testing.T) {
	m := New(embedtest.Failing{}, 0, 0, 0)
	_, err := m.Match(context.Background(), []term.Scored{{Term: "x"}}, []ingest.Paragraph{para("y")})
	if !errors.Is(err, internalerr.ErrEmbedding) {
		t.Fatalf("expected embedding error, got %v", err)
	}
}
