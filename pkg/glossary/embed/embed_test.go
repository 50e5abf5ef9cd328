package embed_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cognicore/glossary/pkg/glossary/embed"
	"github.com/cognicore/glossary/pkg/glossary/embed/embedtest"
	"github.com/cognicore/glossary/pkg/glossary/internalerr"
)

func TestNormalize(t *testing.T) {
	v := embed.Normalize([]float32{3, 4})
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Fatalf("unexpected unit vector %v", v)
	}
	zero := embed.Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Fatal("zero vector should stay zero")
	}
}

func TestCosine(t *testing.T) {
	if got := embed.Cosine([]float32{1, 0}, []float32{2, 0}); math.Abs(got-1) > 1e-9 {
		t.Errorf("parallel vectors should have cosine 1, got %v", got)
	}
	if got := embed.Cosine([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Errorf("orthogonal vectors should have cosine 0, got %v", got)
	}
	if got := embed.Cosine([]float32{1}, []float32{1, 0}); got != 0 {
		t.Errorf("mismatched lengths should give 0, got %v", got)
	}
}

func TestSimilarityChunked(t *testing.T) {
	rows := make([][]float32, 7)
	for i := range rows {
		rows[i] = embed.Normalize([]float32{float32(i + 1), 1})
	}
	cols := [][]float32{embed.Normalize([]float32{1, 0}), embed.Normalize([]float32{0, 1})}

	full := embed.Similarity(rows, cols, 100)
	chunked := embed.Similarity(rows, cols, 3)
	if len(chunked) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(chunked))
	}
	for i := range full {
		for j := range full[i] {
			if full[i][j] != chunked[i][j] {
				t.Fatalf("chunking changed result at %d,%d", i, j)
			}
		}
	}
}

func TestBest(t *testing.T) {
	idx, score := embed.Best([]float64{0.1, 0.9, 0.4})
	if idx != 1 || score != 0.9 {
		t.Fatalf("unexpected best %d %v", idx, score)
	}
	if idx, _ := embed.Best(nil); idx != -1 {
		t.Fatal("empty row should give -1")
	}
}

func TestUnitWrapsEmbeddingErrors(t *testing.T) {
	_, err := embed.Unit(context.Background(), embedtest.Failing{}, []string{"x"})
	if !errors.Is(err, internalerr.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
}

func TestCachedAvoidsRepeatCalls(t *testing.T) {
	table := &embedtest.Table{}
	cached, err := embed.NewCached(table, 16)
	if err != nil {
		t.Fatalf("NewCached: %v", err)
	}
	ctx := context.Background()
	if _, err := cached.Embed(ctx, []string{"loan", "credit"}); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	out, err := cached.Embed(ctx, []string{"credit", "loan", "risk"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(out) != 3 || out[2] == nil {
		t.Fatalf("unexpected output %v", out)
	}
	if table.Texts() != 3 {
		t.Errorf("expected 3 texts sent to backend, got %d", table.Texts())
	}
	if cached.Len() != 3 {
		t.Errorf("expected 3 cached vectors, got %d", cached.Len())
	}
}

func TestHashingSimilarity(t *testing.T) {
	h := embed.NewHashing(128)
	vecs, err := h.Embed(context.Background(), []string{"loan application", "Loan Application", "weather forecast"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	same := embed.Cosine(vecs[0], vecs[1])
	diff := embed.Cosine(vecs[0], vecs[2])
	if math.Abs(same-1) > 1e-6 {
		t.Errorf("case-insensitive texts should be identical, got %v", same)
	}
	if diff >= same {
		t.Errorf("unrelated text should be less similar: %v >= %v", diff, same)
	}
}
