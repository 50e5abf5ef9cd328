// Package tfidf ranks 2- and 3-word phrases by TF-IDF weight.
package tfidf

import (
	"math"
	"sort"
	"strings"

	"github.com/cognicore/glossary/pkg/glossary/ingest"
	"github.com/cognicore/glossary/pkg/glossary/stoplist"
)

// Defaults for phrase extraction
const (
	DefaultTopN    = 100
	DefaultMinN    = 2
	DefaultMaxN    = 3
	DefaultMinWord = 2
)

// Phrase is an n-gram with its normalized weight
type Phrase struct {
	Text   string
	Weight float64
}

// Scores is a ranked phrase list, highest weight first
type Scores []Phrase

// Terms returns the phrase texts in rank order.
func (s Scores) Terms() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Text
	}
	return out
}

// Map returns phrase → weight.
func (s Scores) Map() map[string]float64 {
	m := make(map[string]float64, len(s))
	for _, p := range s {
		m[p.Text] = p.Weight
	}
	return m
}

// Top returns at most n phrases.
func (s Scores) Top(n int) Scores {
	if n < 0 || n >= len(s) {
		return s
	}
	return s[:n]
}

// Extractor builds n-grams from stopword-free runs of words
type Extractor struct {
	tokenizer  *ingest.Tokenizer
	minN, maxN int
	topN       int
}

// NewExtractor creates a statistical extractor. topN <= 0 uses DefaultTopN.
func NewExtractor(stops *stoplist.Manager, topN int) *Extractor {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Extractor{
		tokenizer: ingest.NewTokenizer(stops, DefaultMinWord),
		minN:      DefaultMinN,
		maxN:      DefaultMaxN,
		topN:      topN,
	}
}

// Extract scores the phrases of a single document.
func (e *Extractor) Extract(text string) Scores {
	return e.ExtractCorpus([]string{text})[0]
}

// ExtractCorpus scores each document against document frequencies of the
// whole corpus. The result has one entry per input document.
func (e *Extractor) ExtractCorpus(docs []string) []Scores {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		counts[i] = e.ngrams(doc)
		for gram := range counts[i] {
			df[gram]++
		}
	}

	n := float64(len(docs))
	out := make([]Scores, len(docs))
	for i, tf := range counts {
		if len(tf) == 0 {
			out[i] = Scores{}
			continue
		}
		weights := make(map[string]float64, len(tf))
		var sumSq float64
		for gram, c := range tf {
			idf := math.Log((1+n)/(1+float64(df[gram]))) + 1
			w := float64(c) * idf
			weights[gram] = w
			sumSq += w * w
		}
		norm := math.Sqrt(sumSq)
		for gram := range weights {
			weights[gram] /= norm
		}
		out[i] = rank(prune(weights)).Top(e.topN)
	}
	return out
}

// ngrams counts the minN..maxN-grams of every segment of text.
func (e *Extractor) ngrams(text string) map[string]int {
	counts := make(map[string]int)
	if strings.TrimSpace(text) == "" {
		return counts
	}
	for _, seg := range e.tokenizer.Segments(text) {
		for size := e.minN; size <= e.maxN; size++ {
			for i := 0; i+size <= len(seg); i++ {
				counts[strings.Join(seg[i:i+size], " ")]++
			}
		}
	}
	return counts
}

// prune drops every phrase that is a strict substring of another one.
func prune(weights map[string]float64) map[string]float64 {
	phrases := make([]string, 0, len(weights))
	for p := range weights {
		phrases = append(phrases, p)
	}
	// longer phrases first so each phrase is only checked against candidates
	// that could contain it
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})

	kept := make(map[string]float64, len(weights))
	for i, p := range phrases {
		redundant := false
		for _, longer := range phrases[:i] {
			if len(longer) > len(p) && strings.Contains(longer, p) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept[p] = weights[p]
		}
	}
	return kept
}

func rank(weights map[string]float64) Scores {
	out := make(Scores, 0, len(weights))
	for p, w := range weights {
		out = append(out, Phrase{Text: p, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Text < out[j].Text
	})
	return out
}
