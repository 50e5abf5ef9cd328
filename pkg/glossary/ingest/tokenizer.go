package ingest

import (
	"strings"
	"unicode"

	"github.com/cognicore/glossary/pkg/glossary/stoplist"
)

// boundaries end a run even when the words around them survive
const boundaries = ".,;:!?()[]\""

// Tokenizer splits text into runs of adjacent content words
type Tokenizer struct {
	stops  *stoplist.Manager
	minLen int
}

// NewTokenizer creates a tokenizer that drops stopwords and words of
// minLen runes or fewer
func NewTokenizer(stops *stoplist.Manager, minLen int) *Tokenizer {
	if stops == nil {
		stops = stoplist.NewManager()
	}
	return &Tokenizer{stops: stops, minLen: minLen}
}

// Tokenize returns the surviving words of text in order.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	for _, seg := range t.Segments(text) {
		tokens = append(tokens, seg...)
	}
	return tokens
}

// Segments returns maximal runs of originally adjacent surviving words.
// A filtered word or clause punctuation ends the current run, so n-grams
// built per segment never bridge a removed word or a sentence break.
func (t *Tokenizer) Segments(text string) [][]string {
	var segments [][]string
	var run []string
	var current strings.Builder

	flushWord := func() {
		if current.Len() == 0 {
			return
		}
		word := t.processToken(current.String())
		current.Reset()
		if word == "" {
			if len(run) > 0 {
				segments = append(segments, run)
				run = nil
			}
			return
		}
		run = append(run, word)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		flushWord()
		if strings.ContainsRune(boundaries, r) && len(run) > 0 {
			segments = append(segments, run)
			run = nil
		}
	}
	flushWord()
	if len(run) > 0 {
		segments = append(segments, run)
	}
	return segments
}

// processToken applies cleaning, alphabetic, length and stopword filters.
func (t *Tokenizer) processToken(token string) string {
	word := cleanToken(token)
	if len([]rune(word)) <= t.minLen {
		return ""
	}
	if !isWord(word) {
		return ""
	}
	if t.stops.IsStop(word) {
		return ""
	}
	return word
}

// cleanToken strips leading/trailing hyphens and normalizes consecutive hyphens
func cleanToken(token string) string {
	token = strings.Trim(token, "-")
	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}
	return token
}

// isWord reports letters with optional inner hyphens.
func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '-' {
			return false
		}
	}
	return true
}
