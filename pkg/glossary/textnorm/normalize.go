// Package textnorm holds the string normalization shared by every
// pipeline stage.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	numericOnly  = regexp.MustCompile(`^[\d.,%$]+$`)
	paragraphSep = regexp.MustCompile(`\n\s*\n`)
)

// NormalizeTerm returns the comparison key of a term: NFKC folded,
// lowercased, trimmed, with internal whitespace collapsed to one space.
// It is only used for equality and set membership, never for display.
func NormalizeTerm(term string) string {
	folded := strings.ToLower(norm.NFKC.String(term))
	return strings.Join(strings.Fields(folded), " ")
}

// IsValidTerm rejects empty, numeric, digit-bearing and single-rune terms.
func IsValidTerm(term string) bool {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" || numericOnly.MatchString(t) {
		return false
	}
	for _, r := range t {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return len([]rune(t)) >= 2
}

// SplitParagraphs splits text on blank lines and drops empty paragraphs.
func SplitParagraphs(text string) []string {
	raw := paragraphSep.Split(strings.TrimSpace(text), -1)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Unique deduplicates terms by normalized form, keeping the first
// occurrence and its original spelling.
func Unique(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		key := NormalizeTerm(t)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
