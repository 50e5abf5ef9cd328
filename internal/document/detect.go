package document

import (
	"strings"
	"unicode"

	"github.com/cognicore/glossary/pkg/glossary/stoplist"
)

// StopwordDetector guesses English by the share of English stopwords
// among the first words of a text.
type StopwordDetector struct {
	stops    *stoplist.Manager
	minRatio float64
	sample   int
}

// NewStopwordDetector creates a detector over the English stopword list.
func NewStopwordDetector() *StopwordDetector {
	return &StopwordDetector{
		stops:    stoplist.NewManager(stoplist.English),
		minRatio: 0.2,
		sample:   2000,
	}
}

// Detect returns "en" or "und".
func (d *StopwordDetector) Detect(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) > d.sample {
		words = words[:d.sample]
	}
	if len(words) == 0 {
		return "und"
	}
	hits := 0
	for _, w := range words {
		if d.stops.IsStop(w) {
			hits++
		}
	}
	if float64(hits)/float64(len(words)) >= d.minRatio {
		return "en"
	}
	return "und"
}
