// Package document turns PDF and DOCX files into English plain text with
// one paragraph per blank-line separated block.
package document

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/glossary/pkg/glossary/internalerr"
	"github.com/cognicore/glossary/pkg/glossary/textnorm"
)

// Defaults for header and footer detection
const (
	DefaultRepeatThreshold = 0.6
	DefaultMinLineLength   = 5
)

// Translator renders text in English
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// LanguageDetector returns a language code such as "en"
type LanguageDetector interface {
	Detect(text string) string
}

// Options configures a Source
type Options struct {
	RepeatThreshold float64
	MinLineLength   int
	Translator      Translator // nil keeps text as extracted
	Detector        LanguageDetector
	Logger          logrus.FieldLogger
}

// Source reads supported documents from disk
type Source struct {
	opts Options
}

// NewSource creates a document source
func NewSource(opts Options) *Source {
	if opts.RepeatThreshold <= 0 {
		opts.RepeatThreshold = DefaultRepeatThreshold
	}
	if opts.MinLineLength <= 0 {
		opts.MinLineLength = DefaultMinLineLength
	}
	if opts.Detector == nil {
		opts.Detector = NewStopwordDetector()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Source{opts: opts}
}

// Text extracts, cleans and, when needed, translates the document at path.
func (s *Source) Text(ctx context.Context, path string) (string, error) {
	var paragraphs []string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		pages, err := readPDF(path)
		if err != nil {
			return "", fmt.Errorf("%w: read pdf %s: %w", internalerr.ErrInvalidInput, path, err)
		}
		for _, lines := range StripRepeatedLines(pages, s.opts.RepeatThreshold, s.opts.MinLineLength) {
			paragraphs = append(paragraphs, strings.Join(lines, " "))
		}
	case ".docx":
		paras, err := readDOCX(path)
		if err != nil {
			return "", fmt.Errorf("%w: read docx %s: %w", internalerr.ErrInvalidInput, path, err)
		}
		paragraphs = paras
	default:
		return "", fmt.Errorf("%w: %q", internalerr.ErrUnsupportedFormat, ext)
	}

	text := Clean(strings.Join(paragraphs, "\n\n"))
	if text == "" {
		return "", fmt.Errorf("%w: %s has no text", internalerr.ErrInvalidInput, path)
	}

	if s.opts.Translator == nil {
		return text, nil
	}
	lang := s.opts.Detector.Detect(text)
	if lang == "en" {
		return text, nil
	}
	s.opts.Logger.WithFields(logrus.Fields{"path": path, "language": lang}).Info("translating document")
	translated, err := s.opts.Translator.Translate(ctx, text)
	if err != nil {
		return "", fmt.Errorf("%w: translate %s: %w", internalerr.ErrInvalidInput, path, err)
	}
	return translated, nil
}

// StripRepeatedLines drops lines of minLen characters or fewer and lines
// found on more than threshold of the pages, which are taken to be
// headers and footers.
func StripRepeatedLines(pages [][]string, threshold float64, minLen int) [][]string {
	if len(pages) == 0 {
		return nil
	}
	kept := make([][]string, len(pages))
	pageCount := make(map[string]int)
	for i, lines := range pages {
		seen := make(map[string]bool)
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if len([]rune(line)) <= minLen {
				continue
			}
			kept[i] = append(kept[i], line)
			if !seen[line] {
				seen[line] = true
				pageCount[line]++
			}
		}
	}

	total := float64(len(pages))
	out := make([][]string, len(pages))
	for i, lines := range kept {
		for _, line := range lines {
			if float64(pageCount[line])/total > threshold {
				continue
			}
			out[i] = append(out[i], line)
		}
	}
	return out
}

var (
	pageNumber   = regexp.MustCompile(`(?i)\bpage\s*\d+(\s*of\s*\d+)?\b`)
	shortNumber  = regexp.MustCompile(`\b\d{1,3}\b`)
	spaceRun     = regexp.MustCompile(`[ \t\r\f\v]+`)
	spaceBeforeP = regexp.MustCompile(`\s+([.,;:!?])`)
)

// Clean removes page markers and isolated short numbers from every
// paragraph and collapses whitespace, keeping blank-line paragraph breaks.
func Clean(text string) string {
	var out []string
	for _, para := range SplitParagraphs(text) {
		para = pageNumber.ReplaceAllString(para, " ")
		para = shortNumber.ReplaceAllString(para, " ")
		para = strings.ReplaceAll(para, "\n", " ")
		para = spaceRun.ReplaceAllString(para, " ")
		para = spaceBeforeP.ReplaceAllString(para, "$1")
		if para = strings.TrimSpace(para); para != "" {
			out = append(out, para)
		}
	}
	return strings.Join(out, "\n\n")
}

// SplitParagraphs splits on blank lines and trims each paragraph.
func SplitParagraphs(text string) []string {
	return textnorm.SplitParagraphs(text)
}
