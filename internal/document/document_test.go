package document

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/glossary/pkg/glossary/internalerr"
)

func TestStripRepeatedLinesRemovesHeaders(t *testing.T) {
	var pages [][]string
	for i := 0; i < 10; i++ {
		lines := []string{fmt.Sprintf("Body text unique to page %d", i)}
		if i < 8 {
			lines = append(lines, "Customer Data Record")
		}
		if i < 6 {
			lines = append(lines, "Appears on six pages")
		}
		lines = append(lines, "p.1")
		pages = append(pages, lines)
	}

	out := StripRepeatedLines(pages, DefaultRepeatThreshold, DefaultMinLineLength)
	for i, lines := range out {
		for _, l := range lines {
			if l == "Customer Data Record" {
				t.Fatalf("header survived on page %d", i)
			}
			if l == "p.1" {
				t.Fatalf("short line survived on page %d", i)
			}
		}
		if lines[0] != fmt.Sprintf("Body text unique to page %d", i) {
			t.Errorf("body line lost on page %d: %v", i, lines)
		}
	}
	if len(out[0]) != 2 || out[0][1] != "Appears on six pages" {
		t.Errorf("line on exactly 60%% of pages should stay: %v", out[0])
	}
}

func TestStripRepeatedLinesEmpty(t *testing.T) {
	if out := StripRepeatedLines(nil, 0.6, 5); out != nil {
		t.Errorf("expected nil, got %v", out)
	}
}

func TestClean(t *testing.T) {
	in := "Loan terms , Page 3 of 9\nrepaid in 12 months.\n\n\n  42  \n\nSection 2024 stays"
	got := Clean(in)
	want := "Loan terms, repaid in months.\n\nSection 2024 stays"
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func writeDOCX(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brd.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTextDOCX(t *testing.T) {
	path := writeDOCX(t, `
<w:p><w:r><w:t>The loan approval</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve"> process is manual.</w:t></w:r></w:p>
<w:p></w:p>
<w:p><w:r><w:t>Credit checks run nightly.</w:t></w:r></w:p>`)

	src := NewSource(Options{})
	text, err := src.Text(context.Background(), path)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	paras := SplitParagraphs(text)
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %q", paras)
	}
	if paras[0] != "The loan approval process is manual." || paras[1] != "Credit checks run nightly." {
		t.Errorf("unexpected paragraphs %q", paras)
	}
}

func TestTextEmptyDocument(t *testing.T) {
	path := writeDOCX(t, `<w:p><w:r><w:t> 12 </w:t></w:r></w:p>`)
	_, err := NewSource(Options{}).Text(context.Background(), path)
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestTextUnsupportedFormat(t *testing.T) {
	_, err := NewSource(Options{}).Text(context.Background(), "notes.txt")
	if !errors.Is(err, internalerr.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestTextUnreadable(t *testing.T) {
	_, err := NewSource(Options{}).Text(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

type fakeTranslator struct{ calls int }

func (f *fakeTranslator) Translate(_ context.Context, text string) (string, error) {
	f.calls++
	return "translated: " + text, nil
}

func TestTextTranslatesNonEnglish(t *testing.T) {
	tr := &fakeTranslator{}
	src := NewSource(Options{Translator: tr})

	vi := writeDOCX(t, `<w:p><w:r><w:t>Khoản vay được phê duyệt bởi ngân hàng</w:t></w:r></w:p>`)
	text, err := src.Text(context.Background(), vi)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if tr.calls != 1 || !strings.HasPrefix(text, "translated: ") {
		t.Errorf("expected translation, got %q after %d calls", text, tr.calls)
	}

	en := writeDOCX(t, `<w:p><w:r><w:t>The loan is approved by the bank and then it is paid out to the customer.</w:t></w:r></w:p>`)
	if _, err := src.Text(context.Background(), en); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if tr.calls != 1 {
		t.Error("English text should not be translated")
	}
}

func TestStopwordDetector(t *testing.T) {
	d := NewStopwordDetector()
	if got := d.Detect("The customer has to submit all of the documents before the review."); got != "en" {
		t.Errorf("expected en, got %s", got)
	}
	if got := d.Detect("Khách hàng phải nộp hồ sơ vay"); got != "und" {
		t.Errorf("expected und, got %s", got)
	}
	if got := d.Detect(""); got != "und" {
		t.Errorf("expected und for empty text, got %s", got)
	}
}
