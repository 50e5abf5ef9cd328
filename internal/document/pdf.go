package document

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// readPDF returns the text lines of every page. Pages without content
// yield an empty slice so page counts stay accurate.
func readPDF(path string) ([][]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([][]string, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, strings.Split(text, "\n"))
	}
	return pages, nil
}
