package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/praetorian-inc/piihunter/pkg/types"
)

// PDFAdapter extracts the plain text of each page of a PDF document.
type PDFAdapter struct{}

// Extract returns one block per page in page order. A page whose text
// cannot be extracted yields an empty block.
func (PDFAdapter) Extract(path string, content []byte) ([]types.TextBlock, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &Error{Path: path, Format: FormatPDF, Kind: KindParse, Err: fmt.Errorf("failed to open PDF: %w", err)}
	}

	totalPages := r.NumPage()
	blocks := make([]types.TextBlock, 0, totalPages)
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		blocks = append(blocks, types.TextBlock{
			Source:  path,
			Locator: types.Page{Number: pageNum},
			Text:    pageText(r, pageNum),
		})
	}

	return blocks, nil
}

// pageText returns the plain text of one page, or "" if the page is empty,
// image-only or malformed.
func pageText(r *pdf.Reader, pageNum int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return normalizeNewlines(text)
}
