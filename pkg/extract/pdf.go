package extract

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"

	cerr "github.com/hmasato/statchat/pkg/common/errors"
)

// extractPDF concatenates the text of every page in order, separated by a
// blank line. Pages that yield no text contribute nothing; a page-level
// extraction error is logged and skipped rather than failing the upload.
func extractPDF(name string, data []byte) (res *Result, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %s: %v", cerr.ErrExtraction, name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", cerr.ErrExtraction, name, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("pdf %s: page %d text extraction failed: %v", name, i, err)
			continue
		}
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	return &Result{Text: b.String()}, nil
}
