// Package extract converts an upload's raw bytes into a normalized text
// payload, dispatching on the declared file extension.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	cerr "github.com/hmasato/statchat/pkg/common/errors"
	"github.com/hmasato/statchat/pkg/tabular"
)

// Result is the normalized form of an upload. Table is non-nil if and only
// if the upload was tabular and parsed successfully.
type Result struct {
	Text  string
	Table *tabular.Table
}

// Extract produces the normalized text for the named upload. The extension
// decides the reader: txt/md are decoded as UTF-8 verbatim, pdf is extracted
// page by page, csv is summarized by the tabular package. A nominally
// successful parse that yields no text fails with ErrEmptyContent so the
// caller halts before any AI call.
func Extract(name string, data []byte) (*Result, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	var res *Result
	var err error
	switch ext {
	case "txt", "md":
		res, err = extractPlain(name, data)
	case "pdf":
		res, err = extractPDF(name, data)
	case "csv":
		res, err = extractCSV(name, data)
	default:
		return nil, fmt.Errorf("%w: .%s", cerr.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(res.Text) == "" {
		return nil, fmt.Errorf("%w: %s", cerr.ErrEmptyContent, name)
	}
	return res, nil
}

func extractPlain(name string, data []byte) (*Result, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", cerr.ErrDecode, name)
	}
	return &Result{Text: string(data)}, nil
}

func extractCSV(name string, data []byte) (*Result, error) {
	t, err := tabular.ParseCSV(name, data)
	if err != nil {
		return nil, err
	}
	return &Result{Text: t.RenderText(), Table: t}, nil
}
