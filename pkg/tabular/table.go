package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	cerr "github.com/hmasato/statchat/pkg/common/errors"
)

// Kind classifies a column. A column is numeric if every non-missing cell
// parses as a number, otherwise it is categorical. Never both.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Table holds a parsed CSV: an ordered header and the raw rows.
// Columns is populated by Describe.
type Table struct {
	FileName string
	Header   []string
	Rows     [][]string
	Columns  []Column
}

// RowCount returns the number of data rows (header excluded).
func (t *Table) RowCount() int { return len(t.Rows) }

// ColCount returns the number of columns.
func (t *Table) ColCount() int { return len(t.Header) }

// ParseCSV parses raw CSV bytes into a Table and computes the per-column
// descriptors. Ragged rows and non-UTF-8 input fail with ErrTabularParse;
// the caller must not display a partial table.
func ParseCSV(name string, data []byte) (*Table, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", cerr.ErrTabularParse, name)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s is empty", cerr.ErrTabularParse, name)
		}
		return nil, fmt.Errorf("%w: read header: %v", cerr.ErrTabularParse, err)
	}

	t := &Table{
		FileName: name,
		Header:   dedupeHeader(header),
	}

	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// encoding/csv rejects rows whose length differs from the header
			return nil, fmt.Errorf("%w: row %d: %v", cerr.ErrTabularParse, len(t.Rows)+1, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}

	t.Columns = describe(t)
	return t, nil
}

// dedupeHeader makes column names unique by suffixing repeats (a, a.1, a.2).
// Chart titles and descriptor lookups rely on unique names.
func dedupeHeader(header []string) []string {
	seen := make(map[string]bool, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		// A suffixed name can itself collide with a literal header name;
		// keep bumping until the candidate is unused.
		base := name
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s.%d", base, n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// columnCells returns the non-missing cells of column idx in row order.
func (t *Table) columnCells(idx int) []string {
	cells := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[idx])
		if v == "" {
			continue
		}
		cells = append(cells, v)
	}
	return cells
}

// parseCell parses a single cell as a number.
func parseCell(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// numericValues parses every non-missing cell of column idx. ok is false as
// soon as one cell fails to parse, which makes the column categorical.
func (t *Table) numericValues(idx int) (vals []float64, ok bool) {
	cells := t.columnCells(idx)
	if len(cells) == 0 {
		return nil, false
	}
	vals = make([]float64, 0, len(cells))
	for _, c := range cells {
		f, isNum := parseCell(c)
		if !isNum {
			return nil, false
		}
		vals = append(vals, f)
	}
	return vals, true
}
