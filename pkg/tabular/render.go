package tabular

import (
	"fmt"
	"strings"
)

// SampleRowCount is how many leading rows are included in the rendered text.
const SampleRowCount = 5

// RenderText renders the table overview sent to the AI and shown to the
// user: row/column counts, per-column kinds, descriptive statistics, and the
// first rows as a markdown table. The Japanese framing mirrors the prompt
// the advisory instruction expects.
func (t *Table) RenderText() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("これは、アップロードされたCSVファイル「%s」のデータ構造の概要です。\n", t.FileName))
	b.WriteString(fmt.Sprintf("行数: %d、列数: %d\n\n", t.RowCount(), t.ColCount()))

	b.WriteString("### カラム名とデータ型:\n")
	for _, c := range t.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s\n", c.Name, c.Kind))
	}

	b.WriteString("\n### 基本統計量:\n")
	for _, c := range t.Columns {
		switch c.Kind {
		case KindNumeric:
			b.WriteString(fmt.Sprintf(
				"- %s: count=%d, mean=%.4g, std=%.4g, min=%.4g, 25%%=%.4g, 50%%=%.4g, 75%%=%.4g, max=%.4g\n",
				c.Name, c.Count, c.Mean, c.Std, c.Min, c.Q25, c.Median, c.Q75, c.Max))
		default:
			b.WriteString(fmt.Sprintf(
				"- %s: count=%d, unique=%d, mode=%s (%d件)\n",
				c.Name, c.Count, c.Unique, c.Mode, c.ModeCount))
		}
	}

	b.WriteString(fmt.Sprintf("\n### 最初の%d行のサンプルデータ:\n", SampleRowCount))
	b.WriteString(t.renderSample(SampleRowCount))

	return b.String()
}

// renderSample renders up to n leading rows as a markdown table.
func (t *Table) renderSample(n int) string {
	var b strings.Builder

	b.WriteString("| ")
	b.WriteString(strings.Join(t.Header, " | "))
	b.WriteString(" |\n| ")
	for i := range t.Header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")

	for i, row := range t.Rows {
		if i >= n {
			break
		}
		b.WriteString("| ")
		for j := range t.Header {
			if j > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if j < len(row) {
				val = sanitizeCell(row[j])
			}
			b.WriteString(val)
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

func sanitizeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
