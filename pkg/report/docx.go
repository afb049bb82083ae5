// Package report assembles the extracted content, AI advisory, and chart
// catalogue into a single downloadable .docx document.
package report

import (
	"bytes"
	"fmt"
	"image/png"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fumiama/go-docx"
)

// ReportSuffix is appended to the upload's base name to build the download
// filename.
const ReportSuffix = "_分析レポート.docx"

// Params carries everything the report embeds. Now is the embedded
// timestamp; the zero value means time.Now(). For identical Params with
// identical Now, the produced document is byte-identical.
type Params struct {
	FileName string
	Content  string
	Advisory string
	Charts   map[string][]byte
	Now      time.Time
}

// FileName derives the report filename from the original upload name by
// stripping its extension.
func FileName(original string) string {
	base := strings.TrimSuffix(original, filepath.Ext(original))
	return base + ReportSuffix
}

// Build produces the report document. Structure and ordering are fixed:
// title and timestamp, the advisory reflowed into headings and paragraphs,
// the extracted content verbatim, then every chart under its readable title
// in sorted-title order. A chart whose image fails to decode is skipped with
// a log line rather than aborting the report.
func Build(p Params) ([]byte, error) {
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}

	w := docx.New().WithDefaultTheme()

	title := w.AddParagraph().Justification("center")
	title.AddText("統計分析レポート").Size("32").Bold()
	stamp := w.AddParagraph().Justification("center")
	stamp.AddText(fmt.Sprintf("対象ファイル: %s / 作成日時: %s", p.FileName, now.Format("2006-01-02 15:04"))).Size("18")

	addHeading(w, 1, "AI advisory")
	for _, b := range reflow(p.Advisory) {
		switch b.kind {
		case blockHeading:
			addHeading(w, b.level, b.text)
		default:
			w.AddParagraph().AddText(b.text)
		}
	}

	addHeading(w, 1, "File overview / descriptive statistics")
	for _, line := range strings.Split(p.Content, "\n") {
		w.AddParagraph().AddText(line)
	}

	addHeading(w, 1, "Charts")
	for _, chartTitle := range sortedTitles(p.Charts) {
		pic := p.Charts[chartTitle]
		if _, err := png.DecodeConfig(bytes.NewReader(pic)); err != nil {
			log.Printf("report: skipping chart %q: %v", chartTitle, err)
			continue
		}
		addHeading(w, 2, readableTitle(chartTitle))
		para := w.AddParagraph()
		if _, err := para.AddInlineDrawing(pic); err != nil {
			log.Printf("report: embedding chart %q failed: %v", chartTitle, err)
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize report: %w", err)
	}
	return buf.Bytes(), nil
}

func addHeading(w *docx.Docx, level int, text string) {
	p := w.AddParagraph()
	p.Style(fmt.Sprintf("Heading%d", level))
	p.AddText(text).Bold()
}

// sortedTitles gives the charts a deterministic order regardless of map
// iteration.
func sortedTitles(charts map[string][]byte) []string {
	titles := make([]string, 0, len(charts))
	for t := range charts {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

func readableTitle(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
