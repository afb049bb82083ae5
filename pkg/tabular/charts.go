package tabular

import (
	"bytes"
	"log"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	// BarChartTopN limits bar charts to the most frequent values.
	BarChartTopN = 10

	chartWidth  = 5 * vg.Inch
	chartHeight = 3.75 * vg.Inch
)

// Chart is one rendered figure, keyed by a unique human-readable title.
type Chart struct {
	Title string
	PNG   []byte
}

// RenderCharts renders the fixed chart catalogue for the table: one
// histogram and one box plot per numeric column, one bar chart of the top
// values per categorical column. Every chart is rendered once at a fixed
// raster size; titles are unique because column names are. A chart that
// fails to render is logged and skipped so the rest of the catalogue
// survives.
func (t *Table) RenderCharts() []Chart {
	charts := make([]Chart, 0, 2*len(t.Columns))

	add := func(title string, png []byte, err error) {
		if err != nil {
			log.Printf("chart %q: render failed: %v", title, err)
			return
		}
		charts = append(charts, Chart{Title: title, PNG: png})
	}

	for i, c := range t.Columns {
		switch c.Kind {
		case KindNumeric:
			vals, ok := t.numericValues(i)
			if !ok {
				continue
			}
			png, err := renderHistogram(c.Name, vals)
			add(c.Name+" histogram", png, err)

			png, err = renderBoxPlot(c.Name, vals)
			add(c.Name+" box plot", png, err)

		case KindCategorical:
			if c.Count == 0 {
				continue
			}
			png, err := renderBarChart(c.Name, t.columnCells(i))
			add(c.Name+" bar chart", png, err)
		}
	}
	return charts
}

// histogramBins picks a bin count by Sturges' rule. The plotter rejects a
// non-positive count, so the floor is one bin; one bin also covers
// constant columns, whose degenerate axis range the plotter pads itself.
func histogramBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

func renderHistogram(name string, vals []float64) ([]byte, error) {
	p := plot.New()
	p.Title.Text = name + " histogram"
	p.X.Label.Text = name
	p.Y.Label.Text = "frequency"

	h, err := plotter.NewHist(plotter.Values(vals), histogramBins(len(vals)))
	if err != nil {
		return nil, err
	}
	p.Add(h)

	return renderPNG(p)
}

func renderBoxPlot(name string, vals []float64) ([]byte, error) {
	p := plot.New()
	p.Title.Text = name + " box plot"
	p.Y.Label.Text = name

	b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
	if err != nil {
		return nil, err
	}
	p.Add(b)
	p.NominalX(name)

	return renderPNG(p)
}

func renderBarChart(name string, cells []string) ([]byte, error) {
	labels, counts := topValues(cells, BarChartTopN)

	values := make(plotter.Values, len(counts))
	for i, n := range counts {
		values[i] = float64(n)
	}

	p := plot.New()
	p.Title.Text = name + " bar chart"
	p.Y.Label.Text = "count"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, err
	}
	p.Add(bars)
	p.NominalX(labels...)

	return renderPNG(p)
}

func renderPNG(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
