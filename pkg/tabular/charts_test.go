package tabular

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderChartsCatalogue(t *testing.T) {
	data := []byte("age,city\n20,A\n30,B\n40,A\n")
	tbl, err := ParseCSV("people.csv", data)
	require.NoError(t, err)

	charts := tbl.RenderCharts()

	// One histogram plus one box plot for the numeric column, one bar chart
	// for the categorical column.
	require.Len(t, charts, 3)

	titles := make(map[string]bool, len(charts))
	for _, c := range charts {
		titles[c.Title] = true

		cfg, err := png.DecodeConfig(bytes.NewReader(c.PNG))
		require.NoError(t, err, "chart %q is not a valid PNG", c.Title)
		assert.Greater(t, cfg.Width, 0)
	}
	assert.Len(t, titles, 3, "chart titles must be unique")
	assert.True(t, titles["age histogram"])
	assert.True(t, titles["age box plot"])
	assert.True(t, titles["city bar chart"])
}

func TestRenderChartsSkipsEmptyCategorical(t *testing.T) {
	tbl, err := ParseCSV("gaps.csv", []byte("a,b\n1,\n2,\n"))
	require.NoError(t, err)

	charts := tbl.RenderCharts()

	// Column b has no non-missing cells; only the numeric column charts.
	require.Len(t, charts, 2)
	for _, c := range charts {
		assert.NotContains(t, c.Title, "b ")
	}
}

func TestRenderChartsConstantColumn(t *testing.T) {
	tbl, err := ParseCSV("const.csv", []byte("x\n42\n42\n42\n"))
	require.NoError(t, err)

	charts := tbl.RenderCharts()

	// A zero-range column still gets its histogram and box plot.
	require.Len(t, charts, 2)
	for _, c := range charts {
		_, err := png.DecodeConfig(bytes.NewReader(c.PNG))
		assert.NoError(t, err, "chart %q is not a valid PNG", c.Title)
	}
}

func TestRenderChartsSingleRow(t *testing.T) {
	tbl, err := ParseCSV("one.csv", []byte("x\n7\n"))
	require.NoError(t, err)

	charts := tbl.RenderCharts()
	assert.Len(t, charts, 2)
}

func TestHistogramBins(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 3},
		{100, 8},
		{1000, 11},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, histogramBins(tt.n), "n=%d", tt.n)
	}
}
