package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/hmasato/statchat/pkg/common/errors"
)

func TestParseCSVInfersKinds(t *testing.T) {
	data := []byte("age,city\n20,A\n30,B\n40,A\n")

	tbl, err := ParseCSV("people.csv", data)
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.RowCount())
	assert.Equal(t, 2, tbl.ColCount())
	require.Len(t, tbl.Columns, 2)

	age := tbl.Columns[0]
	assert.Equal(t, "age", age.Name)
	assert.Equal(t, KindNumeric, age.Kind)
	assert.Equal(t, 3, age.Count)
	assert.InDelta(t, 30.0, age.Mean, 1e-9)
	assert.InDelta(t, 20.0, age.Min, 1e-9)
	assert.InDelta(t, 40.0, age.Max, 1e-9)

	city := tbl.Columns[1]
	assert.Equal(t, "city", city.Name)
	assert.Equal(t, KindCategorical, city.Kind)
	assert.Equal(t, 3, city.Count)
	assert.Equal(t, 2, city.Unique)
	assert.Equal(t, "A", city.Mode)
	assert.Equal(t, 2, city.ModeCount)
}

func TestParseCSVOneNonNumericCellMakesColumnCategorical(t *testing.T) {
	data := []byte("v\n1\n2\nn/a\n4\n")

	tbl, err := ParseCSV("mixed.csv", data)
	require.NoError(t, err)

	require.Len(t, tbl.Columns, 1)
	assert.Equal(t, KindCategorical, tbl.Columns[0].Kind)
	assert.Equal(t, 4, tbl.Columns[0].Count)
}

func TestParseCSVMissingCellsExcluded(t *testing.T) {
	data := []byte("v\n10\n\n30\n")

	tbl, err := ParseCSV("gaps.csv", data)
	require.NoError(t, err)

	v := tbl.Columns[0]
	assert.Equal(t, KindNumeric, v.Kind)
	assert.Equal(t, 2, v.Count)
	assert.InDelta(t, 20.0, v.Mean, 1e-9)
	// The row itself still counts toward the row count.
	assert.Equal(t, 3, tbl.RowCount())
}

func TestParseCSVAllMissingColumnIsCategorical(t *testing.T) {
	data := []byte("a,b\n1,\n2,\n")

	tbl, err := ParseCSV("empty_col.csv", data)
	require.NoError(t, err)

	b := tbl.Columns[1]
	assert.Equal(t, KindCategorical, b.Kind)
	assert.Equal(t, 0, b.Count)
	assert.Equal(t, 0, b.Unique)
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"ragged row", []byte("a,b\n1,2\n3\n")},
		{"empty input", []byte("")},
		{"invalid utf8", []byte{'a', '\n', 0xff, 0xfe}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV("bad.csv", tt.data)
			assert.ErrorIs(t, err, cerr.ErrTabularParse)
		})
	}
}

func TestDedupeHeader(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"unique", []string{"a", "b"}, []string{"a", "b"}},
		{"repeated", []string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{"suffix collides with literal name", []string{"a", "a.1", "a"}, []string{"a", "a.1", "a.2"}},
		{"literal name collides with suffix", []string{"a", "a", "a.1"}, []string{"a", "a.1", "a.1.1"}},
		{"blank names", []string{"", "x", ""}, []string{"column_1", "x", "column_3"}},
		{"whitespace trimmed", []string{" a ", "b"}, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dedupeHeader(tt.header))
		})
	}
}

func TestQuartileOrdering(t *testing.T) {
	data := []byte("v\n5\n1\n9\n3\n7\n2\n8\n")

	tbl, err := ParseCSV("q.csv", data)
	require.NoError(t, err)

	v := tbl.Columns[0]
	assert.LessOrEqual(t, v.Min, v.Q25)
	assert.LessOrEqual(t, v.Q25, v.Median)
	assert.LessOrEqual(t, v.Median, v.Q75)
	assert.LessOrEqual(t, v.Q75, v.Max)
}

func TestSingleValueColumnHasZeroStd(t *testing.T) {
	tbl, err := ParseCSV("one.csv", []byte("v\n42\n"))
	require.NoError(t, err)

	v := tbl.Columns[0]
	assert.Equal(t, 1, v.Count)
	assert.Equal(t, 0.0, v.Std)
	assert.Equal(t, v.Min, v.Max)
}

func TestTopValues(t *testing.T) {
	cells := []string{"b", "a", "b", "c", "a", "b"}

	values, counts := topValues(cells, 2)
	assert.Equal(t, []string{"b", "a"}, values)
	assert.Equal(t, []int{3, 2}, counts)

	// Ties resolve to first-encountered order.
	values, _ = topValues([]string{"x", "y", "y", "x"}, 2)
	assert.Equal(t, []string{"x", "y"}, values)
}
