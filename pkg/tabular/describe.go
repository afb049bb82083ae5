package tabular

import (
	"github.com/montanaflynn/stats"
)

// Column captures the inferred kind and descriptive statistics for one
// column. Numeric columns fill Count/Mean/Std/Min/Q25/Median/Q75/Max;
// categorical columns fill Count/Unique/Mode/ModeCount. Missing cells are
// excluded from every statistic, never imputed.
type Column struct {
	Name string
	Kind Kind

	Count int

	// Numeric
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64

	// Categorical
	Unique    int
	Mode      string
	ModeCount int
}

// describe computes a descriptor for every column of the table.
func describe(t *Table) []Column {
	cols := make([]Column, 0, len(t.Header))
	for i, name := range t.Header {
		if vals, ok := t.numericValues(i); ok {
			cols = append(cols, describeNumeric(name, vals))
			continue
		}
		cols = append(cols, describeCategorical(name, t.columnCells(i)))
	}
	return cols
}

func describeNumeric(name string, vals []float64) Column {
	c := Column{Name: name, Kind: KindNumeric, Count: len(vals)}

	data := stats.Float64Data(vals)
	c.Mean, _ = stats.Mean(data)
	c.Min, _ = stats.Min(data)
	c.Max, _ = stats.Max(data)
	c.Q25, _ = stats.Percentile(data, 25)
	c.Median, _ = stats.Percentile(data, 50)
	c.Q75, _ = stats.Percentile(data, 75)
	if len(vals) > 1 {
		c.Std, _ = stats.StandardDeviationSample(data)
	}
	return c
}

func describeCategorical(name string, cells []string) Column {
	c := Column{Name: name, Kind: KindCategorical, Count: len(cells)}

	counts := make(map[string]int, len(cells))
	order := make([]string, 0, len(cells))
	for _, v := range cells {
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	c.Unique = len(counts)

	// First-encountered order breaks ties.
	for _, v := range order {
		if counts[v] > c.ModeCount {
			c.Mode = v
			c.ModeCount = counts[v]
		}
	}
	return c
}

// topValues returns the up-to-n most frequent values of a categorical column
// with their counts, ties broken by first-encountered order.
func topValues(cells []string, n int) (values []string, counts []int) {
	freq := make(map[string]int, len(cells))
	order := make([]string, 0, len(cells))
	for _, v := range cells {
		if _, ok := freq[v]; !ok {
			order = append(order, v)
		}
		freq[v]++
	}

	// Selection by repeated max keeps the first-encountered tie-break without
	// a comparator over map iteration order.
	picked := make(map[string]bool, n)
	for len(values) < n && len(values) < len(order) {
		best := ""
		bestCount := -1
		for _, v := range order {
			if picked[v] {
				continue
			}
			if freq[v] > bestCount {
				best = v
				bestCount = freq[v]
			}
		}
		if bestCount < 0 {
			break
		}
		picked[best] = true
		values = append(values, best)
		counts = append(counts, bestCount)
	}
	return values, counts
}
