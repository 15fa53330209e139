// Package aggregate builds ordered count tables for the chart lenses.
// All functions are pure: []Solicitation in, rows out, input untouched.
package aggregate

import (
	"sort"

	"github.com/bdwatch/pursuit/internal/catalog"
)

// Row is one labeled bar in a chart.
type Row struct {
	Label string
	Count int
}

// Key assigns a solicitation to a group. A false return excludes the
// item from aggregation entirely (e.g. no due date); it still exists in
// the underlying list for the table.
type Key func(catalog.Solicitation) (string, bool)

// Fixed groups items by key and emits rows in the given order, including
// zero-count labels so a chart always shows all its bars. Keys outside
// the order are dropped.
func Fixed(items []catalog.Solicitation, key Key, order []string) []Row {
	counts := make(map[string]int, len(order))
	for _, it := range items {
		k, ok := key(it)
		if !ok {
			continue
		}
		counts[k]++
	}

	rows := make([]Row, 0, len(order))
	for _, label := range order {
		rows = append(rows, Row{Label: label, Count: counts[label]})
	}
	return rows
}

// Ranked groups items by key and emits rows sorted by count descending,
// ties broken by first appearance in the input (stable). If topN > 0 the
// result is truncated to the topN highest rows; the rest are dropped,
// never merged into an "other" row. Empty input yields an empty slice.
func Ranked(items []catalog.Solicitation, key Key, topN int) []Row {
	counts := make(map[string]int)
	var order []string

	for _, it := range items {
		k, ok := key(it)
		if !ok {
			continue
		}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	rows := make([]Row, 0, len(order))
	for _, label := range order {
		rows = append(rows, Row{Label: label, Count: counts[label]})
	}

	// Stable keeps first-seen order for equal counts.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}

// Total sums the counts across rows.
func Total(rows []Row) int {
	n := 0
	for _, r := range rows {
		n += r.Count
	}
	return n
}
