// Package filter provides pure filter functions for solicitations.
// All functions are simple: []Solicitation in, []Solicitation out,
// order-preserving. No side effects, input never mutated.
package filter

import (
	"strings"
	"time"

	"github.com/bdwatch/pursuit/internal/bucket"
	"github.com/bdwatch/pursuit/internal/catalog"
)

// ByText keeps items whose title or agency contains the query,
// case-insensitive. An empty query is the identity filter.
func ByText(items []catalog.Solicitation, query string) []catalog.Solicitation {
	if query == "" {
		return items
	}

	q := strings.ToLower(query)
	result := make([]catalog.Solicitation, 0, len(items))

	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Title), q) ||
			strings.Contains(strings.ToLower(it.Agency), q) {
			result = append(result, it)
		}
	}

	return result
}

// ByBucket keeps items whose due date falls in the given urgency bucket
// relative to now. Items with no due date never match a concrete bucket.
func ByBucket(items []catalog.Solicitation, b bucket.Bucket, now time.Time) []catalog.Solicitation {
	result := make([]catalog.Solicitation, 0, len(items))

	for _, it := range items {
		if !it.HasDueDate() {
			continue
		}
		if bucket.Of(it.DueDate, now) == b {
			result = append(result, it)
		}
	}

	return result
}

// ByAgency keeps items whose agency label matches exactly.
func ByAgency(items []catalog.Solicitation, agency string) []catalog.Solicitation {
	result := make([]catalog.Solicitation, 0, len(items))

	for _, it := range items {
		if it.Agency == agency {
			result = append(result, it)
		}
	}

	return result
}
