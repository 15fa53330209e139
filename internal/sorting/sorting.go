// Package sorting provides the stable table sort over solicitations.
package sorting

import (
	"sort"

	"github.com/bdwatch/pursuit/internal/catalog"
)

// Field selects the column to sort on.
type Field int

const (
	FieldNone Field = iota
	FieldTitle
	FieldAgency
	FieldDue
)

// Direction of a sort.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Spec describes the active sort. The zero value means "no sort":
// Apply passes items through in backend order.
type Spec struct {
	Field Field
	Dir   Direction
}

// Toggle returns the spec after a sort request on field: requesting the
// active field flips direction, requesting a different field resets to
// ascending.
func (s Spec) Toggle(field Field) Spec {
	if s.Field == field {
		if s.Dir == Asc {
			return Spec{Field: field, Dir: Desc}
		}
		return Spec{Field: field, Dir: Asc}
	}
	return Spec{Field: field, Dir: Asc}
}

// Apply returns a new slice sorted by the spec. The sort is stable, so
// equal keys keep their relative input order. Due-date sorting is
// chronological with the "no due date" sentinel as the minimum value
// (the zero time already compares below every real date).
func Apply(items []catalog.Solicitation, spec Spec) []catalog.Solicitation {
	result := make([]catalog.Solicitation, len(items))
	copy(result, items)

	if spec.Field == FieldNone {
		return result
	}

	less := func(a, b catalog.Solicitation) bool {
		switch spec.Field {
		case FieldTitle:
			return a.Title < b.Title
		case FieldAgency:
			return a.Agency < b.Agency
		case FieldDue:
			return a.DueDate.Before(b.DueDate)
		}
		return false
	}

	sort.SliceStable(result, func(i, j int) bool {
		if spec.Dir == Desc {
			return less(result[j], result[i])
		}
		return less(result[i], result[j])
	})

	return result
}
