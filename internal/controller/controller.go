// Package controller owns the filter, sort and expansion state for the
// catalog views, and recomputes the derived views on every transition.
//
// The controller sits between the fetched item list and the UI. Every
// user interaction is a synchronous state transition; Views() is a pure
// function of the full state tuple, recomputed wholesale (catalog-scale
// data, no incremental updates needed).
//
// The central invariant is asymmetric cross-filtering: the due-date
// chart is filtered by the agency facet, the agency chart by the
// due-date facet, and the table by both. A chart is never filtered by
// its own facet, so it never hides its own bars. The text filter
// applies first, underneath everything.
package controller

import (
	"time"

	"github.com/bdwatch/pursuit/internal/aggregate"
	"github.com/bdwatch/pursuit/internal/bucket"
	"github.com/bdwatch/pursuit/internal/catalog"
	"github.com/bdwatch/pursuit/internal/filter"
	"github.com/bdwatch/pursuit/internal/sorting"
)

// DefaultTopAgencies is how many bars the agency chart shows.
const DefaultTopAgencies = 5

// Views are the derived outputs, recomputed on every state change.
type Views struct {
	DueChart    []aggregate.Row        // fixed bucket order, zero rows included
	AgencyChart []aggregate.Row        // count-descending, top-N truncated
	Table       []catalog.Solicitation // fully filtered, sorted
	Matches     int                    // row count of Table
}

// State is the interaction state machine. Not safe for concurrent use:
// there is a single logical owner (the UI event loop) and every
// transition is applied atomically within it.
type State struct {
	items []catalog.Solicitation
	now   func() time.Time

	query       string
	dueFacet    bucket.Bucket // bucket.None = no facet active
	agencyFacet string        // "" = no facet active
	sortSpec    sorting.Spec
	expandedID  string
	topAgencies int
}

// New creates a State with no items and no active filters.
// The clock is injected so bucketing stays deterministic under test.
func New(now func() time.Time) *State {
	if now == nil {
		now = time.Now
	}
	return &State{now: now, topAgencies: DefaultTopAgencies}
}

// SetTopAgencies overrides the agency chart's bar budget.
func (s *State) SetTopAgencies(n int) {
	if n > 0 {
		s.topAgencies = n
	}
}

// SetItems replaces the item list wholesale (initial load or refetch).
// Filters and sort survive a refetch; the expanded row survives only if
// its id still exists, so a stale id can never render a wrong row as
// expanded.
func (s *State) SetItems(items []catalog.Solicitation) {
	s.items = items

	if s.expandedID == "" {
		return
	}
	for _, it := range items {
		if it.SourceID == s.expandedID {
			return
		}
	}
	s.expandedID = ""
}

// Items returns the raw, unfiltered item list.
func (s *State) Items() []catalog.Solicitation {
	return s.items
}

// SetQuery replaces the text filter. Facets, sort and expansion are
// untouched.
func (s *State) SetQuery(q string) {
	s.query = q
}

// Query returns the active text filter ("" = none).
func (s *State) Query() string {
	return s.query
}

// ClickDueBar toggles the due-date facet: clicking the active bucket
// clears it, clicking another selects it (single-select). The agency
// facet is never touched.
func (s *State) ClickDueBar(b bucket.Bucket) {
	if b == bucket.None {
		return
	}
	if s.dueFacet == b {
		s.dueFacet = bucket.None
		return
	}
	s.dueFacet = b
}

// ClickAgencyBar toggles the agency facet, symmetric to ClickDueBar.
func (s *State) ClickAgencyBar(label string) {
	if label == "" {
		return
	}
	if s.agencyFacet == label {
		s.agencyFacet = ""
		return
	}
	s.agencyFacet = label
}

// DueFacet returns the active due-date facet (bucket.None if inactive).
func (s *State) DueFacet() bucket.Bucket {
	return s.dueFacet
}

// AgencyFacet returns the active agency facet ("" if inactive).
func (s *State) AgencyFacet() string {
	return s.agencyFacet
}

// ClearDue clears the due-date facet only.
func (s *State) ClearDue() {
	s.dueFacet = bucket.None
}

// ClearAgency clears the agency facet only.
func (s *State) ClearAgency() {
	s.agencyFacet = ""
}

// ClearAll clears the text filter and both facets. Sort and expansion
// are not filters and stay as they are.
func (s *State) ClearAll() {
	s.query = ""
	s.dueFacet = bucket.None
	s.agencyFacet = ""
}

// RequestSort applies the sort transition rule: same field flips
// direction, a different field resets to ascending.
func (s *State) RequestSort(f sorting.Field) {
	s.sortSpec = s.sortSpec.Toggle(f)
}

// Sort returns the active sort spec (zero value = none).
func (s *State) Sort() sorting.Spec {
	return s.sortSpec
}

// ToggleRow toggles accordion expansion: clicking the expanded row
// collapses it, clicking another row moves the expansion there.
func (s *State) ToggleRow(id string) {
	if s.expandedID == id {
		s.expandedID = ""
		return
	}
	s.expandedID = id
}

// ExpandedID returns the expanded row's id ("" if none).
func (s *State) ExpandedID() string {
	return s.expandedID
}

// Views recomputes all derived views from the current state.
func (s *State) Views() Views {
	now := s.now()

	// Text filter applies first, underneath everything.
	base := filter.ByText(s.items, s.query)

	// Each chart is filtered by the OTHER chart's facet, never its own.
	dueInput := base
	if s.agencyFacet != "" {
		dueInput = filter.ByAgency(dueInput, s.agencyFacet)
	}

	agencyInput := base
	if s.dueFacet != bucket.None {
		agencyInput = filter.ByBucket(agencyInput, s.dueFacet, now)
	}

	// The table sees every filter, then the sort, applied last.
	table := dueInput
	if s.dueFacet != bucket.None {
		table = filter.ByBucket(table, s.dueFacet, now)
	}
	table = sorting.Apply(table, s.sortSpec)

	return Views{
		DueChart:    aggregate.Fixed(dueInput, bucketKey(now), bucketOrder()),
		AgencyChart: aggregate.Ranked(agencyInput, agencyKey, s.topAgencies),
		Table:       table,
		Matches:     len(table),
	}
}

func bucketKey(now time.Time) aggregate.Key {
	return func(it catalog.Solicitation) (string, bool) {
		b := bucket.Of(it.DueDate, now)
		if b == bucket.None {
			return "", false
		}
		return b.Label(), true
	}
}

// agencyKey excludes items with no agency label from the agency chart,
// the same way the zero-time sentinel is excluded from the due chart:
// such items still render in the table, and the chart sum counts only
// labeled items.
func agencyKey(it catalog.Solicitation) (string, bool) {
	if it.Agency == "" {
		return "", false
	}
	return it.Agency, true
}

func bucketOrder() []string {
	order := make([]string, 0, len(bucket.All))
	for _, b := range bucket.All {
		order = append(order, b.Label())
	}
	return order
}
