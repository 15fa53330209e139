// Package ui provides the Bubble Tea TUI for pursuit.
package ui

import "github.com/bdwatch/pursuit/internal/catalog"

// CatalogLoaded is sent when a catalog fetch (or cache read) finishes.
type CatalogLoaded struct {
	Items     []catalog.Solicitation
	FromCache bool // warm start from the local cache, not the backend
	Err       error
}

// DetailLoaded is sent when a solicitation's claims have been hydrated.
type DetailLoaded struct {
	Detail catalog.Detail
	Err    error
}

// ClaimResult is sent when a claim POST finishes. Previous carries the
// claim type held before the optimistic apply so a failure can roll
// back deterministically.
type ClaimResult struct {
	ID       string
	Applied  string // claim type applied optimistically
	Previous string // claim type to restore on failure
	Err      error
}
