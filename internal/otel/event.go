// Package otel provides structured observability for pursuit.
//
// Events are typed structs serialized as JSONL lines. The Logger writes
// events asynchronously via a buffered channel and background drain
// goroutine, so the UI event loop never blocks on disk.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an observability event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Catalog events
	KindFetchStart    EventKind = "fetch.start"
	KindFetchComplete EventKind = "fetch.complete"
	KindFetchError    EventKind = "fetch.error"
	KindDetailError   EventKind = "detail.error"

	// Cache events
	KindCacheHit   EventKind = "cache.hit"
	KindCacheError EventKind = "cache.error"

	// Claim events
	KindClaimApply    EventKind = "claim.apply"
	KindClaimError    EventKind = "claim.error"
	KindClaimRollback EventKind = "claim.rollback"

	// UI events
	KindFilterChange EventKind = "ui.filter"
	KindSortChange   EventKind = "ui.sort"

	// System events
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
)

// Event is the universal observability record. Every field except Kind
// and Time is optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time     `json:"t"`
	Level     Level         `json:"level,omitempty"`
	Kind      EventKind     `json:"kind"`
	Comp      string        `json:"comp,omitempty"`       // component: "ui", "api", "store", "main"
	SessionID string        `json:"session_id,omitempty"` // random hex, same for entire app run
	Dur       time.Duration `json:"-"`                    // not serialized directly
	DurMs     float64       `json:"dur_ms,omitempty"`     // computed from Dur at marshal time
	Count     int           `json:"count,omitempty"`
	ItemID    string        `json:"item_id,omitempty"`
	Query     string        `json:"query,omitempty"`
	Err       string        `json:"err,omitempty"`
	Msg       string        `json:"msg,omitempty"` // free text
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
