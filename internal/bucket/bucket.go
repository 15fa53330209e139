// Package bucket maps due dates to discrete urgency buckets.
// All functions are pure; "now" is always an explicit input so that
// bucketing is deterministic under test.
package bucket

import (
	"math"
	"time"
)

// Bucket is a discrete urgency category derived from a due date.
type Bucket int

const (
	// None means the item has no real due date (zero-time sentinel).
	// Such items are excluded from chart aggregation but still render
	// in the table as "N/A".
	None Bucket = iota
	Expired
	Within7
	Within14
	Within30
	Beyond30
)

// All lists the chartable buckets in fixed display order. None is
// deliberately absent: it is never a bar.
var All = []Bucket{Expired, Within7, Within14, Within30, Beyond30}

var labels = map[Bucket]string{
	None:     "N/A",
	Expired:  "Expired",
	Within7:  "0-7 Days",
	Within14: "8-14 Days",
	Within30: "15-30 Days",
	Beyond30: "30+ Days",
}

// Label returns the display label for the bucket.
func (b Bucket) Label() string {
	return labels[b]
}

// FromLabel resolves a display label back to its bucket.
// "N/A" resolves to None; unknown labels report false.
func FromLabel(label string) (Bucket, bool) {
	for b, l := range labels {
		if l == label {
			return b, true
		}
	}
	return None, false
}

// Of assigns a due date to its urgency bucket relative to now.
// Days remaining are counted with calendar-day rounding toward the
// future: any partial day rounds up, so a due date 7 days and one
// second away still counts as 8 days. Boundaries are inclusive on the
// upper end of each bucket: exactly 7 days remaining is "0-7 Days".
func Of(due, now time.Time) Bucket {
	if due.IsZero() {
		return None
	}

	days := int(math.Ceil(due.Sub(now).Hours() / 24))

	switch {
	case days < 0:
		return Expired
	case days <= 7:
		return Within7
	case days <= 14:
		return Within14
	case days <= 30:
		return Within30
	default:
		return Beyond30
	}
}
