// Package catalog defines the solicitation data model shared by the API
// client, the cache, and the UI. Solicitations are immutable once loaded:
// a refetch replaces the whole slice, nothing is patched in place.
package catalog

import "time"

// Solicitation is one time-bound opportunity from the backend catalog.
// Field names mirror the wire format of GET /api/solicitations.
type Solicitation struct {
	SourceID    string         `json:"source_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Agency      string         `json:"agency"`
	DueDate     time.Time      `json:"due_date"`
	URL         string         `json:"url"`
	RawData     map[string]any `json:"raw_data,omitempty"`
	Documents   []Document     `json:"documents,omitempty"`
}

// Document is an attachment linked from a solicitation.
type Document struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// HasDueDate reports whether the solicitation carries a real due date.
// The backend uses the zero time ("0001-01-01T00:00:00Z") as a sentinel
// for "no due date"; such rows display as "N/A" and never bucket.
func (s Solicitation) HasDueDate() bool {
	return !s.DueDate.IsZero()
}

// Claim types accepted by POST /api/solicitations/{id}/claim.
const (
	ClaimInterested = "interested"
	ClaimLead       = "lead"
	ClaimNone       = "none" // clears the caller's claim
)

// Claim is one user's stake on a solicitation.
type Claim struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	ClaimType string    `json:"claim_type"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"user"`
}

// User identifies the owner of a claim.
type User struct {
	ID               int    `json:"id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	AvatarURL        string `json:"avatar_url,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// Detail is the response of GET /api/solicitations/{id}.
type Detail struct {
	Solicitation
	Claims []Claim `json:"claims"`
}

// Lead returns the lead claim, if any. At most one lead exists per
// solicitation (enforced server-side).
func (d Detail) Lead() (Claim, bool) {
	for _, c := range d.Claims {
		if c.ClaimType == ClaimLead {
			return c, true
		}
	}
	return Claim{}, false
}

// Interested returns the claims marking interest, in server order.
func (d Detail) Interested() []Claim {
	var out []Claim
	for _, c := range d.Claims {
		if c.ClaimType == ClaimInterested {
			out = append(out, c)
		}
	}
	return out
}

// ClaimBy returns the claim held by the given user, if any.
func (d Detail) ClaimBy(userID int) (Claim, bool) {
	for _, c := range d.Claims {
		if c.UserID == userID {
			return c, true
		}
	}
	return Claim{}, false
}
