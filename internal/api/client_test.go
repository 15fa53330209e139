package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bdwatch/pursuit/internal/catalog"
)

func TestListDecodesWireFormat(t *testing.T) {
	payload := `[
		{
			"source_id": "SAM-001",
			"title": "Lunar Lander Avionics",
			"description": "Flight computer procurement.",
			"agency": "NASA",
			"due_date": "2025-07-01T00:00:00Z",
			"url": "https://sam.gov/opp/SAM-001",
			"documents": [{"title": "RFP.pdf", "url": "https://sam.gov/docs/rfp.pdf"}]
		},
		{
			"source_id": "SAM-002",
			"title": "Grid Storage Pilot",
			"agency": "DOE",
			"due_date": "0001-01-01T00:00:00Z",
			"url": "https://sam.gov/opp/SAM-002"
		}
	]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/solicitations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second)
	items, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].SourceID != "SAM-001" || items[0].Agency != "NASA" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if len(items[0].Documents) != 1 || items[0].Documents[0].Title != "RFP.pdf" {
		t.Errorf("documents not decoded: %+v", items[0].Documents)
	}
	if !items[0].HasDueDate() {
		t.Error("real due date decoded as sentinel")
	}
	if items[1].HasDueDate() {
		t.Error("sentinel due date should decode as zero time")
	}
}

func TestListNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second)
	if _, err := c.List(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestListConnectionRefused(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second)
	if _, err := c.List(context.Background()); err == nil {
		t.Error("expected error for refused connection")
	}
}

func TestDetailIncludesClaims(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/solicitations/SAM-001" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"source_id": "SAM-001",
			"title": "Lunar Lander Avionics",
			"agency": "NASA",
			"due_date": "2025-07-01T00:00:00Z",
			"claims": [
				{"id": 1, "user_id": 7, "claim_type": "lead", "user": {"id": 7, "full_name": "Dana Reyes"}},
				{"id": 2, "user_id": 9, "claim_type": "interested", "user": {"id": 9, "full_name": "Sam Okafor"}}
			]
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second)
	d, err := c.Detail(context.Background(), "SAM-001")
	if err != nil {
		t.Fatalf("Detail failed: %v", err)
	}

	lead, ok := d.Lead()
	if !ok || lead.User.FullName != "Dana Reyes" {
		t.Errorf("lead = %+v, ok=%v", lead, ok)
	}
	if got := d.Interested(); len(got) != 1 || got[0].UserID != 9 {
		t.Errorf("interested = %+v", got)
	}
	if _, ok := d.ClaimBy(7); !ok {
		t.Error("ClaimBy(7) should find the lead claim")
	}
	if _, ok := d.ClaimBy(42); ok {
		t.Error("ClaimBy(42) should find nothing")
	}
}

func TestClaimPostsBody(t *testing.T) {
	var got struct {
		Type string `json:"type"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/solicitations/SAM-001/claim" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second)
	if err := c.Claim(context.Background(), "SAM-001", catalog.ClaimInterested); err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	if got.Type != "interested" {
		t.Errorf("posted type %q, want interested", got.Type)
	}
}

func TestClaimFailureSurfacesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second)
	if err := c.Claim(context.Background(), "SAM-001", catalog.ClaimLead); err == nil {
		t.Error("expected error for 409 response")
	}
}

func TestRequirementsVersionQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := r.URL.Query().Get("version"); v != "3" {
			t.Errorf("version query = %q, want 3", v)
		}
		w.Write([]byte(`{"id": 3, "content": "# Requirements"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 5*time.Second)
	doc, err := c.Requirements(context.Background(), 3)
	if err != nil {
		t.Fatalf("Requirements failed: %v", err)
	}
	if doc.ID != 3 || doc.Content != "# Requirements" {
		t.Errorf("unexpected doc: %+v", doc)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := NewClient(server.URL, 30*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.List(ctx); err == nil {
		t.Error("expected error after context deadline")
	}
}
