package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bdwatch/pursuit/internal/bucket"
	"github.com/bdwatch/pursuit/internal/catalog"
	"github.com/bdwatch/pursuit/internal/controller"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func testItems() []catalog.Solicitation {
	return []catalog.Solicitation{
		{SourceID: "s1", Title: "Radar Upgrade", Agency: "DARPA", DueDate: testNow.AddDate(0, 0, 3)},
		{SourceID: "s2", Title: "Satellite Comms", Agency: "NASA", DueDate: testNow.AddDate(0, 0, 12)},
		{SourceID: "s3", Title: "Logistics Support", Agency: "DLA"},
	}
}

// claimCall records one PostClaim invocation.
type claimCall struct{ id, typ string }

type fakeCmds struct {
	catalogLoads int
	detailLoads  []string
	claims       []claimCall
}

func (f *fakeCmds) config() AppConfig {
	return AppConfig{
		LoadCatalog: func() tea.Cmd {
			f.catalogLoads++
			return func() tea.Msg { return nil }
		},
		LoadDetail: func(id string) tea.Cmd {
			f.detailLoads = append(f.detailLoads, id)
			return func() tea.Msg { return nil }
		},
		PostClaim: func(id, typ, previous string) tea.Cmd {
			f.claims = append(f.claims, claimCall{id, typ})
			return func() tea.Msg { return nil }
		},
		KeepStale: true,
	}
}

func newTestApp(t *testing.T, cfg AppConfig) App {
	t.Helper()
	app := NewApp(cfg, controller.New(fixedNow))
	m, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(App)
}

func loadItems(t *testing.T, app App, items []catalog.Solicitation) App {
	t.Helper()
	m, _ := app.Update(CatalogLoaded{Items: items})
	return m.(App)
}

func press(t *testing.T, app App, key string) (App, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, cmd := app.Update(msg)
	return m.(App), cmd
}

func TestInitialLoadErrorRendersNothing(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())

	m, _ := app.Update(CatalogLoaded{Err: errors.New("connection refused")})
	app = m.(App)

	if app.Err() == nil {
		t.Fatal("expected error to be set")
	}
	if len(app.State().Items()) != 0 {
		t.Errorf("expected no items after failed initial load, got %d", len(app.State().Items()))
	}
	if got := app.State().Views().Matches; got != 0 {
		t.Errorf("expected 0 matches, got %d", got)
	}
}

func TestRefetchErrorKeepsStaleCatalog(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	m, _ := app.Update(CatalogLoaded{Err: errors.New("timeout")})
	app = m.(App)

	if app.Err() == nil {
		t.Fatal("expected error to be set")
	}
	if len(app.State().Items()) != 3 {
		t.Errorf("keep-stale policy should retain items, got %d", len(app.State().Items()))
	}
}

func TestRefetchErrorDropsCatalogWhenStaleDisabled(t *testing.T) {
	f := &fakeCmds{}
	cfg := f.config()
	cfg.KeepStale = false
	app := newTestApp(t, cfg)
	app = loadItems(t, app, testItems())

	m, _ := app.Update(CatalogLoaded{Err: errors.New("timeout")})
	app = m.(App)

	if len(app.State().Items()) != 0 {
		t.Errorf("expected items dropped, got %d", len(app.State().Items()))
	}
}

func TestSuccessfulRefetchClearsError(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	m, _ := app.Update(CatalogLoaded{Err: errors.New("timeout")})
	app = m.(App)
	app = loadItems(t, app, testItems())

	if app.Err() != nil {
		t.Errorf("expected error cleared after successful refetch, got %v", app.Err())
	}
}

func TestOptimisticClaimAppliesImmediately(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	app, cmd := press(t, app, "i")
	if cmd == nil {
		t.Fatal("expected a claim command")
	}
	if got := app.MyClaim("s1"); got != catalog.ClaimInterested {
		t.Errorf("expected optimistic interested, got %q", got)
	}
	if len(f.claims) != 1 || f.claims[0] != (claimCall{"s1", "interested"}) {
		t.Errorf("unexpected claim calls: %+v", f.claims)
	}
}

func TestClaimToggleOffPostsNone(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	app, _ = press(t, app, "i")
	app, _ = press(t, app, "i")

	if got := app.MyClaim("s1"); got != catalog.ClaimNone {
		t.Errorf("expected toggle back to none, got %q", got)
	}
	if len(f.claims) != 2 || f.claims[1].typ != "none" {
		t.Errorf("unexpected claim calls: %+v", f.claims)
	}
}

func TestClaimFailureRollsBackSilently(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	app, _ = press(t, app, "i")

	m, _ := app.Update(ClaimResult{ID: "s1", Previous: "", Err: errors.New("forbidden")})
	app = m.(App)

	if got := app.MyClaim("s1"); got != "" {
		t.Errorf("expected rollback to empty, got %q", got)
	}
	if app.Err() != nil {
		t.Errorf("claim failure must not surface as a blocking error, got %v", app.Err())
	}
}

func TestRollbackRestoresPreActionValue(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	app, _ = press(t, app, "i") // "" -> interested
	app, _ = press(t, app, "L") // interested -> lead

	m, _ := app.Update(ClaimResult{ID: "s1", Previous: catalog.ClaimInterested, Err: errors.New("conflict")})
	app = m.(App)

	if got := app.MyClaim("s1"); got != catalog.ClaimInterested {
		t.Errorf("expected rollback to interested, got %q", got)
	}
}

func TestLeadDisabledWhenHeldByAnotherUser(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	detail := catalog.Detail{
		Solicitation: testItems()[0],
		Claims: []catalog.Claim{
			{UserID: 42, ClaimType: catalog.ClaimLead, User: catalog.User{FullName: "Ana Reyes"}},
		},
	}
	m, _ := app.Update(DetailLoaded{Detail: detail})
	app = m.(App)

	app, cmd := press(t, app, "L")
	if cmd != nil {
		t.Error("expected no command for a lead held by another user")
	}
	if len(f.claims) != 0 {
		t.Errorf("expected no claim posted, got %+v", f.claims)
	}
	if got := app.MyClaim("s1"); got != "" {
		t.Errorf("expected no optimistic change, got %q", got)
	}
}

func TestEnterExpandsRowAndLoadsDetail(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	app, cmd := press(t, app, "enter")
	if got := app.State().ExpandedID(); got != "s1" {
		t.Fatalf("expected s1 expanded, got %q", got)
	}
	if cmd == nil {
		t.Error("expected a detail load command")
	}
	if len(f.detailLoads) != 1 || f.detailLoads[0] != "s1" {
		t.Errorf("unexpected detail loads: %v", f.detailLoads)
	}

	app, _ = press(t, app, "enter")
	if got := app.State().ExpandedID(); got != "" {
		t.Errorf("expected collapse on second enter, got %q", got)
	}
}

func TestHydratedDetailNotReloaded(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	m, _ := app.Update(DetailLoaded{Detail: catalog.Detail{Solicitation: testItems()[0]}})
	app = m.(App)

	_, cmd := press(t, app, "enter")
	if cmd != nil {
		t.Error("expected no reload for an already hydrated detail")
	}
	if len(f.detailLoads) != 0 {
		t.Errorf("unexpected detail loads: %v", f.detailLoads)
	}
}

func TestDueChartFacetToggle(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	app, _ = press(t, app, "tab") // table -> due chart
	app, _ = press(t, app, "j")   // Expired -> 0-7 days
	app, _ = press(t, app, "enter")

	if got := app.State().DueFacet(); got != bucket.All[1] {
		t.Fatalf("expected facet %v, got %v", bucket.All[1], got)
	}

	app, _ = press(t, app, "enter")
	if got := app.State().DueFacet(); got != bucket.None {
		t.Errorf("expected facet cleared on re-select, got %v", got)
	}
}

func TestEscClearsOnlyFocusedChartFacet(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	app, _ = press(t, app, "tab") // due chart
	app, _ = press(t, app, "j")   // 0-7 days, which holds s1
	app, _ = press(t, app, "enter")
	app, _ = press(t, app, "tab") // agency chart
	app, _ = press(t, app, "enter")

	if app.State().DueFacet() == bucket.None || app.State().AgencyFacet() == "" {
		t.Fatal("expected both facets active")
	}

	app, _ = press(t, app, "esc")
	if got := app.State().AgencyFacet(); got != "" {
		t.Errorf("expected agency facet cleared, got %q", got)
	}
	if app.State().DueFacet() == bucket.None {
		t.Error("due facet must survive clearing the agency facet")
	}
}

func TestSearchUpdatesQuery(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	app, _ = press(t, app, "/")
	app, _ = press(t, app, "nasa")
	app, _ = press(t, app, "esc")

	if got := app.State().Query(); got != "nasa" {
		t.Errorf("expected query %q, got %q", "nasa", got)
	}
	if got := app.State().Views().Matches; got != 1 {
		t.Errorf("expected 1 match for nasa, got %d", got)
	}
}

func TestClearAllResetsFiltersAndSearchBox(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	app, _ = press(t, app, "/")
	app, _ = press(t, app, "radar")
	app, _ = press(t, app, "esc")
	app, _ = press(t, app, "tab")
	app, _ = press(t, app, "enter")
	app, _ = press(t, app, "tab")
	app, _ = press(t, app, "tab") // back to table

	app, _ = press(t, app, "c")

	if app.State().Query() != "" || app.State().DueFacet() != bucket.None || app.State().AgencyFacet() != "" {
		t.Error("expected all filters cleared")
	}
	if got := app.State().Views().Matches; got != 3 {
		t.Errorf("expected full catalog after clear, got %d matches", got)
	}
}

func TestRefetchKeyFiresLoad(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	_, cmd := press(t, app, "r")
	if cmd == nil {
		t.Fatal("expected a catalog load command")
	}
	if f.catalogLoads != 1 {
		t.Errorf("expected 1 catalog load, got %d", f.catalogLoads)
	}
}

func TestCursorClampedAfterFilterShrinksTable(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	app, _ = press(t, app, "j")
	app, _ = press(t, app, "j")
	if app.Cursor() != 2 {
		t.Fatalf("expected cursor 2, got %d", app.Cursor())
	}

	app, _ = press(t, app, "/")
	app, _ = press(t, app, "radar")
	app, _ = press(t, app, "esc")

	if app.Cursor() != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", app.Cursor())
	}
}

func TestViewShowsNAForMissingDueDate(t *testing.T) {
	f := &fakeCmds{}
	app := newTestApp(t, f.config())
	app = loadItems(t, app, testItems())

	view := app.View()
	if !strings.Contains(view, "N/A") {
		t.Error("expected N/A for a solicitation without a due date")
	}
}
