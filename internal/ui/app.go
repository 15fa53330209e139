package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bdwatch/pursuit/internal/bucket"
	"github.com/bdwatch/pursuit/internal/catalog"
	"github.com/bdwatch/pursuit/internal/controller"
	"github.com/bdwatch/pursuit/internal/otel"
	"github.com/bdwatch/pursuit/internal/sorting"
)

type pane int

const (
	paneTable pane = iota
	paneDue
	paneAgency
	paneSearch
)

// AppConfig carries the injected dependencies for the App.
// IMPORTANT: App does NOT hold the API client or the store. It receives
// data via messages produced by these command factories.
type AppConfig struct {
	// LoadCatalog fetches the catalog from the backend.
	LoadCatalog func() tea.Cmd
	// LoadDetail hydrates one solicitation's claims.
	LoadDetail func(id string) tea.Cmd
	// PostClaim posts a claim change; previous is the value to restore
	// if the POST fails.
	PostClaim func(id, typ, previous string) tea.Cmd

	Logger      *otel.Logger // may be nil
	KeepStale   bool         // failed refetch keeps prior items visible
	TopAgencies int
}

// App is the root Bubble Tea model.
type App struct {
	cfg   AppConfig
	state *controller.State
	log   *otel.Logger

	search textinput.Model
	spin   spinner.Model

	focus     pane
	cursor    int // table cursor
	dueCursor int // bar index into bucket.All
	agCursor  int // bar index into the agency chart rows

	// myClaims is the optimistic local view of the caller's claim per
	// solicitation. details holds hydrated team claims per id.
	myClaims map[string]string
	details  map[string]catalog.Detail

	loaded  bool // at least one catalog is on screen
	loading bool
	err     error

	width  int
	height int
	ready  bool
}

// NewApp creates the App. The clock is injected for deterministic
// bucketing under test.
func NewApp(cfg AppConfig, state *controller.State) App {
	if state == nil {
		state = controller.New(nil)
	}
	if cfg.TopAgencies > 0 {
		state.SetTopAgencies(cfg.TopAgencies)
	}

	ti := textinput.New()
	ti.Placeholder = "search title or agency"
	ti.Prompt = "/ "
	ti.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	log := cfg.Logger
	if log == nil {
		log = otel.NewNullLogger()
	}

	return App{
		cfg:      cfg,
		state:    state,
		log:      log,
		search:   ti,
		spin:     sp,
		myClaims: make(map[string]string),
		details:  make(map[string]catalog.Detail),
		loading:  cfg.LoadCatalog != nil,
	}
}

// Init kicks off the initial catalog load.
func (a App) Init() tea.Cmd {
	var cmds []tea.Cmd
	if a.cfg.LoadCatalog != nil {
		cmds = append(cmds, a.cfg.LoadCatalog())
	}
	cmds = append(cmds, a.spin.Tick)
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case CatalogLoaded:
		return a.handleCatalogLoaded(msg), nil

	case DetailLoaded:
		if msg.Err != nil {
			a.log.Error(otel.KindDetailError, "ui", msg.Err)
			return a, nil
		}
		a.details[msg.Detail.SourceID] = msg.Detail
		return a, nil

	case ClaimResult:
		if msg.Err != nil {
			// Deterministic rollback to the pre-action value, silently:
			// logged, never surfaced as a blocking error.
			a.myClaims[msg.ID] = msg.Previous
			a.log.Emit(otel.Event{
				Level: otel.LevelWarn, Kind: otel.KindClaimRollback,
				Comp: "ui", ItemID: msg.ID, Err: msg.Err.Error(),
			})
			return a, nil
		}
		// Success: hydrated claims for this row are now stale.
		delete(a.details, msg.ID)
		return a, nil
	}

	return a, nil
}

func (a App) handleCatalogLoaded(msg CatalogLoaded) App {
	a.loading = false

	if msg.Err != nil {
		a.log.Error(otel.KindFetchError, "ui", msg.Err)
		a.err = msg.Err
		if a.loaded && a.cfg.KeepStale {
			// Stale-but-visible policy: keep the prior catalog under the
			// error bar.
			return a
		}
		// Initial load (or keep_stale_on_error=false): error only,
		// nothing renders.
		a.state.SetItems(nil)
		a.loaded = false
		return a
	}

	a.state.SetItems(msg.Items)
	a.loaded = true
	a.err = nil
	a.clampCursors()

	if !msg.FromCache {
		// A fresh catalog invalidates hydrated team claims.
		a.details = make(map[string]catalog.Detail)
	}
	return a
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.focus == paneSearch {
		return a.handleSearchKey(msg)
	}

	// A transient error clears on the next key press.
	if a.err != nil && a.loaded {
		a.err = nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "/":
		a.focus = paneSearch
		a.search.Focus()
		return a, textinput.Blink

	case "tab":
		a.focus = nextPane(a.focus)
		return a, nil

	case "shift+tab":
		a.focus = prevPane(a.focus)
		return a, nil

	case "t":
		a.state.RequestSort(sorting.FieldTitle)
		a.log.Info(otel.KindSortChange, "ui", "title")
		return a, nil

	case "a":
		a.state.RequestSort(sorting.FieldAgency)
		a.log.Info(otel.KindSortChange, "ui", "agency")
		return a, nil

	case "d":
		a.state.RequestSort(sorting.FieldDue)
		a.log.Info(otel.KindSortChange, "ui", "due")
		return a, nil

	case "c":
		a.state.ClearAll()
		a.search.SetValue("")
		a.clampCursors()
		return a, nil

	case "r":
		if a.cfg.LoadCatalog != nil && !a.loading {
			a.loading = true
			return a, a.cfg.LoadCatalog()
		}
		return a, nil
	}

	switch a.focus {
	case paneTable:
		return a.handleTableKey(msg)
	case paneDue:
		return a.handleDueKey(msg)
	case paneAgency:
		return a.handleAgencyKey(msg)
	}
	return a, nil
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		a.focus = paneTable
		a.search.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.state.SetQuery(a.search.Value())
	a.clampCursors()
	a.log.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindFilterChange, Comp: "ui", Query: a.search.Value()})
	return a, cmd
}

func (a App) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	table := a.state.Views().Table

	switch msg.String() {
	case "j", "down":
		if a.cursor < len(table)-1 {
			a.cursor++
		}
		return a, nil

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "g", "home":
		a.cursor = 0
		return a, nil

	case "G", "end":
		if len(table) > 0 {
			a.cursor = len(table) - 1
		}
		return a, nil

	case "enter":
		if a.cursor >= len(table) {
			return a, nil
		}
		id := table[a.cursor].SourceID
		a.state.ToggleRow(id)
		if a.state.ExpandedID() == id {
			if _, ok := a.details[id]; !ok && a.cfg.LoadDetail != nil {
				return a, a.cfg.LoadDetail(id)
			}
		}
		return a, nil

	case "i":
		return a.toggleClaim(table, catalog.ClaimInterested)

	case "L":
		return a.toggleClaim(table, catalog.ClaimLead)
	}

	return a, nil
}

// toggleClaim applies an optimistic claim change on the cursor row and
// issues the POST. The pre-action value travels with the command so a
// failure rolls back to exactly that value.
func (a App) toggleClaim(table []catalog.Solicitation, typ string) (tea.Model, tea.Cmd) {
	if a.cursor >= len(table) || a.cfg.PostClaim == nil {
		return a, nil
	}
	id := table[a.cursor].SourceID

	// Lead held by someone else: disabled action, not an error. When the
	// caller holds the lead themselves, myClaims says so and the toggle
	// proceeds as a release.
	if typ == catalog.ClaimLead && a.myClaims[id] != catalog.ClaimLead {
		if d, ok := a.details[id]; ok {
			if _, taken := d.Lead(); taken {
				return a, nil
			}
		}
	}

	previous := a.myClaims[id]
	desired := typ
	if previous == typ {
		desired = catalog.ClaimNone
	}

	a.myClaims[id] = desired
	a.log.Emit(otel.Event{Kind: otel.KindClaimApply, Comp: "ui", ItemID: id, Msg: desired})

	return a, a.cfg.PostClaim(id, desired, previous)
}

func (a App) handleDueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down", "l", "right":
		if a.dueCursor < len(bucket.All)-1 {
			a.dueCursor++
		}
		return a, nil

	case "k", "up", "h", "left":
		if a.dueCursor > 0 {
			a.dueCursor--
		}
		return a, nil

	case "enter", " ":
		a.state.ClickDueBar(bucket.All[a.dueCursor])
		a.clampCursors()
		return a, nil

	case "esc":
		a.state.ClearDue()
		return a, nil
	}
	return a, nil
}

func (a App) handleAgencyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := a.state.Views().AgencyChart

	switch msg.String() {
	case "j", "down", "l", "right":
		if a.agCursor < len(rows)-1 {
			a.agCursor++
		}
		return a, nil

	case "k", "up", "h", "left":
		if a.agCursor > 0 {
			a.agCursor--
		}
		return a, nil

	case "enter", " ":
		if a.agCursor < len(rows) {
			a.state.ClickAgencyBar(rows[a.agCursor].Label)
			a.clampCursors()
		}
		return a, nil

	case "esc":
		a.state.ClearAgency()
		return a, nil
	}
	return a, nil
}

// clampCursors keeps all cursors inside the recomputed views.
func (a *App) clampCursors() {
	v := a.state.Views()
	if a.cursor >= len(v.Table) {
		a.cursor = len(v.Table) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.agCursor >= len(v.AgencyChart) {
		a.agCursor = len(v.AgencyChart) - 1
	}
	if a.agCursor < 0 {
		a.agCursor = 0
	}
}

func nextPane(p pane) pane {
	switch p {
	case paneTable:
		return paneDue
	case paneDue:
		return paneAgency
	default:
		return paneTable
	}
}

func prevPane(p pane) pane {
	switch p {
	case paneTable:
		return paneAgency
	case paneAgency:
		return paneDue
	default:
		return paneTable
	}
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	v := a.state.Views()

	var sections []string

	// Search bar with active filter chips.
	header := a.search.View()
	var chips []string
	if f := a.state.DueFacet(); f != bucket.None {
		chips = append(chips, ChipStyle.Render("due: "+f.Label()))
	}
	if f := a.state.AgencyFacet(); f != "" {
		chips = append(chips, ChipStyle.Render("agency: "+f))
	}
	if len(chips) > 0 {
		header += "  " + strings.Join(chips, "")
	}
	sections = append(sections, header)

	if a.err != nil && !a.loaded {
		// Initial-load failure: error only, no stale charts or rows.
		sections = append(sections,
			ErrorStyle.Render("Error: "+a.err.Error()),
			HelpStyle.Render("Press 'r' to retry."),
			RenderStatusBar(0, 0, a.state.Sort(), a.loading, a.width))
		return strings.Join(sections, "\n")
	}

	chartWidth := a.width/2 - 4
	due := RenderChart("Due Window", v.DueChart, a.state.DueFacet().Label(), a.dueCursor, a.focus == paneDue, chartWidth)
	agency := RenderChart("Top Agencies", v.AgencyChart, a.state.AgencyFacet(), a.agCursor, a.focus == paneAgency, chartWidth)
	sections = append(sections, joinCharts(due, agency, a.width))

	if a.err != nil {
		sections = append(sections, ErrorStyle.Width(a.width).Render("Error: "+a.err.Error()+" (showing last good catalog)"))
	}

	chartLines := strings.Count(sections[1], "\n") + 1
	tableHeight := a.height - chartLines - 4
	if a.err != nil {
		tableHeight--
	}
	if tableHeight < 3 {
		tableHeight = 3
	}

	loadingLine := ""
	if a.loading {
		loadingLine = a.spin.View() + " "
	}
	title := PaneTitle
	if a.focus == paneTable {
		title = PaneTitleFocused
	}
	sections = append(sections, title.Render("Opportunities")+" "+loadingLine)

	sections = append(sections, RenderTable(v.Table, a.cursor, a.state.ExpandedID(),
		a.myClaims, a.details, a.width, tableHeight))

	sections = append(sections, RenderStatusBar(v.Matches, len(a.state.Items()), a.state.Sort(), a.loading, a.width))

	return strings.Join(sections, "\n")
}

// Cursor returns the table cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// State returns the interaction state (for testing).
func (a App) State() *controller.State {
	return a.state
}

// MyClaim returns the optimistic claim for an item (for testing).
func (a App) MyClaim(id string) string {
	return a.myClaims[id]
}

// Err returns the displayed error (for testing).
func (a App) Err() error {
	return a.err
}
