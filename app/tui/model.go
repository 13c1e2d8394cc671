// Package tui is the terminal news reader: a bubbletea model over the
// filter state store, the news engine and the refresh schedulers.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lysyi3m/newsdesk/app/client"
	"github.com/lysyi3m/newsdesk/app/news"
	"github.com/lysyi3m/newsdesk/app/refresh"
	"github.com/lysyi3m/newsdesk/app/store"
)

type NewsLoader interface {
	Load(ctx context.Context) refresh.LoadResult
}

type CategoryLister interface {
	Categories(ctx context.Context) (*client.CategoriesResponse, error)
}

type UpdateTrigger interface {
	TriggerUpdate(ctx context.Context) error
	IsUpdating() bool
}

type RefreshScheduler interface {
	Configure(interval news.RefreshInterval, enabled bool)
	Status() refresh.Status
}

// Deps groups what the model drives. Categories and Bridge may be nil.
type Deps struct {
	Loader     NewsLoader
	Categories CategoryLister
	Updater    UpdateTrigger
	Scheduler  RefreshScheduler
	Store      *store.Store
	Bridge     *Bridge
	Now        func() time.Time
	PageSize   int
}

// mode is the part of the screen that receives keys.
type mode int

const (
	modeList mode = iota
	modeSearch
	modeCategories
	modeDetail
)

type Model struct {
	deps  Deps
	store *store.Store

	// News list as of the last fetch
	items      []news.Item
	total      int
	lastUpdate string
	fallback   bool
	loading    bool

	updating bool
	err      error
	notice   string
	status   refresh.Status

	mode          mode
	cursor        int
	catCursor     int
	previousQuery string
	search        textinput.Model
	viewport      viewport.Model
	detail        news.Item

	width  int
	height int
}

// NewModel creates the reader model and starts auto-refresh with the
// store's interval.
func NewModel(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.PageSize <= 0 {
		deps.PageSize = news.DefaultPageSize
	}

	search := textinput.New()
	search.Placeholder = "Поиск по заголовку и тексту..."
	search.Prompt = "/ "
	search.CharLimit = 200

	m := Model{
		deps:     deps,
		store:    deps.Store,
		loading:  true,
		search:   search,
		viewport: viewport.New(80, 20),
	}
	m.applyRefreshInterval()

	return m
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadNews(m.deps.Loader),
		loadCategories(m.deps.Categories),
		m.listen(),
	)
}

// Page returns the visible slice for the current filters and page.
func (m Model) Page() news.Page {
	return news.ComputeVisible(m.items, m.store.Filters(), m.store.Page(), m.deps.PageSize, m.deps.Now())
}

func (m Model) listen() tea.Cmd {
	if m.deps.Bridge == nil {
		return nil
	}
	return m.deps.Bridge.Listen()
}

func (m *Model) applyRefreshInterval() {
	m.deps.Scheduler.Configure(m.store.Filters().RefreshInterval, true)
	m.status = m.deps.Scheduler.Status()
}

// autoRefreshCurrent reports whether a timer signal belongs to the running
// scheduler configuration. Signals queued before the interval changed or
// auto-refresh was switched off are stale.
func (m Model) autoRefreshCurrent(generation uint64) bool {
	if !m.store.Filters().RefreshInterval.Enabled() || !m.status.IsRefreshing {
		return false
	}
	return generation == m.status.Generation
}

// clamp keeps the page and cursor inside the current result set after the
// list or the filters changed.
func (m *Model) clamp() {
	page := m.Page()
	if page.TotalPages > 0 && m.store.Page() > page.TotalPages {
		m.store.SetPage(page.TotalPages)
		page = m.Page()
	}
	m.cursor = max(min(m.cursor, len(page.Visible)-1), 0)
}

// selected returns the item under the cursor.
func (m Model) selected() (news.Item, bool) {
	visible := m.Page().Visible
	if m.cursor < 0 || m.cursor >= len(visible) {
		return news.Item{}, false
	}
	return visible[m.cursor], true
}

// categoryRow is one line of the category panel. sub is empty for a
// top-level category.
type categoryRow struct {
	parent string
	sub    string
}

func categoryRows(categories []news.Category) []categoryRow {
	var rows []categoryRow
	for _, category := range categories {
		rows = append(rows, categoryRow{parent: category.Name})
		for _, sub := range category.Subcategories {
			rows = append(rows, categoryRow{parent: category.Name, sub: sub})
		}
	}
	return rows
}
