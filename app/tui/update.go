package tui

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lysyi3m/newsdesk/app/news"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case bridgeMsg:
		next, cmd := m.Update(msg.msg)
		return next, tea.Batch(cmd, m.listen())
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case newsLoadedMsg:
		return m.handleNewsLoaded(msg), nil
	case categoriesLoadedMsg:
		return m.handleCategoriesLoaded(msg), nil
	case refreshDueMsg:
		if !m.autoRefreshCurrent(msg.generation) {
			slog.Debug("Dropping stale auto-refresh signal", "generation", msg.generation)
			return m, nil
		}
		m.loading = true
		return m, loadNews(m.deps.Loader)
	case tickMsg:
		if !m.autoRefreshCurrent(msg.status.Generation) {
			return m, nil
		}
		m.status = msg.status
		return m, nil
	case updateTriggeredMsg:
		return m.handleUpdateTriggered(msg), nil
	case updateDoneMsg:
		m.updating = m.deps.Updater.IsUpdating()
		if msg.err == nil {
			m.notice = "Новости обновлены"
		}
		return m, nil
	}

	if m.mode == modeSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.search.Width = max(msg.Width-6, 10)
	m.viewport.Width = max(msg.Width-4, 20)
	m.viewport.Height = max(msg.Height-6, 5)
	if m.mode == modeDetail {
		m.viewport.SetContent(m.renderDetail(m.detail))
	}
	return m
}

func (m Model) handleNewsLoaded(msg newsLoadedMsg) Model {
	result := msg.result

	m.loading = false
	m.items = result.Items
	m.total = result.Total
	m.lastUpdate = result.LastUpdate
	m.fallback = result.Fallback
	m.err = result.Err
	m.clamp()

	return m
}

func (m Model) handleCategoriesLoaded(msg categoriesLoadedMsg) Model {
	if msg.err != nil {
		slog.Warn("Failed to load categories, keeping static taxonomy", "error", msg.err)
		return m
	}
	if len(msg.categories) > 0 {
		m.store.SetCategories(msg.categories)
		m.catCursor = 0
	}
	return m
}

func (m Model) handleUpdateTriggered(msg updateTriggeredMsg) Model {
	if msg.err != nil {
		m.updating = false
		m.err = msg.err
		m.notice = ""
		return m
	}
	m.updating = m.deps.Updater.IsUpdating()
	m.notice = "Обновление запущено, новости будут перезагружены"
	return m
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeCategories:
		return m.handleCategoryKey(msg)
	case modeDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		m.previousQuery = m.store.Filters().SearchQuery
		m.search.SetValue(m.previousQuery)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "c":
		m.mode = modeCategories
	case "t":
		m.store.ToggleToday()
		m.cursor = 0
	case "s":
		m.store.ToggleSort()
		m.cursor = 0
	case "i":
		m.store.CycleRefreshInterval()
		m.cursor = 0
		m.applyRefreshInterval()
	case "x":
		m.store.ClearSelections()
		m.cursor = 0
	case "r":
		m.store.ResetPage()
		m.cursor = 0
		m.loading = true
		m.notice = ""
		return m, loadNews(m.deps.Loader)
	case "u":
		if m.updating || m.deps.Updater.IsUpdating() {
			m.notice = "Обновление уже выполняется"
			return m, nil
		}
		m.updating = true
		m.err = nil
		m.notice = "Запрос обновления..."
		return m, triggerUpdate(m.deps.Updater)
	case "left", "h":
		if page := m.store.Page(); page > 1 {
			m.store.SetPage(page - 1)
			m.cursor = 0
		}
	case "right", "l":
		if page := m.store.Page(); page < m.Page().TotalPages {
			m.store.SetPage(page + 1)
			m.cursor = 0
		}
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.Page().Visible)-1 {
			m.cursor++
		}
	case "enter":
		if item, ok := m.selected(); ok {
			m.mode = modeDetail
			m.detail = item
			m.viewport.SetContent(m.renderDetail(item))
			m.viewport.GotoTop()
		}
	}
	return m, nil
}

// handleSearchKey applies the query as it is typed. esc restores the query
// the search started with.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case "esc":
		m.mode = modeList
		m.search.Blur()
		if m.store.Filters().SearchQuery != m.previousQuery {
			m.store.SetQuery(m.previousQuery)
			m.cursor = 0
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if query := m.search.Value(); query != m.store.Filters().SearchQuery {
		m.store.SetQuery(query)
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) handleCategoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := categoryRows(m.store.Categories())

	switch msg.String() {
	case "q", "esc", "c", "enter":
		m.mode = modeList
	case "up", "k":
		if m.catCursor > 0 {
			m.catCursor--
		}
	case "down", "j":
		if m.catCursor < len(rows)-1 {
			m.catCursor++
		}
	case " ", "space":
		if m.catCursor < len(rows) {
			row := rows[m.catCursor]
			if row.sub == "" {
				m.store.ToggleCategory(row.parent)
			} else {
				m.store.ToggleSubcategory(row.parent, row.sub)
			}
			m.cursor = 0
		}
	case "x":
		m.store.ClearSelections()
		m.cursor = 0
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "backspace":
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// statusLine describes the last fetch and update outcome.
func (m Model) statusLine() string {
	switch {
	case m.err != nil && m.fallback:
		return errorStyle.Render(fmt.Sprintf("Ошибка загрузки, показаны резервные новости: %v", m.err))
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("Ошибка: %v", m.err))
	case m.loading:
		return statusStyle.Render("Загрузка новостей...")
	case m.updating:
		return warningStyle.Render(m.notice)
	case m.notice != "":
		return statusStyle.Render(m.notice)
	default:
		return ""
	}
}

var _ tea.Model = Model{}

// countdownText renders the auto-refresh state for the header.
func countdownText(interval news.RefreshInterval, seconds *int) string {
	if !interval.Enabled() || seconds == nil {
		return "автообновление выкл."
	}
	return fmt.Sprintf("обновление через %dс (каждые %s)", *seconds, interval)
}
