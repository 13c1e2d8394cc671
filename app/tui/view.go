package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lysyi3m/newsdesk/app/news"
)

const (
	defaultWidth   = 80
	previewRunes   = 160
	displayDateFmt = "02.01.2006 15:04"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.mode {
	case modeDetail:
		b.WriteString(boxStyle.Render(m.viewport.View()))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("↑/↓ прокрутка • esc назад"))
		return b.String()
	case modeCategories:
		b.WriteString(m.renderCategories())
	default:
		if m.mode == modeSearch {
			b.WriteString(m.search.View())
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderList())
	}

	if status := m.statusLine(); status != "" {
		b.WriteString("\n")
		b.WriteString(status)
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) renderHeader() string {
	filters := m.store.Filters()
	page := m.Page()

	title := titleStyle.Render("Newsdesk")
	counts := fmt.Sprintf("найдено %d из %d", page.TotalResults, len(m.items))
	line := lipgloss.JoinHorizontal(lipgloss.Top, title, " ", headerStyle.Render(counts), " ", mutedStyle.Render("• "+countdownText(filters.RefreshInterval, m.status.TimeUntilRefresh)))

	var parts []string
	if filters.SearchQuery != "" {
		parts = append(parts, fmt.Sprintf("поиск: %q", filters.SearchQuery))
	}
	if selected := append(append([]string{}, filters.SelectedCategories...), filters.SelectedSubcategories...); len(selected) > 0 {
		parts = append(parts, "категории: "+strings.Join(selected, ", "))
	}
	if filters.TodayOnly {
		parts = append(parts, "только сегодня")
	}
	if filters.SortOrder == news.SortOldest {
		parts = append(parts, "сначала старые")
	} else {
		parts = append(parts, "сначала новые")
	}
	if m.lastUpdate != "" {
		parts = append(parts, "обновлено "+m.lastUpdate)
	}

	return line + "\n" + mutedStyle.Render(strings.Join(parts, " • "))
}

func (m Model) renderList() string {
	page := m.Page()
	if len(page.Visible) == 0 {
		if m.loading {
			return mutedStyle.Render("Загрузка...") + "\n"
		}
		return mutedStyle.Render("Новости не найдены") + "\n"
	}

	width := m.contentWidth()
	var b strings.Builder
	for i, item := range page.Visible {
		marker := "  "
		title := itemTitleStyle.Render(item.Title)
		if i == m.cursor {
			marker = selectedStyle.Render("› ")
			title = selectedStyle.Render(item.Title)
		}

		b.WriteString(marker + title + "\n")
		b.WriteString("  " + mutedStyle.Render(itemMeta(item)) + "\n")
		if preview := truncate(news.PlainText(item.Text), previewRunes); preview != "" {
			b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(preview) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("Страница %d из %d", m.store.Page(), page.TotalPages)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderCategories() string {
	filters := m.store.Filters()

	var b strings.Builder
	b.WriteString(headerStyle.Render("Категории"))
	b.WriteString("\n")

	for i, row := range categoryRows(m.store.Categories()) {
		name, checked := row.parent, filters.HasCategory(row.parent)
		indent := ""
		if row.sub != "" {
			name, checked = row.sub, filters.HasSubcategory(row.sub)
			indent = "    "
		}

		box := "[ ]"
		if checked {
			box = "[x]"
		}

		line := fmt.Sprintf("%s%s %s", indent, box, name)
		if i == m.catCursor {
			b.WriteString(selectedStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderDetail formats the full content of item for the viewport.
func (m Model) renderDetail(item news.Item) string {
	width := m.contentWidth() - 4

	var b strings.Builder
	b.WriteString(selectedStyle.Render(item.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(itemMeta(item)))
	b.WriteString("\n")
	if domain := news.ExtractDomain(item.SourceURL); domain != "" {
		b.WriteString(mutedStyle.Render("Источник: " + domain))
		b.WriteString("\n")
	}
	if item.SourceURL != "" {
		b.WriteString(item.SourceURL)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	body := news.PlainText(item.FullContent)
	if body == "" {
		body = news.PlainText(item.Text)
	}
	b.WriteString(lipgloss.NewStyle().Width(max(width, 20)).Render(body))

	if images := news.ExtractImages(item.FullContent); len(images) > 0 {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("Изображения:"))
		for _, src := range images {
			b.WriteString("\n  " + src)
		}
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.mode {
	case modeSearch:
		return "enter применить • esc отменить"
	case modeCategories:
		return "↑/↓ выбор • пробел отметить • x сбросить • esc закрыть"
	default:
		return "/ поиск • c категории • t сегодня • s сортировка • i интервал • r обновить • u обновить на сервере • ←/→ страницы • enter открыть • q выход"
	}
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func itemMeta(item news.Item) string {
	date := item.Date
	if t := item.Time(); !t.IsZero() {
		date = t.Format(displayDateFmt)
	}

	parts := []string{date}
	if item.Author != "" {
		parts = append(parts, item.Author)
	}
	if item.Category != "" {
		parts = append(parts, news.CapitalizeFirst(item.Category))
	}
	return strings.Join(parts, " • ")
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
