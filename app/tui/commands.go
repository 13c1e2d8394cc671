package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lysyi3m/newsdesk/app/news"
)

const requestTimeout = 30 * time.Second

// loadNews fetches the full list. The loader never fails outright: errors
// come back inside the result together with the fallback dataset.
func loadNews(loader NewsLoader) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return newsLoadedMsg{result: loader.Load(ctx)}
	}
}

func loadCategories(lister CategoryLister) tea.Cmd {
	if lister == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		resp, err := lister.Categories(ctx)
		if err != nil {
			return categoriesLoadedMsg{err: err}
		}
		return categoriesLoadedMsg{categories: news.CategoriesFromAPI(resp.Categories)}
	}
}

func triggerUpdate(updater UpdateTrigger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return updateTriggeredMsg{err: updater.TriggerUpdate(ctx)}
	}
}
