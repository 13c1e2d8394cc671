package refresh

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/newsdesk/app/client"
	"github.com/lysyi3m/newsdesk/app/news"
)

// NewsSource fetches the full news list from the backend.
type NewsSource interface {
	AllNews(ctx context.Context, limit, offset int) (*client.NewsResponse, error)
}

// LoadResult is the outcome of one fetch. On failure Items holds the
// fallback dataset and Err the cause.
type LoadResult struct {
	Items      []news.Item
	Total      int
	LastUpdate string
	Fallback   bool
	Err        error
}

type Loader struct {
	source   NewsSource
	fallback func() []news.Item
}

func NewLoader(source NewsSource) *Loader {
	return &Loader{
		source:   source,
		fallback: news.FallbackItems,
	}
}

// Load fetches and normalizes the full list, falling back to the built-in
// dataset so the caller always has something to show.
func (l *Loader) Load(ctx context.Context) LoadResult {
	resp, err := l.source.AllNews(ctx, 0, 0)
	if err != nil {
		items := l.fallback()
		slog.Warn("Failed to load news, using fallback dataset", "error", err, "fallback_items", len(items))
		return LoadResult{
			Items:    items,
			Total:    len(items),
			Fallback: true,
			Err:      fmt.Errorf("failed to load news: %w", err),
		}
	}

	result := LoadResult{
		Items: news.Normalize(resp.News),
		Total: resp.Total,
	}
	if resp.LastUpdate != nil {
		result.LastUpdate = *resp.LastUpdate
	}

	slog.Debug("News loaded", "items", len(result.Items), "total", result.Total)

	return result
}
