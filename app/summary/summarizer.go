// Package summary adds short summaries to parsed news and picks the top
// stories of an update.
package summary

import (
	"context"
	"log/slog"
	"slices"

	"github.com/lysyi3m/newsdesk/app/news"
	"golang.org/x/sync/errgroup"
)

type Summarizer interface {
	Summarize(ctx context.Context, item news.APIItem) (string, error)
}

// Translator is implemented by summarizers that can bring a foreign title
// into Russian.
type Translator interface {
	TranslateTitle(ctx context.Context, title string) (string, error)
}

// Ranker is implemented by summarizers that can pick the top stories
// themselves. It returns indexes into items.
type Ranker interface {
	RankTop(ctx context.Context, items []news.APIItem, n int) ([]int, error)
}

// summarizeConcurrency bounds the model calls of one Apply run.
const summarizeConcurrency = 5

// Apply returns a copy of items with summaries filled in, running up to
// summarizeConcurrency items at a time. An item whose summary fails keeps an
// empty summary.
func Apply(ctx context.Context, s Summarizer, items []news.APIItem) []news.APIItem {
	result := slices.Clone(items)
	translator, _ := s.(Translator)

	var g errgroup.Group
	g.SetLimit(summarizeConcurrency)

	for i := range result {
		if ctx.Err() != nil {
			slog.Warn("Summarization interrupted", "queued", i, "total", len(result), "error", ctx.Err())
			break
		}
		g.Go(func() error {
			if ctx.Err() == nil {
				summarizeItem(ctx, s, translator, &result[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	return result
}

func summarizeItem(ctx context.Context, s Summarizer, translator Translator, item *news.APIItem) {
	if translator != nil && !news.IsRussianText(item.Title) {
		if title, err := translator.TranslateTitle(ctx, item.Title); err != nil {
			slog.Warn("Failed to translate title", "title", item.Title, "error", err)
		} else if title != "" {
			item.Title = title
		}
	}

	text, err := s.Summarize(ctx, *item)
	if err != nil {
		slog.Warn("Failed to summarize item", "title", item.Title, "source", item.Source, "error", err)
		return
	}
	item.Summary = text
}

// Top picks n stories. A Ranker gets the first try; SelectTop is used when
// it fails or returns too few valid indexes.
func Top(ctx context.Context, s Summarizer, items []news.APIItem, n int) []news.APIItem {
	if n <= 0 || len(items) == 0 {
		return []news.APIItem{}
	}

	if ranker, ok := s.(Ranker); ok {
		indexes, err := ranker.RankTop(ctx, items, n)
		if err == nil && len(indexes) >= min(n, len(items)) {
			top := make([]news.APIItem, 0, n)
			for _, idx := range indexes[:min(n, len(indexes))] {
				top = append(top, items[idx])
			}
			return top
		}
		slog.Warn("Ranked top selection unavailable, using round-robin", "returned", len(indexes), "error", err)
	}

	return SelectTop(items, n)
}

// SelectTop takes the newest story of every category in turn until n are
// picked. Categories are visited in the order they first appear in items.
func SelectTop(items []news.APIItem, n int) []news.APIItem {
	if n <= 0 {
		return []news.APIItem{}
	}

	var order []string
	groups := make(map[string][]news.APIItem)
	for _, item := range items {
		if _, ok := groups[item.Category]; !ok {
			order = append(order, item.Category)
		}
		groups[item.Category] = append(groups[item.Category], item)
	}

	for _, category := range order {
		slices.SortStableFunc(groups[category], func(a, b news.APIItem) int {
			return news.ParseDate(b.Published).Compare(news.ParseDate(a.Published))
		})
	}

	top := make([]news.APIItem, 0, min(n, len(items)))
	for round := 0; len(top) < n; round++ {
		picked := false
		for _, category := range order {
			if round < len(groups[category]) && len(top) < n {
				top = append(top, groups[category][round])
				picked = true
			}
		}
		if !picked {
			break
		}
	}

	return top
}
