package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lysyi3m/newsdesk/app/cache"
	"github.com/lysyi3m/newsdesk/app/feed"
	"github.com/lysyi3m/newsdesk/app/metrics"
	"github.com/lysyi3m/newsdesk/app/news"
	"github.com/lysyi3m/newsdesk/app/newscache"
	"github.com/lysyi3m/newsdesk/app/summary"
)

// UpdateDeps are the collaborators of an update run. ResponseCache may be nil.
type UpdateDeps struct {
	ConfigCache      *feed.ConfigCache
	Fetcher          *feed.Fetcher
	Parser           *feed.Parser
	Filterer         *feed.Filterer
	ContentExtractor *feed.ContentExtractor
	Summarizer       summary.Summarizer
	SnapshotRepo     SnapshotRepository
	NewsCache        *newscache.Cache
	ResponseCache    cache.ResponseCache
}

// UpdateNewsTask fetches every configured source and publishes the result as
// the new snapshot.
type UpdateNewsTask struct {
	Task
	deps UpdateDeps
	now  func() time.Time
}

func NewUpdateNewsTask(deps UpdateDeps) *UpdateNewsTask {
	return &UpdateNewsTask{
		Task: NewTask(TaskTypeUpdateNews),
		deps: deps,
		now:  time.Now,
	}
}

func (t *UpdateNewsTask) Execute(ctx context.Context) error {
	slog.Info("Task started", "type", string(t.Type), "id", t.ID, "attempt", t.RetryCount+1)

	if err := t.deps.ConfigCache.Run(); err != nil {
		slog.Warn("Failed to reload sources, using previous configuration", "error", err)
	}
	config, err := t.deps.ConfigCache.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to get sources configuration: %w", err)
	}

	var items []news.APIItem
	failed := 0
	for _, category := range config.Categories {
		for _, source := range category.Sources {
			sourceItems, err := t.processSource(ctx, category.Name, source, config.News.MaxNewsPerSource)
			if err != nil {
				failed++
				metrics.RecordSourceFetch(category.Name, "error")
				slog.Warn("Failed to process source", "category", category.Name, "source", source.Name, "url", source.URL, "error", err)
				continue
			}
			metrics.RecordSourceFetch(category.Name, "success")
			slog.Debug("Source processed", "category", category.Name, "source", source.Name, "items", len(sourceItems))
			items = append(items, sourceItems...)
		}
	}

	if ctx.Err() != nil {
		return fmt.Errorf("update interrupted: %w", ctx.Err())
	}

	sourcesCount := config.SourceCount()
	if sourcesCount > 0 && failed == sourcesCount {
		return fmt.Errorf("failed to fetch all %d sources", sourcesCount)
	}

	summarized := summary.Apply(ctx, t.deps.Summarizer, items)
	top := summary.Top(ctx, t.deps.Summarizer, summarized, config.News.TopNewsCount)

	snapshot := &news.Snapshot{
		All:          summarized,
		Top:          top,
		Categories:   config.CategoryNames(),
		SourcesCount: sourcesCount,
		LastUpdate:   t.now(),
	}
	if snapshot.All == nil {
		snapshot.All = []news.APIItem{}
	}

	t.deps.NewsCache.Replace(snapshot)
	metrics.SetCachedNews(len(snapshot.All), len(snapshot.Top))

	if err := t.deps.SnapshotRepo.Save(ctx, snapshot); err != nil {
		slog.Error("Failed to persist snapshot", "error", err)
	}

	if t.deps.ResponseCache != nil {
		if removed, err := t.deps.ResponseCache.Purge(ctx); err != nil {
			slog.Warn("Failed to purge response cache", "error", err)
		} else {
			slog.Debug("Response cache purged", "keys", removed)
		}
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"id", t.ID,
		"news", len(snapshot.All),
		"top", len(snapshot.Top),
		"sources", sourcesCount,
		"failed_sources", failed,
		"duration", t.GetDuration())

	return nil
}

func (t *UpdateNewsTask) processSource(ctx context.Context, category string, source feed.Source, maxItems int) ([]news.APIItem, error) {
	timeout := source.GetTimeout()

	data, err := t.deps.Fetcher.Run(ctx, source.URL, timeout)
	if err != nil {
		return nil, err
	}

	parsed, err := t.deps.Parser.Run(data, source, category)
	if err != nil {
		return nil, err
	}

	kept := feed.Limit(t.deps.Filterer.Run(parsed, source), maxItems)

	items := make([]news.APIItem, 0, len(kept))
	for _, item := range kept {
		if source.ExtractContent && strings.TrimSpace(item.Description) == "" && strings.TrimSpace(item.Content) == "" && item.Link != "" {
			item.Description = t.extractContent(ctx, item.Link, timeout)
		}
		items = append(items, item.APIItem())
	}

	return items, nil
}

// extractContent returns the readable text of the article page, or "" when it
// cannot be fetched.
func (t *UpdateNewsTask) extractContent(ctx context.Context, link string, timeout time.Duration) string {
	data, err := t.deps.Fetcher.Run(ctx, link, timeout)
	if err != nil {
		slog.Debug("Failed to fetch article for content extraction", "link", link, "error", err)
		return ""
	}

	text, err := t.deps.ContentExtractor.Run(data)
	if err != nil {
		slog.Debug("Content extraction failed", "link", link, "error", err)
		return ""
	}
	return text
}

// Finish clears the in-flight flag so the next update can be requested.
func (t *UpdateNewsTask) Finish(err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RecordUpdate(status, t.GetDuration().Seconds())
	metrics.SetUpdating(false)
	t.deps.NewsCache.EndUpdate()
}
