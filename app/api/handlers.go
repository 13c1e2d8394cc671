package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/newsdesk/app/client"
	"github.com/lysyi3m/newsdesk/app/news"
	"github.com/lysyi3m/newsdesk/app/newscache"
)

func NewHandler(newsCache *newscache.Cache, updater Updater, version string) *Handler {
	return &Handler{
		newsCache:    newsCache,
		updater:      updater,
		version:      version,
		rssGenerator: NewRSSGenerator(),
	}
}

func (h *Handler) GetAllNews(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}

	snapshot := h.newsCache.Snapshot()
	c.JSON(http.StatusOK, client.NewsResponse{
		News:       paginate(snapshot.All, offset, limit),
		Total:      len(snapshot.All),
		LastUpdate: snapshot.LastUpdateString(),
	})
}

func (h *Handler) GetTopNews(c *gin.Context) {
	snapshot := h.newsCache.Snapshot()
	c.JSON(http.StatusOK, client.NewsResponse{
		News:       snapshot.Top,
		Total:      len(snapshot.Top),
		LastUpdate: snapshot.LastUpdateString(),
	})
}

func (h *Handler) GetNewsByCategory(c *gin.Context) {
	category := c.Param("category")

	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	snapshot := h.newsCache.Snapshot()
	items, found := snapshot.ByCategory(category)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Категория '%s' не найдена", category)})
		return
	}

	c.JSON(http.StatusOK, client.NewsResponse{
		News:       paginate(items, 0, limit),
		Total:      len(items),
		LastUpdate: snapshot.LastUpdateString(),
	})
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories := h.newsCache.Snapshot().CategoryCounts()
	c.JSON(http.StatusOK, client.CategoriesResponse{
		Categories:      categories,
		TotalCategories: len(categories),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	snapshot := h.newsCache.Snapshot()

	counts := make(map[string]int, len(snapshot.Categories))
	for _, category := range snapshot.CategoryCounts() {
		counts[category.Category] = category.Count
	}

	c.JSON(http.StatusOK, client.StatsResponse{
		TotalNews:       len(snapshot.All),
		CategoriesCount: len(snapshot.Categories),
		SourcesCount:    snapshot.SourcesCount,
		LastUpdate:      snapshot.LastUpdateString(),
		Categories:      counts,
	})
}

func (h *Handler) PostUpdate(c *gin.Context) {
	started, err := h.updater.RequestUpdate()
	if err != nil {
		slog.Error("Failed to start update", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Не удалось запустить обновление"})
		return
	}

	if !started {
		c.JSON(http.StatusOK, client.UpdateResponse{
			Status:  "already_updating",
			Message: "Обновление уже выполняется",
		})
		return
	}

	c.JSON(http.StatusOK, client.UpdateResponse{
		Status:  "started",
		Message: "Обновление новостей запущено в фоновом режиме",
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	snapshot := h.newsCache.Snapshot()
	c.JSON(http.StatusOK, client.HealthResponse{
		Status:     "healthy",
		IsUpdating: h.newsCache.IsUpdating(),
		LastUpdate: snapshot.LastUpdateString(),
		CachedNews: len(snapshot.All),
	})
}

// queryInt reads a non-negative integer query parameter. Absent means zero.
// On a bad value it writes the error response and returns false.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": fmt.Sprintf("invalid %s: %q", name, raw)})
		return 0, false
	}
	return value, true
}

// paginate slices items like list[offset:offset+limit]. A zero limit means no
// limit.
func paginate(items []news.APIItem, offset, limit int) []news.APIItem {
	if offset >= len(items) {
		return []news.APIItem{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (h *Handler) GetAllRSS(c *gin.Context) {
	snapshot := h.newsCache.Snapshot()
	h.writeRSS(c, "Newsdesk: все новости", "/news/all", snapshot, snapshot.All)
}

func (h *Handler) GetTopRSS(c *gin.Context) {
	snapshot := h.newsCache.Snapshot()
	h.writeRSS(c, "Newsdesk: топ-новости", "/news/top", snapshot, snapshot.Top)
}

func (h *Handler) GetCategoryRSS(c *gin.Context) {
	category := c.Param("category")

	snapshot := h.newsCache.Snapshot()
	items, found := snapshot.ByCategory(category)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Категория '%s' не найдена", category)})
		return
	}

	h.writeRSS(c, "Newsdesk: "+news.CapitalizeFirst(category), "/news/category/"+url.PathEscape(category), snapshot, items)
}

func (h *Handler) writeRSS(c *gin.Context, title, path string, snapshot *news.Snapshot, items []news.APIItem) {
	base := requestBaseURL(c)
	rss := h.rssGenerator.Generate(Channel{
		Title:     title,
		Link:      base + path,
		SelfLink:  base + c.Request.URL.RequestURI(),
		BuildDate: snapshot.LastUpdate,
		Generator: "Newsdesk/" + h.version,
	}, items)

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, rss)
}

func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
