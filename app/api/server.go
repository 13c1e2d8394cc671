package api

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/newsdesk/app/cache"
	"github.com/lysyi3m/newsdesk/app/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerOptions struct {
	APIAccessKey  string
	ResponseCache cache.ResponseCache // optional
	CacheTTL      time.Duration
}

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, opts ServerOptions) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/metrics"},
	}))

	r.Use(gin.Recovery())
	r.Use(metricsMiddleware())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, opts)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, opts ServerOptions) {
	cached := responseCacheMiddleware(opts.ResponseCache, opts.CacheTTL)

	newsGroup := r.Group("/news", cached)
	{
		newsGroup.GET("/all", handler.GetAllNews)
		newsGroup.GET("/top", handler.GetTopNews)
		newsGroup.GET("/category/:category", handler.GetNewsByCategory)
	}
	r.GET("/categories", cached, handler.GetCategories)
	r.GET("/stats", cached, handler.GetStats)

	rssGroup := r.Group("/rss")
	{
		rssGroup.GET("/all", handler.GetAllRSS)
		rssGroup.GET("/top", handler.GetTopRSS)
		rssGroup.GET("/category/:category", handler.GetCategoryRSS)
	}

	if opts.APIAccessKey != "" {
		r.POST("/update", authMiddleware(opts.APIAccessKey), handler.PostUpdate)
		slog.Info("Update endpoint requires authentication")
	} else {
		r.POST("/update", handler.PostUpdate)
	}

	r.GET("/health", handler.GetHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		index := gin.H{
			"message": "Newsdesk API",
			"version": handler.version,
			"endpoints": map[string]string{
				"/news/all":                 "Все новости",
				"/news/top":                 "Топ-новости дня",
				"/news/category/{category}": "Новости по категории",
				"/categories":               "Список категорий",
				"/stats":                    "Статистика",
				"/rss/top":                  "RSS-лента топ-новостей",
				"/rss/all":                  "RSS-лента всех новостей",
				"/rss/category/{category}":  "RSS-лента категории",
				"/update":                   "Обновить новости (POST)",
				"/health":                   "Проверка состояния",
				"/metrics":                  "Метрики Prometheus",
			},
			"auth_required": opts.APIAccessKey != "",
		}
		if opts.ResponseCache != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			index["cache"] = opts.ResponseCache.Health(ctx)
		}
		c.JSON(http.StatusOK, index)
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
}

// authMiddleware creates authentication middleware for API endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "API key required: provide it in X-API-Key header or Authorization: Bearer <key>",
			})
			return
		}

		if providedKey != apiAccessKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Invalid API key",
			})
			return
		}

		c.Next()
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// responseCacheMiddleware serves successful GET responses from Redis until
// their TTL runs out or an update purges them. Cache errors fall through to
// the handler.
func responseCacheMiddleware(responseCache cache.ResponseCache, ttl time.Duration) gin.HandlerFunc {
	if responseCache == nil || ttl <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := responseCache.GenerateResponseKey(c.Request.URL.RequestURI())

		body, hit, err := responseCache.Get(ctx, key)
		if err != nil {
			slog.Warn("Response cache lookup failed", "key", key, "error", err)
		}
		metrics.RecordCacheLookup(hit)
		if hit {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Header("X-Cache", "MISS")

		c.Next()

		if recorder.Status() != http.StatusOK {
			return
		}
		if err := responseCache.Set(ctx, key, recorder.body.Bytes(), ttl); err != nil {
			slog.Warn("Failed to cache response", "key", key, "error", err)
		}
	}
}
