package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL + "/")
}

func TestAllNews(t *testing.T) {
	var gotQuery string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/news/all", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"news":[{"title":"Новость","link":"https://example.com/1","description":"Текст","published":"2025-01-15 10:00:00","source":"РБК","source_url":"https://example.com/rss","category":"финансы","summary":"Кратко"}],"total":42,"last_update":"2025-01-15T10:05:00"}`))
	})

	resp, err := c.AllNews(context.Background(), 10, 5)
	require.NoError(t, err)

	assert.Equal(t, "limit=10&offset=5", gotQuery)
	assert.Equal(t, 42, resp.Total)
	require.NotNil(t, resp.LastUpdate)
	assert.Equal(t, "2025-01-15T10:05:00", *resp.LastUpdate)
	require.Len(t, resp.News, 1)
	assert.Equal(t, "Кратко", resp.News[0].Summary)
	assert.Equal(t, "финансы", resp.News[0].Category)
}

func TestAllNews_OmitsZeroParams(t *testing.T) {
	var gotURI string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		_, _ = w.Write([]byte(`{"news":[],"total":0,"last_update":null}`))
	})

	resp, err := c.AllNews(context.Background(), 0, 0)
	require.NoError(t, err)

	assert.Equal(t, "/news/all", gotURI)
	assert.Nil(t, resp.LastUpdate)
}

func TestNewsByCategory_EscapesPath(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"news":[],"total":3}`))
	})

	resp, err := c.NewsByCategory(context.Background(), "бокс/мма", 2)
	require.NoError(t, err)

	assert.Equal(t, "/news/category/бокс/мма", gotPath)
	assert.Equal(t, "limit=2", gotQuery)
	assert.Equal(t, 3, resp.Total)
}

func TestEndpoints(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/news/top":
			_, _ = w.Write([]byte(`{"news":[{"title":"Топ"}],"total":1}`))
		case "/categories":
			_, _ = w.Write([]byte(`{"categories":[{"category":"наука","count":2,"news_count":2}],"total_categories":1}`))
		case "/stats":
			_, _ = w.Write([]byte(`{"total_news":2,"categories_count":1,"sources_count":3,"last_update":null,"categories":{"наука":2}}`))
		case "/update":
			assert.Equal(t, http.MethodPost, r.Method)
			_, _ = w.Write([]byte(`{"status":"started","message":"ok"}`))
		case "/health":
			_, _ = w.Write([]byte(`{"status":"healthy","is_updating":true,"cached_news":2}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	top, err := c.TopNews(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Топ", top.News[0].Title)

	categories, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, categories.TotalCategories)
	assert.Equal(t, 2, categories.Categories[0].NewsCount)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.SourcesCount)
	assert.Equal(t, map[string]int{"наука": 2}, stats.Categories)

	update, err := c.TriggerUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "started", update.Status)

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.True(t, health.IsUpdating)
	assert.Equal(t, 2, health.CachedNews)
}

func TestRequestError_Status(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	})

	_, err := c.NewsByCategory(context.Background(), "unknown", 0)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Contains(t, err.Error(), "status: 404")
}

func TestRequestError_Decode(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})

	_, err := c.Health(context.Background())

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 0, reqErr.StatusCode)
	assert.Equal(t, "/health", reqErr.Endpoint)
}

func TestRequestError_Transport(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	c := New(server.URL)
	server.Close()

	_, err := c.TopNews(context.Background())

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 0, reqErr.StatusCode)
	assert.NotNil(t, reqErr.Unwrap())
}

func TestOptions_Headers(t *testing.T) {
	var apiKey, userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("X-API-Key")
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"status":"started","message":"ok"}`))
	}))
	t.Cleanup(server.Close)

	c := New(server.URL, WithAPIKey("secret"), WithUserAgent("Reader/test"), WithHTTPClient(server.Client()))
	_, err := c.TriggerUpdate(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "secret", apiKey)
	assert.Equal(t, "Reader/test", userAgent)
}
