package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lysyi3m/newsdesk/app/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	return db
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestSnapshotRepository_LoadEmpty(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))

	snapshot, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestSnapshotRepository_RoundTrip(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))
	ctx := context.Background()

	first := news.APIItem{
		Title: "Матч", Link: "https://sport.example.com/1", Description: "<p>Обзор</p>",
		Published: "2025-01-15 10:00:00", Source: "sport.example.com",
		SourceURL: "https://sport.example.com/rss", Category: "спорт", Summary: "Кратко",
	}
	second := news.APIItem{Title: "Экзопланета", Published: "2025-01-14 09:00:00", Category: "наука"}

	saved := &news.Snapshot{
		All:          []news.APIItem{first, second},
		Top:          []news.APIItem{second},
		Categories:   []string{"спорт", "наука", "авто"},
		SourcesCount: 4,
		LastUpdate:   time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Save(ctx, saved))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, saved.All, loaded.All)
	assert.Equal(t, saved.Top, loaded.Top)
	assert.Equal(t, saved.Categories, loaded.Categories)
	assert.Equal(t, 4, loaded.SourcesCount)
	assert.True(t, saved.LastUpdate.Equal(loaded.LastUpdate))
}

func TestSnapshotRepository_SaveReplaces(t *testing.T) {
	repo := NewSnapshotRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &news.Snapshot{
		All:        []news.APIItem{{Title: "старая", Category: "спорт"}},
		Categories: []string{"спорт"},
		LastUpdate: time.Now(),
	}))
	require.NoError(t, repo.Save(ctx, &news.Snapshot{
		Categories: []string{"наука"},
		LastUpdate: time.Now(),
	}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.All)
	assert.NotNil(t, loaded.All)
	assert.Empty(t, loaded.Top)
	assert.Equal(t, []string{"наука"}, loaded.Categories)
}

func TestNewConnection_InvalidPath(t *testing.T) {
	dir := t.TempDir()
	_, err := NewConnection(filepath.Join(dir, "missing", "\x00", "test.db"))
	assert.Error(t, err)
}
