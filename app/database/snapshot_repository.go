package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lysyi3m/newsdesk/app/news"
)

const (
	listAll = "all"
	listTop = "top"
)

// SnapshotRepository persists the latest update run so a restart serves the
// previous news until the next update.
type SnapshotRepository struct {
	db *DB
}

func NewSnapshotRepository(db *DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save replaces the stored snapshot in a single transaction.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *news.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"news_items", "categories", "snapshots"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, last_update, sources_count) VALUES (1, ?, ?)`,
		snapshot.LastUpdate.UTC().Format(time.RFC3339Nano), snapshot.SourcesCount)
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	for i, name := range snapshot.Categories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (position, name) VALUES (?, ?)`, i, name); err != nil {
			return fmt.Errorf("failed to store category %q: %w", name, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO news_items (list, position, title, link, description, published, source, source_url, category, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	lists := map[string][]news.APIItem{listAll: snapshot.All, listTop: snapshot.Top}
	for list, items := range lists {
		for i, item := range items {
			_, err := stmt.ExecContext(ctx, list, i,
				item.Title, item.Link, item.Description, item.Published,
				item.Source, item.SourceURL, item.Category, item.Summary)
			if err != nil {
				return fmt.Errorf("failed to store %s item %d: %w", list, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// Load returns the stored snapshot, or nil when nothing was saved yet.
func (r *SnapshotRepository) Load(ctx context.Context) (*news.Snapshot, error) {
	var lastUpdate string
	snapshot := &news.Snapshot{}

	err := r.db.QueryRowContext(ctx,
		`SELECT last_update, sources_count FROM snapshots WHERE id = 1`,
	).Scan(&lastUpdate, &snapshot.SourcesCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snapshot.LastUpdate, err = time.Parse(time.RFC3339Nano, lastUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last update %q: %w", lastUpdate, err)
	}

	if snapshot.Categories, err = r.loadCategories(ctx); err != nil {
		return nil, err
	}
	if snapshot.All, err = r.loadItems(ctx, listAll); err != nil {
		return nil, err
	}
	if snapshot.Top, err = r.loadItems(ctx, listTop); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (r *SnapshotRepository) loadCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, name)
	}

	return categories, rows.Err()
}

func (r *SnapshotRepository) loadItems(ctx context.Context, list string) ([]news.APIItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT title, link, description, published, source, source_url, category, summary
		FROM news_items
		WHERE list = ?
		ORDER BY position
	`, list)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s items: %w", list, err)
	}
	defer rows.Close()

	items := []news.APIItem{}
	for rows.Next() {
		var item news.APIItem
		err := rows.Scan(&item.Title, &item.Link, &item.Description, &item.Published,
			&item.Source, &item.SourceURL, &item.Category, &item.Summary)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s item: %w", list, err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
