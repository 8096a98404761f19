package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"lostfound-matching/internal/models"
	errs "lostfound-matching/pkg/errors"
)

var itemColumns = []string{
	"id", "kind", "category", "title", "description", "tags",
	"location_name", "lat", "lng", "status", "created_at", "updated_at",
}

// GetItemByIDCtx fetches one report. A missing id yields (nil, nil).
func (db *DB) GetItemByIDCtx(ctx context.Context, id string) (*models.Item, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query, args, err := builder().
		Select(itemColumns...).
		From("items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errs.NewDB("database.GetItemByIDCtx", "build query", err)
	}

	item, err := scanItem(db.conn.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDB("database.GetItemByIDCtx", fmt.Sprintf("query item %s", id), err)
	}
	return item, nil
}

// ListItemsByKindAndStatusCtx lists reports of one kind in one lifecycle
// state. Ordered by creation then id so candidate enumeration, and with
// it the finder's tie-break, is deterministic.
func (db *DB) ListItemsByKindAndStatusCtx(ctx context.Context, kind models.ItemKind, status models.ItemStatus) ([]models.Item, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query, args, err := builder().
		Select(itemColumns...).
		From("items").
		Where(sq.Eq{"kind": kind, "status": status}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, errs.NewDB("database.ListItemsByKindAndStatusCtx", "build query", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDB("database.ListItemsByKindAndStatusCtx", "query items", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, errs.NewDB("database.ListItemsByKindAndStatusCtx", "scan item", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.ListItemsByKindAndStatusCtx", "rows iteration", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var (
		item     models.Item
		tagsJSON []byte
	)
	err := row.Scan(
		&item.ID, &item.Kind, &item.Category, &item.Title, &item.Description,
		&tagsJSON, &item.LocationName, &item.Lat, &item.Lng, &item.Status,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &item.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &item, nil
}
