package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"lostfound-matching/internal/models"
	errs "lostfound-matching/pkg/errors"
)

// MySQL duplicate-key error number.
const erDupEntry = 1062

var matchColumns = []string{
	"id", "lost_item_id", "found_item_id", "similarity", "matched_fields",
	"status", "notes", "created_at", "updated_at",
}

// ListMatchesForItemCtx lists stored matches referencing the item in
// either role, ordered by creation then id.
func (db *DB) ListMatchesForItemCtx(ctx context.Context, itemID string) ([]models.Match, error) {
	ctx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query, args, err := builder().
		Select(matchColumns...).
		From("matches").
		Where(sq.Or{sq.Eq{"lost_item_id": itemID}, sq.Eq{"found_item_id": itemID}}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, errs.NewDB("database.ListMatchesForItemCtx", "build query", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.NewDB("database.ListMatchesForItemCtx", "query matches", err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, errs.NewDB("database.ListMatchesForItemCtx", "scan match", err)
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDB("database.ListMatchesForItemCtx", "rows iteration", err)
	}
	return matches, nil
}

// CreateMatchCtx persists a transient match, assigning a fresh UUID and
// timestamps. A duplicate (lost, found) pair surfaces as Conflict so
// racing writers can re-check instead of silently double-recording.
func (db *DB) CreateMatchCtx(ctx context.Context, m models.Match) (*models.Match, error) {
	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	fieldsJSON, err := json.Marshal(m.MatchedFields)
	if err != nil {
		return nil, errs.NewDB("database.CreateMatchCtx", "encode matched fields", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	m.ID = uuid.NewString()
	m.CreatedAt = &now
	m.UpdatedAt = &now
	if m.Status == "" {
		m.Status = models.MatchPending
	}

	query, args, err := builder().
		Insert("matches").
		Columns(matchColumns...).
		Values(m.ID, m.LostItemID, m.FoundItemID, m.Similarity, fieldsJSON,
			m.Status, m.Notes, now, now).
		ToSql()
	if err != nil {
		return nil, errs.NewDB("database.CreateMatchCtx", "build query", err)
	}

	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == erDupEntry {
			return nil, errs.NewConflict("database.CreateMatchCtx",
				fmt.Sprintf("match for pair (%s, %s) already exists", m.LostItemID, m.FoundItemID), err)
		}
		return nil, errs.NewDB("database.CreateMatchCtx", "insert match", err)
	}
	return &m, nil
}

// UpdateMatchStatusCtx changes a persisted match's review status and,
// when notes is non-nil, replaces its notes. Matches are never re-scored.
func (db *DB) UpdateMatchStatusCtx(ctx context.Context, matchID string, status models.MatchStatus, notes *string) error {
	if !status.Valid() {
		return errs.NewInvalidInput("database.UpdateMatchStatusCtx",
			fmt.Sprintf("unknown match status %q", status), nil)
	}

	ctx, cancel := db.withWriteTimeout(ctx)
	defer cancel()

	update := builder().
		Update("matches").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": matchID})
	if notes != nil {
		update = update.Set("notes", *notes)
	}
	query, args, err := update.ToSql()
	if err != nil {
		return errs.NewDB("database.UpdateMatchStatusCtx", "build query", err)
	}

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return errs.NewDB("database.UpdateMatchStatusCtx", "update match", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errs.NewDB("database.UpdateMatchStatusCtx", "rows affected", err)
	}
	if affected == 0 {
		return errs.NewNotFound("database.UpdateMatchStatusCtx",
			fmt.Sprintf("match %s does not exist", matchID), nil)
	}
	return nil
}

// GetMatchWithItemsCtx joins a match with both referenced reports.
// Missing match or items yield (nil, nil).
func (db *DB) GetMatchWithItemsCtx(ctx context.Context, matchID string) (*models.MatchWithItems, error) {
	readCtx, cancel := db.withReadTimeout(ctx)
	defer cancel()

	query, args, err := builder().
		Select(matchColumns...).
		From("matches").
		Where(sq.Eq{"id": matchID}).
		ToSql()
	if err != nil {
		return nil, errs.NewDB("database.GetMatchWithItemsCtx", "build query", err)
	}

	m, err := scanMatch(db.conn.QueryRowContext(readCtx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDB("database.GetMatchWithItemsCtx", fmt.Sprintf("query match %s", matchID), err)
	}

	lost, err := db.GetItemByIDCtx(ctx, m.LostItemID)
	if err != nil {
		return nil, err
	}
	found, err := db.GetItemByIDCtx(ctx, m.FoundItemID)
	if err != nil {
		return nil, err
	}
	if lost == nil || found == nil {
		return nil, nil
	}
	return &models.MatchWithItems{Match: *m, LostItem: *lost, FoundItem: *found}, nil
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		m          models.Match
		fieldsJSON []byte
	)
	err := row.Scan(
		&m.ID, &m.LostItemID, &m.FoundItemID, &m.Similarity, &fieldsJSON,
		&m.Status, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(fieldsJSON) > 0 {
		if err := json.Unmarshal(fieldsJSON, &m.MatchedFields); err != nil {
			return nil, fmt.Errorf("decode matched fields: %w", err)
		}
	}
	return &m, nil
}
