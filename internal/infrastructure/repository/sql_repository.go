package repository

import (
	"context"

	"lostfound-matching/internal/domain"
	"lostfound-matching/internal/models"
	"lostfound-matching/pkg/database"
)

// SQLRepository is a thin adapter over pkg/database.DB to satisfy the
// domain repositories. It keeps engine logic decoupled from the SQL layer.
type SQLRepository struct {
	db *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Ensure interface compliance at compile time
var _ domain.Repository = (*SQLRepository)(nil)

// ItemRepository methods
func (r *SQLRepository) GetItemByIDCtx(ctx context.Context, id string) (*models.Item, error) {
	return r.db.GetItemByIDCtx(ctx, id)
}

func (r *SQLRepository) ListItemsByKindAndStatusCtx(ctx context.Context, kind models.ItemKind, status models.ItemStatus) ([]models.Item, error) {
	return r.db.ListItemsByKindAndStatusCtx(ctx, kind, status)
}

// MatchRepository methods
func (r *SQLRepository) ListMatchesForItemCtx(ctx context.Context, itemID string) ([]models.Match, error) {
	return r.db.ListMatchesForItemCtx(ctx, itemID)
}

func (r *SQLRepository) CreateMatchCtx(ctx context.Context, m models.Match) (*models.Match, error) {
	return r.db.CreateMatchCtx(ctx, m)
}

func (r *SQLRepository) UpdateMatchStatusCtx(ctx context.Context, matchID string, status models.MatchStatus, notes *string) error {
	return r.db.UpdateMatchStatusCtx(ctx, matchID, status, notes)
}

func (r *SQLRepository) GetMatchWithItemsCtx(ctx context.Context, matchID string) (*models.MatchWithItems, error) {
	return r.db.GetMatchWithItemsCtx(ctx, matchID)
}
