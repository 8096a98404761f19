package domain

import (
	"context"

	"lostfound-matching/internal/models"
)

// ItemRepository defines read access to lost/found reports.
// A nil item with a nil error means the id is unknown; callers decide
// whether that is a NotFound condition.
type ItemRepository interface {
	GetItemByIDCtx(ctx context.Context, id string) (*models.Item, error)
	ListItemsByKindAndStatusCtx(ctx context.Context, kind models.ItemKind, status models.ItemStatus) ([]models.Item, error)
}

// MatchRepository defines access to persisted matches. CreateMatchCtx
// assigns identity and timestamps at persistence time and must enforce
// uniqueness of the (lost, found) pair, returning a Conflict error when
// two writers race to create the same pair.
type MatchRepository interface {
	ListMatchesForItemCtx(ctx context.Context, itemID string) ([]models.Match, error)
	CreateMatchCtx(ctx context.Context, m models.Match) (*models.Match, error)
	UpdateMatchStatusCtx(ctx context.Context, matchID string, status models.MatchStatus, notes *string) error
	GetMatchWithItemsCtx(ctx context.Context, matchID string) (*models.MatchWithItems, error)
}

// Repository aggregates the record-store operations the engine consumes.
type Repository interface {
	ItemRepository
	MatchRepository
}
