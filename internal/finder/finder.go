// Package finder scans the opposite-kind candidate pool for an item,
// scores each pair, filters by threshold, skips already-recorded pairs,
// and returns a ranked list of unpersisted pending matches.
package finder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"lostfound-matching/internal/domain"
	"lostfound-matching/internal/models"
	"lostfound-matching/internal/similarity"
	errs "lostfound-matching/pkg/errors"
)

// Config tunes candidate filtering.
type Config struct {
	// Threshold is the exclusive lower bound on similarity; only
	// candidates scoring strictly above it survive.
	Threshold float64
}

// DefaultConfig returns the documented 0.3 discovery threshold.
func DefaultConfig() Config { return Config{Threshold: 0.3} }

// Finder discovers candidate matches against the record store.
type Finder struct {
	repo   domain.Repository
	scorer *similarity.Scorer
	cfg    Config
	logger *slog.Logger
}

// New wires a Finder. A nil scorer falls back to the default weights and
// a nil logger to slog.Default().
func New(repo domain.Repository, scorer *similarity.Scorer, cfg Config, logger *slog.Logger) *Finder {
	if scorer == nil {
		scorer = similarity.NewDefault()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{repo: repo, scorer: scorer, cfg: cfg, logger: logger}
}

// FindForLostItem ranks active found items against the given lost item.
// Returns NotFound when the id is unknown or references a non-lost item.
func (f *Finder) FindForLostItem(ctx context.Context, lostItemID string) ([]models.Match, error) {
	return f.find(ctx, lostItemID, models.KindLost)
}

// FindForFoundItem is the mirrored direction: ranks active lost items
// against the given found item. Same NotFound semantics, so callers can
// tell a bad id apart from an empty result.
func (f *Finder) FindForFoundItem(ctx context.Context, foundItemID string) ([]models.Match, error) {
	return f.find(ctx, foundItemID, models.KindFound)
}

func (f *Finder) find(ctx context.Context, itemID string, wantKind models.ItemKind) ([]models.Match, error) {
	source, err := f.repo.GetItemByIDCtx(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errs.NewNotFound("finder.find", fmt.Sprintf("item %s does not exist", itemID), nil)
	}
	if source.Kind != wantKind {
		return nil, errs.NewNotFound("finder.find", fmt.Sprintf("item %s is not a %s item", itemID, wantKind), nil)
	}

	pool, err := f.repo.ListItemsByKindAndStatusCtx(ctx, wantKind.Opposite(), models.ItemActive)
	if err != nil {
		return nil, err
	}
	existing, err := f.repo.ListMatchesForItemCtx(ctx, source.ID)
	if err != nil {
		return nil, err
	}

	var matches []models.Match
	for _, candidate := range pool {
		if candidate.ID == source.ID {
			continue
		}

		lost, found := orient(*source, candidate)
		result, err := f.scorer.Score(lost, found)
		if err != nil {
			return nil, err
		}
		if result.Similarity <= f.cfg.Threshold {
			continue
		}
		if alreadyLinked(existing, candidate.ID) {
			continue
		}

		matches = append(matches, models.Match{
			LostItemID:    lost.ID,
			FoundItemID:   found.ID,
			Similarity:    result.Similarity,
			MatchedFields: result.MatchedFields,
			Status:        models.MatchPending,
		})
	}

	// Rank by similarity descending. Ties keep the candidate enumeration
	// order, i.e. the store's listing order; tests rely on that.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	f.logger.Debug("candidate scan complete",
		"item_id", source.ID, "kind", source.Kind,
		"pool", len(pool), "matches", len(matches))
	return matches, nil
}

// orient assigns the pair to its lost/found roles regardless of which
// side the scan started from.
func orient(source, candidate models.Item) (lost, found models.Item) {
	if source.Kind == models.KindLost {
		return source, candidate
	}
	return candidate, source
}

// alreadyLinked reports whether any stored match ties the source to this
// candidate in either role.
func alreadyLinked(existing []models.Match, candidateID string) bool {
	for _, m := range existing {
		if m.Links(candidateID) {
			return true
		}
	}
	return false
}
