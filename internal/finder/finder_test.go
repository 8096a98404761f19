package finder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lostfound-matching/internal/models"
	testutil "lostfound-matching/internal/testing"
	errs "lostfound-matching/pkg/errors"
)

func lostWallet() models.Item {
	return models.Item{
		ID:           "L1",
		Kind:         models.KindLost,
		Category:     models.CategoryBags,
		Title:        "Black leather wallet",
		Description:  "Lost near the train station",
		Tags:         []string{"wallet", "leather"},
		LocationName: "Riverside Station",
		Status:       models.ItemActive,
	}
}

// foundTwin mirrors lostWallet field for field on the found side, which
// scores 0.98 under the default weights (everything matches, plus the
// flat location-name bonus).
func foundTwin(id string) models.Item {
	it := lostWallet()
	it.ID = id
	it.Kind = models.KindFound
	return it
}

func TestFindForLostItem_Ranking(t *testing.T) {
	repo := testutil.NewMemRepo()
	repo.AddItem(lostWallet())
	repo.AddItem(foundTwin("F-high"))
	repo.AddItem(models.Item{
		ID:           "F-mid",
		Kind:         models.KindFound,
		Category:     models.CategoryBags,
		Title:        "Brown wallet found",
		Description:  "Found on a bench downtown",
		Tags:         []string{"wallet"},
		LocationName: "Downtown Plaza",
		Status:       models.ItemActive,
	})
	// Category-only candidate lands exactly at the threshold and must be
	// excluded: the cutoff is strict.
	repo.AddItem(models.Item{
		ID:           "F-cat",
		Kind:         models.KindFound,
		Category:     models.CategoryBags,
		Title:        "Blue umbrella",
		Description:  "Left on a bench",
		LocationName: "Airport Terminal",
		Status:       models.ItemActive,
	})
	repo.AddItem(models.Item{
		ID:           "F-off",
		Kind:         models.KindFound,
		Category:     models.CategoryElectronics,
		Title:        "Silver phone",
		Description:  "Screen cracked",
		Tags:         []string{"phone"},
		LocationName: "Mall Entrance",
		Status:       models.ItemActive,
	})

	f := New(repo, nil, DefaultConfig(), nil)
	matches, err := f.FindForLostItem(context.Background(), "L1")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "F-high", matches[0].FoundItemID)
	assert.Equal(t, "L1", matches[0].LostItemID)
	assert.InDelta(t, 0.98, matches[0].Similarity, 1e-9)
	assert.Equal(t, models.MatchPending, matches[0].Status)
	assert.Empty(t, matches[0].ID, "discovery must not assign ids")

	assert.Equal(t, "F-mid", matches[1].FoundItemID)
	assert.InDelta(t, 0.425, matches[1].Similarity, 1e-9)
	assert.Contains(t, matches[1].MatchedFields, "category")
	assert.Contains(t, matches[1].MatchedFields, "tags")
}

func TestFindForFoundItem_OrientsRoles(t *testing.T) {
	repo := testutil.NewMemRepo()
	repo.AddItem(lostWallet())
	f1 := foundTwin("F1")
	repo.AddItem(f1)

	f := New(repo, nil, DefaultConfig(), nil)
	matches, err := f.FindForFoundItem(context.Background(), "F1")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// Roles follow the item kinds, not the scan direction.
	assert.Equal(t, "L1", matches[0].LostItemID)
	assert.Equal(t, "F1", matches[0].FoundItemID)
	assert.InDelta(t, 0.98, matches[0].Similarity, 1e-9)
}

func TestFind_UnknownOrWrongKind(t *testing.T) {
	repo := testutil.NewMemRepo()
	repo.AddItem(lostWallet())
	repo.AddItem(foundTwin("F1"))
	f := New(repo, nil, DefaultConfig(), nil)
	ctx := context.Background()

	_, err := f.FindForLostItem(ctx, "nope")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrNotFound))

	_, err = f.FindForFoundItem(ctx, "nope")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrNotFound))

	// Right id, wrong direction.
	_, err = f.FindForLostItem(ctx, "F1")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrNotFound))

	_, err = f.FindForFoundItem(ctx, "L1")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}

func TestFind_SkipsRecordedPairs(t *testing.T) {
	repo := testutil.NewMemRepo()
	repo.AddItem(lostWallet())
	repo.AddItem(foundTwin("F1"))
	repo.AddItem(foundTwin("F2"))

	_, err := repo.CreateMatchCtx(context.Background(), models.Match{
		LostItemID:  "L1",
		FoundItemID: "F1",
		Similarity:  0.98,
	})
	require.NoError(t, err)

	f := New(repo, nil, DefaultConfig(), nil)
	matches, err := f.FindForLostItem(context.Background(), "L1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "F2", matches[0].FoundItemID)
}

func TestFind_TieBreakKeepsStoreOrder(t *testing.T) {
	repo := testutil.NewMemRepo()
	repo.AddItem(lostWallet())
	// Equal-scoring candidates: category plus one overlapping tag each.
	tie := func(id string) models.Item {
		return models.Item{
			ID:           id,
			Kind:         models.KindFound,
			Category:     models.CategoryBags,
			Tags:         []string{"wallet"},
			LocationName: "Somewhere Else " + id,
			Status:       models.ItemActive,
		}
	}
	repo.AddItem(tie("F-b"))
	repo.AddItem(tie("F-a"))

	f := New(repo, nil, DefaultConfig(), nil)
	matches, err := f.FindForLostItem(context.Background(), "L1")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, matches[0].Similarity, matches[1].Similarity)
	assert.Equal(t, "F-b", matches[0].FoundItemID, "ties keep insertion order")
	assert.Equal(t, "F-a", matches[1].FoundItemID)
}

func TestFind_OnlyActiveCandidates(t *testing.T) {
	repo := testutil.NewMemRepo()
	repo.AddItem(lostWallet())
	resolved := foundTwin("F-done")
	resolved.Status = models.ItemResolved
	repo.AddItem(resolved)

	f := New(repo, nil, DefaultConfig(), nil)
	matches, err := f.FindForLostItem(context.Background(), "L1")
	require.NoError(t, err)
	assert.Empty(t, matches)
}
