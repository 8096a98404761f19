package generator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lostfound-matching/internal/finder"
	"lostfound-matching/internal/models"
	testutil "lostfound-matching/internal/testing"
	errs "lostfound-matching/pkg/errors"
)

func seedWalletSet(repo *testutil.MemRepo) {
	repo.AddItem(models.Item{
		ID:           "L1",
		Kind:         models.KindLost,
		Category:     models.CategoryBags,
		Title:        "Black leather wallet",
		Description:  "Lost near the train station",
		Tags:         []string{"wallet", "leather"},
		LocationName: "Riverside Station",
		Status:       models.ItemActive,
	})
	repo.AddItem(models.Item{
		ID:           "F-high",
		Kind:         models.KindFound,
		Category:     models.CategoryBags,
		Title:        "Black leather wallet",
		Description:  "Lost near the train station",
		Tags:         []string{"wallet", "leather"},
		LocationName: "Riverside Station",
		Status:       models.ItemActive,
	})
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
}

func newGenerator(t *testing.T, repo *testutil.MemRepo) *Generator {
	t.Helper()
	f := finder.New(repo, nil, finder.DefaultConfig(), nil)
	g, err := New(repo, f, WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(g.Release)
	return g
}

func TestGenerateAll_PersistsRankedMatches(t *testing.T) {
	repo := testutil.NewMemRepo()
	seedWalletSet(repo)
	g := newGenerator(t, repo)

	persisted, err := g.GenerateAll(context.Background())
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	assert.Equal(t, 2, repo.MatchCount())

	// Store-assigned identity and descending similarity.
	for _, m := range persisted {
		assert.NotEmpty(t, m.ID)
		assert.NotNil(t, m.CreatedAt)
		assert.Equal(t, models.MatchPending, m.Status)
	}
	assert.Equal(t, "F-high", persisted[0].FoundItemID)
	assert.Equal(t, "F-mid", persisted[1].FoundItemID)
	assert.Greater(t, persisted[0].Similarity, persisted[1].Similarity)
}

func TestGenerateAll_SecondRunCreatesNothing(t *testing.T) {
	repo := testutil.NewMemRepo()
	seedWalletSet(repo)
	g := newGenerator(t, repo)
	ctx := context.Background()

	first, err := g.GenerateAll(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := g.GenerateAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 2, repo.MatchCount())
}

func TestGenerateAll_NoCandidatesIsNotAnError(t *testing.T) {
	repo := testutil.NewMemRepo()
	repo.AddItem(models.Item{
		ID:           "L1",
		Kind:         models.KindLost,
		Category:     models.CategoryKeys,
		Title:        "House keys",
		LocationName: "Back Garden",
		Status:       models.ItemActive,
	})
	repo.AddItem(models.Item{
		ID:           "F1",
		Kind:         models.KindFound,
		Category:     models.CategoryElectronics,
		Title:        "Silver phone",
		LocationName: "Mall Entrance",
		Status:       models.ItemActive,
	})
	g := newGenerator(t, repo)

	persisted, err := g.GenerateAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, persisted)
	assert.Equal(t, 0, repo.MatchCount())
}

// flakyRepo fails the first create with a conflict even though nothing
// was recorded, imitating a uniqueness violation from a racing writer
// whose row was rolled back.
type flakyRepo struct {
	*testutil.MemRepo
	mu       sync.Mutex
	failures int
	creates  int
}

func (r *flakyRepo) CreateMatchCtx(ctx context.Context, m models.Match) (*models.Match, error) {
	r.mu.Lock()
	r.creates++
	fail := r.failures > 0
	if fail {
		r.failures--
	}
	r.mu.Unlock()
	if fail {
		return nil, errs.NewConflict("flakyRepo.CreateMatchCtx", "simulated duplicate", nil)
	}
	return r.MemRepo.CreateMatchCtx(ctx, m)
}

func TestGenerateAll_RetriesSpuriousConflictOnce(t *testing.T) {
	mem := testutil.NewMemRepo()
	seedWalletSet(mem)
	repo := &flakyRepo{MemRepo: mem, failures: 1}

	f := finder.New(repo, nil, finder.DefaultConfig(), nil)
	g, err := New(repo, f, WithPoolSize(1))
	require.NoError(t, err)
	defer g.Release()

	persisted, err := g.GenerateAll(context.Background())
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	assert.Equal(t, 2, mem.MatchCount())
	assert.Equal(t, 3, repo.creates, "one conflicted create plus its retry, then one clean create")
}

func TestGenerateAll_DropsPairRecordedConcurrently(t *testing.T) {
	mem := testutil.NewMemRepo()
	seedWalletSet(mem)
	repo := &racedRepo{MemRepo: mem}

	f := finder.New(repo, nil, finder.DefaultConfig(), nil)
	g, err := New(repo, f, WithPoolSize(1))
	require.NoError(t, err)
	defer g.Release()

	persisted, err := g.GenerateAll(context.Background())
	require.NoError(t, err)
	// The raced pair is dropped without a retry; the other still lands.
	require.Len(t, persisted, 1)
	assert.Equal(t, 2, mem.MatchCount())
}

// racedRepo records the pair itself before failing the first create, so
// the re-check finds it already present.
type racedRepo struct {
	*testutil.MemRepo
	mu    sync.Mutex
	raced bool
}

func (r *racedRepo) CreateMatchCtx(ctx context.Context, m models.Match) (*models.Match, error) {
	r.mu.Lock()
	first := !r.raced
	r.raced = true
	r.mu.Unlock()
	if first {
		if _, err := r.MemRepo.CreateMatchCtx(ctx, m); err != nil {
			return nil, err
		}
		return nil, errs.NewConflict("racedRepo.CreateMatchCtx", "simulated race", nil)
	}
	return r.MemRepo.CreateMatchCtx(ctx, m)
}
