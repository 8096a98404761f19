// Package generator drives the finder over every active lost item and
// persists the resulting matches through the record store.
package generator

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"lostfound-matching/internal/domain"
	"lostfound-matching/internal/finder"
	"lostfound-matching/internal/models"
	errs "lostfound-matching/pkg/errors"
)

// Generator runs bulk match generation on a bounded worker pool.
// Idempotency across runs comes from the finder's dedup check and the
// store's pair-uniqueness constraint, not from any generator state.
type Generator struct {
	repo   domain.Repository
	finder *finder.Finder
	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithPoolSize sets the worker pool size for concurrent per-item scans.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(g *Generator) error {
		if size < 1 {
			size = 1
		}
		if g.pool != nil {
			g.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		g.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// New creates a bulk generator over the given store and finder.
func New(repo domain.Repository, f *finder.Finder, opts ...Option) (*Generator, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		repo:   repo,
		finder: f,
		pool:   pool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(g); optErr != nil {
			g.Release()
			return nil, optErr
		}
	}
	return g, nil
}

// Release frees the worker pool.
func (g *Generator) Release() {
	if g.pool != nil {
		g.pool.Release()
	}
}

// GenerateAll finds candidates for every active lost item and persists
// each through the store's create operation, which assigns identity and
// timestamps. Running it twice against an unchanged store creates
// nothing new: already-recorded pairs are skipped by the finder's dedup
// check, and racing creates are absorbed by the conflict retry.
//
// Per-item failures don't abort the remaining items; the first error is
// returned alongside whatever was persisted.
func (g *Generator) GenerateAll(ctx context.Context) ([]models.Match, error) {
	lostItems, err := g.repo.ListItemsByKindAndStatusCtx(ctx, models.KindLost, models.ItemActive)
	if err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		persisted []models.Match
		firstErr  error
	)

	for _, item := range lostItems {
		item := item
		wg.Add(1)
		submitErr := g.pool.Submit(func() {
			defer wg.Done()
			created, err := g.generateForItem(ctx, item.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				g.logger.Error("bulk generation failed for item", "item_id", item.ID, "error", err)
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			persisted = append(persisted, created...)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	// Worker completion order is nondeterministic; present a stable view.
	sort.SliceStable(persisted, func(i, j int) bool {
		if persisted[i].Similarity != persisted[j].Similarity {
			return persisted[i].Similarity > persisted[j].Similarity
		}
		if persisted[i].LostItemID != persisted[j].LostItemID {
			return persisted[i].LostItemID < persisted[j].LostItemID
		}
		return persisted[i].FoundItemID < persisted[j].FoundItemID
	})

	g.logger.Info("bulk match generation complete",
		"lost_items", len(lostItems), "persisted", len(persisted))
	return persisted, firstErr
}

func (g *Generator) generateForItem(ctx context.Context, lostItemID string) ([]models.Match, error) {
	candidates, err := g.finder.FindForLostItem(ctx, lostItemID)
	if err != nil {
		return nil, err
	}

	created := make([]models.Match, 0, len(candidates))
	for _, candidate := range candidates {
		saved, err := g.persist(ctx, candidate)
		if err != nil {
			return created, err
		}
		if saved != nil {
			created = append(created, *saved)
		}
	}
	return created, nil
}

// persist creates one match, absorbing a single Conflict by re-checking
// the dedup condition: if a concurrent writer recorded the pair first,
// the candidate is dropped; otherwise the create is retried once and any
// second conflict is surfaced.
func (g *Generator) persist(ctx context.Context, m models.Match) (*models.Match, error) {
	saved, err := g.repo.CreateMatchCtx(ctx, m)
	if err == nil {
		return saved, nil
	}
	if !errs.Is(err, errs.ErrConflict) {
		return nil, err
	}

	existing, listErr := g.repo.ListMatchesForItemCtx(ctx, m.LostItemID)
	if listErr != nil {
		return nil, listErr
	}
	for _, e := range existing {
		if e.Links(m.FoundItemID) {
			g.logger.Debug("pair already recorded by concurrent writer",
				"lost_item_id", m.LostItemID, "found_item_id", m.FoundItemID)
			return nil, nil
		}
	}
	return g.repo.CreateMatchCtx(ctx, m)
}
