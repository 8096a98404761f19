// Package testutil holds in-memory fakes shared by engine tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"lostfound-matching/internal/domain"
	"lostfound-matching/internal/models"
	errs "lostfound-matching/pkg/errors"
)

// MemRepo implements domain.Repository over maps. Listing order is
// insertion order, which keeps finder tie-break tests deterministic.
// It enforces the same pair-uniqueness rule as the SQL store.
type MemRepo struct {
	mu         sync.Mutex
	items      map[string]models.Item
	itemOrder  []string
	matches    map[string]models.Match
	matchOrder []string
}

var _ domain.Repository = (*MemRepo)(nil)

func NewMemRepo() *MemRepo {
	return &MemRepo{
		items:   map[string]models.Item{},
		matches: map[string]models.Match{},
	}
}

// AddItem seeds a report. Re-adding an id overwrites in place.
func (r *MemRepo) AddItem(it models.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[it.ID]; !exists {
		r.itemOrder = append(r.itemOrder, it.ID)
	}
	r.items[it.ID] = it
}

func (r *MemRepo) GetItemByIDCtx(_ context.Context, id string) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	out := it // copy
	return &out, nil
}

func (r *MemRepo) ListItemsByKindAndStatusCtx(_ context.Context, kind models.ItemKind, status models.ItemStatus) ([]models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Item
	for _, id := range r.itemOrder {
		it := r.items[id]
		if it.Kind == kind && it.Status == status {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *MemRepo) ListMatchesForItemCtx(_ context.Context, itemID string) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Match
	for _, id := range r.matchOrder {
		m := r.matches[id]
		if m.Links(itemID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemRepo) CreateMatchCtx(_ context.Context, m models.Match) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.matchOrder {
		e := r.matches[id]
		if e.LostItemID == m.LostItemID && e.FoundItemID == m.FoundItemID {
			return nil, errs.NewConflict("testutil.CreateMatchCtx",
				fmt.Sprintf("match for pair (%s, %s) already exists", m.LostItemID, m.FoundItemID), nil)
		}
	}
	now := time.Now()
	m.ID = uuid.NewString()
	m.CreatedAt = &now
	m.UpdatedAt = &now
	if m.Status == "" {
		m.Status = models.MatchPending
	}
	r.matches[m.ID] = m
	r.matchOrder = append(r.matchOrder, m.ID)
	saved := m // copy
	return &saved, nil
}

func (r *MemRepo) UpdateMatchStatusCtx(_ context.Context, matchID string, status models.MatchStatus, notes *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return errs.NewNotFound("testutil.UpdateMatchStatusCtx", fmt.Sprintf("match %s does not exist", matchID), nil)
	}
	now := time.Now()
	m.Status = status
	if notes != nil {
		m.Notes = notes
	}
	m.UpdatedAt = &now
	r.matches[matchID] = m
	return nil
}

func (r *MemRepo) GetMatchWithItemsCtx(_ context.Context, matchID string) (*models.MatchWithItems, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return nil, nil
	}
	lost, okLost := r.items[m.LostItemID]
	found, okFound := r.items[m.FoundItemID]
	if !okLost || !okFound {
		return nil, nil
	}
	return &models.MatchWithItems{Match: m, LostItem: lost, FoundItem: found}, nil
}

// MatchCount reports how many matches are stored; used by idempotency tests.
func (r *MemRepo) MatchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches)
}
