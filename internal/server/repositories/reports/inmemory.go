package reports

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
)

// InMemoryRepository keeps reports in a map. Reports are immutable once
// created apart from the archive key, so shallow copies are enough.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Report
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]models.Report)}
}

func (r *InMemoryRepository) Create(ctx context.Context, rep *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rep.ID] = *rep
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rep, nil
}

func (r *InMemoryRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.Report, error) {
	r.mu.RLock()
	var out []*models.Report
	for _, rep := range r.items {
		if rep.SessionID == sessionID {
			cp := rep
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) SetArchiveKey(ctx context.Context, id, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	rep.ArchiveKey = key
	r.items[id] = rep
	return nil
}
