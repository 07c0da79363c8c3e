package sessions

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
)

// InMemoryRepository keeps sessions in a map. Values are stored as JSON so
// callers never share a *models.Session with the store.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]stored
	now   func() time.Time
}

type stored struct {
	payload []byte
	expires time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]stored), now: time.Now}
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	it, ok := r.items[id]
	r.mu.RUnlock()

	if !ok || !r.now().Before(it.expires) {
		return nil, common.ErrorNotFound
	}

	s := &models.Session{}
	if err := json.Unmarshal(it.payload, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, s *models.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.items[s.ID] = stored{payload: b, expires: s.ExpiresAt}
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, it := range r.items {
		if it.expires.Before(now) {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}
