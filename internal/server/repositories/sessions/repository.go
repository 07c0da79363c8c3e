// Package sessions declares the storage contract for browser sessions and
// its PostgreSQL and in-memory implementations.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
)

// Repository stores whole sessions keyed by id.
type Repository interface {
	// Get returns the session, or common.ErrorNotFound when it is absent
	// or already expired.
	Get(ctx context.Context, id string) (*models.Session, error)

	// Save inserts or replaces the session.
	Save(ctx context.Context, s *models.Session) error

	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes every session that expired before now and
	// returns how many went.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
