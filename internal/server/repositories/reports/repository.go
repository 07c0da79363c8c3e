// Package reports declares the storage contract for submitted checklist
// reports and its PostgreSQL and in-memory implementations.
package reports

import (
	"context"

	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
)

// Repository stores checklist submission reports.
type Repository interface {
	// Create inserts a new report. The ID must already be set.
	Create(ctx context.Context, r *models.Report) error

	// Get returns the report, or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Report, error)

	// ListBySession returns the newest reports of a session first.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.Report, error)

	// SetArchiveKey records where the archived copy of a report lives.
	SetArchiveKey(ctx context.Context, id, key string) error
}
