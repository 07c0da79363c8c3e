package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fieldcheck/internal/dbx"
	"github.com/dmitrijs2005/fieldcheck/internal/server/repositories/reports"
	"github.com/dmitrijs2005/fieldcheck/internal/server/repositories/sessions"
)

// InMemoryRepositoryManager hands out the same process-local repositories
// whatever DBTX it is given. Used when no DSN is configured and in tests.
type InMemoryRepositoryManager struct {
	sessions *sessions.InMemoryRepository
	reports  *reports.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		sessions: sessions.NewInMemoryRepository(),
		reports:  reports.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return m.sessions
}

func (m *InMemoryRepositoryManager) Reports(db dbx.DBTX) reports.Repository {
	return m.reports
}
