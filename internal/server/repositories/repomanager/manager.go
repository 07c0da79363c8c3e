package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fieldcheck/internal/dbx"
	"github.com/dmitrijs2005/fieldcheck/internal/server/repositories/reports"
	"github.com/dmitrijs2005/fieldcheck/internal/server/repositories/sessions"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// path works on a plain *sql.DB or inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Sessions(db dbx.DBTX) sessions.Repository
	Reports(db dbx.DBTX) reports.Repository
}
