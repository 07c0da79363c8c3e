package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/dbx"
	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
)

// PostgresRepository keeps reports in the reports table with the batch as
// a JSONB payload.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rep *models.Report) error {
	payload, err := json.Marshal(rep.Batch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	query := `
		INSERT INTO reports (id, session_id, project_id, project_name, created_at, payload, archive_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.ExecContext(ctx, query, rep.ID, rep.SessionID, rep.ProjectID, rep.ProjectName, rep.CreatedAt, payload, rep.ArchiveKey); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*models.Report, error) {
	rep := &models.Report{}
	var payload []byte
	if err := row.Scan(&rep.ID, &rep.SessionID, &rep.ProjectID, &rep.ProjectName, &rep.CreatedAt, &payload, &rep.ArchiveKey); err != nil {
		return nil, err
	}
	rep.Batch = &checklists.Batch{}
	if err := json.Unmarshal(payload, rep.Batch); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	return rep, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Report, error) {
	query := `
		SELECT id, session_id, project_id, project_name, created_at, payload, archive_key
		FROM reports
		WHERE id = $1
	`
	rep, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rep, nil
}

func (r *PostgresRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.Report, error) {
	query := `
		SELECT id, session_id, project_id, project_name, created_at, payload, archive_key
		FROM reports
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) SetArchiveKey(ctx context.Context, id, key string) error {
	query := `
		UPDATE reports
		SET archive_key = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
