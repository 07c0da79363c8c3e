package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/cryptox"
	"github.com/dmitrijs2005/fieldcheck/internal/dbx"
	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
)

// PostgresRepository keeps sessions in the sessions table. The payload,
// which carries the OAuth tokens, is sealed before it reaches the database.
type PostgresRepository struct {
	db     dbx.DBTX
	sealer *cryptox.Sealer
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX, sealer *cryptox.Sealer) *PostgresRepository {
	return &PostgresRepository{db: db, sealer: sealer}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT payload, expires_at
		FROM sessions
		WHERE id = $1
	`
	var (
		payload []byte
		expires time.Time
	)
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&payload, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if !time.Now().Before(expires) {
		return nil, common.ErrorNotFound
	}

	s := &models.Session{}
	if err := r.sealer.Open(payload, s); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Save(ctx context.Context, s *models.Session) error {
	payload, err := r.sealer.Seal(s)
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}

	query := `
		INSERT INTO sessions (id, payload, expires_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, s.ID, payload, s.ExpiresAt); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM sessions
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expires_at < $1
	`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
