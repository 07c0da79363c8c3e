package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/server/auth"
	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
	"github.com/dmitrijs2005/fieldcheck/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// SessionService creates, loads and expires browser sessions, and signs
// the cookie that carries a session id.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	secret      []byte
	validity    time.Duration
	logger      logging.Logger
	now         func() time.Time
}

func NewSessionService(db *sql.DB, rm repomanager.RepositoryManager, secret string, validity time.Duration, logger logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: rm,
		secret:      []byte(secret),
		validity:    validity,
		logger:      logger.With("module", "sessions"),
		now:         time.Now,
	}
}

// Start creates and stores a fresh session with a random OAuth state.
func (s *SessionService) Start(ctx context.Context) (*models.Session, error) {
	state, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("oauth state: %w", err)
	}

	now := s.now().UTC()
	sess := &models.Session{
		ID:         uuid.NewString(),
		OAuthState: state,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.validity),
	}

	if err := s.repomanager.Sessions(s.db).Save(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "session started", "session_id", sess.ID)
	return sess, nil
}

func (s *SessionService) Load(ctx context.Context, id string) (*models.Session, error) {
	return s.repomanager.Sessions(s.db).Get(ctx, id)
}

func (s *SessionService) Save(ctx context.Context, sess *models.Session) error {
	return s.repomanager.Sessions(s.db).Save(ctx, sess)
}

func (s *SessionService) Destroy(ctx context.Context, id string) error {
	if err := s.repomanager.Sessions(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "session destroyed", "session_id", id)
	return nil
}

// CookieValue signs the session id for the browser.
func (s *SessionService) CookieValue(sess *models.Session) (string, error) {
	return auth.GenerateToken(sess.ID, s.secret, sess.ExpiresAt.Sub(s.now()))
}

// FromCookie verifies a cookie value and loads its session.
func (s *SessionService) FromCookie(ctx context.Context, value string) (*models.Session, error) {
	id, err := auth.GetSessionIDFromToken(value, s.secret)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, id)
}

// Sweep drops expired sessions.
func (s *SessionService) Sweep(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Sessions(s.db).DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info(ctx, "expired sessions removed", "count", n)
	}
	return n, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Warn(ctx, "session sweep failed", "error", err)
			}
		}
	}
}
