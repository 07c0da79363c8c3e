package tokens

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
)

// Authenticator is the part of the platform client the store needs.
type Authenticator interface {
	ExchangeCode(ctx context.Context, code string) (*platform.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*platform.TokenResponse, error)
	Revoke(ctx context.Context, token string) error
}

// Store holds the token of a single session. It is not safe for concurrent
// use; each session owns its own Store.
type Store struct {
	auth   Authenticator
	logger logging.Logger
	token  *Token
}

// NewStore wraps current, which may be nil for a session that has not
// signed in yet.
func NewStore(auth Authenticator, logger logging.Logger, current *Token) *Store {
	s := &Store{auth: auth, logger: logger.With("module", "tokens")}
	if current != nil {
		cp := *current
		s.token = &cp
	}
	return s
}

// Exchange trades an authorization code for a token and stores it. A reply
// without an access token fails with common.ErrAuthExchange and leaves the
// store untouched.
func (s *Store) Exchange(ctx context.Context, code string) (*Token, error) {
	tr, err := s.auth.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Warn(ctx, "code exchange failed", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrAuthExchange, err)
	}
	if tr == nil || tr.AccessToken == "" {
		s.logger.Warn(ctx, "code exchange returned no access token")
		return nil, common.ErrAuthExchange
	}

	s.token = FromResponse(tr)
	s.logger.Info(ctx, "token issued", "expires_at", s.token.ExpiresAtDisplay())
	return s.Token(), nil
}

// Refresh replaces the stored token with a fresh pair. Any failure, including
// a reply missing either token, keeps the old token and returns
// common.ErrAuthRefresh.
func (s *Store) Refresh(ctx context.Context) (*Token, error) {
	if s.token == nil {
		return nil, common.ErrorUnauthorized
	}

	tr, err := s.auth.RefreshToken(ctx, s.token.RefreshToken)
	if err != nil {
		s.logger.Warn(ctx, "token refresh failed", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrAuthRefresh, err)
	}
	if tr == nil || tr.AccessToken == "" || tr.RefreshToken == "" {
		s.logger.Warn(ctx, "token refresh returned an incomplete pair")
		return nil, common.ErrAuthRefresh
	}

	s.token = FromResponse(tr)
	s.logger.Info(ctx, "token refreshed", "expires_at", s.token.ExpiresAtDisplay())
	return s.Token(), nil
}

// Revoke clears the local token and asks the platform to revoke it. The
// local token is gone even when the remote call fails; that error is only
// returned so the caller can log it.
func (s *Store) Revoke(ctx context.Context) error {
	if s.token == nil {
		return nil
	}
	access := s.token.AccessToken
	s.token = nil

	if err := s.auth.Revoke(ctx, access); err != nil {
		s.logger.Warn(ctx, "token revoke failed", "error", err)
		return err
	}
	s.logger.Info(ctx, "token revoked")
	return nil
}

func (s *Store) IsAuthenticated() bool {
	return s.token != nil
}

// Token returns a copy of the stored token, or nil.
func (s *Store) Token() *Token {
	if s.token == nil {
		return nil
	}
	cp := *s.token
	return &cp
}
