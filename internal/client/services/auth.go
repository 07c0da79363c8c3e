// Package services contains application services for the fieldcheck CLI.
// This file defines the authentication service: code exchange, refresh,
// logout, and the sealed token cache that lets a sign-in survive restarts.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldcheck/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/cryptox"
	"github.com/dmitrijs2005/fieldcheck/internal/dbx"
	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/server/tokens"
)

const (
	keyToken = "token"
	keyLogin = "login"
)

// Authenticator is what the CLI needs from the platform OAuth application.
type Authenticator interface {
	tokens.Authenticator
	AuthorizationURL(state string) string
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - AuthorizationURL: the page the user opens to obtain a code.
//   - Exchange: trade a pasted code for a token and cache it.
//   - Restore: load a cached token from a previous run, if any.
//   - Refresh: replace the token with a fresh pair and cache it.
//   - Logout: revoke remotely (best effort) and wipe the cache.
type AuthService interface {
	AuthorizationURL(state string) string
	Exchange(ctx context.Context, code []byte) (*tokens.Token, error)
	Restore(ctx context.Context) (*tokens.Token, error)
	Refresh(ctx context.Context) (*tokens.Token, error)
	Logout(ctx context.Context) error
	SetLogin(ctx context.Context, login string) error
	Login() string
	Token() *tokens.Token
}

type authService struct {
	auth   Authenticator
	db     *sql.DB
	sealer *cryptox.Sealer
	logger logging.Logger
	store  *tokens.Store
	login  string
}

// NewAuthService binds the service to the platform and the local cache.
func NewAuthService(auth Authenticator, db *sql.DB, sealer *cryptox.Sealer, logger logging.Logger) AuthService {
	return &authService{
		auth:   auth,
		db:     db,
		sealer: sealer,
		logger: logger.With("module", "cli_auth"),
		store:  tokens.NewStore(auth, logger, nil),
	}
}

func (a *authService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (a *authService) AuthorizationURL(state string) string {
	return a.auth.AuthorizationURL(state)
}

// Exchange zeroes the caller's code buffer once it has been sent. The string
// copy passed on to the token endpoint is not wiped; Go gives no way to.
func (a *authService) Exchange(ctx context.Context, code []byte) (*tokens.Token, error) {
	defer common.WipeByteArray(code)

	tok, err := a.store.Exchange(ctx, string(code))
	if err != nil {
		return nil, err
	}
	a.login = ""
	if err := a.save(ctx); err != nil {
		return nil, fmt.Errorf("token cache error: %w", err)
	}
	return tok, nil
}

// Restore returns (nil, nil) when nothing usable is cached. A cache that
// cannot be opened, for example after the cache key changed, is dropped.
func (a *authService) Restore(ctx context.Context) (*tokens.Token, error) {
	repo := a.getMetadataRepo(a.db)

	blob, err := repo.Get(ctx, keyToken)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tok tokens.Token
	if err := a.sealer.Open(blob, &tok); err != nil {
		a.logger.Warn(ctx, "cached token unreadable, discarding", "error", err)
		return nil, repo.Clear(ctx)
	}

	login, err := repo.Get(ctx, keyLogin)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	a.store = tokens.NewStore(a.auth, a.logger, &tok)
	a.login = string(login)
	return a.store.Token(), nil
}

func (a *authService) Refresh(ctx context.Context) (*tokens.Token, error) {
	tok, err := a.store.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.save(ctx); err != nil {
		return nil, fmt.Errorf("token cache error: %w", err)
	}
	return tok, nil
}

// Logout always wipes the cache. A failed remote revoke is only logged.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.Revoke(ctx); err != nil {
		a.logger.Warn(ctx, "revoke failed, token cleared locally", "error", err)
	}
	a.login = ""
	return a.getMetadataRepo(a.db).Clear(ctx)
}

func (a *authService) SetLogin(ctx context.Context, login string) error {
	a.login = login
	return a.save(ctx)
}

func (a *authService) Login() string {
	return a.login
}

func (a *authService) Token() *tokens.Token {
	return a.store.Token()
}

// save writes the token and login in one transaction.
func (a *authService) save(ctx context.Context) error {
	tok := a.store.Token()
	if tok == nil {
		return common.ErrorUnauthorized
	}

	blob, err := a.sealer.Seal(tok)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		if err := repo.Set(ctx, keyToken, blob); err != nil {
			return err
		}
		if a.login == "" {
			return repo.Delete(ctx, keyLogin)
		}
		return repo.Set(ctx, keyLogin, []byte(a.login))
	})
}
