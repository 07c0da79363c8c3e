package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldcheck/internal/client/store"
	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/cryptox"
	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ---- fake platform ----

type fakeAuth struct {
	exchangeErr error
	refreshErr  error
	revokeErr   error

	lastCode    string
	lastRefresh string
	revoked     []string
	n           int
}

func (f *fakeAuth) AuthorizationURL(state string) string {
	return "https://login.example/oauth/authorize?state=" + state
}

func (f *fakeAuth) ExchangeCode(ctx context.Context, code string) (*platform.TokenResponse, error) {
	f.lastCode = code
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	f.n++
	return &platform.TokenResponse{AccessToken: "access-1", RefreshToken: "refresh-1", CreatedAt: time.Now().Unix()}, nil
}

func (f *fakeAuth) RefreshToken(ctx context.Context, refreshToken string) (*platform.TokenResponse, error) {
	f.lastRefresh = refreshToken
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &platform.TokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2", CreatedAt: time.Now().Unix()}, nil
}

func (f *fakeAuth) Revoke(ctx context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return f.revokeErr
}

func newService(t *testing.T, db *sql.DB, auth *fakeAuth, secret string) AuthService {
	t.Helper()
	return NewAuthService(auth, db, cryptox.NewSealer(secret, "cli-cache"), logging.NewNopLogger())
}

func TestExchange_CachesTokenAndWipesCode(t *testing.T) {
	db := setupDB(t)
	auth := &fakeAuth{}
	svc := newService(t, db, auth, "k")
	ctx := context.Background()

	code := []byte("the-code")
	tok, err := svc.Exchange(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)
	assert.Equal(t, "the-code", auth.lastCode)
	assert.Equal(t, make([]byte, len(code)), code)

	require.NoError(t, svc.SetLogin(ctx, "inspector"))

	// a second process with the same cache and key picks it up
	other := newService(t, db, &fakeAuth{}, "k")
	restored, err := other.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "access-1", restored.AccessToken)
	assert.Equal(t, "inspector", other.Login())

	// the cached blob is sealed
	raw, err := metadata.NewSQLiteRepository(db).Get(ctx, "token")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "access-1")
}

func TestExchange_FailureCachesNothing(t *testing.T) {
	db := setupDB(t)
	svc := newService(t, db, &fakeAuth{exchangeErr: errors.New("denied")}, "k")
	ctx := context.Background()

	_, err := svc.Exchange(ctx, []byte("bad"))
	require.ErrorIs(t, err, common.ErrAuthExchange)
	assert.Nil(t, svc.Token())

	_, err = metadata.NewSQLiteRepository(db).Get(ctx, "token")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRestore_EmptyCache(t *testing.T) {
	svc := newService(t, setupDB(t), &fakeAuth{}, "k")

	tok, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestRestore_WrongKeyDiscardsCache(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	_, err := newService(t, db, &fakeAuth{}, "old-key").Exchange(ctx, []byte("c"))
	require.NoError(t, err)

	svc := newService(t, db, &fakeAuth{}, "new-key")
	tok, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, tok)

	_, err = metadata.NewSQLiteRepository(db).Get(ctx, "token")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRefresh_UpdatesCache(t *testing.T) {
	db := setupDB(t)
	auth := &fakeAuth{}
	svc := newService(t, db, auth, "k")
	ctx := context.Background()

	_, err := svc.Exchange(ctx, []byte("c"))
	require.NoError(t, err)

	tok, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", tok.AccessToken)
	assert.Equal(t, "refresh-1", auth.lastRefresh)

	restored, err := newService(t, db, &fakeAuth{}, "k").Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", restored.AccessToken)
}

func TestRefresh_FailureKeepsToken(t *testing.T) {
	db := setupDB(t)
	auth := &fakeAuth{}
	svc := newService(t, db, auth, "k")
	ctx := context.Background()

	_, err := svc.Exchange(ctx, []byte("c"))
	require.NoError(t, err)

	auth.refreshErr = errors.New("nope")
	_, err = svc.Refresh(ctx)
	require.ErrorIs(t, err, common.ErrAuthRefresh)
	assert.Equal(t, "access-1", svc.Token().AccessToken)
}

func TestRefresh_WithoutToken(t *testing.T) {
	svc := newService(t, setupDB(t), &fakeAuth{}, "k")

	_, err := svc.Refresh(context.Background())
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogout_ClearsEvenWhenRevokeFails(t *testing.T) {
	db := setupDB(t)
	auth := &fakeAuth{revokeErr: errors.New("revoke down")}
	svc := newService(t, db, auth, "k")
	ctx := context.Background()

	_, err := svc.Exchange(ctx, []byte("c"))
	require.NoError(t, err)
	require.NoError(t, svc.SetLogin(ctx, "inspector"))

	require.NoError(t, svc.Logout(ctx))
	assert.Equal(t, []string{"access-1"}, auth.revoked)
	assert.Nil(t, svc.Token())
	assert.Empty(t, svc.Login())

	restored, err := newService(t, db, &fakeAuth{}, "k").Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, restored)
}
