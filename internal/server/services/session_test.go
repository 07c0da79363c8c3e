package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T) *SessionService {
	t.Helper()
	return NewSessionService(nil, repomanager.NewInMemoryRepositoryManager(), "cookie-secret", time.Hour, logging.NewNopLogger())
}

func TestSessionService_StartLoadDestroy(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	sess, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = uuid.Parse(sess.ID)
	require.NoError(t, err)
	assert.Len(t, sess.OAuthState, 32)
	assert.Equal(t, time.Hour, sess.ExpiresAt.Sub(sess.CreatedAt))
	assert.False(t, sess.Authenticated())

	sess.Login = "inspector"
	require.NoError(t, svc.Save(ctx, sess))

	got, err := svc.Load(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "inspector", got.Login)

	require.NoError(t, svc.Destroy(ctx, sess.ID))
	_, err = svc.Load(ctx, sess.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSessionService_SessionsAreIsolated(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	a, err := svc.Start(ctx)
	require.NoError(t, err)
	b, err := svc.Start(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.OAuthState, b.OAuthState)

	a.ProjectID = 1
	b.ProjectID = 2
	require.NoError(t, svc.Save(ctx, a))
	require.NoError(t, svc.Save(ctx, b))

	gotA, _ := svc.Load(ctx, a.ID)
	gotB, _ := svc.Load(ctx, b.ID)
	assert.Equal(t, int64(1), gotA.ProjectID)
	assert.Equal(t, int64(2), gotB.ProjectID)
}

func TestSessionService_Cookie(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	sess, err := svc.Start(ctx)
	require.NoError(t, err)

	value, err := svc.CookieValue(sess)
	require.NoError(t, err)

	got, err := svc.FromCookie(ctx, value)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	_, err = svc.FromCookie(ctx, value+"x")
	require.ErrorIs(t, err, common.ErrInvalidToken)

	other := NewSessionService(nil, repomanager.NewInMemoryRepositoryManager(), "other-secret", time.Hour, logging.NewNopLogger())
	_, err = other.FromCookie(ctx, value)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestSessionService_Sweep(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	sess, err := svc.Start(ctx)
	require.NoError(t, err)

	n, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	svc.now = func() time.Time { return sess.ExpiresAt.Add(time.Minute) }
	n, err = svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSessionService_RunSweeperStopsOnCancel(t *testing.T) {
	svc := newSessionService(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
