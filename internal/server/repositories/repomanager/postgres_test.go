package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fieldcheck/internal/cryptox"
	"github.com/dmitrijs2005/fieldcheck/internal/server/migrations"
	"github.com/dmitrijs2005/fieldcheck/internal/server/repositories/reports"
	"github.com/dmitrijs2005/fieldcheck/internal/server/repositories/sessions"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager(cryptox.NewSealer("k", "s"))

	if s := m.Sessions(db); s == nil {
		t.Fatal("Sessions() nil")
	}
	if r := m.Reports(db); r == nil {
		t.Fatal("Reports() nil")
	}

	assert.IsType(t, &sessions.PostgresRepository{}, m.Sessions(db))
	assert.IsType(t, &reports.PostgresRepository{}, m.Reports(db))
}

func TestInMemoryManager_SharesRepos(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	var _ RepositoryManager = m

	assert.Same(t, m.Sessions(nil), m.Sessions(nil))
	assert.Same(t, m.Reports(nil), m.Reports(nil))
	require.NoError(t, m.RunMigrations(context.Background(), nil))
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_sessions.sql", "00002_reports.sql"}, files)
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestOpenPostgres(t *testing.T) {
	orig := sqlOpen
	defer func() { sqlOpen = orig }()

	t.Run("ping ok", func(t *testing.T) {
		db, mock, err := sqlmock.NewWithDSN("repomanager_ok", sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectPing()

		sqlOpen = func(driverName, dsn string) (*sql.DB, error) {
			assert.Equal(t, "pgx", driverName)
			return db, nil
		}

		got, err := OpenPostgres(context.Background(), "postgres://x")
		require.NoError(t, err)
		assert.Same(t, db, got)
	})

	t.Run("ping fails", func(t *testing.T) {
		db, mock, err := sqlmock.NewWithDSN("repomanager_fail", sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing().WillReturnError(errors.New("refused"))

		sqlOpen = func(driverName, dsn string) (*sql.DB, error) { return db, nil }

		_, err = OpenPostgres(context.Background(), "postgres://x")
		require.ErrorContains(t, err, "ping db")
	})

	t.Run("open fails", func(t *testing.T) {
		sqlOpen = func(driverName, dsn string) (*sql.DB, error) { return nil, errors.New("bad driver") }

		_, err := OpenPostgres(context.Background(), "postgres://x")
		require.ErrorContains(t, err, "open db")
	})
}
