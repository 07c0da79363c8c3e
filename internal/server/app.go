// Package server wires the fieldcheck web server together: storage, the
// platform client, the browser-facing HTTP server, the gRPC health endpoint
// and the expired-session sweeper, with graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/cryptox"
	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
	"github.com/dmitrijs2005/fieldcheck/internal/server/config"
	"github.com/dmitrijs2005/fieldcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fieldcheck/internal/server/services"
	"github.com/dmitrijs2005/fieldcheck/internal/server/web"

	gs "github.com/dmitrijs2005/fieldcheck/internal/server/grpc"
)

const (
	sweepInterval  = 10 * time.Minute
	healthInterval = 15 * time.Second
	sealSalt       = "fieldcheck-session-payload"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions *services.SessionService
	web      *web.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	if c.DatabaseDSN != "" {
		var err error
		db, err = repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager(cryptox.NewSealer(c.SecretKey, sealSalt))
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
	} else {
		logger.Warn(ctx, "no database configured, sessions and reports are kept in memory")
		rm = repomanager.NewInMemoryRepositoryManager()
	}

	client := platform.NewClient(platform.Settings{
		BaseURL:      c.BaseURL,
		OAuthURL:     c.OAuthURL,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.RedirectURI,
		Timeout:      c.UpstreamTimeout,
	}, logger)

	sessions := services.NewSessionService(db, rm, c.SecretKey, c.SessionValidityDuration, logger)
	reports := services.NewReportService(db, rm, services.NewArchiver(c), logger)

	ws, err := web.NewServer(c.EndpointAddrHTTP, web.Deps{
		Platform:      client,
		NewAPI:        func(accessToken string) web.UserAPI { return client.API(accessToken) },
		Sessions:      sessions,
		Reports:       reports,
		Locator:       checklists.NewLocator(logger),
		Checklists:    checklists.NewService(logger),
		SecureCookies: strings.HasPrefix(c.RedirectURI, "https://"),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("web init error: %w", err)
	}

	return &App{config: c, logger: logger, db: db, sessions: sessions, web: ws}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startWebServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.web.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	var pinger gs.Pinger
	if app.db != nil {
		pinger = app.db
	}

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, pinger, healthInterval)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startWebServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.sessions.RunSweeper(ctx, sweepInterval)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(context.Background(), "db close failed", "error", err)
		}
	}
	app.logger.Info(context.Background(), "App stopped")
}
