// Package web serves the browser workflow: sign in through the platform's
// OAuth flow, pick a project, narrow its locations, choose checklist lists
// and bulk-update item statuses.
package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
	"github.com/dmitrijs2005/fieldcheck/internal/server/services"
	"github.com/dmitrijs2005/fieldcheck/internal/server/tokens"
	"github.com/gorilla/mux"
)

// Platform is what the handlers need from the OAuth application.
type Platform interface {
	tokens.Authenticator
	AuthorizationURL(state string) string
}

// UserAPI is the set of REST calls made on behalf of a signed-in inspector.
type UserAPI interface {
	Me(ctx context.Context) (*platform.Me, error)
	Companies(ctx context.Context) ([]platform.Company, error)
	Projects(ctx context.Context, companyID int64) ([]platform.Project, error)
	checklists.API
}

// Deps groups the collaborators of Server.
type Deps struct {
	Platform   Platform
	NewAPI     func(accessToken string) UserAPI
	Sessions   *services.SessionService
	Reports    *services.ReportService
	Locator    *checklists.Locator
	Checklists *checklists.Service
	// SecureCookies marks the session cookie Secure; set it when served over https.
	SecureCookies bool
}

type Server struct {
	address string
	deps    Deps
	logger  logging.Logger
	tmpl    *template.Template
	now     func() time.Time
}

func NewServer(address string, deps Deps, logger logging.Logger) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		address: address,
		deps:    deps,
		logger:  logger.With("module", "web"),
		tmpl:    tmpl,
		now:     time.Now,
	}, nil
}

// Handler builds the router with every route of the workflow.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.withSession)

	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/get_auth", s.handleGetAuth).Methods("POST")
	r.HandleFunc("/user/home", s.handleHome).Methods("GET")
	r.HandleFunc("/user/projects", s.requireAuth(s.handleProjects)).Methods("GET")
	r.HandleFunc("/user/projects", s.requireAuth(s.handleSelectProject)).Methods("POST")
	r.HandleFunc("/search", s.requireProject(s.handleSearchForm)).Methods("GET")
	r.HandleFunc("/search", s.requireProject(s.handleSearch)).Methods("POST")
	r.HandleFunc("/selectIns", s.requireProject(s.handleSelection)).Methods("GET")
	r.HandleFunc("/selectIns", s.requireProject(s.handleSelect)).Methods("POST")
	r.HandleFunc("/update", s.requireLists(s.handleUpdateForm)).Methods("GET")
	r.HandleFunc("/update", s.requireLists(s.handleUpdate)).Methods("POST")
	r.HandleFunc("/reports", s.requireSession(s.handleReports)).Methods("GET")
	r.HandleFunc("/reports/{id}", s.requireSession(s.handleReport)).Methods("GET")
	r.HandleFunc("/refreshToken", s.requireAuth(s.handleRefresh)).Methods("POST")
	r.HandleFunc("/logout", s.handleLogout).Methods("POST")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	return r
}

// Run serves until ctx is done, then shuts down with a short grace period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting web server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping web server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
