package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/fieldcheck/internal/client/config"
	"github.com/dmitrijs2005/fieldcheck/internal/client/services"
	"github.com/dmitrijs2005/fieldcheck/internal/client/store"
	"github.com/dmitrijs2005/fieldcheck/internal/cryptox"
	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
)

const cacheSalt = "fieldcheck-cli-cache"

// UserAPI is the set of REST calls the commands make for the signed-in user.
type UserAPI interface {
	Me(ctx context.Context) (*platform.Me, error)
	Companies(ctx context.Context) ([]platform.Company, error)
	Projects(ctx context.Context, companyID int64) ([]platform.Project, error)
	checklists.API
}

type App struct {
	config     *config.Config
	db         *sql.DB
	auth       services.AuthService
	newAPI     func(accessToken string) UserAPI
	locator    *checklists.Locator
	checklists *checklists.Service
	reader     *bufio.Reader
	out        io.Writer

	// workflow state of this run
	projects []platform.Project
	project  *platform.Project
	matches  []platform.LocationNode
	listIDs  []int64
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	db, err := store.InitDatabase(ctx, c.CachePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing token cache: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, "warn")

	client := platform.NewClient(platform.Settings{
		BaseURL:      c.BaseURL,
		OAuthURL:     c.OAuthURL,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURI:  c.RedirectURI,
		Timeout:      c.UpstreamTimeout,
	}, logger)

	as := services.NewAuthService(client, db, cryptox.NewSealer(c.CacheKey, cacheSalt), logger)

	return &App{
		config:     c,
		db:         db,
		auth:       as,
		newAPI:     func(accessToken string) UserAPI { return client.API(accessToken) },
		locator:    checklists.NewLocator(logger),
		checklists: checklists.NewService(logger),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}, nil
}

func (a *App) getStatus() string {
	s := a.auth.Login()
	if a.project != nil {
		if s != "" {
			s += " "
		}
		s += "@ " + a.project.Name
	}
	if s != "" {
		s = fmt.Sprintf("(%s) ", s)
	}
	return s
}

// Run restores a cached sign-in, then serves the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	fmt.Fprintln(a.out, "fieldcheck CLI (type 'help' for commands)")

	if tok, err := a.auth.Restore(ctx); err != nil {
		fmt.Fprintf(a.out, "Token cache unavailable: %v\n", err)
	} else if tok != nil {
		fmt.Fprintf(a.out, "Restored sign-in, token expires %s UTC\n", tok.ExpiresAtDisplay())
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
