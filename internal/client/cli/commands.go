package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
	"github.com/fatih/color"
)

var (
	errNotSignedIn  = errors.New("not signed in, use 'login'")
	errNoProject    = errors.New("no project chosen, use 'project <name>'")
	errNoSearch     = errors.New("no locations found yet, use 'search <text>'")
	errNoCompany    = errors.New("the account has no company")
	errUsageProject = errors.New("usage: project <name>")
	errUsageSelect  = errors.New("usage: select <id> [id...]")
)

func (a *App) api() (UserAPI, error) {
	tok := a.auth.Token()
	if tok == nil {
		return nil, errNotSignedIn
	}
	return a.newAPI(tok.AccessToken), nil
}

func (a *App) resetWorkflow() {
	a.project = nil
	a.matches = nil
	a.listIDs = nil
}

// Login prints the authorize URL and reads the pasted code without echo.
// The out-of-band flow has no callback, so there is no state to check and
// none is sent.
func (a *App) Login(ctx context.Context) error {
	fmt.Fprintln(a.out, "Open this page, approve access and copy the code it shows:")
	fmt.Fprintln(a.out, "  "+a.auth.AuthorizationURL(""))

	code, err := getSecret("Authorization code", a.out)
	if err != nil {
		return err
	}
	if len(code) == 0 {
		return errors.New("empty authorization code")
	}

	tok, err := a.auth.Exchange(ctx, code)
	if err != nil {
		return err
	}
	a.resetWorkflow()
	a.projects = nil

	login := ""
	if me, err := a.newAPI(tok.AccessToken).Me(ctx); err != nil {
		fmt.Fprintf(a.out, "Signed in, but the user lookup failed: %v\n", err)
	} else {
		login = me.Login
		if err := a.auth.SetLogin(ctx, login); err != nil {
			return err
		}
	}

	fmt.Fprintf(a.out, "Signed in as %s, token expires %s UTC\n", login, tok.ExpiresAtDisplay())
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	tok := a.auth.Token()
	if tok == nil {
		return errNotSignedIn
	}

	fmt.Fprintf(a.out, "User:    %s\n", a.auth.Login())
	fmt.Fprintf(a.out, "Issued:  %s UTC\n", tok.IssuedAtDisplay())
	expires := tok.ExpiresAtDisplay() + " UTC"
	if tok.Expired(time.Now()) {
		expires += " " + color.New(color.FgRed).Sprint("(expired, use 'refresh')")
	}
	fmt.Fprintf(a.out, "Expires: %s\n", expires)
	return nil
}

// Projects lists the projects of the user's first company.
func (a *App) Projects(ctx context.Context) error {
	api, err := a.api()
	if err != nil {
		return err
	}

	companies, err := api.Companies(ctx)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		return errNoCompany
	}

	projects, err := api.Projects(ctx, companies[0].ID)
	if err != nil {
		return err
	}
	a.projects = projects

	if len(projects) == 0 {
		fmt.Fprintln(a.out, "No projects.")
		return nil
	}
	for _, p := range projects {
		fmt.Fprintf(a.out, "  %s\n", p.Name)
	}
	return nil
}

// Project chooses a project by its exact name.
func (a *App) Project(ctx context.Context, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return errUsageProject
	}

	if a.projects == nil {
		if err := a.Projects(ctx); err != nil {
			return err
		}
	}

	for i := range a.projects {
		if a.projects[i].Name == name {
			a.resetWorkflow()
			p := a.projects[i]
			a.project = &p
			fmt.Fprintf(a.out, "Project: %s\n", p.Name)
			return nil
		}
	}
	return fmt.Errorf("unknown project %q", name)
}

// Search lists the project's locations whose name contains the text.
func (a *App) Search(ctx context.Context, args []string) error {
	api, err := a.api()
	if err != nil {
		return err
	}
	if a.project == nil {
		return errNoProject
	}

	query := strings.ToLower(strings.Join(args, " "))
	matches, err := a.locator.SearchLocations(ctx, api, a.project.ID, query)
	if err != nil {
		return err
	}
	a.matches = matches
	a.listIDs = nil

	if len(matches) == 0 {
		fmt.Fprintln(a.out, "No locations found.")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(a.out, "  [%d] %s\n", m.ID, m.NodeName)
	}
	return nil
}

// Select resolves the checklists at the given location ids. Only ids from
// the last search are accepted.
func (a *App) Select(ctx context.Context, args []string) error {
	api, err := a.api()
	if err != nil {
		return err
	}
	if a.project == nil {
		return errNoProject
	}
	if len(a.matches) == 0 {
		return errNoSearch
	}
	if len(args) == 0 {
		return errUsageSelect
	}

	offered := make(map[int64]platform.LocationNode, len(a.matches))
	for _, m := range a.matches {
		offered[m.ID] = m
	}

	var selected []platform.LocationNode
	for _, raw := range args {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return fmt.Errorf("bad location id %q", part)
			}
			node, ok := offered[id]
			if !ok {
				return fmt.Errorf("location %d was not in the last search", id)
			}
			selected = append(selected, node)
		}
	}
	if len(selected) == 0 {
		return errUsageSelect
	}

	ids, err := a.locator.ResolveListIDs(ctx, api, a.project.ID, selected)
	if err != nil {
		return err
	}
	a.listIDs = ids

	fmt.Fprintf(a.out, "%d checklist(s) selected.\n", len(ids))
	return nil
}

// Update prompts for the three status lists and applies them to every
// selected checklist.
func (a *App) Update(ctx context.Context) error {
	api, err := a.api()
	if err != nil {
		return err
	}
	if a.project == nil {
		return errNoProject
	}
	if len(a.listIDs) == 0 {
		return checklists.ErrNoLists
	}

	fmt.Fprintln(a.out, "Enter items as section.item, separated by commas. Leave empty to skip.")
	pass, err := getSimpleText(a.reader, "Pass", a.out)
	if err != nil {
		return err
	}
	fail, err := getSimpleText(a.reader, "Fail", a.out)
	if err != nil {
		return err
	}
	na, err := getSimpleText(a.reader, "N/A", a.out)
	if err != nil {
		return err
	}

	batch, err := a.checklists.Submit(ctx, api, a.project.ID, a.listIDs, checklists.ParseBuckets(pass, fail, na))
	if err != nil {
		return err
	}

	printBatch(a.out, batch)
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	tok, err := a.auth.Refresh(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return errNotSignedIn
		}
		return fmt.Errorf("%w, please use 'login' again", err)
	}
	fmt.Fprintf(a.out, "Token refreshed, expires %s UTC\n", tok.ExpiresAtDisplay())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.resetWorkflow()
	a.projects = nil
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
