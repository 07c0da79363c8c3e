package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fieldcheck/internal/netx"
)

// ListsPageSize is large enough that a project's lists come back in one page.
const ListsPageSize = 4000

// API is the set of REST calls made with one user's access token.
type API struct {
	c           *Client
	accessToken string
}

// API binds the client to accessToken.
func (c *Client) API(accessToken string) *API {
	return &API{c: c, accessToken: accessToken}
}

func (a *API) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := netx.NewJSONRequest(ctx, method, a.c.endpoint(path, query), body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.accessToken)
	return a.c.do(ctx, req, out)
}

func (a *API) Me(ctx context.Context) (*Me, error) {
	var me Me
	if err := a.call(ctx, http.MethodGet, "/rest/v1.0/me", nil, nil, &me); err != nil {
		return nil, fmt.Errorf("fetch me: %w", err)
	}
	return &me, nil
}

func (a *API) Companies(ctx context.Context) ([]Company, error) {
	var out []Company
	if err := a.call(ctx, http.MethodGet, "/rest/v1.0/companies", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch companies: %w", err)
	}
	return out, nil
}

func (a *API) Projects(ctx context.Context, companyID int64) ([]Project, error) {
	q := url.Values{}
	q.Set("company_id", strconv.FormatInt(companyID, 10))

	var out []Project
	if err := a.call(ctx, http.MethodGet, "/rest/v1.0/projects", q, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	return out, nil
}

// ChecklistLists returns the project's checklist lists in server order.
// With no locationIDs the result is unfiltered.
func (a *API) ChecklistLists(ctx context.Context, projectID int64, locationIDs []int64) ([]ChecklistList, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(ListsPageSize))
	if len(locationIDs) > 0 {
		ids := make([]string, len(locationIDs))
		for i, id := range locationIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		q.Set("filters[location_id]", strings.Join(ids, ","))
	}

	path := fmt.Sprintf("/rest/v1.0/projects/%d/checklist/lists", projectID)

	var out []ChecklistList
	if err := a.call(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch checklist lists: %w", err)
	}
	return out, nil
}

// ChecklistList returns one list with its sections and items.
func (a *API) ChecklistList(ctx context.Context, projectID, listID int64) (*ChecklistDetail, error) {
	q := url.Values{}
	q.Set("project_id", strconv.FormatInt(projectID, 10))

	path := fmt.Sprintf("/rest/v1.0/checklist/lists/%d", listID)

	var out ChecklistDetail
	if err := a.call(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch checklist list %d: %w", listID, err)
	}
	return &out, nil
}

// PatchItem sets one item's status.
func (a *API) PatchItem(ctx context.Context, listID, itemID int64, patch ItemPatch) error {
	path := fmt.Sprintf("/rest/v1.0/checklist/lists/%d/items/%d", listID, itemID)

	if err := a.call(ctx, http.MethodPatch, path, nil, patch, nil); err != nil {
		return fmt.Errorf("patch item %d: %w", itemID, err)
	}
	return nil
}
