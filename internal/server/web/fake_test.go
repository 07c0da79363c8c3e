package web

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
)

type patchCall struct {
	ListID int64
	ItemID int64
	Patch  platform.ItemPatch
}

// fakePlatform stands in for both the OAuth application and the per-user
// REST API.
type fakePlatform struct {
	mu sync.Mutex

	exchangeErr error
	refreshErr  error
	revokeErr   error
	meErr       error
	exchanged   []string
	revoked     []string

	companies  []platform.Company
	projects   []platform.Project
	lists      []platform.ChecklistList
	details    map[int64]*platform.ChecklistDetail
	patches    []patchCall
	tokensSeen []string
}

func newFakePlatform() *fakePlatform {
	floor2 := &platform.LocationNode{ID: 7, NodeName: "Tower A > Floor 2"}
	roof := &platform.LocationNode{ID: 8, NodeName: "Tower A > Roof"}
	return &fakePlatform{
		companies: []platform.Company{{ID: 1, Name: "Acme"}},
		projects:  []platform.Project{{ID: 42, Name: "Tower"}, {ID: 43, Name: "Bridge"}},
		lists: []platform.ChecklistList{
			{ID: 101, Name: "Drywall", Location: floor2},
			{ID: 102, Name: "Roofing", Location: roof},
			{ID: 103, Name: "Orphan"},
		},
		details: map[int64]*platform.ChecklistDetail{
			101: {ID: 101, Sections: []platform.Section{
				{ID: 900, Items: []platform.Item{{ID: 11, Position: 1}, {ID: 12, Position: 2}}},
				{ID: 901, Items: []platform.Item{{ID: 21, Position: 1}}},
			}},
		},
	}
}

func (f *fakePlatform) AuthorizationURL(state string) string {
	return "https://login.example/oauth/authorize?state=" + url.QueryEscape(state)
}

func (f *fakePlatform) ExchangeCode(ctx context.Context, code string) (*platform.TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchanged = append(f.exchanged, code)
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &platform.TokenResponse{AccessToken: "access-" + code, RefreshToken: "refresh-" + code, CreatedAt: time.Now().Unix()}, nil
}

func (f *fakePlatform) RefreshToken(ctx context.Context, refreshToken string) (*platform.TokenResponse, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &platform.TokenResponse{AccessToken: "access-refreshed", RefreshToken: "refresh-refreshed", CreatedAt: time.Now().Unix()}, nil
}

func (f *fakePlatform) Revoke(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, token)
	return f.revokeErr
}

func (f *fakePlatform) newAPI(accessToken string) UserAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokensSeen = append(f.tokensSeen, accessToken)
	return f
}

func (f *fakePlatform) Me(ctx context.Context) (*platform.Me, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &platform.Me{ID: 5, Login: "inspector@example.com"}, nil
}

func (f *fakePlatform) Companies(ctx context.Context) ([]platform.Company, error) {
	return f.companies, nil
}

func (f *fakePlatform) Projects(ctx context.Context, companyID int64) ([]platform.Project, error) {
	return f.projects, nil
}

func (f *fakePlatform) ChecklistLists(ctx context.Context, projectID int64, locationIDs []int64) ([]platform.ChecklistList, error) {
	if len(locationIDs) == 0 {
		return f.lists, nil
	}
	want := map[int64]bool{}
	for _, id := range locationIDs {
		want[id] = true
	}
	var out []platform.ChecklistList
	for _, l := range f.lists {
		if l.Location != nil && want[l.Location.ID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakePlatform) ChecklistList(ctx context.Context, projectID, listID int64) (*platform.ChecklistDetail, error) {
	d, ok := f.details[listID]
	if !ok {
		return nil, &common.UpstreamError{Method: "GET", Path: fmt.Sprintf("/lists/%d", listID), StatusCode: 404}
	}
	return d, nil
}

func (f *fakePlatform) PatchItem(ctx context.Context, listID, itemID int64, patch platform.ItemPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patchCall{ListID: listID, ItemID: itemID, Patch: patch})
	return nil
}
