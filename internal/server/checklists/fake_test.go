package checklists

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
)

type patchCall struct {
	ListID int64
	ItemID int64
	Patch  platform.ItemPatch
}

// fakeAPI stands in for *platform.API.
type fakeAPI struct {
	lists       []platform.ChecklistList
	listsErr    error
	details     map[int64]*platform.ChecklistDetail
	patchStatus map[int64]int // item id -> forced HTTP status

	listCalls   [][]int64
	detailCalls []int64
	patches     []patchCall
}

func (f *fakeAPI) ChecklistLists(ctx context.Context, projectID int64, locationIDs []int64) ([]platform.ChecklistList, error) {
	f.listCalls = append(f.listCalls, locationIDs)
	if f.listsErr != nil {
		return nil, f.listsErr
	}
	if len(locationIDs) == 0 {
		return f.lists, nil
	}
	want := make(map[int64]bool, len(locationIDs))
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

func (f *fakeAPI) ChecklistList(ctx context.Context, projectID, listID int64) (*platform.ChecklistDetail, error) {
	f.detailCalls = append(f.detailCalls, listID)
	d, ok := f.details[listID]
	if !ok {
		return nil, fmt.Errorf("fetch checklist list %d: %w", listID,
			&common.UpstreamError{Method: "GET", Path: fmt.Sprintf("/rest/v1.0/checklist/lists/%d", listID), StatusCode: 404})
	}
	return d, nil
}

func (f *fakeAPI) PatchItem(ctx context.Context, listID, itemID int64, patch platform.ItemPatch) error {
	f.patches = append(f.patches, patchCall{ListID: listID, ItemID: itemID, Patch: patch})
	if code, ok := f.patchStatus[itemID]; ok {
		return fmt.Errorf("patch item %d: %w", itemID,
			&common.UpstreamError{Method: "PATCH", Path: "/x", StatusCode: code})
	}
	return nil
}

func loc(id int64, name string) *platform.LocationNode {
	return &platform.LocationNode{ID: id, NodeName: name}
}

// twoSections is a list with sections of 3 and 2 items.
func twoSections() *platform.ChecklistDetail {
	return &platform.ChecklistDetail{
		ID: 101,
		Sections: []platform.Section{
			{ID: 900, Items: []platform.Item{
				{ID: 11, Position: 1, SectionID: 900},
				{ID: 12, Position: 2, SectionID: 900},
				{ID: 13, Position: 3, SectionID: 900},
			}},
			{ID: 901, Items: []platform.Item{
				{ID: 21, Position: 1, SectionID: 901},
				{ID: 22, Position: 2, SectionID: 901},
			}},
		},
	}
}
