// Package checklists maps inspector input onto platform checklist items.
//
// The flow is: SearchLocations narrows a project's location nodes by a
// free-text query, ResolveListIDs turns the chosen nodes into checklist
// list ids, LoadIndex snapshots one list's sections and items, and
// ApplyUpdates sends one status PATCH per "<section>.<position>" reference.
package checklists

import (
	"context"

	"github.com/dmitrijs2005/fieldcheck/internal/platform"
)

// ListsAPI fetches a project's checklist lists.
type ListsAPI interface {
	ChecklistLists(ctx context.Context, projectID int64, locationIDs []int64) ([]platform.ChecklistList, error)
}

// DetailAPI fetches one checklist list with its sections.
type DetailAPI interface {
	ChecklistList(ctx context.Context, projectID, listID int64) (*platform.ChecklistDetail, error)
}

// PatchAPI updates one checklist item.
type PatchAPI interface {
	PatchItem(ctx context.Context, listID, itemID int64, patch platform.ItemPatch) error
}

// API is everything the package needs from the platform; *platform.API
// satisfies it.
type API interface {
	ListsAPI
	DetailAPI
	PatchAPI
}
