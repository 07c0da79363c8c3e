package checklists

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
)

type Locator struct {
	logger logging.Logger
}

func NewLocator(logger logging.Logger) *Locator {
	return &Locator{logger: logger.With("module", "locator")}
}

// SearchLocations returns the distinct location nodes of the project whose
// lower-cased name contains the lower-cased query, in first-seen server
// order. Lists without a location are skipped. An empty query matches all.
func (l *Locator) SearchLocations(ctx context.Context, api ListsAPI, projectID int64, query string) ([]platform.LocationNode, error) {
	lists, err := api.ChecklistLists(ctx, projectID, nil)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	seen := make(map[int64]struct{}, len(lists))
	var out []platform.LocationNode

	for _, list := range lists {
		if list.Location == nil {
			continue
		}
		if _, dup := seen[list.Location.ID]; dup {
			continue
		}
		seen[list.Location.ID] = struct{}{}

		if strings.Contains(strings.ToLower(list.Location.NodeName), q) {
			out = append(out, *list.Location)
		}
	}

	l.logger.Info(ctx, "locations searched", "project_id", projectID, "query", q, "lists", len(lists), "matches", len(out))
	return out, nil
}

// ResolveListIDs returns the ids of every checklist list hanging off one of
// the selected locations, joined on location id, in server order.
func (l *Locator) ResolveListIDs(ctx context.Context, api ListsAPI, projectID int64, selected []platform.LocationNode) ([]int64, error) {
	if len(selected) == 0 {
		return nil, nil
	}

	wanted := make(map[int64]struct{}, len(selected))
	ids := make([]int64, 0, len(selected))
	for _, n := range selected {
		if _, dup := wanted[n.ID]; dup {
			continue
		}
		wanted[n.ID] = struct{}{}
		ids = append(ids, n.ID)
	}

	lists, err := api.ChecklistLists(ctx, projectID, ids)
	if err != nil {
		return nil, err
	}

	var out []int64
	for _, list := range lists {
		if list.Location == nil {
			continue
		}
		if _, ok := wanted[list.Location.ID]; ok {
			out = append(out, list.ID)
		}
	}

	l.logger.Info(ctx, "checklist lists resolved", "project_id", projectID, "locations", len(ids), "lists", len(out))
	return out, nil
}
