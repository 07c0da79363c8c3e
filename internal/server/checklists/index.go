package checklists

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fieldcheck/internal/platform"
)

// ItemRef is the platform identity of one checklist item.
type ItemRef struct {
	ItemID    int64 `json:"item_id"`
	SectionID int64 `json:"section_id"`
}

// Index is a snapshot of one checklist list: for every section ordinal, a
// table from item position to ItemRef plus the items in server order. It
// belongs to exactly one list.
type Index struct {
	ListID   int64
	sections []map[int]ItemRef
	ordered  [][]ItemRef
}

// LoadIndex fetches listID and builds a fresh Index for it.
func LoadIndex(ctx context.Context, api DetailAPI, projectID, listID int64) (*Index, error) {
	detail, err := api.ChecklistList(ctx, projectID, listID)
	if err != nil {
		return nil, err
	}
	return NewIndex(listID, detail.Sections), nil
}

// NewIndex builds an Index from sections in server order. An item without
// its own section_id inherits the section's.
func NewIndex(listID int64, sections []platform.Section) *Index {
	idx := &Index{
		ListID:   listID,
		sections: make([]map[int]ItemRef, len(sections)),
		ordered:  make([][]ItemRef, len(sections)),
	}
	for i, sec := range sections {
		table := make(map[int]ItemRef, len(sec.Items))
		items := make([]ItemRef, 0, len(sec.Items))
		for _, it := range sec.Items {
			sid := it.SectionID
			if sid == 0 {
				sid = sec.ID
			}
			ref := ItemRef{ItemID: it.ID, SectionID: sid}
			table[it.Position] = ref
			items = append(items, ref)
		}
		idx.sections[i] = table
		idx.ordered[i] = items
	}
	return idx
}

// Sections is the number of sections in the snapshot.
func (idx *Index) Sections() int {
	return len(idx.sections)
}

// Items is the number of items in the given 1-based section, or 0.
func (idx *Index) Items(sectionOrdinal int) int {
	if sectionOrdinal < 1 || sectionOrdinal > len(idx.sections) {
		return 0
	}
	return len(idx.ordered[sectionOrdinal-1])
}

// Resolve looks up an item. An ordinal outside 1..Sections() or a position
// outside 1..Items(ordinal) fails with common.ErrReferenceOutOfRange. An
// in-range position is matched against the items' position field first,
// then against server order when no item carries it.
func (idx *Index) Resolve(sectionOrdinal, itemPosition int) (ItemRef, error) {
	ref := Reference{Section: sectionOrdinal, Position: itemPosition}

	if sectionOrdinal < 1 || sectionOrdinal > len(idx.sections) {
		return ItemRef{}, outOfRange(ref, fmt.Sprintf("list %d has %d sections", idx.ListID, len(idx.sections)))
	}

	items := idx.ordered[sectionOrdinal-1]
	if itemPosition < 1 || itemPosition > len(items) {
		return ItemRef{}, outOfRange(ref, fmt.Sprintf("section %d has %d items", sectionOrdinal, len(items)))
	}

	if item, ok := idx.sections[sectionOrdinal-1][itemPosition]; ok {
		return item, nil
	}
	return items[itemPosition-1], nil
}
