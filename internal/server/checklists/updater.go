package checklists

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
)

// Outcome says what happened to one status update.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// UpdateResult is the report row for one non-empty reference.
type UpdateResult struct {
	Reference  string  `json:"reference"`
	Status     Status  `json:"status"`
	Outcome    Outcome `json:"outcome"`
	ItemID     int64   `json:"item_id,omitempty"`
	SectionID  int64   `json:"section_id,omitempty"`
	StatusCode int     `json:"status_code,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	// Duplicate is set when an earlier update in the same batch already
	// targeted this item; the later write wins on the platform.
	Duplicate bool `json:"duplicate,omitempty"`
}

type Updater struct {
	logger logging.Logger
}

func NewUpdater(logger logging.Logger) *Updater {
	return &Updater{logger: logger.With("module", "updater")}
}

// ApplyUpdates sends one PATCH per update, strictly in input order. Empty
// references produce no row. Bad references and failed PATCHes become
// skipped or failed rows and never stop the batch.
func (u *Updater) ApplyUpdates(ctx context.Context, api PatchAPI, projectID, listID int64, index *Index, updates []StatusUpdate) []UpdateResult {
	results := make([]UpdateResult, 0, len(updates))
	touched := make(map[ItemRef]struct{})

	for _, upd := range updates {
		if upd.Raw == "" {
			continue
		}

		res := UpdateResult{Reference: upd.Raw, Status: upd.Status}

		ref, err := ParseReference(upd.Raw)
		if err == nil {
			var item ItemRef
			item, err = index.Resolve(ref.Section, ref.Position)
			res.ItemID, res.SectionID = item.ItemID, item.SectionID
		}
		if err != nil {
			res.Outcome = OutcomeSkipped
			res.Reason = err.Error()
			u.logger.Warn(ctx, "update skipped", "list_id", listID, "reference", upd.Raw, "error", err)
			results = append(results, res)
			continue
		}

		item := ItemRef{ItemID: res.ItemID, SectionID: res.SectionID}
		if _, dup := touched[item]; dup {
			res.Duplicate = true
		}
		touched[item] = struct{}{}

		patch := platform.ItemPatch{
			ProjectID: projectID,
			SectionID: item.SectionID,
			Item:      platform.ItemStatus{Status: string(upd.Status)},
		}

		if err := api.PatchItem(ctx, listID, item.ItemID, patch); err != nil {
			res.Outcome = OutcomeFailed
			res.Reason = err.Error()
			var ue *common.UpstreamError
			if errors.As(err, &ue) {
				res.StatusCode = ue.StatusCode
			}
			u.logger.Warn(ctx, "item update failed", "list_id", listID, "item_id", item.ItemID, "reference", upd.Raw, "error", err)
		} else {
			res.Outcome = OutcomeApplied
			u.logger.Info(ctx, "item updated", "list_id", listID, "item_id", item.ItemID, "reference", upd.Raw, "status", upd.Status)
		}
		results = append(results, res)
	}

	return results
}

// Warning renders a result that needs the inspector's attention as one
// line: a skipped or failed update, or an applied one that overrode an
// earlier entry for the same item. Other results give "".
func (r UpdateResult) Warning() string {
	switch r.Outcome {
	case OutcomeSkipped:
		return fmt.Sprintf("%s (%s): skipped: %s", r.Reference, r.Status, r.Reason)
	case OutcomeFailed:
		return fmt.Sprintf("%s (%s): failed: %s", r.Reference, r.Status, r.Reason)
	}
	if r.Duplicate {
		return fmt.Sprintf("%s (%s): overrides earlier entry", r.Reference, r.Status)
	}
	return ""
}
