package checklists

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fieldcheck/internal/logging"
)

// ErrNoLists is returned by Submit when there is nothing to update.
var ErrNoLists = errors.New("no checklist lists selected")

// ListResult is the outcome for one checklist list. Error is set when the
// list could not be loaded, in which case Results is empty.
type ListResult struct {
	ListID  int64          `json:"list_id"`
	Error   string         `json:"error,omitempty"`
	Results []UpdateResult `json:"results"`
}

// Batch is everything one submission did, list by list.
type Batch struct {
	ProjectID int64        `json:"project_id"`
	Lists     []ListResult `json:"lists"`
}

// Counts tallies the outcomes across all lists.
func (b *Batch) Counts() (applied, skipped, failed int) {
	for _, l := range b.Lists {
		for _, r := range l.Results {
			switch r.Outcome {
			case OutcomeApplied:
				applied++
			case OutcomeSkipped:
				skipped++
			case OutcomeFailed:
				failed++
			}
		}
	}
	return applied, skipped, failed
}

// Warnings lists every list load error, every non-applied update and every
// update that overrode an earlier one.
func (b *Batch) Warnings() []string {
	var out []string
	for _, l := range b.Lists {
		if l.Error != "" {
			out = append(out, l.Error)
			continue
		}
		for _, r := range l.Results {
			if w := r.Warning(); w != "" {
				out = append(out, w)
			}
		}
	}
	return out
}

// Service ties index loading and updating together for a submission.
type Service struct {
	updater *Updater
	logger  logging.Logger
}

func NewService(logger logging.Logger) *Service {
	return &Service{updater: NewUpdater(logger), logger: logger.With("module", "checklists")}
}

// Submit applies updates to every list in listIDs, loading a fresh index
// for each. A list whose index cannot be loaded is recorded and the rest
// still run.
func (s *Service) Submit(ctx context.Context, api API, projectID int64, listIDs []int64, updates []StatusUpdate) (*Batch, error) {
	if len(listIDs) == 0 {
		return nil, ErrNoLists
	}

	batch := &Batch{ProjectID: projectID, Lists: make([]ListResult, 0, len(listIDs))}

	for _, listID := range listIDs {
		lr := ListResult{ListID: listID}

		index, err := LoadIndex(ctx, api, projectID, listID)
		if err != nil {
			s.logger.Warn(ctx, "checklist index load failed", "list_id", listID, "error", err)
			lr.Error = err.Error()
			batch.Lists = append(batch.Lists, lr)
			continue
		}

		lr.Results = s.updater.ApplyUpdates(ctx, api, projectID, listID, index, updates)
		batch.Lists = append(batch.Lists, lr)
	}

	applied, skipped, failed := batch.Counts()
	s.logger.Info(ctx, "checklist batch submitted", "project_id", projectID, "lists", len(listIDs),
		"applied", applied, "skipped", skipped, "failed", failed)

	return batch, nil
}
